package league

import "context"

// Repository describes league persistence needs from use cases.
type Repository interface {
	GetByName(ctx context.Context, name string) (League, bool, error)
	// CreateIfAbsent inserts item unless a league with the same name exists and
	// returns the stored row. created reports whether this call wrote it.
	CreateIfAbsent(ctx context.Context, item League) (stored League, created bool, err error)
}
