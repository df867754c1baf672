package rawdata

import "context"

type Repository interface {
	// UpsertMany stores payloads keyed by (source, entity type, entity key),
	// rewriting rows whose hash changed.
	UpsertMany(ctx context.Context, items []Payload) error
}
