package fixture

import "context"

// Repository persists fixtures by external id.
type Repository interface {
	GetByExternalID(ctx context.Context, externalID int64) (Fixture, bool, error)
	// Insert writes a new row. When the external id already exists the mutable
	// fields are overwritten instead and inserted is false.
	Insert(ctx context.Context, item Fixture) (id int64, inserted bool, err error)
	// UpdateMutable rewrites the mutable fields of the row with item.ExternalID.
	UpdateMutable(ctx context.Context, item Fixture) (found bool, err error)
}
