package league

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("league not found")

type Repository interface {
	// Upsert inserts or updates by ExternalID and fills in the internal ID.
	// It reports whether a new row was created.
	Upsert(ctx context.Context, l *League) (bool, error)
	GetByID(ctx context.Context, id int64) (*League, error)
	GetByExternalID(ctx context.Context, externalID int64) (*League, error)
	List(ctx context.Context) ([]League, error)
}
