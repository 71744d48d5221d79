package team

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("team not found")

type Repository interface {
	Upsert(ctx context.Context, t *Team) (bool, error)
	GetByID(ctx context.Context, id int64) (*Team, error)
	GetByExternalID(ctx context.Context, externalID int64) (*Team, error)
	ListByLeague(ctx context.Context, leagueID int64) ([]Team, error)
}
