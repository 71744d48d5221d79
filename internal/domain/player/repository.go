package player

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("player not found")

type Repository interface {
	Upsert(ctx context.Context, p *Player) (bool, error)
	GetByID(ctx context.Context, id int64) (*Player, error)
	GetByExternalID(ctx context.Context, externalID int64) (*Player, error)
	ListByTeam(ctx context.Context, teamID int64) ([]Player, error)
}
