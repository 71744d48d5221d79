package profile

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("profile not found")

// Audience selects profiles whose favorites touch a match or one of its
// events. A zero PlayerID means no player criterion applies.
type Audience struct {
	LeagueID   int64
	HomeTeamID int64
	AwayTeamID int64
	PlayerID   int64
}

type Repository interface {
	Upsert(ctx context.Context, p *Profile) (bool, error)
	GetByUser(ctx context.Context, userID int64) (*Profile, error)
	// ListForAudience returns every profile following one of the teams, the
	// league, or the player of the audience, without duplicates.
	ListForAudience(ctx context.Context, a Audience) ([]Profile, error)
}
