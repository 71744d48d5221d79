package match

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("match not found")

type Repository interface {
	Upsert(ctx context.Context, m *Match) (bool, error)
	Update(ctx context.Context, m *Match) error
	GetByID(ctx context.Context, id int64) (*Match, error)
	GetByExternalID(ctx context.Context, externalID int64) (*Match, error)
	ListLive(ctx context.Context) ([]Match, error)
	// ListByKickoffRange returns matches with from <= KickoffAt < to,
	// ordered by kickoff.
	ListByKickoffRange(ctx context.Context, from, to time.Time) ([]Match, error)
	// ListFinishedByTeam returns the team's most recent finished matches,
	// newest first, at most limit.
	ListFinishedByTeam(ctx context.Context, teamID int64, limit int) ([]Match, error)
	ListByLeagueAndSeason(ctx context.Context, leagueID int64, season int) ([]Match, error)
	// DeleteByKickoffRange removes matches with from <= KickoffAt < to and
	// returns the ids of the deleted rows. Rows owned by a deleted match
	// (events, lineups, statistics, previews) go with it.
	DeleteByKickoffRange(ctx context.Context, from, to time.Time) ([]int64, error)
}
