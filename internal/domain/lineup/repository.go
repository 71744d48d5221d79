package lineup

import "context"

type Repository interface {
	// ReplaceForMatch swaps both team sheets for the match, players
	// included, in one step.
	ReplaceForMatch(ctx context.Context, matchID int64, lineups []Lineup) error
	ListByMatch(ctx context.Context, matchID int64) ([]Lineup, error)
}
