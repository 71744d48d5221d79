package statistic

import "context"

type Repository interface {
	ReplaceForMatch(ctx context.Context, matchID int64, stats []Statistic) error
	ListByMatch(ctx context.Context, matchID int64) ([]Statistic, error)
}
