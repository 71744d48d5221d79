package event

import "context"

type Repository interface {
	// ReplaceForMatch swaps the match's full event list in one step. The
	// provider feed is authoritative, so stale rows never linger.
	ReplaceForMatch(ctx context.Context, matchID int64, events []Event) error
	ListByMatch(ctx context.Context, matchID int64) ([]Event, error)
}
