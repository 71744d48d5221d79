package analysis

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("preview not found")

type Repository interface {
	// Upsert keeps one preview per match, replacing any earlier one.
	Upsert(ctx context.Context, p *Preview) (bool, error)
	GetByMatch(ctx context.Context, matchID int64) (*Preview, error)
	// ListMatchIDsWithPreview filters the given match ids down to those
	// that already have a preview.
	ListMatchIDsWithPreview(ctx context.Context, matchIDs []int64) (map[int64]struct{}, error)
}
