package memory

import (
	"context"
	"sync"
	"time"

	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/analysis"
)

type AnalysisRepository struct {
	mu      sync.RWMutex
	byMatch map[int64]analysis.Preview
	nextID  int64
	now     func() time.Time
}

func NewAnalysisRepository() *AnalysisRepository {
	return &AnalysisRepository{
		byMatch: make(map[int64]analysis.Preview),
		now:     time.Now,
	}
}

func (r *AnalysisRepository) Upsert(_ context.Context, p *analysis.Preview) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.GeneratedAt.IsZero() {
		p.GeneratedAt = r.now()
	}
	if existing, ok := r.byMatch[p.MatchID]; ok {
		p.ID = existing.ID
		r.byMatch[p.MatchID] = *p
		return false, nil
	}

	r.nextID++
	p.ID = r.nextID
	r.byMatch[p.MatchID] = *p
	return true, nil
}

func (r *AnalysisRepository) GetByMatch(_ context.Context, matchID int64) (*analysis.Preview, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byMatch[matchID]
	if !ok {
		return nil, analysis.ErrNotFound
	}
	return &p, nil
}

func (r *AnalysisRepository) ListMatchIDsWithPreview(_ context.Context, matchIDs []int64) (map[int64]struct{}, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[int64]struct{})
	for _, id := range matchIDs {
		if _, ok := r.byMatch[id]; ok {
			out[id] = struct{}{}
		}
	}
	return out, nil
}
