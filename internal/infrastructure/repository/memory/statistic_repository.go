package memory

import (
	"context"
	"sync"

	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/statistic"
)

type StatisticRepository struct {
	mu      sync.RWMutex
	byMatch map[int64][]statistic.Statistic
	nextID  int64
}

func NewStatisticRepository() *StatisticRepository {
	return &StatisticRepository{byMatch: make(map[int64][]statistic.Statistic)}
}

func (r *StatisticRepository) ReplaceForMatch(_ context.Context, matchID int64, stats []statistic.Statistic) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := make([]statistic.Statistic, 0, len(stats))
	for _, s := range stats {
		r.nextID++
		s.ID = r.nextID
		s.MatchID = matchID
		stored = append(stored, s)
	}
	r.byMatch[matchID] = stored
	return nil
}

func (r *StatisticRepository) ListByMatch(_ context.Context, matchID int64) ([]statistic.Statistic, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.byMatch[matchID]
	out := make([]statistic.Statistic, len(items))
	copy(out, items)
	return out, nil
}
