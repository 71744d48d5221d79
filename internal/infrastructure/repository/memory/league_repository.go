package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/league"
)

type LeagueRepository struct {
	mu     sync.RWMutex
	byID   map[int64]league.League
	byExt  map[int64]int64
	nextID int64
	now    func() time.Time
}

func NewLeagueRepository() *LeagueRepository {
	return &LeagueRepository{
		byID:  make(map[int64]league.League),
		byExt: make(map[int64]int64),
		now:   time.Now,
	}
}

func (r *LeagueRepository) Upsert(_ context.Context, l *league.League) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if id, ok := r.byExt[l.ExternalID]; ok {
		existing := r.byID[id]
		l.ID = id
		l.CreatedAt = existing.CreatedAt
		l.UpdatedAt = now
		r.byID[id] = *l
		return false, nil
	}

	r.nextID++
	l.ID = r.nextID
	l.CreatedAt = now
	l.UpdatedAt = now
	r.byID[l.ID] = *l
	r.byExt[l.ExternalID] = l.ID
	return true, nil
}

func (r *LeagueRepository) GetByID(_ context.Context, id int64) (*league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.byID[id]
	if !ok {
		return nil, league.ErrNotFound
	}
	return &l, nil
}

func (r *LeagueRepository) GetByExternalID(_ context.Context, externalID int64) (*league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byExt[externalID]
	if !ok {
		return nil, league.ErrNotFound
	}
	l := r.byID[id]
	return &l, nil
}

func (r *LeagueRepository) List(_ context.Context) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.League, 0, len(r.byID))
	for _, l := range r.byID {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
