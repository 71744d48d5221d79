package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/team"
)

type TeamRepository struct {
	mu     sync.RWMutex
	byID   map[int64]team.Team
	byExt  map[int64]int64
	nextID int64
	now    func() time.Time
}

func NewTeamRepository() *TeamRepository {
	return &TeamRepository{
		byID:  make(map[int64]team.Team),
		byExt: make(map[int64]int64),
		now:   time.Now,
	}
}

func (r *TeamRepository) Upsert(_ context.Context, t *team.Team) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if id, ok := r.byExt[t.ExternalID]; ok {
		existing := r.byID[id]
		t.ID = id
		t.CreatedAt = existing.CreatedAt
		t.UpdatedAt = now
		r.byID[id] = *t
		return false, nil
	}

	r.nextID++
	t.ID = r.nextID
	t.CreatedAt = now
	t.UpdatedAt = now
	r.byID[t.ID] = *t
	r.byExt[t.ExternalID] = t.ID
	return true, nil
}

func (r *TeamRepository) GetByID(_ context.Context, id int64) (*team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byID[id]
	if !ok {
		return nil, team.ErrNotFound
	}
	return &t, nil
}

func (r *TeamRepository) GetByExternalID(_ context.Context, externalID int64) (*team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byExt[externalID]
	if !ok {
		return nil, team.ErrNotFound
	}
	t := r.byID[id]
	return &t, nil
}

func (r *TeamRepository) ListByLeague(_ context.Context, leagueID int64) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0)
	for _, t := range r.byID {
		if t.LeagueID == leagueID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
