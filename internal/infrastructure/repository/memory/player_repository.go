package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/player"
)

type PlayerRepository struct {
	mu     sync.RWMutex
	byID   map[int64]player.Player
	byExt  map[int64]int64
	nextID int64
	now    func() time.Time
}

func NewPlayerRepository() *PlayerRepository {
	return &PlayerRepository{
		byID:  make(map[int64]player.Player),
		byExt: make(map[int64]int64),
		now:   time.Now,
	}
}

func (r *PlayerRepository) Upsert(_ context.Context, p *player.Player) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if id, ok := r.byExt[p.ExternalID]; ok {
		existing := r.byID[id]
		p.ID = id
		p.CreatedAt = existing.CreatedAt
		p.UpdatedAt = now
		r.byID[id] = *p
		return false, nil
	}

	r.nextID++
	p.ID = r.nextID
	p.CreatedAt = now
	p.UpdatedAt = now
	r.byID[p.ID] = *p
	r.byExt[p.ExternalID] = p.ID
	return true, nil
}

func (r *PlayerRepository) GetByID(_ context.Context, id int64) (*player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, player.ErrNotFound
	}
	return &p, nil
}

func (r *PlayerRepository) GetByExternalID(_ context.Context, externalID int64) (*player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byExt[externalID]
	if !ok {
		return nil, player.ErrNotFound
	}
	p := r.byID[id]
	return &p, nil
}

func (r *PlayerRepository) ListByTeam(_ context.Context, teamID int64) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0)
	for _, p := range r.byID {
		if p.TeamID == teamID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
