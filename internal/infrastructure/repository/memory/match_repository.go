package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/match"
)

type MatchRepository struct {
	mu     sync.RWMutex
	byID   map[int64]match.Match
	byExt  map[int64]int64
	nextID int64
	now    func() time.Time
}

func NewMatchRepository() *MatchRepository {
	return &MatchRepository{
		byID:  make(map[int64]match.Match),
		byExt: make(map[int64]int64),
		now:   time.Now,
	}
}

func (r *MatchRepository) Upsert(_ context.Context, m *match.Match) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if id, ok := r.byExt[m.ExternalID]; ok {
		existing := r.byID[id]
		m.ID = id
		m.CreatedAt = existing.CreatedAt
		m.UpdatedAt = now
		r.byID[id] = *m
		return false, nil
	}

	r.nextID++
	m.ID = r.nextID
	m.CreatedAt = now
	m.UpdatedAt = now
	r.byID[m.ID] = *m
	r.byExt[m.ExternalID] = m.ID
	return true, nil
}

func (r *MatchRepository) Update(_ context.Context, m *match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[m.ID]
	if !ok {
		return match.ErrNotFound
	}
	m.CreatedAt = existing.CreatedAt
	m.UpdatedAt = r.now()
	r.byID[m.ID] = *m
	return nil
}

func (r *MatchRepository) GetByID(_ context.Context, id int64) (*match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.byID[id]
	if !ok {
		return nil, match.ErrNotFound
	}
	return &m, nil
}

func (r *MatchRepository) GetByExternalID(_ context.Context, externalID int64) (*match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byExt[externalID]
	if !ok {
		return nil, match.ErrNotFound
	}
	m := r.byID[id]
	return &m, nil
}

func (r *MatchRepository) ListLive(_ context.Context) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0)
	for _, m := range r.byID {
		if m.IsLive() {
			out = append(out, m)
		}
	}
	sortByKickoff(out)
	return out, nil
}

func (r *MatchRepository) ListByKickoffRange(_ context.Context, from, to time.Time) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0)
	for _, m := range r.byID {
		if !m.KickoffAt.Before(from) && m.KickoffAt.Before(to) {
			out = append(out, m)
		}
	}
	sortByKickoff(out)
	return out, nil
}

func (r *MatchRepository) ListFinishedByTeam(_ context.Context, teamID int64, limit int) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0)
	for _, m := range r.byID {
		if !m.IsFinished() {
			continue
		}
		if m.HomeTeamID == teamID || m.AwayTeamID == teamID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].KickoffAt.After(out[j].KickoffAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MatchRepository) DeleteByKickoffRange(_ context.Context, from, to time.Time) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]int64, 0)
	for id, m := range r.byID {
		if !m.KickoffAt.Before(from) && m.KickoffAt.Before(to) {
			delete(r.byID, id)
			delete(r.byExt, m.ExternalID)
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *MatchRepository) ListByLeagueAndSeason(_ context.Context, leagueID int64, season int) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0)
	for _, m := range r.byID {
		if m.LeagueID == leagueID && m.Season == season {
			out = append(out, m)
		}
	}
	sortByKickoff(out)
	return out, nil
}

func sortByKickoff(matches []match.Match) {
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].KickoffAt.Equal(matches[j].KickoffAt) {
			return matches[i].ID < matches[j].ID
		}
		return matches[i].KickoffAt.Before(matches[j].KickoffAt)
	})
}
