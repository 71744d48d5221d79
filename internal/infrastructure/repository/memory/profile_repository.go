package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/profile"
)

type ProfileRepository struct {
	mu     sync.RWMutex
	byUser map[int64]profile.Profile
	nextID int64
	now    func() time.Time
}

func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{
		byUser: make(map[int64]profile.Profile),
		now:    time.Now,
	}
}

func (r *ProfileRepository) Upsert(_ context.Context, p *profile.Profile) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if existing, ok := r.byUser[p.UserID]; ok {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
		p.UpdatedAt = now
		r.byUser[p.UserID] = clone(*p)
		return false, nil
	}

	r.nextID++
	p.ID = r.nextID
	p.CreatedAt = now
	p.UpdatedAt = now
	r.byUser[p.UserID] = clone(*p)
	return true, nil
}

func (r *ProfileRepository) GetByUser(_ context.Context, userID int64) (*profile.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byUser[userID]
	if !ok {
		return nil, profile.ErrNotFound
	}
	out := clone(p)
	return &out, nil
}

func (r *ProfileRepository) ListForAudience(_ context.Context, a profile.Audience) ([]profile.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]profile.Profile, 0)
	for _, p := range r.byUser {
		matched := p.FollowsTeam(a.HomeTeamID) || p.FollowsTeam(a.AwayTeamID) || p.FollowsLeague(a.LeagueID)
		if !matched && a.PlayerID > 0 {
			matched = p.FollowsPlayer(a.PlayerID)
		}
		if matched {
			out = append(out, clone(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func clone(p profile.Profile) profile.Profile {
	teams := make([]int64, len(p.FavoriteTeamIDs))
	copy(teams, p.FavoriteTeamIDs)
	leagues := make([]int64, len(p.FavoriteLeagueIDs))
	copy(leagues, p.FavoriteLeagueIDs)
	players := make([]int64, len(p.FavoritePlayerIDs))
	copy(players, p.FavoritePlayerIDs)
	p.FavoriteTeamIDs = teams
	p.FavoriteLeagueIDs = leagues
	p.FavoritePlayerIDs = players
	return p
}
