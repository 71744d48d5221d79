package memory

import (
	"context"
	"sync"
	"time"

	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/lineup"
)

type LineupRepository struct {
	mu      sync.RWMutex
	byMatch map[int64][]lineup.Lineup
	nextID  int64
	now     func() time.Time
}

func NewLineupRepository() *LineupRepository {
	return &LineupRepository{
		byMatch: make(map[int64][]lineup.Lineup),
		now:     time.Now,
	}
}

func (r *LineupRepository) ReplaceForMatch(_ context.Context, matchID int64, lineups []lineup.Lineup) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	stored := make([]lineup.Lineup, 0, len(lineups))
	for _, l := range lineups {
		r.nextID++
		l.ID = r.nextID
		l.MatchID = matchID
		l.CreatedAt = now

		players := make([]lineup.Player, len(l.Players))
		copy(players, l.Players)
		for i := range players {
			r.nextID++
			players[i].ID = r.nextID
			players[i].LineupID = l.ID
		}
		l.Players = players
		stored = append(stored, l)
	}
	r.byMatch[matchID] = stored
	return nil
}

func (r *LineupRepository) ListByMatch(_ context.Context, matchID int64) ([]lineup.Lineup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.byMatch[matchID]
	out := make([]lineup.Lineup, len(items))
	copy(out, items)
	for i := range out {
		players := make([]lineup.Player, len(items[i].Players))
		copy(players, items[i].Players)
		out[i].Players = players
	}
	return out, nil
}
