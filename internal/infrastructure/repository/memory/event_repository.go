package memory

import (
	"context"
	"sync"

	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/event"
)

type EventRepository struct {
	mu      sync.RWMutex
	byMatch map[int64][]event.Event
	nextID  int64
}

func NewEventRepository() *EventRepository {
	return &EventRepository{byMatch: make(map[int64][]event.Event)}
}

// eventIdentity mirrors the uniqueness constraint on the events table.
type eventIdentity struct {
	kind     event.Kind
	minute   int
	playerID int64
}

func (r *EventRepository) ReplaceForMatch(_ context.Context, matchID int64, events []event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[eventIdentity]struct{}, len(events))
	stored := make([]event.Event, 0, len(events))
	for _, e := range events {
		key := eventIdentity{kind: e.Kind, minute: e.Minute, playerID: e.PlayerID}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		r.nextID++
		e.ID = r.nextID
		e.MatchID = matchID
		stored = append(stored, e)
	}
	r.byMatch[matchID] = stored
	return nil
}

func (r *EventRepository) ListByMatch(_ context.Context, matchID int64) ([]event.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.byMatch[matchID]
	out := make([]event.Event, len(items))
	copy(out, items)
	return out, nil
}
