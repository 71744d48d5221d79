package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/notification"
)

type NotificationRepository struct {
	mu   sync.RWMutex
	byID map[string]notification.Notification
	now  func() time.Time
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{
		byID: make(map[string]notification.Notification),
		now:  time.Now,
	}
}

func (r *NotificationRepository) Create(_ context.Context, n *notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n.ID == "" {
		n.ID = notification.NewID()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = r.now()
	}
	r.byID[n.ID] = *n
	return nil
}

func (r *NotificationRepository) MarkSent(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.byID[id]
	if !ok {
		return notification.ErrNotFound
	}
	n.SentAt = &at
	r.byID[id] = n
	return nil
}

func (r *NotificationRepository) MarkRead(_ context.Context, id string, userID int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.byID[id]
	if !ok || n.UserID != userID {
		return notification.ErrNotFound
	}
	n.ReadAt = &at
	r.byID[id] = n
	return nil
}

func (r *NotificationRepository) ListByUser(_ context.Context, userID int64, limit int) ([]notification.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]notification.Notification, 0)
	for _, n := range r.byID {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
