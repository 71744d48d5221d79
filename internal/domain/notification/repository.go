package notification

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("notification not found")

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	MarkSent(ctx context.Context, id string, at time.Time) error
	MarkRead(ctx context.Context, id string, userID int64, at time.Time) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]Notification, error)
}
