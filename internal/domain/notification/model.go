package notification

import (
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindGoal       Kind = "GOAL"
	KindRedCard    Kind = "RED_CARD"
	KindLineup     Kind = "LINEUP"
	KindMatchStart Kind = "MATCH_START"
	KindImportant  Kind = "IMPORTANT"
)

type Delivery string

const (
	DeliveryEmail Delivery = "email"
	DeliveryPush  Delivery = "push"
	DeliveryBoth  Delivery = "both"
)

// Notification is the audit record of one message to one user. It is
// persisted before any delivery attempt; SentAt stays nil when delivery
// fails.
type Notification struct {
	ID        string     `db:"id" json:"id"`
	UserID    int64      `db:"user_id" json:"userId"`
	MatchID   int64      `db:"match_id" json:"matchId"`
	Kind      Kind       `db:"kind" json:"kind"`
	Title     string     `db:"title" json:"title"`
	Body      string     `db:"body" json:"body"`
	Delivery  Delivery   `db:"delivery" json:"delivery"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
	SentAt    *time.Time `db:"sent_at" json:"sentAt,omitempty"`
	ReadAt    *time.Time `db:"read_at" json:"readAt,omitempty"`
}

func NewID() string {
	return uuid.NewString()
}
