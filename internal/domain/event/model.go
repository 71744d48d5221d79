package event

import (
	"fmt"
	"strings"
	"time"
)

type Kind string

const (
	KindGoal       Kind = "GOAL"
	KindYellowCard Kind = "YELLOW"
	KindRedCard    Kind = "RED"
	KindSubstitute Kind = "SUB"
	KindOther      Kind = "OTHER"
)

// KindFromProvider maps the provider's (type, detail) pair onto our kinds.
// VAR entries only count as goals when the detail confirms a standing goal;
// cancelled and disallowed goals stay OTHER.
func KindFromProvider(providerType, detail string) Kind {
	switch strings.ToLower(strings.TrimSpace(providerType)) {
	case "goal":
		return KindGoal
	case "card":
		lower := strings.ToLower(detail)
		if strings.Contains(lower, "red") {
			return KindRedCard
		}
		if strings.Contains(lower, "yellow") {
			return KindYellowCard
		}
		return KindOther
	case "subst":
		return KindSubstitute
	case "var":
		lower := strings.ToLower(detail)
		if strings.Contains(lower, "goal") &&
			!strings.Contains(lower, "cancelled") &&
			!strings.Contains(lower, "disallowed") {
			return KindGoal
		}
		return KindOther
	default:
		return KindOther
	}
}

type Event struct {
	ID           int64     `db:"id" json:"id"`
	MatchID      int64     `db:"match_id" json:"matchId"`
	TeamID       int64     `db:"team_id" json:"teamId"`
	PlayerID     int64     `db:"player_id" json:"playerId"`
	PlayerName   string    `db:"player_name" json:"playerName"`
	AssistID     int64     `db:"assist_id" json:"assistId"`
	AssistName   string    `db:"assist_name" json:"assistName"`
	Kind         Kind      `db:"kind" json:"kind"`
	Minute       int       `db:"minute" json:"minute"`
	ExtraMinute  int       `db:"extra_minute" json:"extraMinute"`
	Detail       string    `db:"detail" json:"detail"`
	Comments     string    `db:"comments" json:"comments"`
	RecordedAt   time.Time `db:"recorded_at" json:"recordedAt"`
}

// Signature identifies an event across repeated polls of the same match.
// Provider feeds carry no event ids, so identity is the tuple of what
// happened, when, and to whom.
func (e *Event) Signature() string {
	return fmt.Sprintf("%d|%s|%d|%d|%s", e.MatchID, e.Kind, e.Minute, e.PlayerID, e.Detail)
}
