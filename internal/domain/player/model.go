package player

import "time"

type Position string

const (
	PositionGoalkeeper Position = "GK"
	PositionDefender   Position = "DF"
	PositionMidfielder Position = "MF"
	PositionForward    Position = "FW"
)

// PositionFromProvider maps the provider's single-letter grid positions to
// ours. Unknown letters land on midfield.
func PositionFromProvider(code string) Position {
	switch code {
	case "G":
		return PositionGoalkeeper
	case "D":
		return PositionDefender
	case "M":
		return PositionMidfielder
	case "F":
		return PositionForward
	default:
		return PositionMidfielder
	}
}

type Player struct {
	ID         int64     `db:"id" json:"id"`
	ExternalID int64     `db:"external_id" json:"externalId"`
	Name       string    `db:"name" json:"name"`
	Position   Position  `db:"position" json:"position"`
	Number     int       `db:"number" json:"number"`
	PhotoURL   string    `db:"photo_url" json:"photoUrl"`
	TeamID     int64     `db:"team_id" json:"teamId"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}
