package lineup

import (
	"time"

	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/player"
)

// Lineup is one team's sheet for a match, starters and bench together.
type Lineup struct {
	ID        int64     `db:"id" json:"id"`
	MatchID   int64     `db:"match_id" json:"matchId"`
	TeamID    int64     `db:"team_id" json:"teamId"`
	Formation string    `db:"formation" json:"formation"`
	CoachName string    `db:"coach_name" json:"coachName"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`

	Players []Player `db:"-" json:"players"`
}

type Player struct {
	ID               int64           `db:"id" json:"id"`
	LineupID         int64           `db:"lineup_id" json:"lineupId"`
	PlayerExternalID int64           `db:"player_external_id" json:"playerExternalId"`
	Name             string          `db:"name" json:"name"`
	Number           int             `db:"number" json:"number"`
	Position         player.Position `db:"position" json:"position"`
	Grid             string          `db:"grid" json:"grid"`
	Starting         bool            `db:"starting" json:"starting"`
}
