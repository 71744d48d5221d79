package analysis

import "time"

// Preview is pre-match editorial content generated before kickoff: a text
// summary, a score prediction, and the players to watch.
type Preview struct {
	ID             int64     `db:"id" json:"id"`
	MatchID        int64     `db:"match_id" json:"matchId"`
	Text           string    `db:"text" json:"text"`
	PredictedScore string    `db:"predicted_score" json:"predictedScore"`
	KeyPlayers     string    `db:"key_players" json:"keyPlayers"`
	GeneratedAt    time.Time `db:"generated_at" json:"generatedAt"`
}
