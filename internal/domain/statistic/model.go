package statistic

// Statistic is one provider-reported figure for one team in one match,
// e.g. ("Ball Possession", "61%"). Values stay as the provider sends them.
type Statistic struct {
	ID      int64  `db:"id" json:"id"`
	MatchID int64  `db:"match_id" json:"matchId"`
	TeamID  int64  `db:"team_id" json:"teamId"`
	Name    string `db:"name" json:"name"`
	Value   string `db:"value" json:"value"`
}
