package match

import "time"

// Provider short statuses. Live coverage statuses drive the event monitor;
// everything else is bookkeeping.
const (
	StatusNotStarted  = "NS"
	StatusTBD         = "TBD"
	StatusFirstHalf   = "1H"
	StatusHalfTime    = "HT"
	StatusSecondHalf  = "2H"
	StatusExtraTime   = "ET"
	StatusBreakTime   = "BT"
	StatusPenalties   = "P"
	StatusLive        = "LIVE"
	StatusFullTime    = "FT"
	StatusAfterExtra  = "AET"
	StatusAfterPens   = "PEN"
	StatusPostponed   = "PST"
	StatusCancelled   = "CANC"
	StatusAbandoned   = "ABD"
	StatusTechLoss    = "AWD"
	StatusWalkover    = "WO"
)

var liveStatuses = map[string]struct{}{
	StatusFirstHalf:  {},
	StatusSecondHalf: {},
	StatusHalfTime:   {},
	StatusExtraTime:  {},
	StatusBreakTime:  {},
	StatusPenalties:  {},
	StatusLive:       {},
}

var finishedStatuses = map[string]struct{}{
	StatusFullTime:   {},
	StatusAfterExtra: {},
	StatusAfterPens:  {},
}

func IsLiveStatus(status string) bool {
	_, ok := liveStatuses[status]
	return ok
}

func IsFinishedStatus(status string) bool {
	_, ok := finishedStatuses[status]
	return ok
}

func IsScheduledStatus(status string) bool {
	return status == StatusNotStarted || status == StatusTBD
}

type Match struct {
	ID         int64     `db:"id" json:"id"`
	ExternalID int64     `db:"external_id" json:"externalId"`
	LeagueID   int64     `db:"league_id" json:"leagueId"`
	Season     int       `db:"season" json:"season"`
	Round      string    `db:"round" json:"round"`
	HomeTeamID int64     `db:"home_team_id" json:"homeTeamId"`
	AwayTeamID int64     `db:"away_team_id" json:"awayTeamId"`
	KickoffAt  time.Time `db:"kickoff_at" json:"kickoffAt"`
	Status     string    `db:"status" json:"status"`
	Elapsed    int       `db:"elapsed" json:"elapsed"`
	HomeScore  int       `db:"home_score" json:"homeScore"`
	AwayScore  int       `db:"away_score" json:"awayScore"`
	Venue      string    `db:"venue" json:"venue"`
	Referee    string    `db:"referee" json:"referee"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

func (m *Match) IsLive() bool      { return IsLiveStatus(m.Status) }
func (m *Match) IsFinished() bool  { return IsFinishedStatus(m.Status) }
func (m *Match) IsScheduled() bool { return IsScheduledStatus(m.Status) }
