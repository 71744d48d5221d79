package usecase

import (
	"context"
	"time"
)

// External* types carry provider payloads into the sync services. They are
// keyed by provider ids only; resolving internal ids happens during sync.

type ExternalLeague struct {
	ExternalID int64
	Name       string
	Country    string
	LogoURL    string
	FlagURL    string
	Season     int
}

type ExternalTeam struct {
	ExternalID int64
	Name       string
	Code       string
	Country    string
	Founded    int
	LogoURL    string
	VenueName  string
	VenueCity  string
}

type ExternalMatch struct {
	ExternalID         int64
	LeagueExternalID   int64
	Season             int
	Round              string
	HomeTeamExternalID int64
	AwayTeamExternalID int64
	HomeTeamName       string
	AwayTeamName       string
	KickoffAt          time.Time
	Status             string
	Elapsed            int
	HomeScore          int
	AwayScore          int
	Venue              string
	Referee            string
}

type ExternalEvent struct {
	MatchExternalID  int64
	TeamExternalID   int64
	PlayerExternalID int64
	PlayerName       string
	AssistExternalID int64
	AssistName       string
	Type             string
	Detail           string
	Comments         string
	Minute           int
	ExtraMinute      int
}

type ExternalLineupPlayer struct {
	ExternalID   int64
	Name         string
	Number       int
	PositionCode string
	Grid         string
}

type ExternalLineup struct {
	TeamExternalID int64
	Formation      string
	CoachName      string
	Starters       []ExternalLineupPlayer
	Substitutes    []ExternalLineupPlayer
}

type ExternalStatistic struct {
	TeamExternalID int64
	Name           string
	Value          string
}

// MatchQuery narrows a fixture fetch. Zero values mean "not filtered";
// Date, FromDate and ToDate are YYYY-MM-DD in the provider's timezone.
// FromDate/ToDate bound a day range and travel together.
type MatchQuery struct {
	LeagueExternalID int64
	Season           int
	Date             string
	FromDate         string
	ToDate           string
	MatchExternalID  int64
}

// SportDataProvider is the upstream football data API.
type SportDataProvider interface {
	FetchLeagues(ctx context.Context) ([]ExternalLeague, error)
	FetchTeams(ctx context.Context, leagueExternalID int64, season int) ([]ExternalTeam, error)
	FetchMatches(ctx context.Context, q MatchQuery) ([]ExternalMatch, error)
	FetchLiveMatches(ctx context.Context) ([]ExternalMatch, error)
	FetchEvents(ctx context.Context, matchExternalID int64) ([]ExternalEvent, error)
	FetchLineups(ctx context.Context, matchExternalID int64) ([]ExternalLineup, error)
	FetchStatistics(ctx context.Context, matchExternalID int64) ([]ExternalStatistic, error)
}
