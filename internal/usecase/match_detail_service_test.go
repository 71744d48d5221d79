package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/event"
	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/match"
	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/player"
	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/team"
	"github.com/EsatCanStudent/UpdatedScores2/internal/infrastructure/repository/memory"
	"github.com/EsatCanStudent/UpdatedScores2/internal/platform/cache"
	"github.com/EsatCanStudent/UpdatedScores2/internal/platform/logging"
)

type detailFixture struct {
	matches    *memory.MatchRepository
	events     *memory.EventRepository
	lineups    *memory.LineupRepository
	statistics *memory.StatisticRepository
	teams      *memory.TeamRepository
	notifier   *fakeNotifier
	store      *cache.Store
}

func newDetailFixture() *detailFixture {
	return &detailFixture{
		matches:    memory.NewMatchRepository(),
		events:     memory.NewEventRepository(),
		lineups:    memory.NewLineupRepository(),
		statistics: memory.NewStatisticRepository(),
		teams:      memory.NewTeamRepository(),
		notifier:   &fakeNotifier{},
		store:      cache.NewStore(),
	}
}

func (f *detailFixture) service(provider SportDataProvider, now func() time.Time) *MatchDetailService {
	return NewMatchDetailService(provider, f.matches, f.events, f.lineups, f.statistics, f.teams, f.store, f.notifier, logging.NewNop(), now)
}

func TestSyncEventsReplacesTimeline(t *testing.T) {
	ctx := context.Background()
	f := newDetailFixture()

	m := &match.Match{ExternalID: 1001, LeagueID: 1, HomeTeamID: 10, AwayTeamID: 11,
		KickoffAt: time.Date(2025, 8, 30, 15, 0, 0, 0, time.UTC), Status: match.StatusFirstHalf}
	if _, err := f.matches.Upsert(ctx, m); err != nil {
		t.Fatalf("seed match: %v", err)
	}
	if _, err := f.teams.Upsert(ctx, &team.Team{ExternalID: 50, Name: "Manchester City"}); err != nil {
		t.Fatalf("seed team: %v", err)
	}
	if err := f.events.ReplaceForMatch(ctx, m.ID, []event.Event{{MatchID: m.ID, Kind: event.KindOther, Detail: "stale"}}); err != nil {
		t.Fatalf("seed events: %v", err)
	}

	provider := &fakeProvider{
		events: func(context.Context, int64) ([]ExternalEvent, error) {
			return []ExternalEvent{
				{TeamExternalID: 50, PlayerExternalID: 7, PlayerName: "Erling Haaland", Type: "Goal", Detail: "Normal Goal", Minute: 23},
				{TeamExternalID: 50, PlayerExternalID: 8, PlayerName: "Rodri", Type: "Card", Detail: "Yellow Card", Minute: 40},
			}, nil
		},
	}
	svc := f.service(provider, nil)

	summary, err := svc.SyncEvents(ctx)
	if err != nil {
		t.Fatalf("SyncEvents: %v", err)
	}
	if summary.Updated != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	stored, err := f.events.ListByMatch(ctx, m.ID)
	if err != nil {
		t.Fatalf("ListByMatch: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("expected stale timeline replaced with 2 events, got %d", len(stored))
	}
	if stored[0].Kind != event.KindGoal || stored[1].Kind != event.KindYellowCard {
		t.Fatalf("unexpected kinds: %s, %s", stored[0].Kind, stored[1].Kind)
	}
}

func TestSyncEventsStoresRepeatedEventOnce(t *testing.T) {
	ctx := context.Background()
	f := newDetailFixture()

	m := &match.Match{ExternalID: 1001, LeagueID: 1, HomeTeamID: 10, AwayTeamID: 11,
		KickoffAt: time.Date(2025, 8, 30, 15, 0, 0, 0, time.UTC), Status: match.StatusFirstHalf}
	if _, err := f.matches.Upsert(ctx, m); err != nil {
		t.Fatalf("seed match: %v", err)
	}
	if _, err := f.teams.Upsert(ctx, &team.Team{ExternalID: 50, Name: "Manchester City"}); err != nil {
		t.Fatalf("seed team: %v", err)
	}

	// Provider feeds occasionally repeat an item inside one payload.
	goal := ExternalEvent{TeamExternalID: 50, PlayerExternalID: 7, PlayerName: "Erling Haaland",
		Type: "Goal", Detail: "Normal Goal", Minute: 23}
	provider := &fakeProvider{
		events: func(context.Context, int64) ([]ExternalEvent, error) {
			return []ExternalEvent{goal, goal}, nil
		},
	}
	svc := f.service(provider, nil)

	if _, err := svc.SyncEvents(ctx); err != nil {
		t.Fatalf("SyncEvents: %v", err)
	}

	stored, err := f.events.ListByMatch(ctx, m.ID)
	if err != nil {
		t.Fatalf("ListByMatch: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("expected the repeated goal stored once, got %d rows", len(stored))
	}
	if stored[0].Kind != event.KindGoal || stored[0].Minute != 23 {
		t.Fatalf("unexpected stored event: %+v", stored[0])
	}
}

func TestSyncLineupsNotifiesFirstPublicationOnly(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 8, 30, 14, 30, 0, 0, time.UTC)
	f := newDetailFixture()

	m := &match.Match{ExternalID: 1001, LeagueID: 1, HomeTeamID: 10, AwayTeamID: 11,
		KickoffAt: now.Add(30 * time.Minute), Status: match.StatusNotStarted}
	if _, err := f.matches.Upsert(ctx, m); err != nil {
		t.Fatalf("seed match: %v", err)
	}
	if _, err := f.teams.Upsert(ctx, &team.Team{ExternalID: 50, Name: "Manchester City"}); err != nil {
		t.Fatalf("seed team: %v", err)
	}

	provider := &fakeProvider{
		lineups: func(context.Context, int64) ([]ExternalLineup, error) {
			return []ExternalLineup{{
				TeamExternalID: 50,
				Formation:      "4-3-3",
				CoachName:      "Pep Guardiola",
				Starters:       []ExternalLineupPlayer{{ExternalID: 7, Name: "Erling Haaland", Number: 9, PositionCode: "F", Grid: "4:2"}},
				Substitutes:    []ExternalLineupPlayer{{ExternalID: 8, Name: "Rodri", Number: 16, PositionCode: "M"}},
			}}, nil
		},
	}
	svc := f.service(provider, fixedNow(now))

	if _, err := svc.SyncLineups(ctx); err != nil {
		t.Fatalf("first SyncLineups: %v", err)
	}
	if _, err := svc.SyncLineups(ctx); err != nil {
		t.Fatalf("second SyncLineups: %v", err)
	}

	f.notifier.mu.Lock()
	lineupNotices := len(f.notifier.lineups)
	f.notifier.mu.Unlock()
	if lineupNotices != 1 {
		t.Fatalf("expected exactly 1 lineup notification, got %d", lineupNotices)
	}

	stored, err := f.lineups.ListByMatch(ctx, m.ID)
	if err != nil {
		t.Fatalf("ListByMatch: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("expected 1 lineup, got %d", len(stored))
	}
	if len(stored[0].Players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(stored[0].Players))
	}
	starter := stored[0].Players[0]
	if !starter.Starting || starter.Position != player.PositionForward {
		t.Fatalf("unexpected starter mapping: %+v", starter)
	}
	if stored[0].Players[1].Starting {
		t.Fatal("substitute marked as starting")
	}
}

func TestSyncLineupsSkipsUnpublishedSheets(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 8, 30, 14, 30, 0, 0, time.UTC)
	f := newDetailFixture()

	m := &match.Match{ExternalID: 1001, LeagueID: 1, HomeTeamID: 10, AwayTeamID: 11,
		KickoffAt: now.Add(30 * time.Minute), Status: match.StatusNotStarted}
	if _, err := f.matches.Upsert(ctx, m); err != nil {
		t.Fatalf("seed match: %v", err)
	}

	svc := f.service(&fakeProvider{}, fixedNow(now))

	summary, err := svc.SyncLineups(ctx)
	if err != nil {
		t.Fatalf("SyncLineups: %v", err)
	}
	if summary.Skipped != 1 || summary.Updated != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestSyncStatisticsCoversRecentlyFinished(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 8, 30, 18, 0, 0, 0, time.UTC)
	f := newDetailFixture()

	m := &match.Match{ExternalID: 1001, LeagueID: 1, HomeTeamID: 10, AwayTeamID: 11,
		KickoffAt: now.Add(-2 * time.Hour), Status: match.StatusFullTime}
	if _, err := f.matches.Upsert(ctx, m); err != nil {
		t.Fatalf("seed match: %v", err)
	}
	if _, err := f.teams.Upsert(ctx, &team.Team{ExternalID: 50, Name: "Manchester City"}); err != nil {
		t.Fatalf("seed team: %v", err)
	}

	provider := &fakeProvider{
		statistics: func(context.Context, int64) ([]ExternalStatistic, error) {
			return []ExternalStatistic{
				{TeamExternalID: 50, Name: "Ball Possession", Value: "61%"},
				{TeamExternalID: 50, Name: "Total Shots", Value: "14"},
			}, nil
		},
	}
	svc := f.service(provider, fixedNow(now))

	summary, err := svc.SyncStatistics(ctx)
	if err != nil {
		t.Fatalf("SyncStatistics: %v", err)
	}
	if summary.Updated != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	stored, err := f.statistics.ListByMatch(ctx, m.ID)
	if err != nil {
		t.Fatalf("ListByMatch: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("expected 2 statistics, got %d", len(stored))
	}
	if stored[0].Name != "Ball Possession" || stored[0].Value != "61%" {
		t.Fatalf("unexpected statistic: %+v", stored[0])
	}
}
