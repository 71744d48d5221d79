package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/league"
	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/match"
	"github.com/EsatCanStudent/UpdatedScores2/internal/infrastructure/repository/memory"
	"github.com/EsatCanStudent/UpdatedScores2/internal/platform/cache"
	"github.com/EsatCanStudent/UpdatedScores2/internal/platform/logging"
)

func TestSyncLeaguesAllowListFiltering(t *testing.T) {
	leagues := memory.NewLeagueRepository()
	provider := &fakeProvider{
		leagues: func(context.Context) ([]ExternalLeague, error) {
			return []ExternalLeague{
				{ExternalID: 39, Name: "Premier League", Country: "England", Season: 2025},
				{ExternalID: 999, Name: "Obscure Cup", Country: "Nowhere", Season: 2025},
			}, nil
		},
	}
	allowList := []league.AllowedPair{{Country: "England", Name: "Premier League"}}

	svc := NewSyncService(provider, leagues, memory.NewTeamRepository(), memory.NewMatchRepository(), nil, allowList, logging.NewNop(), nil)

	summary, err := svc.SyncLeagues(context.Background())
	if err != nil {
		t.Fatalf("SyncLeagues: %v", err)
	}
	if summary.Created != 1 || summary.Skipped != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	stored, err := leagues.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(stored) != 1 || stored[0].Name != "Premier League" {
		t.Fatalf("unexpected stored leagues: %+v", stored)
	}

	// Second pass hits the same external ids and updates in place.
	summary, err = svc.SyncLeagues(context.Background())
	if err != nil {
		t.Fatalf("SyncLeagues second pass: %v", err)
	}
	if summary.Created != 0 || summary.Updated != 1 {
		t.Fatalf("unexpected second summary: %+v", summary)
	}
}

func TestSyncTeamsSeasonFallback(t *testing.T) {
	leagues := memory.NewLeagueRepository()
	teams := memory.NewTeamRepository()
	if _, err := leagues.Upsert(context.Background(), &league.League{ExternalID: 39, Name: "Premier League", Country: "England", Season: 2025}); err != nil {
		t.Fatalf("seed league: %v", err)
	}

	var requested []int
	provider := &fakeProvider{
		teams: func(_ context.Context, leagueExternalID int64, season int) ([]ExternalTeam, error) {
			requested = append(requested, season)
			if season == 2025 {
				return nil, nil
			}
			return []ExternalTeam{{ExternalID: 50, Name: "Manchester City"}}, nil
		},
	}

	svc := NewSyncService(provider, leagues, teams, memory.NewMatchRepository(), nil, nil, logging.NewNop(), nil)

	summary, err := svc.SyncTeams(context.Background())
	if err != nil {
		t.Fatalf("SyncTeams: %v", err)
	}
	if summary.Created != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(requested) != 2 || requested[0] != 2025 || requested[1] != 2024 {
		t.Fatalf("unexpected season requests: %v", requested)
	}
	if _, err := teams.GetByExternalID(context.Background(), 50); err != nil {
		t.Fatalf("team not stored: %v", err)
	}
}

func TestSyncMatchesCreatesStubTeams(t *testing.T) {
	leagues := memory.NewLeagueRepository()
	teams := memory.NewTeamRepository()
	matches := memory.NewMatchRepository()
	if _, err := leagues.Upsert(context.Background(), &league.League{ExternalID: 39, Name: "Premier League", Country: "England", Season: 2025}); err != nil {
		t.Fatalf("seed league: %v", err)
	}

	kickoff := time.Date(2025, 8, 30, 15, 0, 0, 0, time.UTC)
	provider := &fakeProvider{
		matches: func(context.Context, MatchQuery) ([]ExternalMatch, error) {
			return []ExternalMatch{{
				ExternalID:         1001,
				Season:             2025,
				HomeTeamExternalID: 50,
				AwayTeamExternalID: 51,
				HomeTeamName:       "Manchester City",
				AwayTeamName:       "Arsenal",
				KickoffAt:          kickoff,
				Status:             match.StatusNotStarted,
			}}, nil
		},
	}

	svc := NewSyncService(provider, leagues, teams, matches, nil, nil, logging.NewNop(), nil)

	summary, err := svc.SyncMatches(context.Background(), MatchSyncOptions{NextDays: 7})
	if err != nil {
		t.Fatalf("SyncMatches: %v", err)
	}
	if summary.Created != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	home, err := teams.GetByExternalID(context.Background(), 50)
	if err != nil {
		t.Fatalf("home stub missing: %v", err)
	}
	if home.Name != "Manchester City" {
		t.Fatalf("unexpected stub name: %q", home.Name)
	}
	if _, err := teams.GetByExternalID(context.Background(), 51); err != nil {
		t.Fatalf("away stub missing: %v", err)
	}

	stored, err := matches.GetByExternalID(context.Background(), 1001)
	if err != nil {
		t.Fatalf("match not stored: %v", err)
	}
	if stored.HomeTeamID != home.ID {
		t.Fatalf("match home team not resolved: %+v", stored)
	}
}

func TestSyncMatchesInvalidatesCacheOnUpdate(t *testing.T) {
	ctx := context.Background()
	leagues := memory.NewLeagueRepository()
	matches := memory.NewMatchRepository()
	store := cache.NewStore()
	if _, err := leagues.Upsert(ctx, &league.League{ExternalID: 39, Name: "Premier League", Country: "England", Season: 2025}); err != nil {
		t.Fatalf("seed league: %v", err)
	}

	external := ExternalMatch{
		ExternalID:         1001,
		Season:             2025,
		HomeTeamExternalID: 50,
		AwayTeamExternalID: 51,
		HomeTeamName:       "Manchester City",
		AwayTeamName:       "Arsenal",
		KickoffAt:          time.Date(2025, 8, 30, 15, 0, 0, 0, time.UTC),
		Status:             match.StatusNotStarted,
	}
	provider := &fakeProvider{
		matches: func(context.Context, MatchQuery) ([]ExternalMatch, error) {
			return []ExternalMatch{external}, nil
		},
	}

	svc := NewSyncService(provider, leagues, memory.NewTeamRepository(), matches, store, nil, logging.NewNop(), nil)

	if _, err := svc.SyncMatches(ctx, MatchSyncOptions{}); err != nil {
		t.Fatalf("first sync: %v", err)
	}
	stored, err := matches.GetByExternalID(ctx, 1001)
	if err != nil {
		t.Fatalf("match not stored: %v", err)
	}

	key := cache.Key(cache.PrefixMatch, stored.ID)
	store.Set(ctx, key, "payload", cache.TTLShort)

	external.Status = match.StatusFirstHalf
	external.HomeScore = 1
	if _, err := svc.SyncMatches(ctx, MatchSyncOptions{}); err != nil {
		t.Fatalf("second sync: %v", err)
	}

	if _, ok := store.Get(ctx, key); ok {
		t.Fatal("cached match payload survived an update")
	}
}

func TestSyncMatchesPartialFailureIsolation(t *testing.T) {
	ctx := context.Background()
	leagues := memory.NewLeagueRepository()
	matches := memory.NewMatchRepository()
	if _, err := leagues.Upsert(ctx, &league.League{ExternalID: 39, Name: "Premier League", Country: "England", Season: 2025}); err != nil {
		t.Fatalf("seed league: %v", err)
	}
	if _, err := leagues.Upsert(ctx, &league.League{ExternalID: 140, Name: "La Liga", Country: "Spain", Season: 2025}); err != nil {
		t.Fatalf("seed league: %v", err)
	}

	provider := &fakeProvider{
		matches: func(_ context.Context, q MatchQuery) ([]ExternalMatch, error) {
			if q.LeagueExternalID == 39 {
				return nil, errors.New("provider down")
			}
			return []ExternalMatch{{
				ExternalID:         2001,
				Season:             2025,
				HomeTeamExternalID: 529,
				AwayTeamExternalID: 541,
				HomeTeamName:       "Barcelona",
				AwayTeamName:       "Real Madrid",
				KickoffAt:          time.Date(2025, 8, 31, 20, 0, 0, 0, time.UTC),
				Status:             match.StatusNotStarted,
			}}, nil
		},
	}

	svc := NewSyncService(provider, leagues, memory.NewTeamRepository(), matches, nil, nil, logging.NewNop(), nil)

	summary, err := svc.SyncMatches(ctx, MatchSyncOptions{})
	if err != nil {
		t.Fatalf("SyncMatches: %v", err)
	}
	if summary.Failed != 1 || summary.Created != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if _, err := matches.GetByExternalID(ctx, 2001); err != nil {
		t.Fatalf("healthy league's match missing: %v", err)
	}
}

func TestSyncMatchesRefreshPurgesDate(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC)
	leagues := memory.NewLeagueRepository()
	matches := memory.NewMatchRepository()
	if _, err := leagues.Upsert(ctx, &league.League{ExternalID: 39, Name: "Premier League", Country: "England", Season: 2025}); err != nil {
		t.Fatalf("seed league: %v", err)
	}

	// A fixture the provider no longer returns; a refresh must purge it.
	stale := &match.Match{ExternalID: 999, LeagueID: 1, HomeTeamID: 1, AwayTeamID: 2,
		KickoffAt: time.Date(2025, 8, 30, 17, 0, 0, 0, time.UTC), Status: match.StatusNotStarted}
	if _, err := matches.Upsert(ctx, stale); err != nil {
		t.Fatalf("seed stale match: %v", err)
	}

	provider := &fakeProvider{
		matches: func(context.Context, MatchQuery) ([]ExternalMatch, error) {
			return []ExternalMatch{{
				ExternalID:         1001,
				Season:             2025,
				HomeTeamExternalID: 50,
				AwayTeamExternalID: 51,
				HomeTeamName:       "Manchester City",
				AwayTeamName:       "Arsenal",
				KickoffAt:          time.Date(2025, 8, 30, 15, 0, 0, 0, time.UTC),
				Status:             match.StatusNotStarted,
			}}, nil
		},
	}

	svc := NewSyncService(provider, leagues, memory.NewTeamRepository(), matches, nil, nil, logging.NewNop(), fixedNow(now))

	summary, err := svc.SyncMatches(ctx, MatchSyncOptions{Date: "2025-08-30", Refresh: true})
	if err != nil {
		t.Fatalf("SyncMatches: %v", err)
	}
	if summary.Created != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if _, err := matches.GetByExternalID(ctx, 999); !errors.Is(err, match.ErrNotFound) {
		t.Fatalf("stale match survived the refresh: %v", err)
	}
	if _, err := matches.GetByExternalID(ctx, 1001); err != nil {
		t.Fatalf("fresh fixture missing: %v", err)
	}
}

func TestSyncSingleMatchByExternalID(t *testing.T) {
	ctx := context.Background()
	leagues := memory.NewLeagueRepository()
	matches := memory.NewMatchRepository()
	if _, err := leagues.Upsert(ctx, &league.League{ExternalID: 39, Name: "Premier League", Country: "England", Season: 2025}); err != nil {
		t.Fatalf("seed league: %v", err)
	}

	provider := &fakeProvider{
		matches: func(_ context.Context, q MatchQuery) ([]ExternalMatch, error) {
			if q.MatchExternalID != 1001 {
				t.Fatalf("unexpected query: %+v", q)
			}
			return []ExternalMatch{{
				ExternalID:         1001,
				LeagueExternalID:   39,
				Season:             2025,
				HomeTeamExternalID: 50,
				AwayTeamExternalID: 51,
				HomeTeamName:       "Manchester City",
				AwayTeamName:       "Arsenal",
				KickoffAt:          time.Date(2025, 8, 30, 15, 0, 0, 0, time.UTC),
				Status:             match.StatusNotStarted,
			}}, nil
		},
	}

	svc := NewSyncService(provider, leagues, memory.NewTeamRepository(), matches, nil, nil, logging.NewNop(), nil)

	summary, err := svc.SyncMatches(ctx, MatchSyncOptions{MatchExternalID: 1001})
	if err != nil {
		t.Fatalf("SyncMatches: %v", err)
	}
	if summary.Created != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if _, err := matches.GetByExternalID(ctx, 1001); err != nil {
		t.Fatalf("fixture missing: %v", err)
	}
}

func TestSyncMatchesSeasonFallback(t *testing.T) {
	ctx := context.Background()
	leagues := memory.NewLeagueRepository()
	matches := memory.NewMatchRepository()
	if _, err := leagues.Upsert(ctx, &league.League{ExternalID: 39, Name: "Premier League", Country: "England", Season: 2025}); err != nil {
		t.Fatalf("seed league: %v", err)
	}

	var requested []int
	provider := &fakeProvider{
		matches: func(_ context.Context, q MatchQuery) ([]ExternalMatch, error) {
			requested = append(requested, q.Season)
			if q.Season == 2025 {
				return nil, nil
			}
			return []ExternalMatch{{
				ExternalID:         1001,
				Season:             2024,
				HomeTeamExternalID: 50,
				AwayTeamExternalID: 51,
				HomeTeamName:       "Manchester City",
				AwayTeamName:       "Arsenal",
				KickoffAt:          time.Date(2025, 5, 25, 15, 0, 0, 0, time.UTC),
				Status:             match.StatusFullTime,
			}}, nil
		},
	}

	svc := NewSyncService(provider, leagues, memory.NewTeamRepository(), matches, nil, nil, logging.NewNop(), nil)

	summary, err := svc.SyncMatches(ctx, MatchSyncOptions{})
	if err != nil {
		t.Fatalf("SyncMatches: %v", err)
	}
	if summary.Created != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(requested) != 2 || requested[0] != 2025 || requested[1] != 2024 {
		t.Fatalf("unexpected season requests: %v", requested)
	}

	stored, err := matches.GetByExternalID(ctx, 1001)
	if err != nil {
		t.Fatalf("fallback fixture not stored: %v", err)
	}
	if stored.Season != 2024 {
		t.Fatalf("fixture recorded under season %d, want 2024", stored.Season)
	}
}

func TestSyncMatchesSkipsMalformedItem(t *testing.T) {
	ctx := context.Background()
	leagues := memory.NewLeagueRepository()
	matches := memory.NewMatchRepository()
	if _, err := leagues.Upsert(ctx, &league.League{ExternalID: 39, Name: "Premier League", Country: "England", Season: 2025}); err != nil {
		t.Fatalf("seed league: %v", err)
	}

	kickoff := time.Date(2025, 8, 30, 15, 0, 0, 0, time.UTC)
	item := func(externalID, homeID int64) ExternalMatch {
		return ExternalMatch{
			ExternalID:         externalID,
			Season:             2025,
			HomeTeamExternalID: homeID,
			AwayTeamExternalID: 51,
			HomeTeamName:       "Manchester City",
			AwayTeamName:       "Arsenal",
			KickoffAt:          kickoff,
			Status:             match.StatusNotStarted,
		}
	}
	provider := &fakeProvider{
		matches: func(context.Context, MatchQuery) ([]ExternalMatch, error) {
			// The middle item carries no home team id.
			return []ExternalMatch{item(3001, 50), item(3002, 0), item(3003, 52)}, nil
		},
	}

	svc := NewSyncService(provider, leagues, memory.NewTeamRepository(), matches, nil, nil, logging.NewNop(), nil)

	summary, err := svc.SyncMatches(ctx, MatchSyncOptions{})
	if err != nil {
		t.Fatalf("SyncMatches: %v", err)
	}
	if summary.Created != 2 || summary.Failed != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	for _, id := range []int64{3001, 3003} {
		if _, err := matches.GetByExternalID(ctx, id); err != nil {
			t.Fatalf("sibling fixture %d missing: %v", id, err)
		}
	}
	if _, err := matches.GetByExternalID(ctx, 3002); !errors.Is(err, match.ErrNotFound) {
		t.Fatalf("malformed fixture stored anyway: %v", err)
	}
}

func TestSyncMatchesWindowDrivesQueryAndPurge(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC)
	leagues := memory.NewLeagueRepository()
	matches := memory.NewMatchRepository()
	if _, err := leagues.Upsert(ctx, &league.League{ExternalID: 39, Name: "Premier League", Country: "England", Season: 2025}); err != nil {
		t.Fatalf("seed league: %v", err)
	}

	// One fixture inside the purge window, one just before it.
	inWindow := &match.Match{ExternalID: 901, LeagueID: 1, HomeTeamID: 1, AwayTeamID: 2,
		KickoffAt: time.Date(2025, 8, 29, 1, 0, 0, 0, time.UTC), Status: match.StatusFullTime}
	beforeWindow := &match.Match{ExternalID: 902, LeagueID: 1, HomeTeamID: 1, AwayTeamID: 2,
		KickoffAt: time.Date(2025, 8, 28, 23, 0, 0, 0, time.UTC), Status: match.StatusFullTime}
	for _, m := range []*match.Match{inWindow, beforeWindow} {
		if _, err := matches.Upsert(ctx, m); err != nil {
			t.Fatalf("seed match: %v", err)
		}
	}

	var gotQuery MatchQuery
	provider := &fakeProvider{
		matches: func(_ context.Context, q MatchQuery) ([]ExternalMatch, error) {
			gotQuery = q
			return nil, nil
		},
	}

	svc := NewSyncService(provider, leagues, memory.NewTeamRepository(), matches, nil, nil, logging.NewNop(), fixedNow(now))

	if _, err := svc.SyncMatches(ctx, MatchSyncOptions{LastDays: 1, NextDays: 7, Refresh: true}); err != nil {
		t.Fatalf("SyncMatches: %v", err)
	}

	if gotQuery.FromDate != "2025-08-29" || gotQuery.ToDate != "2025-09-06" {
		t.Fatalf("unexpected query window: from=%q to=%q", gotQuery.FromDate, gotQuery.ToDate)
	}
	if _, err := matches.GetByExternalID(ctx, 901); !errors.Is(err, match.ErrNotFound) {
		t.Fatalf("in-window fixture survived the purge: %v", err)
	}
	if _, err := matches.GetByExternalID(ctx, 902); err != nil {
		t.Fatalf("fixture outside the refetch window was purged: %v", err)
	}
}

func TestSeasonForHeuristic(t *testing.T) {
	svc := NewSyncService(&fakeProvider{}, memory.NewLeagueRepository(), memory.NewTeamRepository(), memory.NewMatchRepository(), nil, nil, logging.NewNop(),
		fixedNow(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))

	if got := svc.seasonFor(league.League{Season: 2024}); got != 2024 {
		t.Fatalf("stored season ignored: %d", got)
	}
	if got := svc.seasonFor(league.League{}); got != 2025 {
		t.Fatalf("pre-July season guess: got %d, want 2025", got)
	}

	svc.now = fixedNow(time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))
	if got := svc.seasonFor(league.League{}); got != 2026 {
		t.Fatalf("post-July season guess: got %d, want 2026", got)
	}
}
