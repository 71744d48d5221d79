package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/event"
	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/match"
)

// fakeProvider implements SportDataProvider with per-call hooks. Unset hooks
// return empty results.
type fakeProvider struct {
	leagues    func(ctx context.Context) ([]ExternalLeague, error)
	teams      func(ctx context.Context, leagueExternalID int64, season int) ([]ExternalTeam, error)
	matches    func(ctx context.Context, q MatchQuery) ([]ExternalMatch, error)
	live       func(ctx context.Context) ([]ExternalMatch, error)
	events     func(ctx context.Context, matchExternalID int64) ([]ExternalEvent, error)
	lineups    func(ctx context.Context, matchExternalID int64) ([]ExternalLineup, error)
	statistics func(ctx context.Context, matchExternalID int64) ([]ExternalStatistic, error)
}

func (f *fakeProvider) FetchLeagues(ctx context.Context) ([]ExternalLeague, error) {
	if f.leagues == nil {
		return nil, nil
	}
	return f.leagues(ctx)
}

func (f *fakeProvider) FetchTeams(ctx context.Context, leagueExternalID int64, season int) ([]ExternalTeam, error) {
	if f.teams == nil {
		return nil, nil
	}
	return f.teams(ctx, leagueExternalID, season)
}

func (f *fakeProvider) FetchMatches(ctx context.Context, q MatchQuery) ([]ExternalMatch, error) {
	if f.matches == nil {
		return nil, nil
	}
	return f.matches(ctx, q)
}

func (f *fakeProvider) FetchLiveMatches(ctx context.Context) ([]ExternalMatch, error) {
	if f.live == nil {
		return nil, nil
	}
	return f.live(ctx)
}

func (f *fakeProvider) FetchEvents(ctx context.Context, matchExternalID int64) ([]ExternalEvent, error) {
	if f.events == nil {
		return nil, nil
	}
	return f.events(ctx, matchExternalID)
}

func (f *fakeProvider) FetchLineups(ctx context.Context, matchExternalID int64) ([]ExternalLineup, error) {
	if f.lineups == nil {
		return nil, nil
	}
	return f.lineups(ctx, matchExternalID)
}

func (f *fakeProvider) FetchStatistics(ctx context.Context, matchExternalID int64) ([]ExternalStatistic, error) {
	if f.statistics == nil {
		return nil, nil
	}
	return f.statistics(ctx, matchExternalID)
}

// fakeNotifier records every notification the services raise.
type fakeNotifier struct {
	mu      sync.Mutex
	events  []event.Event
	starts  []int64
	lineups []int64
}

func (f *fakeNotifier) NotifyEvent(_ context.Context, m *match.Match, e event.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
	return nil
}

func (f *fakeNotifier) NotifyMatchStart(_ context.Context, m *match.Match) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.starts = append(f.starts, m.ID)
	return nil
}

func (f *fakeNotifier) NotifyLineup(_ context.Context, m *match.Match) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lineups = append(f.lineups, m.ID)
	return nil
}

func (f *fakeNotifier) eventCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

func (f *fakeNotifier) startCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.starts)
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
