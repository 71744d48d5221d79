package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/analysis"
	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/event"
	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/lineup"
	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/match"
	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/statistic"
	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/team"
	"github.com/EsatCanStudent/UpdatedScores2/internal/platform/cache"
	"github.com/EsatCanStudent/UpdatedScores2/internal/platform/logging"
)

// MatchData is the assembled read model for one match page.
type MatchData struct {
	Match    match.Match       `json:"match"`
	HomeTeam team.Team         `json:"homeTeam"`
	AwayTeam team.Team         `json:"awayTeam"`
	Preview  *analysis.Preview `json:"preview,omitempty"`
	Lineups  []lineup.Lineup   `json:"lineups"`
}

// TeamFormData summarizes a team's recent finished matches.
type TeamFormData struct {
	TeamID        int64    `json:"teamId"`
	Results       []string `json:"results"`
	Wins          int      `json:"wins"`
	Draws         int      `json:"draws"`
	Losses        int      `json:"losses"`
	GoalsFor      int      `json:"goalsFor"`
	GoalsAgainst  int      `json:"goalsAgainst"`
	MatchesPlayed int      `json:"matchesPlayed"`
}

// MatchViewService serves assembled read models through the cache. Writes
// elsewhere invalidate these keys, so a hit is always post-invalidation
// fresh.
type MatchViewService struct {
	matches    match.Repository
	teams      team.Repository
	events     event.Repository
	lineups    lineup.Repository
	statistics statistic.Repository
	previews   analysis.Repository
	cacheStore *cache.Store
	logger     *logging.Logger
}

func NewMatchViewService(
	matches match.Repository,
	teams team.Repository,
	events event.Repository,
	lineups lineup.Repository,
	statistics statistic.Repository,
	previews analysis.Repository,
	cacheStore *cache.Store,
	logger *logging.Logger,
) *MatchViewService {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchViewService{
		matches:    matches,
		teams:      teams,
		events:     events,
		lineups:    lineups,
		statistics: statistics,
		previews:   previews,
		cacheStore: cacheStore,
		logger:     logger,
	}
}

func (s *MatchViewService) MatchData(ctx context.Context, matchID int64) (MatchData, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchViewService.MatchData")
	defer span.End()

	if matchID <= 0 {
		return MatchData{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	key := cache.Key(cache.PrefixMatch, matchID)
	value, err := s.cacheStore.GetOrLoad(ctx, key, cache.TTLMedium, func(ctx context.Context) (any, error) {
		return s.loadMatchData(ctx, matchID)
	})
	if err != nil {
		return MatchData{}, err
	}

	data, ok := value.(MatchData)
	if !ok {
		return MatchData{}, fmt.Errorf("unexpected cached value type %T", value)
	}
	return data, nil
}

func (s *MatchViewService) loadMatchData(ctx context.Context, matchID int64) (MatchData, error) {
	m, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, match.ErrNotFound) {
			return MatchData{}, fmt.Errorf("%w: match=%d", ErrNotFound, matchID)
		}
		return MatchData{}, fmt.Errorf("load match: %w", err)
	}

	data := MatchData{Match: *m}

	if t, err := s.teams.GetByID(ctx, m.HomeTeamID); err == nil {
		data.HomeTeam = *t
	}
	if t, err := s.teams.GetByID(ctx, m.AwayTeamID); err == nil {
		data.AwayTeam = *t
	}
	if p, err := s.previews.GetByMatch(ctx, matchID); err == nil {
		data.Preview = p
	}

	lineups, err := s.lineups.ListByMatch(ctx, matchID)
	if err != nil {
		return MatchData{}, fmt.Errorf("load lineups: %w", err)
	}
	data.Lineups = lineups
	return data, nil
}

func (s *MatchViewService) Timeline(ctx context.Context, matchID int64) ([]event.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchViewService.Timeline")
	defer span.End()

	if matchID <= 0 {
		return nil, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	key := cache.Key(cache.PrefixTimeline, matchID)
	value, err := s.cacheStore.GetOrLoad(ctx, key, cache.TTLMedium, func(ctx context.Context) (any, error) {
		return s.events.ListByMatch(ctx, matchID)
	})
	if err != nil {
		return nil, err
	}

	events, ok := value.([]event.Event)
	if !ok {
		return nil, fmt.Errorf("unexpected cached value type %T", value)
	}
	return events, nil
}

func (s *MatchViewService) Stats(ctx context.Context, matchID int64) ([]statistic.Statistic, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchViewService.Stats")
	defer span.End()

	if matchID <= 0 {
		return nil, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	key := cache.Key(cache.PrefixStats, matchID)
	value, err := s.cacheStore.GetOrLoad(ctx, key, cache.TTLMedium, func(ctx context.Context) (any, error) {
		return s.statistics.ListByMatch(ctx, matchID)
	})
	if err != nil {
		return nil, err
	}

	stats, ok := value.([]statistic.Statistic)
	if !ok {
		return nil, fmt.Errorf("unexpected cached value type %T", value)
	}
	return stats, nil
}

func (s *MatchViewService) TeamForm(ctx context.Context, teamID int64, limit int) (TeamFormData, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchViewService.TeamForm")
	defer span.End()

	if teamID <= 0 {
		return TeamFormData{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}
	if limit <= 0 {
		limit = 5
	}

	// Form shifts with every finished match, so it lives on the short tier.
	key := cache.HashKey(cache.PrefixTeamForm, map[string]any{"team": teamID, "limit": limit})
	value, err := s.cacheStore.GetOrLoad(ctx, key, cache.TTLShort, func(ctx context.Context) (any, error) {
		return s.loadTeamForm(ctx, teamID, limit)
	})
	if err != nil {
		return TeamFormData{}, err
	}

	form, ok := value.(TeamFormData)
	if !ok {
		return TeamFormData{}, fmt.Errorf("unexpected cached value type %T", value)
	}
	return form, nil
}

func (s *MatchViewService) loadTeamForm(ctx context.Context, teamID int64, limit int) (TeamFormData, error) {
	recent, err := s.matches.ListFinishedByTeam(ctx, teamID, limit)
	if err != nil {
		return TeamFormData{}, fmt.Errorf("load team form: %w", err)
	}

	form := TeamFormData{TeamID: teamID, Results: make([]string, 0, len(recent))}
	for _, m := range recent {
		forGoals, againstGoals := m.HomeScore, m.AwayScore
		if m.AwayTeamID == teamID {
			forGoals, againstGoals = againstGoals, forGoals
		}
		form.GoalsFor += forGoals
		form.GoalsAgainst += againstGoals
		form.MatchesPlayed++
		switch {
		case forGoals > againstGoals:
			form.Wins++
			form.Results = append(form.Results, "W")
		case forGoals == againstGoals:
			form.Draws++
			form.Results = append(form.Results, "D")
		default:
			form.Losses++
			form.Results = append(form.Results, "L")
		}
	}
	return form, nil
}
