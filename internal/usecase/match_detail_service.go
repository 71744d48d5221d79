package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/event"
	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/lineup"
	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/match"
	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/player"
	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/statistic"
	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/team"
	"github.com/EsatCanStudent/UpdatedScores2/internal/platform/cache"
	"github.com/EsatCanStudent/UpdatedScores2/internal/platform/logging"
)

// finishedLookback is how far back a finished match still gets its events
// and statistics refreshed; provider corrections land within this window.
const finishedLookback = 4 * time.Hour

// lineupLookahead is how close to kickoff a scheduled match must be before
// its sheets are worth polling.
const lineupLookahead = time.Hour

// LineupNotifier is told when a match's sheets first become available.
type LineupNotifier interface {
	NotifyLineup(ctx context.Context, m *match.Match) error
}

// MatchDetailService keeps per-match payloads fresh: timeline events,
// team sheets, and statistics.
type MatchDetailService struct {
	provider   SportDataProvider
	matches    match.Repository
	events     event.Repository
	lineups    lineup.Repository
	statistics statistic.Repository
	teams      team.Repository
	cacheStore *cache.Store
	notifier   LineupNotifier
	logger     *logging.Logger
	now        func() time.Time
}

func NewMatchDetailService(
	provider SportDataProvider,
	matches match.Repository,
	events event.Repository,
	lineups lineup.Repository,
	statistics statistic.Repository,
	teams team.Repository,
	cacheStore *cache.Store,
	notifier LineupNotifier,
	logger *logging.Logger,
	now func() time.Time,
) *MatchDetailService {
	if logger == nil {
		logger = logging.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &MatchDetailService{
		provider:   provider,
		matches:    matches,
		events:     events,
		lineups:    lineups,
		statistics: statistics,
		teams:      teams,
		cacheStore: cacheStore,
		notifier:   notifier,
		logger:     logger,
		now:        now,
	}
}

// SyncEvents replaces the stored timeline for every live or just-finished
// match with the provider's current view.
func (s *MatchDetailService) SyncEvents(ctx context.Context) (SyncSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchDetailService.SyncEvents")
	defer span.End()

	var summary SyncSummary

	candidates, err := s.activeMatches(ctx)
	if err != nil {
		return summary, fmt.Errorf("sync events: %w", err)
	}

	for _, m := range candidates {
		external, err := s.provider.FetchEvents(ctx, m.ExternalID)
		if err != nil {
			summary.Failed++
			s.logger.ErrorContext(ctx, "fetch events failed", "match_id", m.ID, "error", err)
			continue
		}

		mapped := make([]event.Event, 0, len(external))
		for _, item := range external {
			teamID, err := s.lookupTeamID(ctx, item.TeamExternalID)
			if err != nil {
				s.logger.WarnContext(ctx, "event team unknown", "match_id", m.ID, "team_external_id", item.TeamExternalID)
			}
			mapped = append(mapped, event.Event{
				MatchID:     m.ID,
				TeamID:      teamID,
				PlayerID:    item.PlayerExternalID,
				PlayerName:  item.PlayerName,
				AssistID:    item.AssistExternalID,
				AssistName:  item.AssistName,
				Kind:        event.KindFromProvider(item.Type, item.Detail),
				Minute:      item.Minute,
				ExtraMinute: item.ExtraMinute,
				Detail:      item.Detail,
				Comments:    item.Comments,
			})
		}

		if err := s.events.ReplaceForMatch(ctx, m.ID, mapped); err != nil {
			summary.Failed++
			s.logger.ErrorContext(ctx, "replace events failed", "match_id", m.ID, "error", err)
			continue
		}
		summary.Updated++
		if s.cacheStore != nil {
			s.cacheStore.InvalidateMatch(ctx, m.ID)
		}
	}

	s.logger.InfoContext(ctx, "event sync finished", "matches", len(candidates), "updated", summary.Updated, "failed", summary.Failed)
	return summary, nil
}

// SyncLineups pulls team sheets for matches close to kickoff and live ones.
// Sheets published before kickoff change (late scratches), so each poll
// replaces the stored version.
func (s *MatchDetailService) SyncLineups(ctx context.Context) (SyncSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchDetailService.SyncLineups")
	defer span.End()

	var summary SyncSummary
	now := s.now()

	upcoming, err := s.matches.ListByKickoffRange(ctx, now, now.Add(lineupLookahead))
	if err != nil {
		return summary, fmt.Errorf("sync lineups: list upcoming: %w", err)
	}
	live, err := s.matches.ListLive(ctx)
	if err != nil {
		return summary, fmt.Errorf("sync lineups: list live: %w", err)
	}
	candidates := dedupeMatches(append(upcoming, live...))

	for _, m := range candidates {
		external, err := s.provider.FetchLineups(ctx, m.ExternalID)
		if err != nil {
			summary.Failed++
			s.logger.ErrorContext(ctx, "fetch lineups failed", "match_id", m.ID, "error", err)
			continue
		}
		if len(external) == 0 {
			summary.Skipped++
			continue
		}

		mapped := make([]lineup.Lineup, 0, len(external))
		for _, item := range external {
			teamID, err := s.lookupTeamID(ctx, item.TeamExternalID)
			if err != nil {
				s.logger.WarnContext(ctx, "lineup team unknown", "match_id", m.ID, "team_external_id", item.TeamExternalID)
			}
			l := lineup.Lineup{
				TeamID:    teamID,
				Formation: item.Formation,
				CoachName: item.CoachName,
			}
			for _, lp := range item.Starters {
				l.Players = append(l.Players, mapLineupPlayer(lp, true))
			}
			for _, lp := range item.Substitutes {
				l.Players = append(l.Players, mapLineupPlayer(lp, false))
			}
			mapped = append(mapped, l)
		}

		previous, err := s.lineups.ListByMatch(ctx, m.ID)
		if err != nil {
			summary.Failed++
			s.logger.ErrorContext(ctx, "list existing lineups failed", "match_id", m.ID, "error", err)
			continue
		}

		if err := s.lineups.ReplaceForMatch(ctx, m.ID, mapped); err != nil {
			summary.Failed++
			s.logger.ErrorContext(ctx, "replace lineups failed", "match_id", m.ID, "error", err)
			continue
		}
		summary.Updated++
		if s.cacheStore != nil {
			s.cacheStore.InvalidateMatch(ctx, m.ID)
		}

		if len(previous) == 0 && s.notifier != nil {
			m := m
			if err := s.notifier.NotifyLineup(ctx, &m); err != nil {
				s.logger.ErrorContext(ctx, "lineup notification failed", "match_id", m.ID, "error", err)
			}
		}
	}

	s.logger.InfoContext(ctx, "lineup sync finished", "matches", len(candidates), "updated", summary.Updated, "failed", summary.Failed)
	return summary, nil
}

// SyncStatistics refreshes match statistics for live and just-finished
// matches.
func (s *MatchDetailService) SyncStatistics(ctx context.Context) (SyncSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchDetailService.SyncStatistics")
	defer span.End()

	var summary SyncSummary

	candidates, err := s.activeMatches(ctx)
	if err != nil {
		return summary, fmt.Errorf("sync statistics: %w", err)
	}

	for _, m := range candidates {
		external, err := s.provider.FetchStatistics(ctx, m.ExternalID)
		if err != nil {
			summary.Failed++
			s.logger.ErrorContext(ctx, "fetch statistics failed", "match_id", m.ID, "error", err)
			continue
		}
		if len(external) == 0 {
			summary.Skipped++
			continue
		}

		mapped := make([]statistic.Statistic, 0, len(external))
		for _, item := range external {
			teamID, err := s.lookupTeamID(ctx, item.TeamExternalID)
			if err != nil {
				s.logger.WarnContext(ctx, "statistic team unknown", "match_id", m.ID, "team_external_id", item.TeamExternalID)
			}
			mapped = append(mapped, statistic.Statistic{
				TeamID: teamID,
				Name:   item.Name,
				Value:  item.Value,
			})
		}

		if err := s.statistics.ReplaceForMatch(ctx, m.ID, mapped); err != nil {
			summary.Failed++
			s.logger.ErrorContext(ctx, "replace statistics failed", "match_id", m.ID, "error", err)
			continue
		}
		summary.Updated++
		if s.cacheStore != nil {
			s.cacheStore.InvalidateMatch(ctx, m.ID)
		}
	}

	s.logger.InfoContext(ctx, "statistic sync finished", "matches", len(candidates), "updated", summary.Updated, "failed", summary.Failed)
	return summary, nil
}

// activeMatches is the union of live matches and those that kicked off
// inside the finished-lookback window.
func (s *MatchDetailService) activeMatches(ctx context.Context) ([]match.Match, error) {
	live, err := s.matches.ListLive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list live matches: %w", err)
	}

	now := s.now()
	recent, err := s.matches.ListByKickoffRange(ctx, now.Add(-finishedLookback), now)
	if err != nil {
		return nil, fmt.Errorf("list recent matches: %w", err)
	}

	merged := make([]match.Match, 0, len(live)+len(recent))
	merged = append(merged, live...)
	for _, m := range recent {
		if m.IsFinished() {
			merged = append(merged, m)
		}
	}
	return dedupeMatches(merged), nil
}

func (s *MatchDetailService) lookupTeamID(ctx context.Context, externalID int64) (int64, error) {
	if externalID <= 0 {
		return 0, fmt.Errorf("%w: team external id is required", ErrInvalidInput)
	}
	t, err := s.teams.GetByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, team.ErrNotFound) {
			return 0, err
		}
		return 0, fmt.Errorf("lookup team: %w", err)
	}
	return t.ID, nil
}

func mapLineupPlayer(lp ExternalLineupPlayer, starting bool) lineup.Player {
	return lineup.Player{
		PlayerExternalID: lp.ExternalID,
		Name:             lp.Name,
		Number:           lp.Number,
		Position:         player.PositionFromProvider(lp.PositionCode),
		Grid:             lp.Grid,
		Starting:         starting,
	}
}

func dedupeMatches(matches []match.Match) []match.Match {
	seen := make(map[int64]struct{}, len(matches))
	out := make([]match.Match, 0, len(matches))
	for _, m := range matches {
		if _, ok := seen[m.ID]; ok {
			continue
		}
		seen[m.ID] = struct{}{}
		out = append(out, m)
	}
	return out
}
