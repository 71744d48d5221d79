package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/event"
	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/match"
	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/player"
	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/team"
	"github.com/EsatCanStudent/UpdatedScores2/internal/platform/cache"
	"github.com/EsatCanStudent/UpdatedScores2/internal/platform/logging"
)

// seenSignatureTTL bounds the in-memory de-dup set. Entries older than the
// longest plausible match (extra time and penalties included) are evicted,
// so the set only ever holds events from matches still in play.
const seenSignatureTTL = 4 * time.Hour

// LiveEventNotifier receives what the monitor observed. Implementations
// decide who gets told and how.
type LiveEventNotifier interface {
	NotifyEvent(ctx context.Context, m *match.Match, e event.Event) error
	NotifyMatchStart(ctx context.Context, m *match.Match) error
}

// LiveMonitorService polls the provider's live feed, folds score and status
// changes into the store, and raises notifications for events it has not
// seen before.
type LiveMonitorService struct {
	provider SportDataProvider
	matches  match.Repository
	players  player.Repository
	teams    team.Repository
	notifier LiveEventNotifier
	cache    *cache.Store
	logger   *logging.Logger

	now func() time.Time

	mu   sync.Mutex
	seen map[string]time.Time
}

func NewLiveMonitorService(
	provider SportDataProvider,
	matches match.Repository,
	players player.Repository,
	teams team.Repository,
	notifier LiveEventNotifier,
	cacheStore *cache.Store,
	logger *logging.Logger,
) *LiveMonitorService {
	if logger == nil {
		logger = logging.Default()
	}
	return &LiveMonitorService{
		provider: provider,
		matches:  matches,
		players:  players,
		teams:    teams,
		notifier: notifier,
		cache:    cacheStore,
		logger:   logger,
		now:      time.Now,
		seen:     make(map[string]time.Time),
	}
}

// RunOnce performs one monitoring pass. Matches are processed concurrently;
// a failure on one match never blocks the others.
func (s *LiveMonitorService) RunOnce(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.LiveMonitorService.RunOnce")
	defer span.End()

	s.evictStaleSignatures()

	live, err := s.provider.FetchLiveMatches(ctx)
	if err != nil {
		return fmt.Errorf("live monitor: fetch live matches: %w", err)
	}
	if len(live) == 0 {
		return nil
	}

	var wg conc.WaitGroup
	for _, em := range live {
		em := em
		wg.Go(func() {
			if err := s.processMatch(ctx, em); err != nil {
				s.logger.ErrorContext(ctx, "live match processing failed",
					"match_external_id", em.ExternalID, "error", err)
			}
		})
	}
	wg.Wait()
	return nil
}

// Run blocks, performing a pass every interval until ctx is cancelled. The
// scheduler normally drives RunOnce instead; Run exists for standalone use.
func (s *LiveMonitorService) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("%w: interval must be positive", ErrInvalidInput)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.RunOnce(ctx); err != nil {
				s.logger.ErrorContext(ctx, "live monitor pass failed", "error", err)
			}
		}
	}
}

func (s *LiveMonitorService) processMatch(ctx context.Context, em ExternalMatch) error {
	stored, err := s.matches.GetByExternalID(ctx, em.ExternalID)
	if err != nil {
		if errors.Is(err, match.ErrNotFound) {
			// Unknown to us; the fixture sync will pick it up.
			s.logger.DebugContext(ctx, "live match not in store", "match_external_id", em.ExternalID)
			return nil
		}
		return fmt.Errorf("load match: %w", err)
	}

	startedNow := stored.IsScheduled() && match.IsLiveStatus(em.Status)
	changed := stored.Status != em.Status ||
		stored.HomeScore != em.HomeScore ||
		stored.AwayScore != em.AwayScore ||
		stored.Elapsed != em.Elapsed

	if changed {
		stored.Status = em.Status
		stored.HomeScore = em.HomeScore
		stored.AwayScore = em.AwayScore
		stored.Elapsed = em.Elapsed
		if err := s.matches.Update(ctx, stored); err != nil {
			return fmt.Errorf("update match: %w", err)
		}
		if s.cache != nil {
			s.cache.InvalidateMatch(ctx, stored.ID)
		}
	}

	if startedNow && s.notifier != nil {
		if err := s.notifier.NotifyMatchStart(ctx, stored); err != nil {
			s.logger.ErrorContext(ctx, "match start notification failed", "match_id", stored.ID, "error", err)
		}
	}

	return s.processEvents(ctx, stored)
}

func (s *LiveMonitorService) processEvents(ctx context.Context, stored *match.Match) error {
	external, err := s.provider.FetchEvents(ctx, stored.ExternalID)
	if err != nil {
		return fmt.Errorf("fetch events: %w", err)
	}

	for _, item := range external {
		kind := event.KindFromProvider(item.Type, item.Detail)
		if kind != event.KindGoal && kind != event.KindRedCard {
			continue
		}

		e := event.Event{
			MatchID:     stored.ID,
			PlayerID:    item.PlayerExternalID,
			PlayerName:  item.PlayerName,
			Kind:        kind,
			Minute:      item.Minute,
			ExtraMinute: item.ExtraMinute,
			Detail:      item.Detail,
		}
		if !s.markSeen(e.Signature()) {
			continue
		}

		s.ensurePlayerKnown(ctx, stored, item, kind)

		if s.notifier != nil {
			if err := s.notifier.NotifyEvent(ctx, stored, e); err != nil {
				s.logger.ErrorContext(ctx, "event notification failed",
					"match_id", stored.ID, "kind", kind, "error", err)
			}
		}
	}
	return nil
}

// ensurePlayerKnown backfills a minimal player row when the live feed names
// someone we have not synced. Position is guessed from what they just did.
func (s *LiveMonitorService) ensurePlayerKnown(ctx context.Context, m *match.Match, item ExternalEvent, kind event.Kind) {
	if item.PlayerExternalID <= 0 || item.PlayerName == "" {
		return
	}
	if _, err := s.players.GetByExternalID(ctx, item.PlayerExternalID); err == nil {
		return
	} else if !errors.Is(err, player.ErrNotFound) {
		s.logger.WarnContext(ctx, "player lookup failed", "player_external_id", item.PlayerExternalID, "error", err)
		return
	}

	position := player.PositionMidfielder
	switch kind {
	case event.KindGoal:
		position = player.PositionForward
	case event.KindRedCard:
		position = player.PositionDefender
	}

	teamID := int64(0)
	if t, err := s.teams.GetByExternalID(ctx, item.TeamExternalID); err == nil {
		teamID = t.ID
	}

	p := &player.Player{
		ExternalID: item.PlayerExternalID,
		Name:       item.PlayerName,
		Position:   position,
		TeamID:     teamID,
	}
	if _, err := s.players.Upsert(ctx, p); err != nil {
		s.logger.WarnContext(ctx, "backfill player failed", "player_external_id", item.PlayerExternalID, "error", err)
	}
}

// markSeen records the signature and reports whether it was new.
func (s *LiveMonitorService) markSeen(signature string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.seen[signature]; ok {
		return false
	}
	s.seen[signature] = s.now()
	return true
}

func (s *LiveMonitorService) evictStaleSignatures() {
	cutoff := s.now().Add(-seenSignatureTTL)

	s.mu.Lock()
	defer s.mu.Unlock()
	for signature, observedAt := range s.seen {
		if observedAt.Before(cutoff) {
			delete(s.seen, signature)
		}
	}
}

// SeenCount is exposed for observability.
func (s *LiveMonitorService) SeenCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}
