package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/event"
	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/match"
	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/notification"
	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/player"
	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/profile"
	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/team"
	"github.com/EsatCanStudent/UpdatedScores2/internal/platform/logging"
)

const (
	defaultPoolSize  = 16
	upcomingWindow   = time.Hour
	defaultListLimit = 50
	// maxStartNotified bounds the once-per-match kickoff guard. The set is
	// dropped wholesale at the bound; a rare duplicate alert beats growth.
	maxStartNotified = 1000
)

// EmailSender delivers a rendered notification over email.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// PushSender delivers to a device push token.
type PushSender interface {
	SendPush(ctx context.Context, token, title, body string) error
}

// NotificationService fans one match happening out to every opted-in
// follower. The audit record is written before any delivery attempt, so a
// crashed delivery leaves a record with an empty sent timestamp rather
// than no trace.
type NotificationService struct {
	profiles      profile.Repository
	notifications notification.Repository
	teams         team.Repository
	players       player.Repository
	email         EmailSender
	push          PushSender
	pool          *ants.Pool
	logger        *logging.Logger
	now           func() time.Time

	mu            sync.Mutex
	startNotified map[int64]struct{}
}

func NewNotificationService(
	profiles profile.Repository,
	notifications notification.Repository,
	teams team.Repository,
	players player.Repository,
	email EmailSender,
	push PushSender,
	poolSize int,
	logger *logging.Logger,
	now func() time.Time,
) (*NotificationService, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if now == nil {
		now = time.Now
	}
	if poolSize <= 0 {
		poolSize = defaultPoolSize
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, fmt.Errorf("create delivery pool: %w", err)
	}

	return &NotificationService{
		profiles:      profiles,
		notifications: notifications,
		teams:         teams,
		players:       players,
		email:         email,
		push:          push,
		pool:          pool,
		logger:        logger,
		now:           now,
		startNotified: make(map[int64]struct{}),
	}, nil
}

func (s *NotificationService) Close() {
	s.pool.Release()
}

// Dispatch persists and delivers one notification to every follower of the
// match who opted in to the kind.
func (s *NotificationService) Dispatch(ctx context.Context, m *match.Match, kind notification.Kind, title, body string) error {
	if m == nil {
		return fmt.Errorf("%w: match is required", ErrInvalidInput)
	}
	return s.dispatchTo(ctx, m, profile.Audience{
		LeagueID:   m.LeagueID,
		HomeTeamID: m.HomeTeamID,
		AwayTeamID: m.AwayTeamID,
	}, kind, title, body)
}

func (s *NotificationService) dispatchTo(ctx context.Context, m *match.Match, a profile.Audience, kind notification.Kind, title, body string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.NotificationService.Dispatch")
	defer span.End()

	audience, err := s.profiles.ListForAudience(ctx, a)
	if err != nil {
		return fmt.Errorf("dispatch: load audience: %w", err)
	}

	var wg sync.WaitGroup
	for _, p := range audience {
		if !p.Wants(kind) {
			continue
		}

		record := &notification.Notification{
			UserID:   p.UserID,
			MatchID:  m.ID,
			Kind:     kind,
			Title:    title,
			Body:     body,
			Delivery: p.Delivery,
		}
		// Audit first. If delivery never happens the record still shows
		// what should have gone out.
		if err := s.notifications.Create(ctx, record); err != nil {
			s.logger.ErrorContext(ctx, "persist notification failed", "user_id", p.UserID, "error", err)
			continue
		}

		p := p
		wg.Add(1)
		submitErr := s.pool.Submit(func() {
			defer wg.Done()
			s.deliver(ctx, record, p)
		})
		if submitErr != nil {
			wg.Done()
			s.logger.ErrorContext(ctx, "submit delivery failed", "user_id", p.UserID, "error", submitErr)
		}
	}
	wg.Wait()
	return nil
}

func (s *NotificationService) deliver(ctx context.Context, record *notification.Notification, p profile.Profile) {
	var delivered bool

	if p.Delivery == notification.DeliveryEmail || p.Delivery == notification.DeliveryBoth {
		if s.email != nil && p.Email != "" {
			if err := s.email.SendEmail(ctx, p.Email, record.Title, record.Body); err != nil {
				s.logger.ErrorContext(ctx, "email delivery failed", "user_id", p.UserID, "error", err)
			} else {
				delivered = true
			}
		}
	}
	if p.Delivery == notification.DeliveryPush || p.Delivery == notification.DeliveryBoth {
		if s.push != nil && p.PushToken != "" {
			if err := s.push.SendPush(ctx, p.PushToken, record.Title, record.Body); err != nil {
				s.logger.ErrorContext(ctx, "push delivery failed", "user_id", p.UserID, "error", err)
			} else {
				delivered = true
			}
		}
	}

	if delivered {
		if err := s.notifications.MarkSent(ctx, record.ID, s.now()); err != nil {
			s.logger.ErrorContext(ctx, "mark sent failed", "notification_id", record.ID, "error", err)
		}
	}
}

// NotifyEvent implements LiveEventNotifier for goals and red cards.
func (s *NotificationService) NotifyEvent(ctx context.Context, m *match.Match, e event.Event) error {
	var kind notification.Kind
	switch e.Kind {
	case event.KindGoal:
		kind = notification.KindGoal
	case event.KindRedCard:
		kind = notification.KindRedCard
	default:
		return nil
	}

	home, away := s.teamNames(ctx, m)
	title := fmt.Sprintf("%s %d-%d %s", home, m.HomeScore, m.AwayScore, away)
	var body string
	switch kind {
	case notification.KindGoal:
		body = fmt.Sprintf("Goal! %s scores in the %d'", e.PlayerName, e.Minute)
	case notification.KindRedCard:
		body = fmt.Sprintf("Red card for %s in the %d'", e.PlayerName, e.Minute)
	}

	return s.dispatchTo(ctx, m, profile.Audience{
		LeagueID:   m.LeagueID,
		HomeTeamID: m.HomeTeamID,
		AwayTeamID: m.AwayTeamID,
		PlayerID:   s.resolvePlayerID(ctx, e.PlayerID),
	}, kind, title, body)
}

// resolvePlayerID maps the event's provider player id onto our internal id
// so player followers can be included. Unknown players drop the criterion.
func (s *NotificationService) resolvePlayerID(ctx context.Context, externalID int64) int64 {
	if externalID <= 0 || s.players == nil {
		return 0
	}
	p, err := s.players.GetByExternalID(ctx, externalID)
	if err != nil {
		return 0
	}
	return p.ID
}

// NotifyMatchStart implements LiveEventNotifier.
func (s *NotificationService) NotifyMatchStart(ctx context.Context, m *match.Match) error {
	home, away := s.teamNames(ctx, m)
	title := fmt.Sprintf("%s vs %s has kicked off", home, away)
	return s.Dispatch(ctx, m, notification.KindMatchStart, title, "The match is underway.")
}

// NotifyLineup announces a first-published team sheet.
func (s *NotificationService) NotifyLineup(ctx context.Context, m *match.Match) error {
	home, away := s.teamNames(ctx, m)
	title := fmt.Sprintf("Lineups out: %s vs %s", home, away)
	return s.Dispatch(ctx, m, notification.KindLineup, title, "Starting lineups have been announced.")
}

// CheckUpcomingMatches warns followers once per match when kickoff is
// inside the upcoming window.
func (s *NotificationService) CheckUpcomingMatches(ctx context.Context, matches match.Repository) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.NotificationService.CheckUpcomingMatches")
	defer span.End()

	now := s.now()
	upcoming, err := matches.ListByKickoffRange(ctx, now, now.Add(upcomingWindow))
	if err != nil {
		return fmt.Errorf("check upcoming: %w", err)
	}

	for i := range upcoming {
		m := &upcoming[i]
		if !m.IsScheduled() {
			continue
		}
		if !s.markStartNotified(m.ID) {
			continue
		}

		home, away := s.teamNames(ctx, m)
		title := fmt.Sprintf("%s vs %s starts soon", home, away)
		body := fmt.Sprintf("Kickoff at %s.", m.KickoffAt.Format("15:04"))
		if err := s.Dispatch(ctx, m, notification.KindMatchStart, title, body); err != nil {
			s.logger.ErrorContext(ctx, "upcoming dispatch failed", "match_id", m.ID, "error", err)
		}
	}
	return nil
}

// ListByUser returns the user's recent notifications, newest first.
func (s *NotificationService) ListByUser(ctx context.Context, userID int64, limit int) ([]notification.Notification, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NotificationService.ListByUser")
	defer span.End()

	if userID <= 0 {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	return s.notifications.ListByUser(ctx, userID, limit)
}

// MarkRead flags one of the user's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, userID int64, notificationID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.NotificationService.MarkRead")
	defer span.End()

	if userID <= 0 || notificationID == "" {
		return fmt.Errorf("%w: user id and notification id are required", ErrInvalidInput)
	}
	return s.notifications.MarkRead(ctx, notificationID, userID, s.now())
}

func (s *NotificationService) markStartNotified(matchID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.startNotified[matchID]; ok {
		return false
	}
	if len(s.startNotified) >= maxStartNotified {
		s.startNotified = make(map[int64]struct{})
	}
	s.startNotified[matchID] = struct{}{}
	return true
}

func (s *NotificationService) teamNames(ctx context.Context, m *match.Match) (string, string) {
	home, away := "Home", "Away"
	if t, err := s.teams.GetByID(ctx, m.HomeTeamID); err == nil {
		home = t.Name
	}
	if t, err := s.teams.GetByID(ctx, m.AwayTeamID); err == nil {
		away = t.Name
	}
	return home, away
}
