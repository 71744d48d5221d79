// Package app wires configuration, storage, the provider client, and the
// job schedule into a runnable service.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/EsatCanStudent/UpdatedScores2/external/apifootball"
	"github.com/EsatCanStudent/UpdatedScores2/internal/config"
	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/analysis"
	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/event"
	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/league"
	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/lineup"
	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/match"
	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/notification"
	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/player"
	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/profile"
	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/statistic"
	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/team"
	"github.com/EsatCanStudent/UpdatedScores2/internal/infrastructure/delivery"
	"github.com/EsatCanStudent/UpdatedScores2/internal/infrastructure/repository/memory"
	"github.com/EsatCanStudent/UpdatedScores2/internal/infrastructure/repository/postgres"
	"github.com/EsatCanStudent/UpdatedScores2/internal/platform/cache"
	"github.com/EsatCanStudent/UpdatedScores2/internal/platform/logging"
	"github.com/EsatCanStudent/UpdatedScores2/internal/platform/resilience"
	"github.com/EsatCanStudent/UpdatedScores2/internal/platform/scheduler"
	"github.com/EsatCanStudent/UpdatedScores2/internal/usecase"
)

type repositories struct {
	leagues       league.Repository
	teams         team.Repository
	players       player.Repository
	matches       match.Repository
	events        event.Repository
	lineups       lineup.Repository
	statistics    statistic.Repository
	previews      analysis.Repository
	profiles      profile.Repository
	notifications notification.Repository
}

// App owns every long-lived component. Stop releases them in reverse order
// of construction.
type App struct {
	cfg      config.Config
	logger   *logging.Logger
	db       *sqlx.DB
	registry *scheduler.Registry

	Cache         *cache.Store
	Sync          *usecase.SyncService
	Details       *usecase.MatchDetailService
	Previews      *usecase.PreviewService
	LiveMonitor   *usecase.LiveMonitorService
	Notifications *usecase.NotificationService
	Views         *usecase.MatchViewService

	matches match.Repository
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	repos, db, err := buildRepositories(ctx, cfg)
	if err != nil {
		return nil, err
	}

	cacheStore := cache.NewStore()

	provider := apifootball.NewClient(apifootball.ClientConfig{
		BaseURL: cfg.APIFootballBaseURL,
		APIKey:  cfg.APIFootballKey,
		Timeout: cfg.APIFootballTimeout,
		Logger:  logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.APIFootballCircuitEnabled,
			FailureThreshold: cfg.APIFootballCircuitFailureCount,
			OpenTimeout:      cfg.APIFootballCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.APIFootballCircuitHalfOpenMaxReq,
		},
	})

	var email usecase.EmailSender
	if cfg.SMTPHost != "" {
		email = delivery.NewSMTPEmailSender(delivery.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		}, logger)
	} else {
		email = delivery.NewLogEmailSender(logger)
	}

	var push usecase.PushSender
	if cfg.PushGatewayURL != "" {
		push = delivery.NewWebhookPushSender(cfg.PushGatewayURL, cfg.PushGatewayKey, logger)
	} else {
		push = delivery.NewLogPushSender(logger)
	}

	notifications, err := usecase.NewNotificationService(
		repos.profiles,
		repos.notifications,
		repos.teams,
		repos.players,
		email,
		push,
		cfg.NotificationPoolSize,
		logger,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("build notification service: %w", err)
	}

	syncSvc := usecase.NewSyncService(provider, repos.leagues, repos.teams, repos.matches, cacheStore, cfg.AllowedLeagues, logger, nil)
	detailSvc := usecase.NewMatchDetailService(
		provider,
		repos.matches,
		repos.events,
		repos.lineups,
		repos.statistics,
		repos.teams,
		cacheStore,
		notifications,
		logger,
		nil,
	)
	previewSvc := usecase.NewPreviewService(repos.matches, repos.events, repos.previews, repos.teams, logger, nil)
	liveMonitor := usecase.NewLiveMonitorService(provider, repos.matches, repos.players, repos.teams, notifications, cacheStore, logger)
	views := usecase.NewMatchViewService(
		repos.matches,
		repos.teams,
		repos.events,
		repos.lineups,
		repos.statistics,
		repos.previews,
		cacheStore,
		logger,
	)

	registry, err := scheduler.NewRegistry(logger)
	if err != nil {
		return nil, fmt.Errorf("build scheduler: %w", err)
	}

	a := &App{
		cfg:           cfg,
		logger:        logger,
		db:            db,
		registry:      registry,
		Cache:         cacheStore,
		Sync:          syncSvc,
		Details:       detailSvc,
		Previews:      previewSvc,
		LiveMonitor:   liveMonitor,
		Notifications: notifications,
		Views:         views,
		matches:       repos.matches,
	}
	if err := a.registerJobs(); err != nil {
		return nil, err
	}
	return a, nil
}

func buildRepositories(ctx context.Context, cfg config.Config) (repositories, *sqlx.DB, error) {
	if cfg.StorageDriver == config.StorageMemory {
		return repositories{
			leagues:       memory.NewLeagueRepository(),
			teams:         memory.NewTeamRepository(),
			players:       memory.NewPlayerRepository(),
			matches:       memory.NewMatchRepository(),
			events:        memory.NewEventRepository(),
			lineups:       memory.NewLineupRepository(),
			statistics:    memory.NewStatisticRepository(),
			previews:      memory.NewAnalysisRepository(),
			profiles:      memory.NewProfileRepository(),
			notifications: memory.NewNotificationRepository(),
		}, nil, nil
	}

	db, err := postgres.Open(ctx, cfg.DBURL, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns)
	if err != nil {
		return repositories{}, nil, fmt.Errorf("open database: %w", err)
	}

	return repositories{
		leagues:       postgres.NewLeagueRepository(db),
		teams:         postgres.NewTeamRepository(db),
		players:       postgres.NewPlayerRepository(db),
		matches:       postgres.NewMatchRepository(db),
		events:        postgres.NewEventRepository(db),
		lineups:       postgres.NewLineupRepository(db),
		statistics:    postgres.NewStatisticRepository(db),
		previews:      postgres.NewAnalysisRepository(db),
		profiles:      postgres.NewProfileRepository(db),
		notifications: postgres.NewNotificationRepository(db),
	}, db, nil
}

func (a *App) registerJobs() error {
	specs := []scheduler.JobSpec{
		{
			ID:    "match-sync",
			Every: a.cfg.JobMatchSyncInterval,
			Run: func(ctx context.Context) error {
				_, err := a.Sync.SyncMatches(ctx, usecase.MatchSyncOptions{LastDays: 1, NextDays: 7})
				return err
			},
		},
		{
			ID:   "today-matches",
			Cron: a.cfg.JobTodayMatchesCron,
			Run: func(ctx context.Context) error {
				today := time.Now().Format("2006-01-02")
				_, err := a.Sync.SyncMatches(ctx, usecase.MatchSyncOptions{Date: today})
				return err
			},
		},
		{
			ID:   "full-resync",
			Cron: a.cfg.JobFullResyncCron,
			Run: func(ctx context.Context) error {
				if _, err := a.Sync.SyncLeagues(ctx); err != nil {
					return err
				}
				if _, err := a.Sync.SyncTeams(ctx); err != nil {
					return err
				}
				_, err := a.Sync.SyncMatches(ctx, usecase.MatchSyncOptions{LastDays: 7, NextDays: 30, Refresh: true})
				return err
			},
		},
		{
			ID:    "upcoming-check",
			Every: a.cfg.JobUpcomingCheckInterval,
			Run: func(ctx context.Context) error {
				return a.Notifications.CheckUpcomingMatches(ctx, a.matches)
			},
		},
		{
			ID:   "previews",
			Cron: a.cfg.JobPreviewCron,
			Run: func(ctx context.Context) error {
				_, err := a.Previews.SyncPreviews(ctx)
				return err
			},
		},
		{
			ID:    "lineups",
			Every: a.cfg.JobLineupInterval,
			Run: func(ctx context.Context) error {
				_, err := a.Details.SyncLineups(ctx)
				return err
			},
		},
		{
			ID:    "events",
			Every: a.cfg.JobEventInterval,
			Run: func(ctx context.Context) error {
				_, err := a.Details.SyncEvents(ctx)
				return err
			},
		},
		{
			ID:    "statistics",
			Every: a.cfg.JobStatisticInterval,
			Run: func(ctx context.Context) error {
				_, err := a.Details.SyncStatistics(ctx)
				return err
			},
		},
		{
			ID:    "live-monitor",
			Every: a.cfg.JobLiveMonitorInterval,
			Run:   a.LiveMonitor.RunOnce,
		},
	}

	for _, spec := range specs {
		if err := a.registry.Register(spec); err != nil {
			return err
		}
	}
	return nil
}

// TriggerParams narrows a manually triggered job run. Zero values fall back
// to the job's scheduled defaults.
type TriggerParams struct {
	LastDays int
	NextDays int
	Date     string
	MatchID  int64
	// NoDelete keeps stored matches that the provider no longer returns.
	// Manual match syncs purge the requested window first unless it is set.
	NoDelete bool
}

// RunJob invokes one named job immediately, outside the schedule, and
// returns its item summary. Jobs that do not count items return a zero
// summary.
func (a *App) RunJob(ctx context.Context, name string, p TriggerParams) (usecase.SyncSummary, error) {
	switch name {
	case "leagues":
		return a.Sync.SyncLeagues(ctx)
	case "teams":
		return a.Sync.SyncTeams(ctx)
	case "matches":
		opts := usecase.MatchSyncOptions{
			LastDays:        p.LastDays,
			NextDays:        p.NextDays,
			Date:            p.Date,
			MatchExternalID: p.MatchID,
			Refresh:         !p.NoDelete,
		}
		if opts.Date == "" && opts.MatchExternalID == 0 && opts.LastDays == 0 && opts.NextDays == 0 {
			opts.LastDays, opts.NextDays = 1, 7
		}
		return a.Sync.SyncMatches(ctx, opts)
	case "events":
		return a.Details.SyncEvents(ctx)
	case "lineups":
		return a.Details.SyncLineups(ctx)
	case "statistics":
		return a.Details.SyncStatistics(ctx)
	case "previews":
		return a.Previews.SyncPreviews(ctx)
	case "upcoming":
		return usecase.SyncSummary{}, a.Notifications.CheckUpcomingMatches(ctx, a.matches)
	case "live-monitor":
		return usecase.SyncSummary{}, a.LiveMonitor.RunOnce(ctx)
	default:
		return usecase.SyncSummary{}, fmt.Errorf("unknown job %q", name)
	}
}

// Start begins the job schedule. It returns immediately; jobs fire in the
// background until Stop.
func (a *App) Start(ctx context.Context) {
	a.registry.Start(ctx)
	a.logger.InfoContext(ctx, "service started",
		"service", a.cfg.ServiceName, "version", a.cfg.ServiceVersion, "storage", a.cfg.StorageDriver)
}

// Stop winds everything down, waiting for in-flight job runs.
func (a *App) Stop() error {
	var firstErr error
	if err := a.registry.Stop(); err != nil {
		firstErr = err
	}
	a.Notifications.Close()
	if a.db != nil {
		if err := a.db.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close database: %w", err)
		}
	}
	return firstErr
}
