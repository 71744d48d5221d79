package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/EsatCanStudent/UpdatedScores2/internal/app"
	"github.com/EsatCanStudent/UpdatedScores2/internal/config"
	"github.com/EsatCanStudent/UpdatedScores2/internal/platform/logging"
)

func main() {
	var (
		jobName  = flag.String("job", "", "run one named job and exit: leagues, teams, matches, events, lineups, statistics, previews, upcoming, live-monitor")
		lastDays = flag.Int("last", 0, "matches job: lookback window in days")
		nextDays = flag.Int("next", 0, "matches job: lookahead window in days")
		date     = flag.String("date", "", "matches job: sync a single date (YYYY-MM-DD)")
		matchID  = flag.Int64("match", 0, "matches job: sync one fixture by provider id")
		noDelete = flag.Bool("no-delete", false, "matches job: keep stored matches the provider no longer returns")
	)
	flag.Parse()

	// Missing .env is fine; real deployments set env vars directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}

	if *jobName != "" {
		runOnce(ctx, a, logger, *jobName, app.TriggerParams{
			LastDays: *lastDays,
			NextDays: *nextDays,
			Date:     *date,
			MatchID:  *matchID,
			NoDelete: *noDelete,
		})
		return
	}

	a.Start(ctx)
	<-ctx.Done()

	if err := a.Stop(); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	logger.Info("service stopped")
}

// runOnce executes a single named job for operator-driven syncs and repairs.
func runOnce(ctx context.Context, a *app.App, logger *logging.Logger, name string, params app.TriggerParams) {
	summary, err := a.RunJob(ctx, name, params)
	stopErr := a.Stop()
	if err != nil {
		logger.Error("job run failed", "job", name, "error", err)
		os.Exit(1)
	}
	logger.Info("job run finished", "job", name,
		"created", summary.Created, "updated", summary.Updated,
		"skipped", summary.Skipped, "failed", summary.Failed)
	if stopErr != nil {
		logger.Error("shutdown after job run failed", "error", stopErr)
		os.Exit(1)
	}
}
