package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	t.Setenv("APIFOOTBALL_KEY", "key")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_RequiresAPIKey(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APIFOOTBALL_KEY", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when APIFOOTBALL_KEY is empty")
	}
}

func TestLoad_StorageDriverValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APIFOOTBALL_KEY", "key")

	t.Run("defaults to postgres", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.StorageDriver != StoragePostgres {
			t.Fatalf("unexpected storage driver: %q", cfg.StorageDriver)
		}
	})

	t.Run("memory accepted", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "Memory")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.StorageDriver != StorageMemory {
			t.Fatalf("unexpected storage driver: %q", cfg.StorageDriver)
		}
	})

	t.Run("invalid rejected", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "redis")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid STORAGE_DRIVER")
		}
	})
}

func TestLoad_JobDefaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APIFOOTBALL_KEY", "key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.JobMatchSyncInterval != time.Hour {
		t.Fatalf("unexpected match sync interval: %s", cfg.JobMatchSyncInterval)
	}
	if cfg.JobEventInterval != time.Minute {
		t.Fatalf("unexpected event interval: %s", cfg.JobEventInterval)
	}
	if cfg.JobLiveMonitorInterval != 3*time.Minute {
		t.Fatalf("unexpected live monitor interval: %s", cfg.JobLiveMonitorInterval)
	}
	if cfg.JobTodayMatchesCron != "0 7,12,16,20 * * *" {
		t.Fatalf("unexpected today matches cron: %q", cfg.JobTodayMatchesCron)
	}
	if cfg.JobFullResyncCron != "0 3 * * *" {
		t.Fatalf("unexpected full resync cron: %q", cfg.JobFullResyncCron)
	}
	if cfg.JobPreviewCron != "0 */6 * * *" {
		t.Fatalf("unexpected preview cron: %q", cfg.JobPreviewCron)
	}
}

func TestLoad_JobIntervalValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APIFOOTBALL_KEY", "key")

	t.Run("invalid duration", func(t *testing.T) {
		t.Setenv("JOB_EVENT_INTERVAL", "often")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid JOB_EVENT_INTERVAL")
		}
	})

	t.Run("non-positive duration", func(t *testing.T) {
		t.Setenv("JOB_EVENT_INTERVAL", "0s")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for zero JOB_EVENT_INTERVAL")
		}
	})
}

func TestLoad_AllowedLeaguesParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APIFOOTBALL_KEY", "key")

	t.Run("defaults to built-in list", func(t *testing.T) {
		t.Setenv("ALLOWED_LEAGUES", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.AllowedLeagues) == 0 {
			t.Fatalf("expected default allow list")
		}
	})

	t.Run("custom pairs", func(t *testing.T) {
		t.Setenv("ALLOWED_LEAGUES", " England:Premier League , Spain:La Liga ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.AllowedLeagues) != 2 {
			t.Fatalf("unexpected allow list length: %d", len(cfg.AllowedLeagues))
		}
		if cfg.AllowedLeagues[0].Country != "England" || cfg.AllowedLeagues[0].Name != "Premier League" {
			t.Fatalf("unexpected first pair: %+v", cfg.AllowedLeagues[0])
		}
	})

	t.Run("missing separator", func(t *testing.T) {
		t.Setenv("ALLOWED_LEAGUES", "Premier League")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for item without country")
		}
	})
}

func TestLoad_CircuitConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APIFOOTBALL_KEY", "key")
	t.Setenv("APIFOOTBALL_CIRCUIT_FAILURE_COUNT", "3")
	t.Setenv("APIFOOTBALL_CIRCUIT_OPEN_TIMEOUT", "30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.APIFootballCircuitFailureCount != 3 {
		t.Fatalf("unexpected failure count: %d", cfg.APIFootballCircuitFailureCount)
	}
	if cfg.APIFootballCircuitOpenTimeout != 30*time.Second {
		t.Fatalf("unexpected open timeout: %s", cfg.APIFootballCircuitOpenTimeout)
	}

	t.Setenv("APIFOOTBALL_CIRCUIT_FAILURE_COUNT", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero failure count")
	}
}

func TestLoad_NotificationPoolSize(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APIFOOTBALL_KEY", "key")
	t.Setenv("NOTIFICATION_POOL_SIZE", "4")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.NotificationPoolSize != 4 {
		t.Fatalf("unexpected pool size: %d", cfg.NotificationPoolSize)
	}

	t.Setenv("NOTIFICATION_POOL_SIZE", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero NOTIFICATION_POOL_SIZE")
	}
}
