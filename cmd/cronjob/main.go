package main

import (
	"database/sql"
	"flag"
	"log"

	_ "github.com/lib/pq"

	"gatekeeper-bot/internal/config"
	"gatekeeper-bot/internal/jobs"
	"gatekeeper-bot/internal/logger"
	"gatekeeper-bot/internal/repository/postgres"
)

// Manual one-shot runner for the scheduled jobs, useful for operations and
// local testing without waiting on the cron schedule.
func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	jobName := flag.String("job", "all", "Job to run: all, release-stale-claims")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	store := postgres.NewStore(db)
	runner := jobs.NewJobRunner(store, cfg)

	switch *jobName {
	case "all":
		runner.RunAll()
	case "release-stale-claims":
		runner.ReleaseStaleClaims()
	default:
		log.Fatalf("Unknown job: %s", *jobName)
	}
}
