package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"

	httpapi "gatekeeper-bot/internal/api/http"
	"gatekeeper-bot/internal/config"
	"gatekeeper-bot/internal/jobs"
	"gatekeeper-bot/internal/logger"
	"gatekeeper-bot/internal/platform/discord"
	"gatekeeper-bot/internal/repository/postgres"
	"gatekeeper-bot/internal/scheduler"
	"gatekeeper-bot/internal/security"
	"gatekeeper-bot/internal/service"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting gatekeeper bot...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	store := postgres.NewStore(db)

	// Discord session; the review engine only needs the REST surface, the
	// gateway connection belongs to the command-dispatch layer.
	session, err := discordgo.New("Bot " + cfg.Discord.BotToken)
	if err != nil {
		logger.Error("Failed to create discord session", "error", err)
		log.Fatalf("Failed to create discord session: %v", err)
	}
	if err := session.Open(); err != nil {
		logger.Error("Failed to open discord session", "error", err)
		log.Fatalf("Failed to open discord session: %v", err)
	}
	defer session.Close()

	messenger := discord.NewMessenger(session)

	notifier := service.NewDecisionNotifier(
		messenger,
		store.SettingsRepository,
		time.Duration(cfg.Review.DeliveryTimeoutSeconds)*time.Second,
	)
	ticketCloser := service.NewTicketCloser(store.TicketRepository)
	reviewSvc := service.NewReviewService(
		store.ApplicationRepository,
		store.ClaimRepository,
		store.ReviewActionRepository,
		notifier,
		ticketCloser,
	)
	querySvc := service.NewQueryService(
		store.ApplicationRepository,
		store.ClaimRepository,
		store.ReviewActionRepository,
	)

	tokenManager := security.NewTokenManager(cfg.API.JWTSecret)

	jobRunner := jobs.NewJobRunner(store, cfg)
	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()
	defer sched.Stop()

	router := mux.NewRouter()
	httpapi.RegisterReviewAPIRoutes(router, reviewSvc, querySvc, tokenManager)

	go func() {
		logger.Info("HTTP review API listening", "address", cfg.GetServerAddress())
		if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
			logger.Error("HTTP server error", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("Shutting down")
}
