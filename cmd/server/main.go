package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hangeulsoft/koreanparty/internal/api"
	"github.com/hangeulsoft/koreanparty/internal/catalog"
	"github.com/hangeulsoft/koreanparty/internal/config"
	"github.com/hangeulsoft/koreanparty/internal/db"
	"github.com/hangeulsoft/koreanparty/internal/duel"
	"github.com/hangeulsoft/koreanparty/internal/logger"
	"github.com/hangeulsoft/koreanparty/internal/services"
	"github.com/hangeulsoft/koreanparty/internal/srs"
	"github.com/hangeulsoft/koreanparty/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Korean Party Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("recalc_worker_count=%d", cfg.RecalcWorkerCount)
	log.Debug("recalc_queue_size=%d", cfg.RecalcQueueSize)
	log.Debug("duel_rise_amount=%d", cfg.DuelRiseAmount)
	log.Debug("duel_penalty_amount=%d", cfg.DuelPenaltyAmount)
	log.Debug("review_page_limit=%d", cfg.ReviewPageLimit)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Load static game content
	cat, err := catalog.Load()
	if err != nil {
		log.Error("failed to load content catalog: %v", err)
		os.Exit(1)
	}
	log.Debug("catalog loaded: %d spells, %d shop items, %d quiz items",
		len(cat.Spells), len(cat.ShopItems), len(cat.QuizItems))

	// Initialize worker pool for experience recalculation
	recalcPool := worker.NewPool(cfg.RecalcWorkerCount, cfg.RecalcQueueSize)

	srsConfig := srs.DefaultConfig()
	srsConfig.DueLimit = cfg.ReviewPageLimit
	duelConfig := duel.Config{
		RiseAmount:    cfg.DuelRiseAmount,
		PenaltyAmount: cfg.DuelPenaltyAmount,
	}

	// Initialize services
	profileService := services.NewProfileService(database)
	srsService := services.NewSRSService(database, srsConfig, recalcPool, profileService)
	duelService := services.NewDuelService(database, duelConfig)
	guildService := services.NewGuildService(database)
	shopService := services.NewShopService(database, cat)
	spellService := services.NewSpellService(database, cat)
	streakService := services.NewStreakService(database, cat)
	gameService := services.NewGameService(database, cat, srsService)

	srv := &api.Server{
		DB:             database,
		ProfileService: profileService,
		SRSService:     srsService,
		DuelService:    duelService,
		GuildService:   guildService,
		ShopService:    shopService,
		SpellService:   spellService,
		StreakService:  streakService,
		GameService:    gameService,
	}

	ctx, cancel := context.WithCancel(context.Background())
	recalcPool.Start(ctx)

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("stopping worker pool")
	cancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	recalcPool.Stop()

	log.Info("===========================================")
	log.Info("Korean Party Server Stopped")
	log.Info("===========================================")
}
