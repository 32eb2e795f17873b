// Package main is the entry point for the cherry bot.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	bolt "go.etcd.io/bbolt"

	"cherry-bot/internal/bot"
	"cherry-bot/internal/config"
	"cherry-bot/internal/conversation"
	"cherry-bot/internal/game"
	"cherry-bot/internal/game/coin"
	"cherry-bot/internal/game/rps"
	"cherry-bot/internal/oracle"
	"cherry-bot/internal/pkg/db"
	"cherry-bot/internal/pkg/lock"
	"cherry-bot/internal/repository"
	"cherry-bot/internal/scheduler"
	"cherry-bot/internal/service"
	"cherry-bot/internal/shop"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// BOT_TOKEN and friends may come from a .env file
	_ = godotenv.Load()

	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		log.Warn().Str("level", cfg.Log.Level).Msg("Unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Info().Msg("Configuration loaded successfully")

	loc, err := cfg.Scheduler.Location()
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.Scheduler.Timezone).Msg("Invalid scheduler timezone")
	}

	// Create context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize database connection pool
	dbPool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbPool.Close()

	if err := db.Migrate(ctx, dbPool.Pool); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Processed update IDs live in a local bbolt file
	boltDB, err := bolt.Open(cfg.Storage.BoltPath, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Storage.BoltPath).Msg("Failed to open update log")
	}
	defer boltDB.Close()

	updateLog, err := repository.NewUpdateLog(boltDB)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize update log")
	}

	ledger := repository.NewLedger(dbPool.Pool)
	userLock := lock.NewUserLock()

	teleBot, err := bot.NewTeleBot(&cfg.Bot)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create bot")
	}

	// Reminder scheduler
	reminders := scheduler.New(&scheduler.Config{
		PollInterval: cfg.Scheduler.PollInterval,
	}, bot.NewDeliverer(teleBot))
	schedulerDone := reminders.Start(ctx)

	tracker := conversation.NewTracker(conversation.WithLocation(loc))

	// Initialize services
	accountService := service.NewAccountService(ledger, userLock)
	rankingService := service.NewRankingService(ledger)
	shopService := service.NewShopService(ledger, rankingService, userLock, cfg.Shop.CardPrice, nil)
	reminderService := service.NewReminderService(tracker, reminders, accountService, oracle.NewBall(nil))

	// Initialize game registry and register games
	gameRegistry := game.NewRegistry()
	for _, g := range []game.Game{rps.New(nil), coin.New(nil)} {
		if err := gameRegistry.Register(g); err != nil {
			log.Fatal().Err(err).Str("game", g.Command()).Msg("Failed to register game")
		}
	}
	log.Info().Int("game_count", gameRegistry.Count()).Msg("Games registered")

	telegramBot := bot.New(teleBot, &bot.Dependencies{
		AccountService:  accountService,
		ShopService:     shopService,
		RankingService:  rankingService,
		ReminderService: reminderService,
		GameRegistry:    gameRegistry,
		Catalogue:       shop.NewCatalogue(cfg.Shop.CardsDir),
		UpdateLog:       updateLog,
	})

	go telegramBot.Start(ctx)

	<-ctx.Done()
	log.Info().Msg("Received shutdown signal")

	telegramBot.Stop()
	<-schedulerDone

	log.Info().
		Int("pending_reminders", reminders.Pending()).
		Int("open_conversations", reminderService.PendingFlows()).
		Msg("Bot stopped gracefully, pending reminders are discarded")
}
