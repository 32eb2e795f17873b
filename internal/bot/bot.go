// Package bot provides the Telegram bot initialization and handler registration.
package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"cherry-bot/internal/config"
	"cherry-bot/internal/game"
	"cherry-bot/internal/handler"
	"cherry-bot/internal/repository"
	"cherry-bot/internal/service"
	"cherry-bot/internal/shop"
)

const (
	// updateLogPruneInterval is how often the update log is trimmed.
	updateLogPruneInterval = time.Hour
	// updateLogRetention is how long a handled update ID is remembered.
	// Telegram only restarts IDs after a week without updates.
	updateLogRetention = 24 * time.Hour
)

// Bot wraps the telebot instance with application dependencies.
type Bot struct {
	bot       *tele.Bot
	updateLog *repository.UpdateLog

	// Handlers
	accountHandler  *handler.AccountHandler
	shopHandler     *handler.ShopHandler
	rankingHandler  *handler.RankingHandler
	gameHandler     *handler.GameHandler
	reminderHandler *handler.ReminderHandler
}

// Dependencies holds all the dependencies needed by the bot handlers.
type Dependencies struct {
	AccountService  *service.AccountService
	ShopService     *service.ShopService
	RankingService  *service.RankingService
	ReminderService *service.ReminderService
	GameRegistry    *game.Registry
	Catalogue       *shop.Catalogue
	UpdateLog       *repository.UpdateLog
}

// NewTeleBot creates the Telegram client. It is separate from New so the
// reminder deliverer can be built before the handlers.
func NewTeleBot(cfg *config.BotConfig) (*tele.Bot, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	timeout := cfg.PollTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: timeout},
		OnError: func(err error, c tele.Context) {
			ev := log.Error().Err(err)
			if c != nil {
				ev = ev.Int("update_id", c.Update().ID)
			}
			ev.Msg("Telegram handler error")
		},
	}

	teleBot, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	return teleBot, nil
}

// New wires the handlers onto teleBot.
func New(teleBot *tele.Bot, deps *Dependencies) *Bot {
	b := &Bot{
		bot:       teleBot,
		updateLog: deps.UpdateLog,
	}

	// Initialize handlers
	b.accountHandler = handler.NewAccountHandler(deps.AccountService, deps.ReminderService)
	b.shopHandler = handler.NewShopHandler(deps.ShopService, deps.Catalogue)
	b.rankingHandler = handler.NewRankingHandler(deps.RankingService)
	b.gameHandler = handler.NewGameHandler(deps.AccountService, deps.GameRegistry)
	b.reminderHandler = handler.NewReminderHandler(deps.ReminderService)

	b.registerMiddleware()
	b.registerHandlers()

	return b
}

// registerMiddleware registers all middleware.
func (b *Bot) registerMiddleware() {
	b.bot.Use(RecoveryMiddleware())
	if b.updateLog != nil {
		b.bot.Use(DedupMiddleware(b.updateLog))
	}
	b.bot.Use(LoggingMiddleware())
}

// registerHandlers registers all command, callback and text handlers.
func (b *Bot) registerHandlers() {
	// Account handlers
	b.bot.Handle("/start", b.accountHandler.HandleStart)
	b.bot.Handle("/help", b.accountHandler.HandleHelp)
	b.bot.Handle("/cherrys", b.accountHandler.HandleCherries)
	b.bot.Handle("/card_count", b.accountHandler.HandleCardCount)
	b.bot.Handle("/history", b.accountHandler.HandleHistory)
	b.bot.Handle("/reset", b.accountHandler.HandleReset)

	// Shop and ranking
	b.bot.Handle("/buy", b.shopHandler.HandleBuy)
	b.bot.Handle("/ranking", b.rankingHandler.HandleRanking)

	// Games
	b.bot.Handle("/play", b.gameHandler.HandlePlay)

	// Conversations
	b.bot.Handle("/set_reminder", b.reminderHandler.HandleSetReminder)
	b.bot.Handle("/weather", b.reminderHandler.HandleWeather)
	b.bot.Handle("/ball", b.reminderHandler.HandleBall)
	b.bot.Handle("/stop", b.reminderHandler.HandleStop)
	b.bot.Handle(tele.OnText, b.reminderHandler.HandleText)

	b.bot.Handle(tele.OnCallback, b.handleCallback)
}

// handleCallback routes callbacks to the game handler and acknowledges the rest.
func (b *Bot) handleCallback(c tele.Context) error {
	handled, err := b.gameHandler.HandleCallback(c)
	if handled {
		return err
	}

	if cb := c.Callback(); cb != nil {
		log.Debug().Str("data", cb.Data).Msg("Unknown callback")
	}
	return c.Respond()
}

// Start starts the bot polling. It blocks until Stop is called.
func (b *Bot) Start(ctx context.Context) {
	log.Info().Msg("Starting bot...")

	if b.updateLog != nil {
		// expire IDs from before a long pause so restarted IDs are not dropped
		b.pruneUpdateLogOnce()
		go b.pruneUpdateLog(ctx)
	}

	b.bot.Start()
}

// pruneUpdateLog keeps the update log bounded until ctx is cancelled.
func (b *Bot) pruneUpdateLog(ctx context.Context) {
	ticker := time.NewTicker(updateLogPruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.pruneUpdateLogOnce()
		}
	}
}

func (b *Bot) pruneUpdateLogOnce() {
	removed, err := b.updateLog.Prune(time.Now().Add(-updateLogRetention))
	if err != nil {
		log.Error().Err(err).Msg("Failed to prune update log")
		return
	}
	if removed > 0 {
		remaining, _ := b.updateLog.Len()
		log.Debug().Int("removed", removed).Int("remaining", remaining).Msg("Update log pruned")
	}
}

// Stop stops the bot gracefully.
func (b *Bot) Stop() {
	log.Info().Msg("Stopping bot...")
	b.bot.Stop()
}
