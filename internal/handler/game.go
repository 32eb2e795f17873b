package handler

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"cherry-bot/internal/game"
	"cherry-bot/internal/service"
)

// GameHandler handles /play and the game buttons.
type GameHandler struct {
	accountService *service.AccountService
	gameRegistry   *game.Registry
}

// NewGameHandler creates a new GameHandler.
func NewGameHandler(accountService *service.AccountService, gameRegistry *game.Registry) *GameHandler {
	return &GameHandler{
		accountService: accountService,
		gameRegistry:   gameRegistry,
	}
}

// HandlePlay handles the /play command.
func (h *GameHandler) HandlePlay(c tele.Context) error {
	return c.Send("Выберите игру:", game.BuildMenu(h.gameRegistry))
}

// HandleCallback handles a game button press. It reports false when the
// callback does not belong to any game.
func (h *GameHandler) HandleCallback(c tele.Context) (bool, error) {
	callback := c.Callback()
	if callback == nil {
		return false, nil
	}

	// telebot prefixes unique button data with \f
	data := strings.TrimPrefix(callback.Data, "\f")

	g, choice, ok := h.gameRegistry.Resolve(data)
	if !ok {
		return false, nil
	}

	if choice == "" {
		if err := c.Respond(); err != nil {
			log.Debug().Err(err).Msg("Failed to answer callback")
		}
		return true, c.Send(g.Prompt(), game.BuildChoices(g))
	}

	return true, h.play(c, g, choice)
}

func (h *GameHandler) play(c tele.Context, g game.Game, choice string) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	result, err := g.Play(ctx, sender.ID, choice)
	if err != nil {
		log.Warn().Err(err).Str("game", g.Command()).Str("choice", choice).Msg("Invalid game choice")
		return c.Respond(&tele.CallbackResponse{Text: msgFailure})
	}

	if result.Reward > 0 {
		_, err := h.accountService.Reward(ctx, sender.ID, username(sender), result.Reward, g.TxType(), result.Player+" / "+result.Drawn)
		if err != nil {
			log.Error().Err(err).Int64("user_id", sender.ID).Str("game", g.Command()).Msg("Failed to credit win")
			return c.Respond(&tele.CallbackResponse{Text: msgFailure})
		}
	}

	log.Info().
		Int64("user_id", sender.ID).
		Str("game", g.Command()).
		Str("outcome", result.Outcome.String()).
		Int64("reward", result.Reward).
		Msg("Game played")

	return c.Respond(&tele.CallbackResponse{Text: result.Description})
}
