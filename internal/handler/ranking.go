package handler

import (
	"context"
	"errors"
	"fmt"

	tele "gopkg.in/telebot.v3"

	"cherry-bot/internal/service"
)

// RankingHandler handles the collector ranking.
type RankingHandler struct {
	rankingService *service.RankingService
}

// NewRankingHandler creates a new RankingHandler.
func NewRankingHandler(rankingService *service.RankingService) *RankingHandler {
	return &RankingHandler{rankingService: rankingService}
}

// HandleRanking handles the /ranking command.
func (h *RankingHandler) HandleRanking(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	place, err := h.rankingService.Place(ctx, sender.ID)
	if errors.Is(err, service.ErrCollectionIncomplete) {
		return c.Reply("Соберите все карты, чтобы открыть эту функцию.")
	}
	if err != nil {
		return replyLedgerError(c, err)
	}
	return c.Reply(fmt.Sprintf("Вы на %d месте.", place))
}
