package handler

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"cherry-bot/internal/service"
	"cherry-bot/internal/shop"
)

// ShopHandler handles the card shop.
type ShopHandler struct {
	shopService *service.ShopService
	catalogue   *shop.Catalogue
}

// NewShopHandler creates a new ShopHandler.
func NewShopHandler(shopService *service.ShopService, catalogue *shop.Catalogue) *ShopHandler {
	return &ShopHandler{
		shopService: shopService,
		catalogue:   catalogue,
	}
}

// HandleBuy handles the /buy command.
func (h *ShopHandler) HandleBuy(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	p, err := h.shopService.BuyCard(ctx, sender.ID)
	switch {
	case errors.Is(err, service.ErrInsufficientCherries):
		return c.Reply(fmt.Sprintf("Недостаточно вишен. Нужно %d.", h.shopService.Price()))
	case errors.Is(err, service.ErrCollectionComplete):
		return c.Reply("У вас уже собраны все карты.")
	case err != nil:
		return replyLedgerError(c, err)
	}

	log.Info().
		Int64("user_id", sender.ID).
		Int("card", p.Card).
		Bool("new", p.New).
		Int64("cherries", p.User.Cherries).
		Msg("Card bought")

	if !p.New {
		return c.Reply(shop.FormatDuplicateCard(p.Card))
	}

	if photo, ok := h.catalogue.Photo(p.Card); ok {
		if err := c.Send(photo); err != nil {
			log.Warn().Err(err).Int("card", p.Card).Msg("Failed to send card photo")
		}
	} else {
		log.Warn().Str("path", h.catalogue.PhotoPath(p.Card)).Msg("Card photo not found")
	}

	if err := c.Reply(shop.FormatNewCard(p.Card, p.User.CardTotal())); err != nil {
		return err
	}
	if p.Completed {
		return c.Reply(shop.FormatCompleted(p.Place))
	}
	return nil
}
