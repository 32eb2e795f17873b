// Package handler provides Telegram bot command handlers.
package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"cherry-bot/internal/service"
	"cherry-bot/internal/shop"
)

// Shared replies.
const (
	msgUserNotFound = "Пользователь не найден."
	msgFailure      = "Произошла ошибка, попробуйте позже."
	msgBusy         = "Предыдущая операция ещё выполняется, попробуйте чуть позже."
	msgHelp         = "/play - Играйте с ботом\n" +
		"/set_reminder - Установить напоминание\n" +
		"/cherrys - Узнать количество вишен\n" +
		"/buy - Купить карту\n" +
		"/card_count - Узнать количество карт\n" +
		"/history - История операций\n" +
		"/stop - Прервать все текущие действия\n" +
		"/ball - Получить предсказание\n" +
		"/weather - Узнать погоду\n" +
		"/reset - Сбросить прогресс\n" +
		"/ranking - Узнать место"
	historyLimit = 10
)

// displayName returns the sender's full name, falling back to the username.
func displayName(u *tele.User) string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		name = u.Username
	}
	return name
}

// username returns the handle stored in the ledger.
func username(u *tele.User) string {
	if u.Username != "" {
		return u.Username
	}
	return u.FirstName
}

// AccountHandler handles account-related commands.
type AccountHandler struct {
	accountService  *service.AccountService
	reminderService *service.ReminderService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService *service.AccountService, reminderService *service.ReminderService) *AccountHandler {
	return &AccountHandler{
		accountService:  accountService,
		reminderService: reminderService,
	}
}

// HandleStart handles the /start command.
// Creates the account with zero cherries on first contact.
func (h *AccountHandler) HandleStart(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	_, created, err := h.accountService.EnsureUser(ctx, sender.ID, username(sender))
	if err != nil {
		log.Error().Err(err).Int64("user_id", sender.ID).Msg("Failed to ensure user")
		return c.Reply(msgFailure)
	}
	if created {
		log.Info().Int64("user_id", sender.ID).Str("username", username(sender)).Msg("New user registered")
	}

	return c.Send(fmt.Sprintf(
		"Здравствуйте, %s! Я CherryGuru_bot.\n"+
			"Выберите команду ниже или введите /help.",
		displayName(sender),
	), shop.CommandsKeyboard())
}

// HandleHelp handles the /help command.
func (h *AccountHandler) HandleHelp(c tele.Context) error {
	return c.Reply(msgHelp)
}

// HandleCherries handles the /cherrys command.
func (h *AccountHandler) HandleCherries(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	user, err := h.accountService.GetUser(ctx, sender.ID)
	if err != nil {
		return replyLedgerError(c, err)
	}
	return c.Reply(fmt.Sprintf("Количество вишен: %d 🍒.", user.Cherries))
}

// HandleCardCount handles the /card_count command.
func (h *AccountHandler) HandleCardCount(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	user, err := h.accountService.GetUser(ctx, sender.ID)
	if err != nil {
		return replyLedgerError(c, err)
	}
	return c.Reply(shop.FormatCollection(user))
}

// HandleHistory handles the /history command.
func (h *AccountHandler) HandleHistory(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	if _, err := h.accountService.GetUser(ctx, sender.ID); err != nil {
		return replyLedgerError(c, err)
	}
	txs, err := h.accountService.History(ctx, sender.ID, historyLimit)
	if err != nil {
		return replyLedgerError(c, err)
	}
	return c.Reply(shop.FormatHistory(txs))
}

// HandleReset handles the /reset command. The reset itself happens once the
// user confirms in the next message.
func (h *AccountHandler) HandleReset(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	h.reminderService.StartReset(sender.ID)
	return c.Reply("Вы точно хотите сбросить прогресс? Напишите 'да' или 'нет'.")
}

// replyLedgerError maps ledger failures to a reply.
func replyLedgerError(c tele.Context, err error) error {
	if service.IsUserNotFound(err) {
		return c.Reply(msgUserNotFound)
	}
	if errors.Is(err, service.ErrBusy) {
		log.Warn().Err(err).Msg("Ledger lock timed out")
		return c.Reply(msgBusy)
	}
	log.Error().Err(err).Msg("Ledger operation failed")
	return c.Reply(msgFailure)
}
