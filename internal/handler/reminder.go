package handler

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"cherry-bot/internal/conversation"
	"cherry-bot/internal/scheduler"
	"cherry-bot/internal/service"
)

const (
	msgAskDateTime  = "Пожалуйста, укажите дату и время в формате: год месяц день часы:минуты. Например: 2025 05 21 23:23"
	msgBadDateTime  = "Ошибка формата. Используйте: год месяц день часы:минуты. Например: 2025 05 21 23:23"
	msgPastDateTime = "Выберите время в будущем."
	msgExpired      = "Это время уже прошло, напоминание не установлено. Укажите новую дату и время в формате: год месяц день часы:минуты."
	msgDefault      = "Выберите команду ниже или введите /help."
)

// ReminderHandler handles the multi-step commands and free text.
type ReminderHandler struct {
	reminderService *service.ReminderService
}

// NewReminderHandler creates a new ReminderHandler.
func NewReminderHandler(reminderService *service.ReminderService) *ReminderHandler {
	return &ReminderHandler{reminderService: reminderService}
}

// HandleSetReminder handles the /set_reminder command.
func (h *ReminderHandler) HandleSetReminder(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	h.reminderService.StartReminder(sender.ID)
	return c.Reply(msgAskDateTime)
}

// HandleWeather handles the /weather command.
func (h *ReminderHandler) HandleWeather(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	h.reminderService.StartWeather(sender.ID)
	return c.Reply("Введите название города на английском, чтобы получить погоду:")
}

// HandleBall handles the /ball command.
func (h *ReminderHandler) HandleBall(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	h.reminderService.StartBall(sender.ID)
	return c.Reply("Задайте свой вопрос, и я дам предсказание:")
}

// HandleStop handles the /stop command. Reminders already set still fire.
func (h *ReminderHandler) HandleStop(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	h.reminderService.Stop(sender.ID)
	return c.Reply("Все текущие действия остановлены.")
}

// HandleText feeds plain text into the sender's pending flow.
func (h *ReminderHandler) HandleText(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil || c.Chat() == nil {
		return nil
	}

	reply, err := h.reminderService.HandleText(ctx, sender.ID, c.Chat().ID, c.Text())
	switch {
	case errors.Is(err, conversation.ErrNoActiveState):
		if c.Chat().Type == tele.ChatPrivate {
			return c.Reply(msgDefault)
		}
		return nil
	case errors.Is(err, conversation.ErrInvalidFormat):
		return c.Reply(msgBadDateTime)
	case errors.Is(err, conversation.ErrPastDateTime):
		return c.Reply(msgPastDateTime)
	case errors.Is(err, scheduler.ErrPastFireAt):
		return c.Reply(msgExpired)
	case err != nil:
		return replyLedgerError(c, err)
	}

	switch reply.Kind {
	case service.ReplyDateAccepted:
		return c.Reply("Что нужно напомнить?")
	case service.ReplyReminderSet:
		log.Info().
			Int64("user_id", sender.ID).
			Str("reminder_id", reply.Reminder.ID).
			Msg("Reminder set by user")
		return c.Reply("Напоминание установлено!")
	case service.ReplyResetDone:
		return c.Reply("Ваш прогресс сброшен.")
	case service.ReplyResetCancelled:
		return c.Reply("Сброс отменен.")
	case service.ReplyWeather:
		return c.Reply(fmt.Sprintf("Ссылка на погоду в городе %s: %s", reply.City, reply.Link))
	case service.ReplyBall:
		return c.Reply(reply.Answer)
	}
	return nil
}
