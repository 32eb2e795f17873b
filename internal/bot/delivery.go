package bot

import (
	"context"
	"fmt"

	tele "gopkg.in/telebot.v3"
)

// ReminderPrefix starts every delivered reminder.
const ReminderPrefix = "Напоминание: "

// Sender sends a message to a chat. *tele.Bot implements it.
type Sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Deliverer sends fired reminders through Telegram.
type Deliverer struct {
	sender Sender
}

// NewDeliverer creates a Deliverer that sends through sender.
func NewDeliverer(sender Sender) *Deliverer {
	return &Deliverer{sender: sender}
}

// Deliver sends the reminder text to the chat with ID destination.
func (d *Deliverer) Deliver(ctx context.Context, destination int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := d.sender.Send(&tele.Chat{ID: destination}, ReminderPrefix+text); err != nil {
		return fmt.Errorf("failed to send reminder to chat %d: %w", destination, err)
	}
	return nil
}
