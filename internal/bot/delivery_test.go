package bot

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"
)

type sent struct {
	chatID int64
	text   string
}

type stubSender struct {
	sent []sent
	err  error
}

func (s *stubSender) Send(to tele.Recipient, what interface{}, _ ...interface{}) (*tele.Message, error) {
	if s.err != nil {
		return nil, s.err
	}
	chat := to.(*tele.Chat)
	s.sent = append(s.sent, sent{chat.ID, what.(string)})
	return &tele.Message{}, nil
}

func TestDeliverer_Deliver(t *testing.T) {
	s := &stubSender{}
	d := NewDeliverer(s)

	require.NoError(t, d.Deliver(context.Background(), 700, "Buy milk"))
	assert.Equal(t, []sent{{700, "Напоминание: Buy milk"}}, s.sent)
}

func TestDeliverer_Errors(t *testing.T) {
	s := &stubSender{err: errors.New("chat not found")}
	d := NewDeliverer(s)

	err := d.Deliver(context.Background(), 1, "x")
	assert.ErrorContains(t, err, "chat not found")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.err = nil
	assert.ErrorIs(t, d.Deliver(ctx, 1, "x"), context.Canceled)
	assert.Empty(t, s.sent)
}
