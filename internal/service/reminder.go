package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"cherry-bot/internal/conversation"
	"cherry-bot/internal/oracle"
	"cherry-bot/internal/scheduler"
)

// ReminderScheduler accepts one-shot reminders. *scheduler.Scheduler implements it.
type ReminderScheduler interface {
	Schedule(fireAt time.Time, text string, destination int64) (*scheduler.Reminder, error)
}

// Resetter wipes a user's progress. *AccountService implements it.
type Resetter interface {
	Reset(ctx context.Context, telegramID int64) error
}

// Answerer replies to a magic ball question. *oracle.Ball implements it.
type Answerer interface {
	Answer(question string) string
}

// ReplyKind tells the handler which message to render.
type ReplyKind int

const (
	ReplyDateAccepted ReplyKind = iota + 1
	ReplyReminderSet
	ReplyResetDone
	ReplyResetCancelled
	ReplyWeather
	ReplyBall
)

// Reply is the result of feeding one text message into a pending flow.
type Reply struct {
	Kind     ReplyKind
	When     time.Time
	Reminder *scheduler.Reminder
	City     string
	Link     string
	Answer   string
}

// ReminderService connects the conversation tracker to the reminder
// scheduler and the other multi-step commands.
type ReminderService struct {
	tracker   *conversation.Tracker
	scheduler ReminderScheduler
	resetter  Resetter
	ball      Answerer
}

// NewReminderService creates a new ReminderService instance.
func NewReminderService(tracker *conversation.Tracker, sched ReminderScheduler, resetter Resetter, ball Answerer) *ReminderService {
	return &ReminderService{
		tracker:   tracker,
		scheduler: sched,
		resetter:  resetter,
		ball:      ball,
	}
}

// StartReminder waits for the reminder date. Any pending flow is replaced.
func (s *ReminderService) StartReminder(userID int64) {
	s.tracker.Begin(userID, conversation.AwaitingDateTime)
}

// StartReset waits for the reset confirmation.
func (s *ReminderService) StartReset(userID int64) {
	s.tracker.Begin(userID, conversation.AwaitingResetConfirmation)
}

// StartWeather waits for a city name.
func (s *ReminderService) StartWeather(userID int64) {
	s.tracker.Begin(userID, conversation.AwaitingCity)
}

// StartBall waits for a magic ball question.
func (s *ReminderService) StartBall(userID int64) {
	s.tracker.Begin(userID, conversation.AwaitingQuestion)
}

// Stop drops the user's pending flow. Reminders already scheduled still fire.
func (s *ReminderService) Stop(userID int64) bool {
	if st, ok := s.tracker.Current(userID); ok {
		log.Debug().Int64("user_id", userID).Str("flow", st.Kind.String()).Msg("Dropping pending flow")
	}
	return s.tracker.Cancel(userID)
}

// PendingFlows returns how many users are in the middle of a flow.
func (s *ReminderService) PendingFlows() int {
	return s.tracker.Len()
}

// HandleText advances the user's pending flow with text. Tracker errors are
// returned unchanged; conversation.ErrNoActiveState means the message was not
// part of any flow. A reminder whose date has passed by the time its text
// arrives fails with scheduler.ErrPastFireAt and the user is asked for a new
// date.
func (s *ReminderService) HandleText(ctx context.Context, userID, chatID int64, text string) (*Reply, error) {
	out, err := s.tracker.Step(userID, text)
	if err != nil {
		return nil, err
	}

	switch out.Kind {
	case conversation.DateAccepted:
		return &Reply{Kind: ReplyDateAccepted, When: out.When}, nil

	case conversation.ReminderReady:
		r, err := s.scheduler.Schedule(out.When, out.Text, chatID)
		if errors.Is(err, scheduler.ErrPastFireAt) {
			// the date passed while the text was typed; ask for a new one
			s.tracker.Begin(userID, conversation.AwaitingDateTime)
			return nil, fmt.Errorf("failed to schedule reminder: %w", err)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to schedule reminder: %w", err)
		}
		return &Reply{Kind: ReplyReminderSet, When: out.When, Reminder: r}, nil

	case conversation.ConfirmReset:
		if !out.Affirmed {
			return &Reply{Kind: ReplyResetCancelled}, nil
		}
		if err := s.resetter.Reset(ctx, userID); err != nil {
			return nil, err
		}
		log.Info().Int64("user_id", userID).Msg("User progress reset")
		return &Reply{Kind: ReplyResetDone}, nil

	case conversation.CityReceived:
		return &Reply{Kind: ReplyWeather, City: out.Text, Link: oracle.WeatherLink(out.Text)}, nil

	case conversation.QuestionReceived:
		return &Reply{Kind: ReplyBall, Answer: s.ball.Answer(out.Text)}, nil
	}

	return nil, fmt.Errorf("unexpected conversation outcome %d", out.Kind)
}
