// Package conversation tracks per-user multi-step dialogue state.
//
// Each user has at most one pending flow. A flow is started with Begin,
// advanced with Step as the user's text arrives, and dropped by Cancel or
// when the final step completes.
package conversation

import (
	"errors"
	"time"
)

// Kind identifies which input a user is expected to send next.
type Kind int

const (
	// KindNone means no flow is pending.
	KindNone Kind = iota
	// AwaitingDateTime waits for a "YYYY MM DD HH:MM" reminder date.
	AwaitingDateTime
	// AwaitingReminderText waits for the reminder message; State.When is set.
	AwaitingReminderText
	// AwaitingResetConfirmation waits for a yes/no answer to a progress reset.
	AwaitingResetConfirmation
	// AwaitingCity waits for a city name for the weather link.
	AwaitingCity
	// AwaitingQuestion waits for a question for the magic ball.
	AwaitingQuestion
)

// String returns the kind name used in logs.
func (k Kind) String() string {
	switch k {
	case AwaitingDateTime:
		return "awaiting_datetime"
	case AwaitingReminderText:
		return "awaiting_reminder_text"
	case AwaitingResetConfirmation:
		return "awaiting_reset_confirmation"
	case AwaitingCity:
		return "awaiting_city"
	case AwaitingQuestion:
		return "awaiting_question"
	default:
		return "none"
	}
}

// State is an immutable snapshot of one user's pending flow.
type State struct {
	Kind Kind
	// When is the accepted reminder time, only set for AwaitingReminderText.
	When      time.Time
	UpdatedAt time.Time
}

// OutcomeKind tells the dispatch layer what a successful Step produced.
type OutcomeKind int

const (
	// DateAccepted: the date was valid, the flow now waits for reminder text.
	DateAccepted OutcomeKind = iota + 1
	// ReminderReady: date and text are both known, the flow is finished.
	ReminderReady
	// ConfirmReset: the reset question was answered, the flow is finished.
	ConfirmReset
	// CityReceived: a city name arrived, the flow is finished.
	CityReceived
	// QuestionReceived: a magic ball question arrived, the flow is finished.
	QuestionReceived
)

// Outcome is the event emitted by a successful Step.
type Outcome struct {
	Kind     OutcomeKind
	When     time.Time
	Text     string
	Affirmed bool
}

// Step errors. All of them leave the stored state untouched.
var (
	// ErrNoActiveState means the user has no pending flow; callers fall through
	// to their default handling.
	ErrNoActiveState = errors.New("no active conversation state")
	// ErrInvalidFormat means the date input could not be parsed.
	ErrInvalidFormat = errors.New("invalid date-time format")
	// ErrPastDateTime means the date parsed but is not in the future.
	ErrPastDateTime = errors.New("date-time is not in the future")
)
