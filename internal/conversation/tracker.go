package conversation

import (
	"strings"
	"sync"
	"time"
)

// affirmativeAnswers are the reset confirmations, compared case-insensitively.
var affirmativeAnswers = map[string]bool{
	"да":  true,
	"yes": true,
}

// Tracker holds the pending flow of every user.
// Entries are immutable *State values in a sync.Map; every transition swaps
// the pointer, so a Begin racing with a Step for the same user is never lost
// and different users never share a lock.
type Tracker struct {
	states   sync.Map // map[int64]*State
	location *time.Location
	now      func() time.Time
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLocation sets the timezone dates are parsed in. Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(t *Tracker) {
		if loc != nil {
			t.location = loc
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// NewTracker creates an empty Tracker.
func NewTracker(opts ...Option) *Tracker {
	t := &Tracker{
		location: time.Local,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Begin starts a flow for the user, replacing whatever was pending.
func (t *Tracker) Begin(userID int64, kind Kind) {
	t.states.Store(userID, &State{Kind: kind, UpdatedAt: t.now()})
}

// Cancel drops the user's pending flow. It reports whether one existed.
func (t *Tracker) Cancel(userID int64) bool {
	_, existed := t.states.LoadAndDelete(userID)
	return existed
}

// Current returns the user's pending flow.
func (t *Tracker) Current(userID int64) (State, bool) {
	v, ok := t.states.Load(userID)
	if !ok {
		return State{}, false
	}
	return *v.(*State), true
}

// Len returns the number of users with a pending flow.
func (t *Tracker) Len() int {
	n := 0
	t.states.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Step feeds the user's next input into their pending flow.
func (t *Tracker) Step(userID int64, input string) (Outcome, error) {
	for {
		v, ok := t.states.Load(userID)
		if !ok {
			return Outcome{}, ErrNoActiveState
		}
		cur := v.(*State)

		out, next, err := t.advance(cur, input)
		if err != nil {
			return Outcome{}, err
		}

		// Retry if a concurrent Begin or Cancel replaced the state meanwhile.
		if next == nil {
			if t.states.CompareAndDelete(userID, cur) {
				return out, nil
			}
			continue
		}
		if t.states.CompareAndSwap(userID, cur, next) {
			return out, nil
		}
	}
}

// advance computes the transition for cur. A nil next state means the flow ends.
func (t *Tracker) advance(cur *State, input string) (Outcome, *State, error) {
	switch cur.Kind {
	case AwaitingDateTime:
		when, err := ParseDateTime(input, t.location)
		if err != nil {
			return Outcome{}, nil, err
		}
		if !when.After(t.now()) {
			return Outcome{}, nil, ErrPastDateTime
		}
		next := &State{Kind: AwaitingReminderText, When: when, UpdatedAt: t.now()}
		return Outcome{Kind: DateAccepted, When: when}, next, nil

	case AwaitingReminderText:
		return Outcome{Kind: ReminderReady, When: cur.When, Text: input}, nil, nil

	case AwaitingResetConfirmation:
		answer := strings.ToLower(strings.TrimSpace(input))
		return Outcome{Kind: ConfirmReset, Affirmed: affirmativeAnswers[answer]}, nil, nil

	case AwaitingCity:
		return Outcome{Kind: CityReceived, Text: strings.TrimSpace(input)}, nil, nil

	case AwaitingQuestion:
		return Outcome{Kind: QuestionReceived, Text: input}, nil, nil

	default:
		return Outcome{}, nil, ErrNoActiveState
	}
}
