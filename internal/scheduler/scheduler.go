// Package scheduler delivers one-shot reminders at a future wall-clock time.
//
// Reminders live in a min-heap ordered by fire time. A single driver goroutine
// sleeps until the earliest reminder is due (never longer than the poll
// interval), fires every due reminder exactly once and drops it from the heap.
// Nothing is persisted; pending reminders are lost on restart.
package scheduler

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultPollInterval caps how long the driver sleeps between checks.
	DefaultPollInterval = time.Second
	// DefaultDeliveryTimeout bounds a single delivery call.
	DefaultDeliveryTimeout = 30 * time.Second
)

// Errors returned by Schedule.
var (
	ErrPastFireAt = errors.New("fire time must be in the future")
	ErrEmptyText  = errors.New("reminder text is empty")
)

// Deliverer sends a fired reminder to its destination.
type Deliverer interface {
	Deliver(ctx context.Context, destination int64, text string) error
}

// DelivererFunc adapts a function to the Deliverer interface.
type DelivererFunc func(ctx context.Context, destination int64, text string) error

// Deliver calls f.
func (f DelivererFunc) Deliver(ctx context.Context, destination int64, text string) error {
	return f(ctx, destination, text)
}

// Reminder is a scheduled one-shot delivery.
type Reminder struct {
	ID          string
	FireAt      time.Time
	Text        string
	Destination int64
	CreatedAt   time.Time

	seq uint64
}

// Config holds scheduler settings.
type Config struct {
	PollInterval    time.Duration
	DeliveryTimeout time.Duration
	// Now overrides the clock, mainly for tests.
	Now func() time.Time
}

// Scheduler owns the set of pending reminders.
type Scheduler struct {
	deliverer       Deliverer
	pollInterval    time.Duration
	deliveryTimeout time.Duration
	now             func() time.Time

	mu    sync.Mutex
	queue reminderQueue
	seq   uint64

	// wake nudges the driver when an earlier reminder is scheduled.
	wake chan struct{}
}

// New creates a Scheduler that hands due reminders to d.
func New(cfg *Config, d Deliverer) *Scheduler {
	s := &Scheduler{
		deliverer:       d,
		pollInterval:    DefaultPollInterval,
		deliveryTimeout: DefaultDeliveryTimeout,
		now:             time.Now,
		wake:            make(chan struct{}, 1),
	}

	if cfg != nil {
		if cfg.PollInterval > 0 {
			s.pollInterval = cfg.PollInterval
		}
		if cfg.DeliveryTimeout > 0 {
			s.deliveryTimeout = cfg.DeliveryTimeout
		}
		if cfg.Now != nil {
			s.now = cfg.Now
		}
	}

	return s
}

// Schedule registers a reminder that fires once at fireAt. It never blocks
// on delivery.
func (s *Scheduler) Schedule(fireAt time.Time, text string, destination int64) (*Reminder, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	now := s.now()
	if !fireAt.After(now) {
		return nil, fmt.Errorf("%w: %s", ErrPastFireAt, fireAt.Format(time.RFC3339))
	}

	s.mu.Lock()
	s.seq++
	r := &Reminder{
		ID:          uuid.NewString(),
		FireAt:      fireAt,
		Text:        text,
		Destination: destination,
		CreatedAt:   now,
		seq:         s.seq,
	}
	heap.Push(&s.queue, r)
	earliest := s.queue.peek() == r
	s.mu.Unlock()

	log.Info().
		Str("reminder_id", r.ID).
		Int64("destination", destination).
		Time("fire_at", fireAt).
		Msg("Reminder scheduled")

	if earliest {
		s.notify()
	}

	return r, nil
}

// Pending returns the number of reminders that have not fired yet.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Len()
}

// Next returns the fire time of the earliest pending reminder.
func (s *Scheduler) Next() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r := s.queue.peek(); r != nil {
		return r.FireAt, true
	}
	return time.Time{}, false
}

// Tick fires every reminder that is due and returns how many were fired.
// Due reminders leave the working set before delivery starts, so each one
// is handed to the Deliverer at most once whatever the outcome.
func (s *Scheduler) Tick(ctx context.Context) int {
	due := s.popDue(s.now())
	for _, r := range due {
		s.deliver(ctx, r)
	}
	return len(due)
}

// Run drives the scheduler until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	log.Info().Dur("poll_interval", s.pollInterval).Msg("Reminder scheduler started")

	timer := time.NewTimer(s.nextWait())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Int("pending", s.Pending()).Msg("Reminder scheduler stopped")
			return
		case <-s.wake:
		case <-timer.C:
			s.Tick(ctx)
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(s.nextWait())
	}
}

// Start runs the driver in a new goroutine. The returned channel is closed
// once the driver has exited.
func (s *Scheduler) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Run(ctx)
	}()
	return done
}

// nextWait returns how long the driver may sleep before the next check.
func (s *Scheduler) nextWait() time.Duration {
	next, ok := s.Next()
	if !ok {
		return s.pollInterval
	}
	wait := next.Sub(s.now())
	if wait < 0 {
		return 0
	}
	if wait > s.pollInterval {
		return s.pollInterval
	}
	return wait
}

// popDue removes and returns all reminders with FireAt <= now.
func (s *Scheduler) popDue(now time.Time) []*Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()

	var due []*Reminder
	for {
		r := s.queue.peek()
		if r == nil || r.FireAt.After(now) {
			return due
		}
		due = append(due, heap.Pop(&s.queue).(*Reminder))
	}
}

// deliver sends one reminder. Errors and panics are logged and swallowed so
// one bad delivery never stops the others.
func (s *Scheduler) deliver(ctx context.Context, r *Reminder) {
	defer func() {
		if p := recover(); p != nil {
			log.Error().
				Str("reminder_id", r.ID).
				Interface("panic", p).
				Msg("Recovered from panic while delivering reminder")
		}
	}()

	dctx, cancel := context.WithTimeout(ctx, s.deliveryTimeout)
	defer cancel()

	if err := s.deliverer.Deliver(dctx, r.Destination, r.Text); err != nil {
		log.Error().
			Err(err).
			Str("reminder_id", r.ID).
			Int64("destination", r.Destination).
			Msg("Failed to deliver reminder")
		return
	}

	log.Info().
		Str("reminder_id", r.ID).
		Int64("destination", r.Destination).
		Dur("lateness", s.now().Sub(r.FireAt)).
		Msg("Reminder delivered")
}

func (s *Scheduler) notify() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}
