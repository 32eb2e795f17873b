// Package service provides business logic implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cherry-bot/internal/model"
	"cherry-bot/internal/pkg/lock"
	"cherry-bot/internal/repository"
)

// Ledger errors re-exported for handlers.
var (
	ErrUserNotFound         = repository.ErrUserNotFound
	ErrInsufficientCherries = repository.ErrInsufficientCherries
	// ErrBusy means another ledger operation for the same user did not finish in time.
	ErrBusy = lock.ErrLockTimeout
)

// DefaultLockTimeout bounds how long a ledger write waits for the user's lock.
const DefaultLockTimeout = 5 * time.Second

// Ledger is the persistence the services need. *repository.Ledger implements it.
type Ledger interface {
	EnsureUser(ctx context.Context, telegramID int64, username string) (*model.User, bool, error)
	GetUser(ctx context.Context, telegramID int64) (*model.User, error)
	Reward(ctx context.Context, telegramID int64, amount int64, txType string, description string) (*model.User, error)
	BuyCard(ctx context.Context, telegramID int64, price int64, card int) (*model.User, bool, error)
	Reset(ctx context.Context, telegramID int64) error
	CompletedCollectors(ctx context.Context) ([]*model.Collector, error)
	History(ctx context.Context, telegramID int64, limit int) ([]*model.Transaction, error)
}

var _ Ledger = (*repository.Ledger)(nil)

// AccountService handles user account operations.
type AccountService struct {
	ledger      Ledger
	userLock    *lock.UserLock
	lockTimeout time.Duration
}

// NewAccountService creates a new AccountService instance.
func NewAccountService(ledger Ledger, userLock *lock.UserLock) *AccountService {
	return &AccountService{
		ledger:      ledger,
		userLock:    userLock,
		lockTimeout: DefaultLockTimeout,
	}
}

// EnsureUser ensures a user exists, creating one with zero cherries if necessary.
// Returns the user and whether it was newly created.
func (s *AccountService) EnsureUser(ctx context.Context, telegramID int64, username string) (*model.User, bool, error) {
	user, created, err := s.ledger.EnsureUser(ctx, telegramID, username)
	if err != nil {
		return nil, false, fmt.Errorf("failed to ensure user: %w", err)
	}
	return user, created, nil
}

// GetUser retrieves a user with their card collection.
func (s *AccountService) GetUser(ctx context.Context, telegramID int64) (*model.User, error) {
	return s.ledger.GetUser(ctx, telegramID)
}

// Reward credits a game win. Players who never sent /start get an account.
func (s *AccountService) Reward(ctx context.Context, telegramID int64, username string, amount int64, txType string, description string) (*model.User, error) {
	var user *model.User
	err := s.userLock.WithLockContext(ctx, telegramID, s.lockTimeout, func() error {
		if _, _, err := s.ledger.EnsureUser(ctx, telegramID, username); err != nil {
			return err
		}
		var err error
		user, err = s.ledger.Reward(ctx, telegramID, amount, txType, description)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reward user: %w", err)
	}
	return user, nil
}

// Reset clears the user's cherries, spend counter and cards.
func (s *AccountService) Reset(ctx context.Context, telegramID int64) error {
	return s.userLock.WithLockContext(ctx, telegramID, s.lockTimeout, func() error {
		return s.ledger.Reset(ctx, telegramID)
	})
}

// History returns the user's latest cherry movements.
func (s *AccountService) History(ctx context.Context, telegramID int64, limit int) ([]*model.Transaction, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.ledger.History(ctx, telegramID, limit)
}

// IsUserNotFound reports whether err means the user has no account.
func IsUserNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}
