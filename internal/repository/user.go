// Package repository provides data access layer implementations.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"cherry-bot/internal/model"
)

// Common errors for repository operations.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrInsufficientCherries = errors.New("insufficient cherries")
)

// DBTX is the query surface shared by *pgxpool.Pool and pgx.Tx, so
// repositories work the same inside and outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepository handles the cherry balance part of the ledger.
type UserRepository struct {
	db DBTX
}

// NewUserRepository creates a new UserRepository instance.
func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// userColumns is the select list matching scanUser.
const userColumns = `telegram_id, username, cherries, total_spent, created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.TelegramID,
		&user.Username,
		&user.Cherries,
		&user.TotalSpent,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByID retrieves a user by their Telegram ID.
// Returns ErrUserNotFound if the user does not exist.
func (r *UserRepository) GetByID(ctx context.Context, telegramID int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE telegram_id = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, telegramID))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetOrCreate retrieves a user by Telegram ID, creating one if it doesn't exist.
// The second return value reports whether the user was created.
func (r *UserRepository) GetOrCreate(ctx context.Context, telegramID int64, username string) (*model.User, bool, error) {
	const insert = `
		INSERT INTO users (telegram_id, username)
		VALUES ($1, $2)
		ON CONFLICT (telegram_id) DO NOTHING
	`

	tag, err := r.db.Exec(ctx, insert, telegramID, username)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create user: %w", err)
	}

	user, err := r.GetByID(ctx, telegramID)
	if err != nil {
		return nil, false, err
	}
	return user, tag.RowsAffected() > 0, nil
}

// AddCherries adds amount to the user's balance and returns the updated user.
func (r *UserRepository) AddCherries(ctx context.Context, telegramID int64, amount int64) (*model.User, error) {
	query := `
		UPDATE users
		SET cherries = cherries + $2, updated_at = NOW()
		WHERE telegram_id = $1
		RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRow(ctx, query, telegramID, amount))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to add cherries: %w", err)
	}
	return user, nil
}

// Spend moves amount from the balance to total_spent.
// Returns ErrInsufficientCherries if the balance is lower than amount.
func (r *UserRepository) Spend(ctx context.Context, telegramID int64, amount int64) (*model.User, error) {
	query := `
		UPDATE users
		SET cherries = cherries - $2, total_spent = total_spent + $2, updated_at = NOW()
		WHERE telegram_id = $1 AND cherries >= $2
		RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRow(ctx, query, telegramID, amount))
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to spend cherries: %w", err)
	}

	// Tell a missing user apart from a short balance
	exists, existsErr := r.Exists(ctx, telegramID)
	if existsErr != nil {
		return nil, existsErr
	}
	if exists {
		return nil, ErrInsufficientCherries
	}
	return nil, ErrUserNotFound
}

// ResetProgress zeroes the balance and the spend counter.
func (r *UserRepository) ResetProgress(ctx context.Context, telegramID int64) error {
	const query = `
		UPDATE users
		SET cherries = 0, total_spent = 0, updated_at = NOW()
		WHERE telegram_id = $1
	`

	tag, err := r.db.Exec(ctx, query, telegramID)
	if err != nil {
		return fmt.Errorf("failed to reset user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdateUsername updates a user's username.
func (r *UserRepository) UpdateUsername(ctx context.Context, telegramID int64, username string) error {
	const query = `
		UPDATE users
		SET username = $2, updated_at = NOW()
		WHERE telegram_id = $1
	`

	result, err := r.db.Exec(ctx, query, telegramID, username)
	if err != nil {
		return fmt.Errorf("failed to update username: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Exists checks if a user with the given Telegram ID exists.
func (r *UserRepository) Exists(ctx context.Context, telegramID int64) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM users WHERE telegram_id = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, telegramID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return exists, nil
}

// CompletedCollectors lists users owning every card, ordered by total spend
// (cheapest collection first), then by who completed the set earlier.
func (r *UserRepository) CompletedCollectors(ctx context.Context) ([]*model.Collector, error) {
	const query = `
		SELECT u.telegram_id, u.username, u.total_spent
		FROM users u
		JOIN user_cards c ON c.user_id = u.telegram_id
		GROUP BY u.telegram_id, u.username, u.total_spent
		HAVING COUNT(*) >= $1
		ORDER BY u.total_spent ASC, MAX(c.acquired_at) ASC, u.telegram_id ASC
	`

	rows, err := r.db.Query(ctx, query, model.CardCount)
	if err != nil {
		return nil, fmt.Errorf("failed to get collectors: %w", err)
	}
	defer rows.Close()

	var collectors []*model.Collector
	for rows.Next() {
		var c model.Collector
		if err := rows.Scan(&c.UserID, &c.Username, &c.TotalSpent); err != nil {
			return nil, fmt.Errorf("failed to scan collector: %w", err)
		}
		collectors = append(collectors, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating collectors: %w", err)
	}
	return collectors, nil
}
