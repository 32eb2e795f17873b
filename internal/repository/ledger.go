package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"cherry-bot/internal/model"
)

// Ledger groups the ledger repositories and runs multi-table operations
// inside one database transaction.
type Ledger struct {
	pool         *pgxpool.Pool
	Users        *UserRepository
	Cards        *CardRepository
	Transactions *TransactionRepository
}

// NewLedger creates a Ledger on top of the pool.
func NewLedger(pool *pgxpool.Pool) *Ledger {
	return &Ledger{
		pool:         pool,
		Users:        NewUserRepository(pool),
		Cards:        NewCardRepository(pool),
		Transactions: NewTransactionRepository(pool),
	}
}

// inTx runs fn with repositories bound to a single transaction.
func (l *Ledger) inTx(ctx context.Context, fn func(users *UserRepository, cards *CardRepository, txs *TransactionRepository) error) error {
	return pgx.BeginFunc(ctx, l.pool, func(tx pgx.Tx) error {
		return fn(NewUserRepository(tx), NewCardRepository(tx), NewTransactionRepository(tx))
	})
}

// EnsureUser returns the user with their cards, creating the account on first use.
func (l *Ledger) EnsureUser(ctx context.Context, telegramID int64, username string) (*model.User, bool, error) {
	user, created, err := l.Users.GetOrCreate(ctx, telegramID, username)
	if err != nil {
		return nil, false, err
	}
	if !created && username != "" && user.Username != username {
		if err := l.Users.UpdateUsername(ctx, telegramID, username); err == nil {
			user.Username = username
		}
	}
	if user.Cards, err = l.Cards.List(ctx, telegramID); err != nil {
		return nil, false, err
	}
	return user, created, nil
}

// GetUser returns the user with their cards.
func (l *Ledger) GetUser(ctx context.Context, telegramID int64) (*model.User, error) {
	user, err := l.Users.GetByID(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	if user.Cards, err = l.Cards.List(ctx, telegramID); err != nil {
		return nil, err
	}
	return user, nil
}

// Reward adds cherries and records why.
func (l *Ledger) Reward(ctx context.Context, telegramID int64, amount int64, txType string, description string) (*model.User, error) {
	var user *model.User
	err := l.inTx(ctx, func(users *UserRepository, _ *CardRepository, txs *TransactionRepository) error {
		var err error
		if user, err = users.AddCherries(ctx, telegramID, amount); err != nil {
			return err
		}
		_, err = txs.Create(ctx, telegramID, amount, txType, &description)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// BuyCard charges price and adds card to the collection in one transaction.
// It reports whether the card was new; a duplicate is still paid for.
func (l *Ledger) BuyCard(ctx context.Context, telegramID int64, price int64, card int) (*model.User, bool, error) {
	var (
		user  *model.User
		added bool
	)
	err := l.inTx(ctx, func(users *UserRepository, cards *CardRepository, txs *TransactionRepository) error {
		var err error
		if user, err = users.Spend(ctx, telegramID, price); err != nil {
			return err
		}
		if added, err = cards.Add(ctx, telegramID, card); err != nil {
			return err
		}
		desc := fmt.Sprintf("карта %d", card)
		if _, err = txs.Create(ctx, telegramID, -price, model.TxTypeCardBuy, &desc); err != nil {
			return err
		}
		user.Cards, err = cards.List(ctx, telegramID)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return user, added, nil
}

// Reset clears cherries, spend and cards in one transaction.
func (l *Ledger) Reset(ctx context.Context, telegramID int64) error {
	return l.inTx(ctx, func(users *UserRepository, cards *CardRepository, txs *TransactionRepository) error {
		if err := users.ResetProgress(ctx, telegramID); err != nil {
			return err
		}
		if err := cards.Clear(ctx, telegramID); err != nil {
			return err
		}
		desc := "сброс прогресса"
		_, err := txs.Create(ctx, telegramID, 0, model.TxTypeReset, &desc)
		return err
	})
}

// CompletedCollectors lists users owning the full set, best ranked first.
func (l *Ledger) CompletedCollectors(ctx context.Context) ([]*model.Collector, error) {
	return l.Users.CompletedCollectors(ctx)
}

// History returns the user's latest cherry movements.
func (l *Ledger) History(ctx context.Context, telegramID int64, limit int) ([]*model.Transaction, error) {
	return l.Transactions.GetByUserID(ctx, telegramID, limit)
}
