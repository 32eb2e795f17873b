// Package model defines the data models for the cherry bot ledger.
package model

import "time"

// CardCount is the number of distinct cards in a full collection.
const CardCount = 10

// User represents a player's ledger record.
type User struct {
	TelegramID int64     `db:"telegram_id"`
	Username   string    `db:"username"`
	Cherries   int64     `db:"cherries"`
	TotalSpent int64     `db:"total_spent"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`

	// Cards holds the owned card numbers in ascending order.
	Cards []int `db:"-"`
}

// HasCard reports whether the user owns the given card number.
func (u *User) HasCard(number int) bool {
	for _, n := range u.Cards {
		if n == number {
			return true
		}
	}
	return false
}

// CardTotal returns how many distinct cards the user owns.
func (u *User) CardTotal() int {
	return len(u.Cards)
}

// CollectionComplete reports whether all cards are collected.
func (u *User) CollectionComplete() bool {
	return len(u.Cards) >= CardCount
}

// MissingCards returns the card numbers the user does not own yet.
func (u *User) MissingCards() []int {
	missing := make([]int, 0, CardCount)
	for n := 1; n <= CardCount; n++ {
		if !u.HasCard(n) {
			missing = append(missing, n)
		}
	}
	return missing
}

// ValidCard reports whether number is a card identifier.
func ValidCard(number int) bool {
	return number >= 1 && number <= CardCount
}

// Transaction represents a cherry balance change record.
type Transaction struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	Amount      int64     `db:"amount"`
	Type        string    `db:"type"`
	Description *string   `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

// Collector is a user who owns the full card set, used for ranking.
type Collector struct {
	UserID     int64  `db:"user_id"`
	Username   string `db:"username"`
	TotalSpent int64  `db:"total_spent"`
}

// Transaction types for categorizing balance changes.
const (
	TxTypeRPS     = "rps"      // Rock-paper-scissors win
	TxTypeCoin    = "coin"     // Coin flip win
	TxTypeCardBuy = "card_buy" // Card purchase
	TxTypeReset   = "reset"    // Progress reset
)
