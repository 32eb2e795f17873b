package repository

import (
	"context"
	"fmt"

	"cherry-bot/internal/model"
)

// CardRepository handles the set of collected cards per user.
type CardRepository struct {
	db DBTX
}

// NewCardRepository creates a new CardRepository instance.
func NewCardRepository(db DBTX) *CardRepository {
	return &CardRepository{db: db}
}

// Add records that the user owns the card. It reports false when the card
// was already in the collection.
func (r *CardRepository) Add(ctx context.Context, userID int64, card int) (bool, error) {
	if !model.ValidCard(card) {
		return false, fmt.Errorf("invalid card number %d", card)
	}

	const query = `
		INSERT INTO user_cards (user_id, card_number, acquired_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, card_number) DO NOTHING
	`
	tag, err := r.db.Exec(ctx, query, userID, card)
	if err != nil {
		return false, fmt.Errorf("failed to add card: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// List returns the user's card numbers in ascending order.
func (r *CardRepository) List(ctx context.Context, userID int64) ([]int, error) {
	const query = `
		SELECT card_number FROM user_cards
		WHERE user_id = $1
		ORDER BY card_number
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer rows.Close()

	cards := make([]int, 0, model.CardCount)
	for rows.Next() {
		var n int16
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, int(n))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cards: %w", err)
	}
	return cards, nil
}

// Clear removes every card from the user's collection.
func (r *CardRepository) Clear(ctx context.Context, userID int64) error {
	const query = `DELETE FROM user_cards WHERE user_id = $1`

	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to clear cards: %w", err)
	}
	return nil
}
