package service

import (
	"context"
	"errors"
	"fmt"
)

// ErrCollectionIncomplete is returned when a ranking is asked for before
// the user owns every card.
var ErrCollectionIncomplete = errors.New("card collection is not complete")

// RankingService places complete collectors against each other.
type RankingService struct {
	ledger Ledger
}

// NewRankingService creates a new RankingService instance.
func NewRankingService(ledger Ledger) *RankingService {
	return &RankingService{ledger: ledger}
}

// Place returns the user's 1-based position among complete collectors,
// ordered by total cherries spent. It fails with ErrCollectionIncomplete
// for users still missing cards.
func (s *RankingService) Place(ctx context.Context, telegramID int64) (int, error) {
	user, err := s.ledger.GetUser(ctx, telegramID)
	if err != nil {
		return 0, err
	}
	if !user.CollectionComplete() {
		return 0, ErrCollectionIncomplete
	}
	return s.place(ctx, telegramID)
}

func (s *RankingService) place(ctx context.Context, telegramID int64) (int, error) {
	collectors, err := s.ledger.CompletedCollectors(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load collectors: %w", err)
	}
	for i, c := range collectors {
		if c.UserID == telegramID {
			return i + 1, nil
		}
	}
	// not listed yet: behind everyone who is
	return len(collectors) + 1, nil
}
