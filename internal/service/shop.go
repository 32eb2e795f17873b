package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"cherry-bot/internal/game"
	"cherry-bot/internal/model"
	"cherry-bot/internal/pkg/lock"
)

// DefaultCardPrice is the cherry cost of one card draw.
const DefaultCardPrice int64 = 30

// ErrCollectionComplete is returned when a user who owns every card tries to buy.
var ErrCollectionComplete = errors.New("card collection is already complete")

// Purchase is the result of a card draw.
type Purchase struct {
	Card      int
	New       bool // false when the card was already owned; it is still paid for
	User      *model.User
	Completed bool // this draw completed the collection
	Place     int  // ranking place, set only when Completed
}

// ShopService sells random cards for cherries.
type ShopService struct {
	ledger      Ledger
	ranking     *RankingService
	userLock    *lock.UserLock
	lockTimeout time.Duration
	price       int64
	rnd         game.Rand
}

// NewShopService creates a new ShopService. A non-positive price falls back
// to DefaultCardPrice and a nil rnd to game.DefaultRand.
func NewShopService(ledger Ledger, ranking *RankingService, userLock *lock.UserLock, price int64, rnd game.Rand) *ShopService {
	if price <= 0 {
		price = DefaultCardPrice
	}
	if rnd == nil {
		rnd = game.DefaultRand
	}
	return &ShopService{
		ledger:      ledger,
		ranking:     ranking,
		userLock:    userLock,
		lockTimeout: DefaultLockTimeout,
		price:       price,
		rnd:         rnd,
	}
}

// Price returns the cost of one card.
func (s *ShopService) Price() int64 {
	return s.price
}

// BuyCard charges the card price and draws a uniformly random card. It fails
// with ErrBusy if another ledger write for the user is still running.
func (s *ShopService) BuyCard(ctx context.Context, telegramID int64) (*Purchase, error) {
	var p *Purchase
	err := s.userLock.WithLockContext(ctx, telegramID, s.lockTimeout, func() error {
		var err error
		p, err = s.buyCard(ctx, telegramID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ShopService) buyCard(ctx context.Context, telegramID int64) (*Purchase, error) {
	user, err := s.ledger.GetUser(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	if user.Cherries < s.price {
		return nil, ErrInsufficientCherries
	}
	if user.CollectionComplete() {
		return nil, ErrCollectionComplete
	}

	card := s.rnd.Intn(model.CardCount) + 1
	user, added, err := s.ledger.BuyCard(ctx, telegramID, s.price, card)
	if err != nil {
		return nil, fmt.Errorf("failed to buy card: %w", err)
	}

	p := &Purchase{Card: card, New: added, User: user}
	if added && user.CollectionComplete() {
		p.Completed = true
		if p.Place, err = s.ranking.place(ctx, telegramID); err != nil {
			return nil, err
		}
		log.Info().
			Int64("user_id", telegramID).
			Int64("total_spent", user.TotalSpent).
			Int("place", p.Place).
			Msg("Card collection completed")
	}

	return p, nil
}
