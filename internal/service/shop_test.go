package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"cherry-bot/internal/model"
	"cherry-bot/internal/pkg/lock"
)

func newTestShop(ledger *memLedger, draws ...int) *ShopService {
	// draws are card indexes 0..9, i.e. card number minus one
	return NewShopService(ledger, NewRankingService(ledger), lock.NewUserLock(), 30, &seqRand{vals: draws})
}

func TestShopService_Defaults(t *testing.T) {
	svc := NewShopService(newMemLedger(), nil, lock.NewUserLock(), 0, nil)
	assert.Equal(t, DefaultCardPrice, svc.Price())
}

func TestShopService_InsufficientCherries(t *testing.T) {
	ledger := newMemLedger()
	ledger.give(1, 29)
	svc := newTestShop(ledger, 0)

	_, err := svc.BuyCard(context.Background(), 1)
	assert.ErrorIs(t, err, ErrInsufficientCherries)

	user, _ := ledger.GetUser(context.Background(), 1)
	assert.Equal(t, int64(29), user.Cherries, "nothing charged")
}

func TestShopService_UnknownUser(t *testing.T) {
	_, err := newTestShop(newMemLedger(), 0).BuyCard(context.Background(), 1)
	assert.True(t, IsUserNotFound(err))
}

func TestShopService_NewAndDuplicateCard(t *testing.T) {
	ledger := newMemLedger()
	ledger.give(1, 60)
	svc := newTestShop(ledger, 4, 4)
	ctx := context.Background()

	p, err := svc.BuyCard(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, p.Card)
	assert.True(t, p.New)
	assert.False(t, p.Completed)
	assert.Equal(t, int64(30), p.User.Cherries)
	assert.Equal(t, 1, p.User.CardTotal())

	p, err = svc.BuyCard(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, p.Card)
	assert.False(t, p.New)
	assert.Zero(t, p.User.Cherries, "duplicates are paid for")
	assert.Equal(t, int64(60), p.User.TotalSpent)
}

func TestShopService_CompletingTheSetReportsPlace(t *testing.T) {
	ledger := newMemLedger()
	ctx := context.Background()

	// user 1 completes first at 30 spent
	ledger.give(1, 30, 1, 2, 3, 4, 5, 6, 7, 8, 9)
	p, err := newTestShop(ledger, 9).BuyCard(ctx, 1)
	require.NoError(t, err)
	assert.True(t, p.Completed)
	assert.Equal(t, 1, p.Place)

	// user 2 spends more and ranks second
	ledger.give(2, 60, 1, 2, 3, 4, 5, 6, 7, 8, 9)
	p, err = newTestShop(ledger, 0, 9).BuyCard(ctx, 2)
	require.NoError(t, err)
	assert.False(t, p.New)
	p, err = newTestShop(ledger, 9).BuyCard(ctx, 2)
	require.NoError(t, err)
	assert.True(t, p.Completed)
	assert.Equal(t, 2, p.Place)

	// a complete collection refuses further purchases
	ledger.give(2, 30)
	_, err = newTestShop(ledger, 0).BuyCard(ctx, 2)
	assert.ErrorIs(t, err, ErrCollectionComplete)
}

// TestShopService_CollectionProperty checks the ledger invariants over any
// sequence of draws: every draw costs the price, cards stay a set within
// 1..10, and completion is reported exactly once.
func TestShopService_CollectionProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		draws := rapid.SliceOfN(rapid.IntRange(0, model.CardCount-1), 1, 60).Draw(rt, "draws")
		ledger := newMemLedger()
		ledger.give(1, int64(len(draws))*30)
		svc := newTestShop(ledger, draws...)

		completions := 0
		bought := 0
		for range draws {
			p, err := svc.BuyCard(context.Background(), 1)
			if errors.Is(err, ErrCollectionComplete) {
				break
			}
			if err != nil {
				rt.Fatalf("buy: %v", err)
			}
			bought++
			if !model.ValidCard(p.Card) {
				rt.Fatalf("card %d out of range", p.Card)
			}
			if p.Completed {
				completions++
			}
		}

		user, _ := ledger.GetUser(context.Background(), 1)
		if user.TotalSpent != int64(bought)*30 {
			rt.Fatalf("spent %d for %d draws", user.TotalSpent, bought)
		}
		seen := make(map[int]bool)
		for _, c := range user.Cards {
			if seen[c] {
				rt.Fatalf("duplicate card %d in collection", c)
			}
			seen[c] = true
		}
		want := 0
		if user.CollectionComplete() {
			want = 1
		}
		if completions != want {
			rt.Fatalf("completion reported %d times", completions)
		}
	})
}

// stuckLedger blocks BuyCard until release is closed.
type stuckLedger struct {
	*memLedger
	entered chan struct{}
	release chan struct{}
}

func (l *stuckLedger) BuyCard(ctx context.Context, id int64, price int64, card int) (*model.User, bool, error) {
	select {
	case l.entered <- struct{}{}:
	default:
	}
	<-l.release
	return l.memLedger.BuyCard(ctx, id, price, card)
}

func TestShopService_StuckLedgerCallTimesOut(t *testing.T) {
	ledger := newMemLedger()
	ledger.give(1, 60)
	ledger.give(2, 0)
	stuck := &stuckLedger{memLedger: ledger, entered: make(chan struct{}, 1), release: make(chan struct{})}

	userLock := lock.NewUserLock()
	shop := NewShopService(stuck, NewRankingService(stuck), userLock, 30, &seqRand{vals: []int{0, 1}})
	shop.lockTimeout = 20 * time.Millisecond
	account := NewAccountService(stuck, userLock)
	account.lockTimeout = 20 * time.Millisecond
	ctx := context.Background()

	firstDone := make(chan error, 1)
	go func() {
		_, err := shop.BuyCard(ctx, 1)
		firstDone <- err
	}()
	<-stuck.entered

	_, err := shop.BuyCard(ctx, 1)
	assert.ErrorIs(t, err, ErrBusy)
	_, err = account.Reward(ctx, 1, "u1", 1, model.TxTypeRPS, "win")
	assert.ErrorIs(t, err, ErrBusy)
	assert.ErrorIs(t, account.Reset(ctx, 1), ErrBusy)

	// other players are not held up
	_, err = account.Reward(ctx, 2, "u2", 1, model.TxTypeRPS, "win")
	require.NoError(t, err)

	close(stuck.release)
	require.NoError(t, <-firstDone)

	p, err := shop.BuyCard(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Card)
	assert.Equal(t, int64(0), p.User.Cherries)
}
