package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"cherry-bot/internal/model"
	"cherry-bot/internal/repository"
)

// memLedger is an in-memory Ledger mirroring the Postgres semantics.
type memLedger struct {
	mu        sync.Mutex
	users     map[int64]*model.User
	completed map[int64]time.Time
	txs       map[int64][]*model.Transaction
	seq       int64
	failReset error
}

func newMemLedger() *memLedger {
	return &memLedger{
		users:     make(map[int64]*model.User),
		completed: make(map[int64]time.Time),
		txs:       make(map[int64][]*model.Transaction),
	}
}

func (l *memLedger) copyUser(u *model.User) *model.User {
	c := *u
	c.Cards = append([]int(nil), u.Cards...)
	return &c
}

func (l *memLedger) record(id, amount int64, txType, desc string) {
	l.seq++
	l.txs[id] = append(l.txs[id], &model.Transaction{ID: l.seq, UserID: id, Amount: amount, Type: txType, Description: &desc})
}

func (l *memLedger) EnsureUser(_ context.Context, id int64, username string) (*model.User, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if u, ok := l.users[id]; ok {
		return l.copyUser(u), false, nil
	}
	u := &model.User{TelegramID: id, Username: username, Cards: []int{}}
	l.users[id] = u
	return l.copyUser(u), true, nil
}

func (l *memLedger) GetUser(_ context.Context, id int64) (*model.User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	u, ok := l.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return l.copyUser(u), nil
}

func (l *memLedger) Reward(_ context.Context, id int64, amount int64, txType, desc string) (*model.User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	u, ok := l.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	u.Cherries += amount
	l.record(id, amount, txType, desc)
	return l.copyUser(u), nil
}

func (l *memLedger) BuyCard(_ context.Context, id int64, price int64, card int) (*model.User, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	u, ok := l.users[id]
	if !ok {
		return nil, false, repository.ErrUserNotFound
	}
	if u.Cherries < price {
		return nil, false, repository.ErrInsufficientCherries
	}
	u.Cherries -= price
	u.TotalSpent += price
	l.record(id, -price, model.TxTypeCardBuy, "")

	if u.HasCard(card) {
		return l.copyUser(u), false, nil
	}
	u.Cards = append(u.Cards, card)
	sort.Ints(u.Cards)
	if u.CollectionComplete() {
		l.completed[id] = time.Unix(l.seq, 0)
	}
	return l.copyUser(u), true, nil
}

func (l *memLedger) Reset(_ context.Context, id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failReset != nil {
		return l.failReset
	}
	u, ok := l.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.Cherries, u.TotalSpent, u.Cards = 0, 0, []int{}
	delete(l.completed, id)
	l.record(id, 0, model.TxTypeReset, "")
	return nil
}

func (l *memLedger) CompletedCollectors(context.Context) ([]*model.Collector, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []*model.Collector
	for id := range l.completed {
		u := l.users[id]
		out = append(out, &model.Collector{UserID: id, Username: u.Username, TotalSpent: u.TotalSpent})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalSpent != out[j].TotalSpent {
			return out[i].TotalSpent < out[j].TotalSpent
		}
		ti, tj := l.completed[out[i].UserID], l.completed[out[j].UserID]
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}

func (l *memLedger) History(_ context.Context, id int64, limit int) ([]*model.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	all := l.txs[id]
	var out []*model.Transaction
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, all[i])
	}
	return out, nil
}

// give seeds a user with cherries and cards.
func (l *memLedger) give(id int64, cherries int64, cards ...int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	u, ok := l.users[id]
	if !ok {
		u = &model.User{TelegramID: id, Cards: []int{}}
		l.users[id] = u
	}
	u.Cherries += cherries
	u.Cards = append(u.Cards, cards...)
	sort.Ints(u.Cards)
}

// seqRand returns the values in order, then repeats the last one.
type seqRand struct {
	mu   sync.Mutex
	vals []int
}

func (r *seqRand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	v := r.vals[0]
	if len(r.vals) > 1 {
		r.vals = r.vals[1:]
	}
	return v % n
}
