package game

import (
	"fmt"
	"strings"
	"sync"
)

// Registry manages game registration and callback lookup.
// Games are listed in registration order.
type Registry struct {
	games map[string]Game
	order []string
	mu    sync.RWMutex
}

// NewRegistry creates a new game registry.
func NewRegistry() *Registry {
	return &Registry{
		games: make(map[string]Game),
	}
}

// Register adds a game to the registry.
// If a game with the same command already exists, it is replaced in place.
func (r *Registry) Register(g Game) error {
	if g == nil {
		return fmt.Errorf("cannot register nil game")
	}
	if g.Command() == "" {
		return fmt.Errorf("game command cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.games[g.Command()]; !ok {
		r.order = append(r.order, g.Command())
	}
	r.games[g.Command()] = g
	return nil
}

// List returns all registered games in registration order.
func (r *Registry) List() []Game {
	r.mu.RLock()
	defer r.mu.RUnlock()

	games := make([]Game, 0, len(r.order))
	for _, cmd := range r.order {
		games = append(games, r.games[cmd])
	}
	return games
}

// Count returns the number of registered games.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}

// Resolve maps callback data to a game. choice is empty when data is the
// game's menu button, otherwise it is the option key.
func (r *Registry) Resolve(data string) (g Game, choice string, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, cmd := range r.order {
		if r.games[cmd].StartData() == data {
			return r.games[cmd], "", true
		}
	}
	for _, cmd := range r.order {
		if key, found := strings.CutPrefix(data, cmd+"_"); found && key != "" {
			return r.games[cmd], key, true
		}
	}
	return nil, "", false
}
