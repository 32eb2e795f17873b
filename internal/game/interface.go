// Package game defines the mini-games that earn cherries and the registry
// that routes inline-keyboard callbacks to them.
package game

import (
	"context"
	"errors"
	"math/rand"
)

// Outcome is the result of a single round from the player's side.
type Outcome int

const (
	Loss Outcome = iota
	Draw
	Win
)

// String returns the outcome name used in logs.
func (o Outcome) String() string {
	switch o {
	case Win:
		return "win"
	case Draw:
		return "draw"
	default:
		return "loss"
	}
}

// ErrUnknownChoice is returned by Play for a choice the game does not offer.
var ErrUnknownChoice = errors.New("unknown choice")

// Option is one button the player can press.
type Option struct {
	Key   string // callback suffix, e.g. "rock"
	Label string // button text
}

// Result describes a played round.
type Result struct {
	Outcome     Outcome
	Reward      int64  // cherries to credit, zero unless the player won
	Player      string // the player's pick, human readable
	Drawn       string // what the bot picked or the coin showed
	Description string // message shown to the player
}

// Game is a single-round game of chance.
type Game interface {
	// Name is the menu button text.
	Name() string
	// Command prefixes every choice callback, e.g. "rps" gives "rps_rock".
	Command() string
	// StartData is the callback sent by the menu button.
	StartData() string
	// Prompt is shown above the choice buttons.
	Prompt() string
	// Options lists the choices in display order.
	Options() []Option
	// Play resolves one round for the given choice key.
	Play(ctx context.Context, userID int64, choice string) (*Result, error)
	// TxType labels the ledger record of a win.
	TxType() string
}

// Rand is the randomness a game draws from.
type Rand interface {
	Intn(n int) int
}

type globalRand struct{}

func (globalRand) Intn(n int) int { return rand.Intn(n) }

// DefaultRand uses the goroutine-safe top-level math/rand source.
var DefaultRand Rand = globalRand{}
