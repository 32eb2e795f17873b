// Package coin implements a heads-or-tails coin flip.
package coin

import (
	"context"
	"fmt"

	"cherry-bot/internal/game"
	"cherry-bot/internal/model"
)

// WinReward is the number of cherries credited for a correct guess.
const WinReward = 1

const (
	Head = "head"
	Tail = "tail"
)

var sides = []string{Head, Tail}

var labels = map[string]string{
	Head: "орёл",
	Tail: "решка",
}

// Game implements game.Game for the coin flip.
type Game struct {
	rnd game.Rand
}

// New creates the game. A nil rnd uses game.DefaultRand.
func New(rnd game.Rand) *Game {
	if rnd == nil {
		rnd = game.DefaultRand
	}
	return &Game{rnd: rnd}
}

func (g *Game) Name() string      { return "Орёл или решка" }
func (g *Game) Command() string   { return "coin" }
func (g *Game) StartData() string { return "coin_flip_game" }
func (g *Game) Prompt() string    { return "Выберите: орёл или решка:" }
func (g *Game) TxType() string    { return model.TxTypeCoin }

// Options returns the two sides.
func (g *Game) Options() []game.Option {
	return []game.Option{
		{Key: Head, Label: "Орел"},
		{Key: Tail, Label: "Решка"},
	}
}

// Play flips the coin. There is no draw.
func (g *Game) Play(_ context.Context, _ int64, choice string) (*game.Result, error) {
	player, ok := labels[choice]
	if !ok {
		return nil, fmt.Errorf("%w: %q", game.ErrUnknownChoice, choice)
	}

	side := sides[g.rnd.Intn(len(sides))]
	drawn := labels[side]

	if side == choice {
		return &game.Result{
			Outcome:     game.Win,
			Reward:      WinReward,
			Player:      player,
			Drawn:       drawn,
			Description: fmt.Sprintf("Победа! Вы %s, выпало %s. +%d 🍒", player, drawn, WinReward),
		}, nil
	}
	return &game.Result{
		Outcome:     game.Loss,
		Player:      player,
		Drawn:       drawn,
		Description: fmt.Sprintf("Проигрыш! Вы %s, выпало %s.", player, drawn),
	}, nil
}
