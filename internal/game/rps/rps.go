// Package rps implements rock-paper-scissors against the bot.
package rps

import (
	"context"
	"fmt"

	"cherry-bot/internal/game"
	"cherry-bot/internal/model"
)

// WinReward is the number of cherries credited for a win.
const WinReward = 1

const (
	Rock     = "rock"
	Scissors = "scissors"
	Paper    = "paper"
)

var labels = map[string]string{
	Rock:     "камень",
	Scissors: "ножницы",
	Paper:    "бумага",
}

// order is the bot's draw table.
var order = []string{Rock, Scissors, Paper}

// beats maps each pick to the pick it defeats.
var beats = map[string]string{
	Rock:     Scissors,
	Scissors: Paper,
	Paper:    Rock,
}

// Game implements game.Game for rock-paper-scissors.
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

func (g *Game) Name() string      { return "Камень, ножницы, бумага" }
func (g *Game) Command() string   { return "rps" }
func (g *Game) StartData() string { return "rps_game" }
func (g *Game) Prompt() string {
	return "Выберите: камень, ножницы или бумага:"
}
func (g *Game) TxType() string { return model.TxTypeRPS }

// Options returns rock, scissors and paper buttons.
func (g *Game) Options() []game.Option {
	return []game.Option{
		{Key: Rock, Label: "Камень"},
		{Key: Scissors, Label: "Ножницы"},
		{Key: Paper, Label: "Бумага"},
	}
}

// Play draws the bot's pick and compares it with choice.
func (g *Game) Play(_ context.Context, _ int64, choice string) (*game.Result, error) {
	player, ok := labels[choice]
	if !ok {
		return nil, fmt.Errorf("%w: %q", game.ErrUnknownChoice, choice)
	}

	botPick := order[g.rnd.Intn(len(order))]
	drawn := labels[botPick]

	res := &game.Result{Player: player, Drawn: drawn}
	switch {
	case beats[choice] == botPick:
		res.Outcome = game.Win
		res.Reward = WinReward
		res.Description = fmt.Sprintf("Победа! Вы %s, бот %s. +%d 🍒", player, drawn, WinReward)
	case choice == botPick:
		res.Outcome = game.Draw
		res.Description = fmt.Sprintf("Ничья! Оба выбрали %s.", drawn)
	default:
		res.Outcome = game.Loss
		res.Description = fmt.Sprintf("Проигрыш! Вы %s, бот %s.", player, drawn)
	}
	return res, nil
}
