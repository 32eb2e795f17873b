package rps

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"cherry-bot/internal/game"
)

// fixedRand always returns n.
type fixedRand int

func (f fixedRand) Intn(int) int { return int(f) }

func TestPlay_AllCombinations(t *testing.T) {
	tests := []struct {
		player  string
		botIdx  int // index into order: rock, scissors, paper
		outcome game.Outcome
		desc    string
	}{
		{Rock, 0, game.Draw, "Ничья! Оба выбрали камень."},
		{Rock, 1, game.Win, "Победа! Вы камень, бот ножницы. +1 🍒"},
		{Rock, 2, game.Loss, "Проигрыш! Вы камень, бот бумага."},
		{Scissors, 0, game.Loss, "Проигрыш! Вы ножницы, бот камень."},
		{Scissors, 1, game.Draw, "Ничья! Оба выбрали ножницы."},
		{Scissors, 2, game.Win, "Победа! Вы ножницы, бот бумага. +1 🍒"},
		{Paper, 0, game.Win, "Победа! Вы бумага, бот камень. +1 🍒"},
		{Paper, 1, game.Loss, "Проигрыш! Вы бумага, бот ножницы."},
		{Paper, 2, game.Draw, "Ничья! Оба выбрали бумага."},
	}

	for _, tt := range tests {
		t.Run(tt.player+"_vs_"+order[tt.botIdx], func(t *testing.T) {
			g := New(fixedRand(tt.botIdx))
			res, err := g.Play(context.Background(), 1, tt.player)
			require.NoError(t, err)
			assert.Equal(t, tt.outcome, res.Outcome)
			assert.Equal(t, tt.desc, res.Description)
			if tt.outcome == game.Win {
				assert.Equal(t, int64(WinReward), res.Reward)
			} else {
				assert.Zero(t, res.Reward)
			}
		})
	}
}

func TestPlay_UnknownChoice(t *testing.T) {
	_, err := New(fixedRand(0)).Play(context.Background(), 1, "lizard")
	assert.ErrorIs(t, err, game.ErrUnknownChoice)
}

func TestOptionsMatchCallbacks(t *testing.T) {
	g := New(nil)
	for _, opt := range g.Options() {
		_, err := g.Play(context.Background(), 1, opt.Key)
		assert.NoError(t, err, opt.Key)
		assert.Equal(t, "rps_"+opt.Key, game.ChoiceData(g, opt.Key))
	}
}

// TestRewardOnlyOnWinProperty checks that a reward is paid exactly on wins.
func TestRewardOnlyOnWinProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		choice := rapid.SampledFrom(order).Draw(rt, "choice")
		botIdx := rapid.IntRange(0, len(order)-1).Draw(rt, "botIdx")

		res, err := New(fixedRand(botIdx)).Play(context.Background(), 1, choice)
		if err != nil {
			rt.Fatalf("play: %v", err)
		}
		if (res.Outcome == game.Win) != (res.Reward > 0) {
			rt.Fatalf("outcome %s paid %d", res.Outcome, res.Reward)
		}
		if (res.Outcome == game.Draw) != (choice == order[botIdx]) {
			rt.Fatalf("draw mismatch: %s vs %s gave %s", choice, order[botIdx], res.Outcome)
		}
	})
}
