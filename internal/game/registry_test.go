package game_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cherry-bot/internal/game"
	"cherry-bot/internal/game/coin"
	"cherry-bot/internal/game/rps"
)

func newRegistry(t *testing.T) *game.Registry {
	t.Helper()
	r := game.NewRegistry()
	require.NoError(t, r.Register(rps.New(nil)))
	require.NoError(t, r.Register(coin.New(nil)))
	return r
}

func TestRegistry_RegisterAndList(t *testing.T) {
	r := newRegistry(t)

	assert.Equal(t, 2, r.Count())
	list := r.List()
	require.Len(t, list, 2)
	assert.Equal(t, "rps", list[0].Command())
	assert.Equal(t, "coin", list[1].Command())

	// re-registering keeps the position
	require.NoError(t, r.Register(rps.New(nil)))
	assert.Equal(t, 2, r.Count())
	assert.Equal(t, "rps", r.List()[0].Command())

	assert.Error(t, r.Register(nil))

	assert.Equal(t, "coin_flip_game", r.List()[1].StartData())
}

func TestRegistry_Resolve(t *testing.T) {
	r := newRegistry(t)

	tests := []struct {
		data    string
		command string
		choice  string
		ok      bool
	}{
		{"rps_game", "rps", "", true},
		{"coin_flip_game", "coin", "", true},
		{"rps_rock", "rps", "rock", true},
		{"rps_paper", "rps", "paper", true},
		{"coin_head", "coin", "head", true},
		{"coin_tail", "coin", "tail", true},
		{"rps_", "", "", false},
		{"slot_spin", "", "", false},
		{"", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.data, func(t *testing.T) {
			g, choice, ok := r.Resolve(tt.data)
			assert.Equal(t, tt.ok, ok)
			if !tt.ok {
				return
			}
			assert.Equal(t, tt.command, g.Command())
			assert.Equal(t, tt.choice, choice)
		})
	}
}

func TestBuildMenuAndChoices(t *testing.T) {
	r := newRegistry(t)

	menu := game.BuildMenu(r)
	require.Len(t, menu.InlineKeyboard, 1)
	row := menu.InlineKeyboard[0]
	require.Len(t, row, 2)
	assert.Equal(t, "Камень, ножницы, бумага", row[0].Text)
	assert.Equal(t, "rps_game", row[0].Unique)
	assert.Equal(t, "coin_flip_game", row[1].Unique)

	g := r.List()[0]
	choices := game.BuildChoices(g)
	require.Len(t, choices.InlineKeyboard, 1)
	require.Len(t, choices.InlineKeyboard[0], 3)
	for i, opt := range g.Options() {
		btn := choices.InlineKeyboard[0][i]
		assert.Equal(t, opt.Label, btn.Text)
		_, choice, ok := r.Resolve(btn.Unique)
		require.True(t, ok)
		assert.Equal(t, opt.Key, choice)
	}
}
