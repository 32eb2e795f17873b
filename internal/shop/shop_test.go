package shop

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cherry-bot/internal/model"
)

func TestCatalogue_Photo(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "photo3.jpg"), []byte("jpeg"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "photo4.jpg"), 0o700))
	c := NewCatalogue(dir)

	photo, ok := c.Photo(3)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "photo3.jpg"), photo.FileLocal)
	assert.Equal(t, "Карта 3", photo.Caption)

	_, ok = c.Photo(5)
	assert.False(t, ok, "missing file")
	_, ok = c.Photo(4)
	assert.False(t, ok, "directory is not a photo")
	_, ok = c.Photo(0)
	assert.False(t, ok, "invalid card")
}

func TestCommandsKeyboard(t *testing.T) {
	kb := CommandsKeyboard()
	assert.True(t, kb.ResizeKeyboard)
	require.Len(t, kb.ReplyKeyboard, 3)

	var rows [][]string
	for _, row := range kb.ReplyKeyboard {
		var texts []string
		for _, btn := range row {
			texts = append(texts, btn.Text)
		}
		rows = append(rows, texts)
	}
	assert.Equal(t, [][]string{
		{"/help", "/set_reminder"},
		{"/weather", "/ranking"},
		{"/stop"},
	}, rows)
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "Всего карт: 4/10.", FormatCardCount(4))
	assert.Equal(t, "Вам досталась карта 7. Всего карт: 5/10.", FormatNewCard(7, 5))
	assert.Equal(t, "Карта 2 уже есть.", FormatDuplicateCard(2))
	assert.Equal(t, "Поздравляю! Вы собрали все карты и заняли 3 место.", FormatCompleted(3))

	user := &model.User{Cards: []int{1, 2, 5}}
	assert.Equal(t, "Всего карт: 3/10.\nЕсть: 1, 2, 5\nНет: 3, 4, 6, 7, 8, 9, 10", FormatCollection(user))

	full := &model.User{Cards: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}}
	assert.Equal(t, "Всего карт: 10/10.\nЕсть: 1, 2, 3, 4, 5, 6, 7, 8, 9, 10", FormatCollection(full))
}

func TestFormatHistory(t *testing.T) {
	assert.Equal(t, "История пуста.", FormatHistory(nil))

	at := time.Date(2025, 5, 21, 23, 5, 0, 0, time.UTC)
	desc := "карта 4"
	got := FormatHistory([]*model.Transaction{
		{Amount: -30, Type: model.TxTypeCardBuy, Description: &desc, CreatedAt: at},
		{Amount: 1, Type: model.TxTypeRPS, CreatedAt: at},
	})
	assert.Equal(t, "Последние операции:\n"+
		"21.05 23:05 -30 🍒 покупка карты (карта 4)\n"+
		"21.05 23:05 +1 🍒 камень, ножницы, бумага", got)
}
