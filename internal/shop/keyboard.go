package shop

import (
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v3"

	"cherry-bot/internal/model"
)

// CommandsKeyboard builds the reply keyboard shown after /start.
func CommandsKeyboard() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{ResizeKeyboard: true}

	markup.Reply(
		markup.Row(markup.Text("/help"), markup.Text("/set_reminder")),
		markup.Row(markup.Text("/weather"), markup.Text("/ranking")),
		markup.Row(markup.Text("/stop")),
	)
	return markup
}

// FormatCardCount renders the collection size.
func FormatCardCount(total int) string {
	return fmt.Sprintf("Всего карт: %d/%d.", total, model.CardCount)
}

// FormatNewCard renders a successful draw of a card the user did not own.
func FormatNewCard(card, total int) string {
	return fmt.Sprintf("Вам досталась карта %d. %s", card, FormatCardCount(total))
}

// FormatDuplicateCard renders a draw of a card already in the collection.
func FormatDuplicateCard(card int) string {
	return fmt.Sprintf("Карта %d уже есть.", card)
}

// FormatCompleted renders the congratulation for finishing the set.
func FormatCompleted(place int) string {
	return fmt.Sprintf("Поздравляю! Вы собрали все карты и заняли %d место.", place)
}

// FormatCollection lists owned and missing cards.
func FormatCollection(user *model.User) string {
	var b strings.Builder
	b.WriteString(FormatCardCount(user.CardTotal()))
	if len(user.Cards) > 0 {
		b.WriteString("\nЕсть: ")
		b.WriteString(joinInts(user.Cards))
	}
	if missing := user.MissingCards(); len(missing) > 0 {
		b.WriteString("\nНет: ")
		b.WriteString(joinInts(missing))
	}
	return b.String()
}

// FormatHistory renders the latest ledger entries, newest first.
func FormatHistory(txs []*model.Transaction) string {
	if len(txs) == 0 {
		return "История пуста."
	}

	var b strings.Builder
	b.WriteString("Последние операции:")
	for _, tx := range txs {
		fmt.Fprintf(&b, "\n%s %+d 🍒 %s", tx.CreatedAt.Format("02.01 15:04"), tx.Amount, txLabel(tx.Type))
		if tx.Description != nil && *tx.Description != "" {
			fmt.Fprintf(&b, " (%s)", *tx.Description)
		}
	}
	return b.String()
}

func txLabel(txType string) string {
	switch txType {
	case model.TxTypeRPS:
		return "камень, ножницы, бумага"
	case model.TxTypeCoin:
		return "орёл или решка"
	case model.TxTypeCardBuy:
		return "покупка карты"
	case model.TxTypeReset:
		return "сброс"
	default:
		return txType
	}
}

func joinInts(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, ", ")
}
