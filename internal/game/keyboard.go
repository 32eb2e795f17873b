package game

import (
	tele "gopkg.in/telebot.v3"
)

// ChoiceData encodes the callback data for a game option.
func ChoiceData(g Game, key string) string {
	return g.Command() + "_" + key
}

// BuildMenu builds the game selection keyboard, one button per game on a
// single row.
func BuildMenu(r *Registry) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}

	var row []tele.Btn
	for _, g := range r.List() {
		row = append(row, markup.Data(g.Name(), g.StartData()))
	}

	markup.Inline(markup.Row(row...))
	return markup
}

// BuildChoices builds the option keyboard for a game.
func BuildChoices(g Game) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}

	var row []tele.Btn
	for _, opt := range g.Options() {
		row = append(row, markup.Data(opt.Label, ChoiceData(g, opt.Key)))
	}

	markup.Inline(markup.Row(row...))
	return markup
}
