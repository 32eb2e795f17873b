// Package oracle answers the light-hearted /weather and /ball requests.
package oracle

import (
	"net/url"
	"strings"

	"cherry-bot/internal/game"
)

// WeatherBaseURL is the forecast site the weather link points at.
const WeatherBaseURL = "https://yandex.ru/pogoda/"

// WeatherLink returns the forecast URL for city. The name is trimmed and
// percent-encoded as a path segment.
func WeatherLink(city string) string {
	return WeatherBaseURL + url.PathEscape(strings.TrimSpace(city))
}

// answers are the magic ball replies.
var answers = []string{
	"Да, определенно!",
	"Скорее да, чем нет.",
	"Я бы на вашем месте не рассчитывал.",
	"Ответ туманен, попробуйте снова.",
	"Да, но только через некоторое время.",
	"Сомнительно.",
	"Определенно не!",
	"Да, конечно!",
	"Сейчас не лучший момент.",
	"Попробуйте позже.",
	"Не все так просто.",
	"Убедитесь в этом.",
	"Скорее всего, да.",
	"Считайте это знаком.",
	"Возможно, вы правы.",
	"Не торопитесь с выводами.",
	"Кажется, это благоприятный знак.",
	"Это может произойти.",
	"Не исключено.",
	"Всё указывает на то, что да.",
	"Вселенная говорит 'да'.",
	"Думайте дважды, прежде чем действовать.",
}

// Ball is the magic ball. The question itself does not affect the answer.
type Ball struct {
	rnd game.Rand
}

// NewBall creates a Ball. A nil rnd uses game.DefaultRand.
func NewBall(rnd game.Rand) *Ball {
	if rnd == nil {
		rnd = game.DefaultRand
	}
	return &Ball{rnd: rnd}
}

// Answer picks one of the ball's replies.
func (b *Ball) Answer(string) string {
	return answers[b.rnd.Intn(len(answers))]
}
