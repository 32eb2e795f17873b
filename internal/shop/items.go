// Package shop describes the collectible cards and renders the card shop
// messages and keyboards.
package shop

import (
	"fmt"
	"os"
	"path/filepath"

	tele "gopkg.in/telebot.v3"

	"cherry-bot/internal/model"
)

// Catalogue locates card artwork on disk. Cards are stored as photo1.jpg
// through photo10.jpg in one directory.
type Catalogue struct {
	dir string
}

// NewCatalogue creates a Catalogue reading from dir.
func NewCatalogue(dir string) *Catalogue {
	return &Catalogue{dir: dir}
}

// PhotoPath returns where the artwork of card should live.
func (c *Catalogue) PhotoPath(card int) string {
	return filepath.Join(c.dir, fmt.Sprintf("photo%d.jpg", card))
}

// CardName is the display name of a card.
func CardName(card int) string {
	return fmt.Sprintf("Карта %d", card)
}

// Photo returns the card artwork, or false if the card number is invalid or
// the file is missing.
func (c *Catalogue) Photo(card int) (*tele.Photo, bool) {
	if !model.ValidCard(card) {
		return nil, false
	}
	path := c.PhotoPath(card)
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return nil, false
	}
	return &tele.Photo{File: tele.FromDisk(path), Caption: CardName(card)}, true
}
