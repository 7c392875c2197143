// Package deckio saves and loads decks. A deck file is a single line of
// card tokens separated by single spaces, e.g. "n1 n1 s2 w3".
package deckio

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/mullsim/mullsim/card"
	"github.com/mullsim/mullsim/deck"
)

// DefaultFile is used when save or load is given no file name.
const DefaultFile = "deck_file"

// Encode renders the deck's cards as one line of tokens. The coin is never
// written.
func Encode(d *deck.Deck) string {
	tokens := make([]string, 0, d.Len())
	for _, c := range d.Cards() {
		if c.IsCoin() {
			continue
		}
		tokens = append(tokens, c.Token())
	}
	return strings.Join(tokens, " ")
}

func Write(w io.Writer, d *deck.Deck) error {
	_, err := io.WriteString(w, Encode(d))
	return err
}

func Save(path string, d *deck.Deck) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, d); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// decode returns the file contents as a string. Anything that is not valid
// UTF-8 is taken to be ISO-8859-1, which older editors tend to produce.
func decode(raw []byte) (string, error) {
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	log.Debug().Msg("deck-file-not-utf8-decoding-latin1")
	result, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), raw)
	if err != nil {
		return "", err
	}
	return string(result), nil
}

// Parse reads the tokens of a deck file. Tokens are single cards separated
// by exactly one space; surrounding whitespace is ignored. An empty file is
// an empty deck.
func Parse(r io.Reader) ([]card.Card, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	contents, err := decode(raw)
	if err != nil {
		return nil, err
	}
	contents = strings.TrimSpace(contents)
	if contents == "" {
		return nil, nil
	}
	cards, err := card.ParseList(strings.Split(contents, " "))
	if err != nil {
		return nil, fmt.Errorf("failed to create card: %w", err)
	}
	return cards, nil
}

// Read replaces the deck's contents with the cards read from r. On any
// error the deck is left empty.
func Read(r io.Reader, d *deck.Deck) error {
	d.Clear()
	cards, err := Parse(r)
	if err != nil {
		return err
	}
	d.InsertAll(cards)
	return nil
}

// Load replaces the deck with the contents of the file at path. A file
// that cannot be opened leaves the deck untouched.
func Load(path string, d *deck.Deck) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	defer f.Close()
	return Read(f, d)
}
