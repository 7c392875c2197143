package turnplayer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mullsim/mullsim/card"
)

var ErrBadMana = errors.New("mana must be a number from 0 to 127")

// ParseCards parses hand tokens, accepting "coin" (or "c") for the coin.
func ParseCards(fields []string) ([]card.Card, error) {
	cards := make([]card.Card, 0, len(fields))
	for _, f := range fields {
		switch strings.ToLower(f) {
		case "coin", "c":
			cards = append(cards, card.Coin)
			continue
		}
		c, err := card.Parse(strings.ToLower(f))
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// ParsePlayArgs reads "<mana> <card> <card> ...".
func ParsePlayArgs(fields []string) (int, []card.Card, error) {
	if len(fields) < 1 {
		return 0, nil, errors.New("format is: play <mana> <cards...>")
	}
	mana, err := strconv.Atoi(fields[0])
	if err != nil || mana < 0 || mana > card.MaxMana {
		return 0, nil, fmt.Errorf("%w: %q", ErrBadMana, fields[0])
	}
	cards, err := ParseCards(fields[1:])
	if err != nil {
		return 0, nil, err
	}
	return mana, cards, nil
}
