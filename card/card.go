// Package card contains the card value type shared by every other package.
// A card is nothing more than a mana cost and a power tier; two cards with
// the same cost and tier are interchangeable.
package card

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Power is the strength tier of a card. The zero value is not a valid tier.
type Power int8

const (
	Weak Power = iota + 1
	Normal
	Strong
)

// CoinMana is the sentinel cost of the coin. Committing the coin raises the
// turn's mana budget by one.
const CoinMana = -1

// MaxMana is the largest cost the token format can carry.
const MaxMana = 127

// MaxGroupCount is the largest count a group token may carry: a full deck.
const MaxGroupCount = 30

var ErrBadToken = errors.New("failed to create card")

var (
	cardRe  = regexp.MustCompile(`^([swn]?)([0-9]+)$`)
	groupRe = regexp.MustCompile(`^([0-9]+)([swn][0-9]+)$`)
)

func (p Power) Letter() byte {
	switch p {
	case Strong:
		return 's'
	case Weak:
		return 'w'
	}
	return 'n'
}

func (p Power) String() string {
	switch p {
	case Strong:
		return "strong"
	case Normal:
		return "normal"
	case Weak:
		return "weak"
	}
	return "unknown"
}

// Bonus is the scoring modifier a card of this tier earns when played.
func (p Power) Bonus() float64 {
	switch p {
	case Strong:
		return 0.5
	case Weak:
		return -0.5
	}
	return 0
}

func powerFromLetter(l string) Power {
	switch l {
	case "s":
		return Strong
	case "w":
		return Weak
	}
	return Normal
}

type Card struct {
	Mana  int
	Power Power
}

// Coin is the pseudo-card handed to the player on the draw.
var Coin = Card{Mana: CoinMana, Power: Normal}

func New(mana int, power Power) Card {
	return Card{Mana: mana, Power: power}
}

func (c Card) IsCoin() bool {
	return c.Mana == CoinMana
}

// Token is the persisted form of a card, e.g. "s4".
func (c Card) Token() string {
	return string(c.Power.Letter()) + strconv.Itoa(c.Mana)
}

func (c Card) String() string {
	if c.IsCoin() {
		return "coin"
	}
	switch c.Power {
	case Strong:
		return strconv.Itoa(c.Mana) + "s"
	case Weak:
		return strconv.Itoa(c.Mana) + "w"
	}
	return strconv.Itoa(c.Mana)
}

// Compare orders cards by mana first and power second.
func Compare(a, b Card) int {
	if a.Mana != b.Mana {
		return a.Mana - b.Mana
	}
	return int(a.Power) - int(b.Power)
}

// Sort sorts cards in place, ascending by (mana, power).
func Sort(cards []Card) {
	slices.SortFunc(cards, Compare)
}

// Sorted returns a sorted copy.
func Sorted(cards []Card) []Card {
	c := slices.Clone(cards)
	Sort(c)
	return c
}

// Key is a canonical representation of a multiset of cards. Two slices
// holding the same cards in any order produce the same key.
func Key(cards []Card) string {
	s := Sorted(cards)
	var sb strings.Builder
	for i, c := range s {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if c.IsCoin() {
			sb.WriteString("coin")
			continue
		}
		sb.WriteString(c.Token())
	}
	return sb.String()
}

// Parse creates a card from a token such as "n2", "s4" or "3". A missing
// power letter means a normal card.
func Parse(token string) (Card, error) {
	m := cardRe.FindStringSubmatch(token)
	if m == nil {
		return Card{}, fmt.Errorf("%w: %q", ErrBadToken, token)
	}
	mana, err := strconv.ParseInt(m[2], 10, 8)
	if err != nil {
		return Card{}, fmt.Errorf("%w: %q", ErrBadToken, token)
	}
	return Card{Mana: int(mana), Power: powerFromLetter(m[1])}, nil
}

// ParseGroup expands a token like "3s4" into three strong 4-drops. A token
// without a count is parsed as a single card.
func ParseGroup(token string) ([]Card, error) {
	m := groupRe.FindStringSubmatch(token)
	if m == nil {
		c, err := Parse(token)
		if err != nil {
			return nil, err
		}
		return []Card{c}, nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 || n > MaxGroupCount {
		return nil, fmt.Errorf("%w: %q", ErrBadToken, token)
	}
	c, err := Parse(m[2])
	if err != nil {
		return nil, err
	}
	cards := make([]Card, n)
	for i := range cards {
		cards[i] = c
	}
	return cards, nil
}

// ParseList parses single-card tokens. It fails on the first bad token.
func ParseList(tokens []string) ([]Card, error) {
	cards := make([]Card, 0, len(tokens))
	for _, t := range tokens {
		c, err := Parse(t)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// ParseGroups parses count-prefixed tokens ("4n2 1s3") into one flat list.
func ParseGroups(tokens []string) ([]Card, error) {
	var cards []Card
	for _, t := range tokens {
		cs, err := ParseGroup(t)
		if err != nil {
			return nil, err
		}
		cards = append(cards, cs...)
	}
	return cards, nil
}

// Display renders cards the way the shell shows hands: "[1, 2s, coin]".
func Display(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
