package card

import (
	"errors"
	"testing"

	"github.com/matryer/is"
)

func TestParse(t *testing.T) {
	is := is.New(t)
	type testcase struct {
		token string
		exp   Card
		ok    bool
	}
	cases := []testcase{
		{"n2", Card{2, Normal}, true},
		{"s4", Card{4, Strong}, true},
		{"w1", Card{1, Weak}, true},
		{"7", Card{7, Normal}, true},
		{"n0", Card{0, Normal}, true},
		{"x3", Card{}, false},
		{"s", Card{}, false},
		{"", Card{}, false},
		{"n-1", Card{}, false},
		{"n200", Card{}, false},
	}
	for _, tc := range cases {
		c, err := Parse(tc.token)
		if tc.ok {
			is.NoErr(err)
			is.Equal(c, tc.exp)
		} else {
			is.True(errors.Is(err, ErrBadToken))
		}
	}
}

func TestParseGroup(t *testing.T) {
	is := is.New(t)
	cards, err := ParseGroup("3s4")
	is.NoErr(err)
	is.Equal(cards, []Card{{4, Strong}, {4, Strong}, {4, Strong}})

	cards, err = ParseGroup("w2")
	is.NoErr(err)
	is.Equal(cards, []Card{{2, Weak}})

	_, err = ParseGroup("3q4")
	is.True(errors.Is(err, ErrBadToken))

	cards, err = ParseGroup("30n9")
	is.NoErr(err)
	is.Equal(len(cards), MaxGroupCount)
	for _, tok := range []string{"31n9", "0n1", "99999999999n1", "999999999999999999999n1"} {
		_, err = ParseGroup(tok)
		is.True(errors.Is(err, ErrBadToken))
	}
}

func TestCompareAndSort(t *testing.T) {
	is := is.New(t)
	cards := []Card{{3, Normal}, {2, Strong}, Coin, {2, Weak}, {0, Normal}}
	Sort(cards)
	is.Equal(cards, []Card{Coin, {0, Normal}, {2, Weak}, {2, Strong}, {3, Normal}})
	is.True(Compare(Card{2, Normal}, Card{2, Strong}) < 0)
	is.Equal(Compare(Card{5, Weak}, Card{5, Weak}), 0)
}

func TestKeyIgnoresOrder(t *testing.T) {
	is := is.New(t)
	a := []Card{{1, Normal}, {3, Strong}, Coin}
	b := []Card{Coin, {3, Strong}, {1, Normal}}
	is.Equal(Key(a), Key(b))
	is.Equal(Key(a), "coin n1 s3")
	is.True(Key(a) != Key([]Card{{1, Normal}, {3, Normal}, Coin}))
}

func TestTokenAndString(t *testing.T) {
	is := is.New(t)
	is.Equal(Card{4, Strong}.Token(), "s4")
	is.Equal(Card{4, Strong}.String(), "4s")
	is.Equal(Card{2, Normal}.String(), "2")
	is.Equal(Coin.String(), "coin")
	is.Equal(Display([]Card{{1, Weak}, Coin}), "[1w, coin]")
}
