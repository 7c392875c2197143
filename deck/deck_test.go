package deck

import (
	"errors"
	"testing"

	"github.com/matryer/is"
	"lukechampine.com/frand"

	"github.com/mullsim/mullsim/card"
)

func testRNG() *frand.RNG {
	return frand.NewCustom(make([]byte, 32), 1024, 12)
}

func smallDeck() *Deck {
	d := New()
	for _, tok := range []string{"n1", "n1", "s2", "n3", "w4", "n5"} {
		c, err := card.Parse(tok)
		if err != nil {
			panic(err)
		}
		d.Insert(c)
	}
	return d
}

func TestResetIdempotent(t *testing.T) {
	is := is.New(t)
	d := smallDeck()
	d.AdjustCoin(Second)
	rng := testRNG()
	d.DrawRandom(nil, rng)
	d.DrawRandom(nil, rng)
	d.SetLocation(0, Committed)

	d.Reset()
	once := d.View()
	onceCards := d.Cards()
	d.Reset()
	is.Equal(d.View(), once)
	is.Equal(d.Cards(), onceCards)
	is.True(!d.HasCoin())
	is.Equal(d.Len(), 6)
	is.Equal(d.CountIn(InDeck, nil), 6)
}

func TestAdjustCoin(t *testing.T) {
	is := is.New(t)
	d := smallDeck()
	d.AdjustCoin(First)
	is.True(!d.HasCoin())
	d.AdjustCoin(Second)
	is.True(d.HasCoin())
	is.Equal(d.Len(), 7)
	d.AdjustCoin(Second)
	is.Equal(d.Len(), 7) // only one coin
	d.AdjustCoin(First)
	is.True(!d.HasCoin())
	is.Equal(d.Len(), 6)
}

func TestDrawRandomOnlyFromDeck(t *testing.T) {
	is := is.New(t)
	d := smallDeck()
	rng := testRNG()
	seen := map[int]bool{}
	for range d.Len() {
		pos := d.DrawRandom(nil, rng)
		is.True(!seen[pos])
		seen[pos] = true
		is.Equal(d.Location(pos), InHand)
	}
	is.Equal(d.CountIn(InDeck, nil), 0)
	defer func() {
		is.True(recover() != nil) // drawing an exhausted deck panics
	}()
	d.DrawRandom(nil, rng)
}

func TestDrawRandomOnView(t *testing.T) {
	is := is.New(t)
	d := smallDeck()
	v := d.View()
	pos := d.DrawRandom(v, testRNG())
	is.Equal(v[pos], InHand)
	is.Equal(d.Location(pos), InDeck) // real deck untouched
}

func TestLocate(t *testing.T) {
	is := is.New(t)
	d := smallDeck()
	pos, ok := d.Locate(card.New(1, card.Normal), InDeck, nil)
	is.True(ok)
	is.Equal(pos, 0)
	_, ok = d.Locate(card.New(1, card.Normal), InHand, nil)
	is.True(!ok)
	_, ok = d.Locate(card.New(2, card.Normal), InDeck, nil)
	is.True(!ok) // only a strong 2 exists
}

func TestValuesToPositions(t *testing.T) {
	is := is.New(t)
	d := smallDeck()
	before := d.View()
	pos, err := d.ValuesToPositions([]card.Card{
		card.New(1, card.Normal), card.New(1, card.Normal), card.New(5, card.Normal),
	}, InDeck, nil)
	is.NoErr(err)
	is.Equal(pos, []int{0, 1, 5})
	is.Equal(d.View(), before)

	_, err = d.ValuesToPositions([]card.Card{
		card.New(1, card.Normal), card.New(1, card.Normal), card.New(1, card.Normal),
	}, InDeck, nil)
	is.True(errors.Is(err, ErrCardNotFound))
	is.Equal(d.View(), before)
}

func TestSortKeepsLocations(t *testing.T) {
	is := is.New(t)
	d := New()
	d.Insert(card.New(3, card.Normal))
	d.Insert(card.New(1, card.Strong))
	d.Insert(card.New(1, card.Weak))
	d.SetLocation(0, InHand)
	d.Sort()
	is.Equal(d.Cards(), []card.Card{
		card.New(1, card.Weak), card.New(1, card.Strong), card.New(3, card.Normal),
	})
	is.Equal(d.Location(2), InHand)
}

func TestFill(t *testing.T) {
	is := is.New(t)
	d := smallDeck()
	is.NoErr(d.Fill())
	is.Equal(d.Len(), StandardSize)
	is.Equal(d.Curve(10)[FillerMana], StandardSize-6)
	d.Insert(card.New(1, card.Normal))
	is.True(errors.Is(d.Fill(), ErrDeckTooLarge))
}

func TestPlayOrder(t *testing.T) {
	is := is.New(t)
	is.Equal(First.StartingHandSize(), 3)
	is.Equal(Second.StartingHandSize(), 4)
	is.Equal(First.NumPatterns(), 8)
	is.Equal(Second.NumPatterns(), 16)
	o, ok := OrderForHandSize(4)
	is.True(ok)
	is.Equal(o, Second)
	_, ok = OrderForHandSize(5)
	is.True(!ok)
}
