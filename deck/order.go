package deck

// PlayOrder is whether the simulated side goes first or second.
type PlayOrder int

const (
	First PlayOrder = iota
	Second
)

func (o PlayOrder) String() string {
	if o == Second {
		return "second"
	}
	return "first"
}

// StartingHandSize is the opening hand size, not counting the coin.
func (o PlayOrder) StartingHandSize() int {
	if o == Second {
		return 4
	}
	return 3
}

// NumPatterns is the number of keep/redraw patterns of an opening hand.
func (o PlayOrder) NumPatterns() int {
	return 1 << o.StartingHandSize()
}

// OrderForHandSize returns the play order implied by a declared opening hand.
func OrderForHandSize(n int) (PlayOrder, bool) {
	switch n {
	case 3:
		return First, true
	case 4:
		return Second, true
	}
	return First, false
}

// RandomPlayOrder flips the coin.
func RandomPlayOrder(rng Rand) PlayOrder {
	if rng.Intn(2) == 0 {
		return First
	}
	return Second
}
