// Package hero is the table of hero powers. A hero power is used with
// leftover mana, so a turn that wastes exactly the right amount earns the
// hero's bonus instead of wasting it.
package hero

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownHero = errors.New("it's not a hero")

type Hero int

const (
	Warrior Hero = iota
	Priest
	Hunter
	Warlock
	Mage
	Rogue
	Shaman
	Paladin
	DemonHunter
	Druid
)

var names = map[Hero]string{
	Warrior:     "Warrior",
	Priest:      "Priest",
	Hunter:      "Hunter",
	Warlock:     "Warlock",
	Mage:        "Mage",
	Rogue:       "Rogue",
	Shaman:      "Shaman",
	Paladin:     "Paladin",
	DemonHunter: "DemonHunter",
	Druid:       "Druid",
}

var codes = map[string]Hero{
	"wr": Warrior, "warrior": Warrior,
	"wl": Warlock, "warlock": Warlock,
	"pr": Priest, "priest": Priest,
	"dr": Druid, "druid": Druid,
	"ma": Mage, "mage": Mage,
	"pa": Paladin, "paladin": Paladin,
	"sh": Shaman, "shaman": Shaman,
	"ro": Rogue, "rogue": Rogue,
	"hu": Hunter, "hunter": Hunter,
	"dh": DemonHunter,
}

// Codes lists the short codes accepted by FromCode, for help text.
var Codes = []string{"dh", "wr", "wl", "ma", "pr", "dr", "sh", "hu", "pa", "ro"}

func FromCode(code string) (Hero, error) {
	h, ok := codes[strings.ToLower(code)]
	if !ok {
		return Warrior, fmt.Errorf("%w: %q", ErrUnknownHero, code)
	}
	return h, nil
}

func (h Hero) String() string {
	return names[h]
}

// PowerValue is the score a hero power is worth.
func (h Hero) PowerValue() float64 {
	switch h {
	case Mage, DemonHunter, Druid:
		return 0.5
	case Rogue:
		return 1.2
	case Shaman:
		return 0.8
	case Paladin:
		return 1.0
	}
	return 0
}

// UsesPower reports whether a turn at the given mana budget that leaves
// waste unspent mana gets to use the hero power. Demon Hunter's power costs
// one, every other power costs two.
func (h Hero) UsesPower(waste, mana int) bool {
	if h == DemonHunter {
		return waste == 1 && mana != 1
	}
	return waste == 2
}
