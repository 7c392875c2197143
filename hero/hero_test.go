package hero

import (
	"errors"
	"testing"

	"github.com/matryer/is"
)

func TestFromCode(t *testing.T) {
	is := is.New(t)
	h, err := FromCode("dh")
	is.NoErr(err)
	is.Equal(h, DemonHunter)
	h, err = FromCode("Rogue")
	is.NoErr(err)
	is.Equal(h, Rogue)
	_, err = FromCode("bard")
	is.True(errors.Is(err, ErrUnknownHero))
	for _, c := range Codes {
		_, err := FromCode(c)
		is.NoErr(err)
	}
}

func TestUsesPower(t *testing.T) {
	is := is.New(t)
	is.True(DemonHunter.UsesPower(1, 3))
	is.True(!DemonHunter.UsesPower(1, 1))
	is.True(!DemonHunter.UsesPower(2, 3))
	is.True(Mage.UsesPower(2, 5))
	is.True(!Mage.UsesPower(1, 5))
}

func TestPowerValue(t *testing.T) {
	is := is.New(t)
	zero := 0
	for h := Warrior; h <= Druid; h++ {
		if h.PowerValue() == 0 {
			zero++
		}
	}
	is.Equal(zero, 4)
	is.Equal(Rogue.PowerValue(), 1.2)
}
