// Package scenario holds the park-wide options a scenario designer tunes:
// finances, guest defaults and park restrictions.
package scenario

import (
	"errors"
	"fmt"
)

// Money is counted in tenths of the currency unit.
type Money int32

func MakeMoney(whole, cents int32) Money {
	return Money(whole*10 + cents/10)
}

type ChargeMethod uint8

const (
	FreeEntry ChargeMethod = iota
	PayToEnter
	PayBoth // entry fee and ride prices
)

func (c ChargeMethod) String() string {
	switch c {
	case FreeEntry:
		return "free park entry / pay per ride"
	case PayToEnter:
		return "pay to enter park / free rides"
	case PayBoth:
		return "pay to enter park / pay per ride"
	}
	return fmt.Sprintf("ChargeMethod(%d)", uint8(c))
}

type Climate uint8

const (
	CoolAndWet Climate = iota
	Warm
	HotAndDry
	Cold
)

func (c Climate) String() string {
	switch c {
	case CoolAndWet:
		return "cool and wet"
	case Warm:
		return "warm"
	case HotAndDry:
		return "hot and dry"
	case Cold:
		return "cold"
	}
	return fmt.Sprintf("Climate(%d)", uint8(c))
}

type Flag uint16

const (
	NoMoney Flag = 1 << iota
	ForbidMarketing
	PreferLessIntense
	PreferMoreIntense
	ForbidTreeRemoval
	ForbidLandscapeChanges
	ForbidHighConstruction
	HardParkRating
	HardGuestGeneration
	allFlags = 1<<iota - 1
)

var flagNames = []struct {
	flag Flag
	name string
}{
	{NoMoney, "no-money"},
	{ForbidMarketing, "forbid-marketing"},
	{PreferLessIntense, "prefer-less-intense"},
	{PreferMoreIntense, "prefer-more-intense"},
	{ForbidTreeRemoval, "forbid-tree-removal"},
	{ForbidLandscapeChanges, "forbid-landscape-changes"},
	{ForbidHighConstruction, "forbid-high-construction"},
	{HardParkRating, "hard-park-rating"},
	{HardGuestGeneration, "hard-guest-generation"},
}

func (f Flag) String() string {
	for _, n := range flagNames {
		if n.flag == f {
			return n.name
		}
	}
	return fmt.Sprintf("Flag(%#x)", uint16(f))
}

func ParseFlag(s string) (Flag, error) {
	for _, n := range flagNames {
		if n.name == s {
			return n.flag, nil
		}
	}
	return 0, fmt.Errorf("unknown park flag %q", s)
}

type Options struct {
	InitialCash             Money
	InitialLoan             Money
	MaxLoan                 Money
	InterestRate            uint8 // percent per year
	GuestCash               Money
	GuestHappiness          uint8 // 0-255
	GuestHunger             uint8 // 0-255, 255 is not hungry
	GuestThirst             uint8 // 0-255, 255 is not thirsty
	LandPrice               Money
	ConstructionRightsPrice Money
	EntranceFee             Money
	ChargeMethod            ChargeMethod
	Climate                 Climate
	Flags                   Flag
}

func Defaults() Options {
	return Options{
		InitialCash:             MakeMoney(10000, 0),
		InitialLoan:             MakeMoney(10000, 0),
		MaxLoan:                 MakeMoney(20000, 0),
		InterestRate:            10,
		GuestCash:               MakeMoney(50, 0),
		GuestHappiness:          128,
		GuestHunger:             200,
		GuestThirst:             200,
		LandPrice:               MakeMoney(20, 0),
		ConstructionRightsPrice: MakeMoney(18, 0),
		EntranceFee:             MakeMoney(10, 0),
		ChargeMethod:            PayToEnter,
		Climate:                 Warm,
	}
}

func (o *Options) Has(f Flag) bool {
	return o.Flags&f != 0
}

func (o *Options) Toggle(f Flag) {
	o.Flags ^= f
}

var ErrInvalid = errors.New("invalid scenario options")

func (o *Options) Validate() error {
	for _, s := range Settings() {
		v := o.get(s)
		r := ranges[s]
		if v < r.min || v > r.max {
			return fmt.Errorf("%w: %v is %d, must be within %d..%d", ErrInvalid, s, v, r.min, r.max)
		}
	}
	if o.ChargeMethod > PayBoth {
		return fmt.Errorf("%w: unknown charge method %d", ErrInvalid, o.ChargeMethod)
	}
	if o.Climate > Cold {
		return fmt.Errorf("%w: unknown climate %d", ErrInvalid, o.Climate)
	}
	if o.Flags&^allFlags != 0 {
		return fmt.Errorf("%w: unknown flags %#x", ErrInvalid, uint16(o.Flags&^allFlags))
	}
	return nil
}

// Percent converts a raw 0-255 guest stat to the percentage shown to players.
// Hunger and thirst are stored inverted.
func Percent(s Setting, raw uint8) int {
	switch s {
	case GuestHunger, GuestThirst:
		return (255 - int(raw)) * 100 / 255
	}
	return int(raw) * 100 / 255
}
