package scenario

import (
	"errors"
	"fmt"
)

type Setting uint8

const (
	InitialCash Setting = iota
	InitialLoan
	MaxLoan
	InterestRate
	GuestCash
	GuestHappiness
	GuestHunger
	GuestThirst
	LandPrice
	ConstructionRightsPrice
	EntranceFee
	numSettings
)

var settingNames = [numSettings]string{
	"initial-cash",
	"initial-loan",
	"max-loan",
	"interest-rate",
	"guest-cash",
	"guest-happiness",
	"guest-hunger",
	"guest-thirst",
	"land-price",
	"construction-rights-price",
	"entrance-fee",
}

func (s Setting) String() string {
	if s >= numSettings {
		return fmt.Sprintf("Setting(%d)", uint8(s))
	}
	return settingNames[s]
}

func ParseSetting(name string) (Setting, error) {
	for i, n := range settingNames {
		if n == name {
			return Setting(i), nil
		}
	}
	return 0, fmt.Errorf("unknown scenario setting %q", name)
}

func Settings() []Setting {
	s := make([]Setting, numSettings)
	for i := range s {
		s[i] = Setting(i)
	}
	return s
}

// IsMoney reports whether the setting is an amount of money.
func (s Setting) IsMoney() bool {
	switch s {
	case InterestRate, GuestHappiness, GuestHunger, GuestThirst:
		return false
	}
	return s < numSettings
}

type Direction int8

const (
	Decrease Direction = -1
	Increase Direction = 1
)

func (d Direction) String() string {
	if d == Increase {
		return "increase"
	}
	return "reduce"
}

func ParseDirection(s string) (Direction, error) {
	switch s {
	case "up", "increase":
		return Increase, nil
	case "down", "decrease", "reduce":
		return Decrease, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

type bounds struct {
	step, min, max int64
	inverted       bool // increase lowers the stored value
}

var ranges = [numSettings]bounds{
	InitialCash:             {step: int64(MakeMoney(500, 0)), max: int64(MakeMoney(1000000, 0))},
	InitialLoan:             {step: int64(MakeMoney(1000, 0)), max: int64(MakeMoney(5000000, 0))},
	MaxLoan:                 {step: int64(MakeMoney(1000, 0)), max: int64(MakeMoney(5000000, 0))},
	InterestRate:            {step: 1, max: 80},
	GuestCash:               {step: int64(MakeMoney(1, 0)), max: int64(MakeMoney(1000, 0))},
	GuestHappiness:          {step: 4, min: 40, max: 250},
	GuestHunger:             {step: 4, min: 40, max: 250, inverted: true},
	GuestThirst:             {step: 4, min: 40, max: 250, inverted: true},
	LandPrice:               {step: int64(MakeMoney(1, 0)), min: int64(MakeMoney(5, 0)), max: int64(MakeMoney(200, 0))},
	ConstructionRightsPrice: {step: int64(MakeMoney(1, 0)), min: int64(MakeMoney(5, 0)), max: int64(MakeMoney(200, 0))},
	EntranceFee:             {step: int64(MakeMoney(1, 0)), max: int64(MakeMoney(200, 0))},
}

// Range returns the inclusive bounds of a setting in stored units.
func Range(s Setting) (lo, hi int64) {
	r := ranges[s]
	return r.min, r.max
}

var ErrLimit = errors.New("scenario setting limit reached")

// LimitError is returned when a step would leave the allowed range.
type LimitError struct {
	Setting   Setting
	Direction Direction
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("can't %v %v any further", e.Direction, e.Setting)
}

func (e *LimitError) Is(target error) bool {
	return target == ErrLimit
}

func (o *Options) get(s Setting) int64 {
	switch s {
	case InitialCash:
		return int64(o.InitialCash)
	case InitialLoan:
		return int64(o.InitialLoan)
	case MaxLoan:
		return int64(o.MaxLoan)
	case InterestRate:
		return int64(o.InterestRate)
	case GuestCash:
		return int64(o.GuestCash)
	case GuestHappiness:
		return int64(o.GuestHappiness)
	case GuestHunger:
		return int64(o.GuestHunger)
	case GuestThirst:
		return int64(o.GuestThirst)
	case LandPrice:
		return int64(o.LandPrice)
	case ConstructionRightsPrice:
		return int64(o.ConstructionRightsPrice)
	case EntranceFee:
		return int64(o.EntranceFee)
	}
	return 0
}

func (o *Options) set(s Setting, v int64) {
	switch s {
	case InitialCash:
		o.InitialCash = Money(v)
	case InitialLoan:
		o.InitialLoan = Money(v)
	case MaxLoan:
		o.MaxLoan = Money(v)
	case InterestRate:
		o.InterestRate = uint8(v)
	case GuestCash:
		o.GuestCash = Money(v)
	case GuestHappiness:
		o.GuestHappiness = uint8(v)
	case GuestHunger:
		o.GuestHunger = uint8(v)
	case GuestThirst:
		o.GuestThirst = uint8(v)
	case LandPrice:
		o.LandPrice = Money(v)
	case ConstructionRightsPrice:
		o.ConstructionRightsPrice = Money(v)
	case EntranceFee:
		o.EntranceFee = Money(v)
	}
}

// Get returns the stored value of a setting.
func (o *Options) Get(s Setting) int64 {
	return o.get(s)
}

// Step moves a setting one increment up or down. At the edge of its range the
// value is left alone and a *LimitError is returned. A step that would
// overshoot is clamped to the bound.
func (o *Options) Step(s Setting, d Direction) error {
	if s >= numSettings {
		return fmt.Errorf("unknown scenario setting %d", s)
	}
	r := ranges[s]
	delta := r.step * int64(d)
	if r.inverted {
		delta = -delta
	}
	v := o.get(s)
	if (delta > 0 && v >= r.max) || (delta < 0 && v <= r.min) {
		return &LimitError{Setting: s, Direction: d}
	}
	o.set(s, min(max(v+delta, r.min), r.max))
	return nil
}
