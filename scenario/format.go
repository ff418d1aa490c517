package scenario

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// FormatMoney renders m with the digit grouping of lang, always with two
// decimals.
func FormatMoney(lang language.Tag, m Money) string {
	p := message.NewPrinter(lang)
	return p.Sprint(number.Decimal(float64(m)/10, number.Scale(2)))
}

// FormatValue renders the current value of s for display.
func (o *Options) FormatValue(lang language.Tag, s Setting) string {
	v := o.get(s)
	switch {
	case s.IsMoney():
		return FormatMoney(lang, Money(v))
	case s == InterestRate:
		return fmt.Sprintf("%d%%", v)
	default:
		return fmt.Sprintf("%d%%", Percent(s, uint8(v)))
	}
}
