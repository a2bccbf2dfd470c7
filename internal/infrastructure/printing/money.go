package printing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter renders amounts and quantities for a locale.
type Formatter struct {
	printer *message.Printer
	symbol  string
}

// NewFormatter builds a formatter for a BCP 47 locale and ISO 4217 currency.
func NewFormatter(locale, currencyCode string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		return nil, fmt.Errorf("invalid currency %q: %w", currencyCode, err)
	}

	p := message.NewPrinter(tag)
	return &Formatter{
		printer: p,
		symbol:  strings.TrimSpace(p.Sprint(currency.NarrowSymbol(unit))),
	}, nil
}

// Money formats d with the currency symbol and two decimals, e.g. "R$ 1.234,50".
func (f *Formatter) Money(d decimal.Decimal) string {
	return f.symbol + " " + f.Number(d, 2)
}

// Number formats d with a fixed number of decimals using locale separators.
func (f *Formatter) Number(d decimal.Decimal, scale int) string {
	return f.printer.Sprint(number.Decimal(d.Round(int32(scale)).InexactFloat64(), number.Scale(scale)))
}

// Quantity formats a quantity without trailing zeros, keeping up to three decimals.
func (f *Formatter) Quantity(d decimal.Decimal) string {
	s := d.Round(3).String()
	scale := 0
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		scale = len(s) - dot - 1
	}
	return f.Number(d, scale)
}
