package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ReferenceCurrency is the currency DefaultRates converts into.
const ReferenceCurrency = "CNY"

// Rates maps a currency code to the number of reference-currency units
// one unit of that currency is worth.
type Rates map[string]decimal.Decimal

// DefaultRates is the built-in static table. Rates are never fetched.
func DefaultRates() Rates {
	return Rates{
		"CNY": decimal.NewFromInt(1),
		"JPY": decimal.RequireFromString("0.045"),
		"GBP": decimal.RequireFromString("9.2"),
	}
}

// Lookup finds the rate for code ignoring case.
func (r Rates) Lookup(code string) (decimal.Decimal, bool) {
	if rate, ok := r[code]; ok {
		return rate, true
	}
	want := strings.TrimSpace(code)
	for k, rate := range r {
		if strings.EqualFold(k, want) {
			return rate, true
		}
	}
	return decimal.Zero, false
}

// RateOrOne returns the rate for code, or 1 when the table has no entry.
// Unknown currencies are therefore counted as if already in the reference
// currency.
func (r Rates) RateOrOne(code string) decimal.Decimal {
	if rate, ok := r.Lookup(code); ok {
		return rate
	}
	return decimal.NewFromInt(1)
}
