package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount decimal.Decimal
}

// Summary is the converted total of a set of records.
type Summary struct {
	Currency    string
	Total       decimal.Decimal
	ByCategory  []CategoryAmount // first-seen order
	Unconverted []string         // upper-cased codes that fell back to rate 1
}

// TotalIn converts every record with rates and sums the result.
// Records whose currency is missing from rates contribute their raw amount.
func TotalIn(reference string, rates Rates, records []Record) Summary {
	s := Summary{Currency: reference, Total: decimal.Zero}
	catIndex := map[string]int{}
	seenMissing := map[string]struct{}{}

	for _, rec := range records {
		if _, ok := rates.Lookup(rec.Currency); !ok {
			code := strings.ToUpper(strings.TrimSpace(rec.Currency))
			if _, dup := seenMissing[code]; !dup {
				seenMissing[code] = struct{}{}
				s.Unconverted = append(s.Unconverted, code)
			}
		}
		converted := rec.Amount.Mul(rates.RateOrOne(rec.Currency))
		s.Total = s.Total.Add(converted)

		i, ok := catIndex[rec.Category]
		if !ok {
			i = len(s.ByCategory)
			catIndex[rec.Category] = i
			s.ByCategory = append(s.ByCategory, CategoryAmount{Name: rec.Category, Amount: decimal.Zero})
		}
		s.ByCategory[i].Amount = s.ByCategory[i].Amount.Add(converted)
	}
	return s
}
