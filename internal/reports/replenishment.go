package reports

import (
	"github.com/shopspring/decimal"

	"github.com/saae/almox/internal/models"
)

// DefaultReplenishFactor scales the minimum into the ideal stock level.
var DefaultReplenishFactor = decimal.RequireFromString("1.5")

// Suggestion is a purchase proposal for one low-stock item.
type Suggestion struct {
	Code      string
	Name      string
	Unit      string
	Supplier  string
	Current   int
	Minimum   int
	Ideal     int
	Suggested int
	Value     decimal.Decimal
}

// Replenishment proposes a purchase for every low-stock item: the ideal
// level is ceil(minQty × factor) and the suggestion tops the item up to
// it. Items already at the ideal level are skipped. A factor below 1 is
// treated as 1. Value is the suggestion priced at unitValue.
func Replenishment(items []models.Item, factor, unitValue decimal.Decimal) []Suggestion {
	one := decimal.NewFromInt(1)
	if factor.LessThan(one) {
		factor = one
	}

	var out []Suggestion
	for _, item := range items {
		if !item.IsLowStock() {
			continue
		}

		ideal := decimal.NewFromInt(int64(item.MinQty)).Mul(factor).Ceil()
		suggested := ideal.Sub(decimal.NewFromInt(int64(item.CurrentQty)))
		if !suggested.IsPositive() {
			continue
		}

		out = append(out, Suggestion{
			Code:      item.Code,
			Name:      item.Name,
			Unit:      item.Unit,
			Supplier:  item.Supplier,
			Current:   item.CurrentQty,
			Minimum:   item.MinQty,
			Ideal:     int(ideal.IntPart()),
			Suggested: int(suggested.IntPart()),
			Value:     suggested.Mul(unitValue),
		})
	}
	return out
}

// TotalValue sums the value of every suggestion.
func TotalValue(suggestions []Suggestion) decimal.Decimal {
	total := decimal.Zero
	for _, s := range suggestions {
		total = total.Add(s.Value)
	}
	return total
}
