// Package reports aggregates the warehouse state into the figures shown on
// the reports screen and written by the exporters. Every function here is
// pure: it reads a state snapshot and never touches the store.
package reports

import (
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/saae/almox/internal/models"
	"github.com/saae/almox/internal/store"
	"github.com/saae/almox/internal/util"
)

const (
	// DefaultWindowDays is the length of the per-day movement series.
	DefaultWindowDays = 7

	// MaxWindowDays bounds the per-day series.
	MaxWindowDays = 90
)

// DefaultUnitValue is the estimated value of one unit of any item.
var DefaultUnitValue = decimal.NewFromInt(50)

// Options tunes Build.
type Options struct {
	WindowDays int
	UnitValue  decimal.Decimal
}

// DefaultOptions returns a 7-day window valued at 50.00 per unit.
func DefaultOptions() Options {
	return Options{WindowDays: DefaultWindowDays, UnitValue: DefaultUnitValue}
}

func (o Options) normalized() Options {
	if o.WindowDays < 1 {
		o.WindowDays = DefaultWindowDays
	}
	o.WindowDays = min(o.WindowDays, MaxWindowDays)
	if o.UnitValue.IsNegative() {
		o.UnitValue = decimal.Zero
	}
	return o
}

// Count is a labelled tally.
type Count struct {
	Label string
	Count int
}

// CategoryTotal sums the stock of one category.
type CategoryTotal struct {
	Category string
	Quantity int
	Items    int
}

// KindTotal sums the movements of one kind.
type KindTotal struct {
	Kind       models.MovementKind
	Quantity   int
	Operations int
}

// DayTotal is one day of the movement series.
type DayTotal struct {
	Date    string
	Entries int
	Exits   int
}

// SupplierValue is the estimated stock value held from one supplier.
type SupplierValue struct {
	Supplier string
	Quantity int
	Value    decimal.Decimal
}

// ResponsibleTotal sums the movements handled by one person.
type ResponsibleTotal struct {
	Responsible string
	Operations  int
	Quantity    int
}

// Summary holds the headline figures.
type Summary struct {
	TotalItems        int
	TotalQuantity     int
	LowStockItems     int
	OutOfStockItems   int
	TotalPumps        int
	OperatingPumps    int
	PendingAlerts     int
	ActiveUsers       int
	MovementsInWindow int
	StockValue        decimal.Decimal
}

// Report is the full set of aggregations over one snapshot.
type Report struct {
	GeneratedAt time.Time
	WindowDays  int
	UnitValue   decimal.Decimal

	ItemsByCategory        []CategoryTotal
	PumpsByStatus          []Count
	PumpsByManufacturer    []Count
	MovementsByKind        []KindTotal
	MovementsByDay         []DayTotal
	AlertsByPriority       []Count
	AlertsByStatus         []Count
	StockBySupplier        []SupplierValue
	MovementsByResponsible []ResponsibleTotal
	Summary                Summary
}

// Build aggregates s as of now. Groupings keyed by free text keep the
// order in which keys first appear; groupings keyed by an enum follow the
// enum order and omit empty buckets.
func Build(s store.State, now time.Time, opts Options) *Report {
	opts = opts.normalized()

	r := &Report{
		GeneratedAt: now,
		WindowDays:  opts.WindowDays,
		UnitValue:   opts.UnitValue,
	}

	r.ItemsByCategory = groupBy(s.Items, func(i models.Item) string { return i.Category },
		func(t *CategoryTotal, key string, i models.Item) {
			t.Category = key
			t.Quantity += i.CurrentQty
			t.Items++
		})

	r.StockBySupplier = groupBy(s.Items, func(i models.Item) string { return i.Supplier },
		func(t *SupplierValue, key string, i models.Item) {
			t.Supplier = key
			t.Quantity += i.CurrentQty
			t.Value = t.Value.Add(opts.UnitValue.Mul(decimal.NewFromInt(int64(i.CurrentQty))))
		})

	r.PumpsByStatus = countEnum(s.Pumps, models.PumpStatuses, models.Pump.Status, models.PumpStatus.Label)
	r.PumpsByManufacturer = groupBy(s.Pumps, func(p models.Pump) string { return p.Manufacturer },
		func(c *Count, key string, _ models.Pump) {
			c.Label = key
			c.Count++
		})

	r.MovementsByKind = groupBy(s.Movements, func(m models.Movement) models.MovementKind { return m.Kind },
		func(t *KindTotal, key models.MovementKind, m models.Movement) {
			t.Kind = key
			t.Quantity += m.Quantity
			t.Operations++
		})
	r.MovementsByResponsible = groupBy(s.Movements, func(m models.Movement) string { return m.Responsible },
		func(t *ResponsibleTotal, key string, m models.Movement) {
			t.Responsible = key
			t.Operations++
			t.Quantity += m.Quantity
		})
	slices.SortStableFunc(r.MovementsByResponsible, func(a, b ResponsibleTotal) int {
		return cmp.Compare(b.Operations, a.Operations)
	})
	r.MovementsByDay = dailySeries(s.Movements, now, opts.WindowDays)

	r.AlertsByPriority = countEnum(s.Alerts, models.AlertPriorities,
		func(a models.Alert) models.AlertPriority { return a.Priority }, models.AlertPriority.Label)
	r.AlertsByStatus = countEnum(s.Alerts, models.AlertStatuses,
		func(a models.Alert) models.AlertStatus { return a.Status }, models.AlertStatus.Label)

	r.Summary = summarize(s, now, opts)
	return r
}

func summarize(s store.State, now time.Time, opts Options) Summary {
	sum := Summary{
		TotalItems: len(s.Items),
		TotalPumps: len(s.Pumps),
		StockValue: decimal.Zero,
	}

	for _, i := range s.Items {
		sum.TotalQuantity += i.CurrentQty
		if i.IsLowStock() {
			sum.LowStockItems++
		}
		if i.IsOutOfStock() {
			sum.OutOfStockItems++
		}
	}
	sum.StockValue = opts.UnitValue.Mul(decimal.NewFromInt(int64(sum.TotalQuantity)))

	for _, p := range s.Pumps {
		if p.Status() == models.PumpStatusOperating {
			sum.OperatingPumps++
		}
	}
	for _, a := range s.Alerts {
		if a.IsOutstanding() {
			sum.PendingAlerts++
		}
	}
	for _, u := range s.Users {
		if u.IsActive() {
			sum.ActiveUsers++
		}
	}

	start := util.WindowStart(now, opts.WindowDays)
	for _, m := range s.Movements {
		if m.Date >= start {
			sum.MovementsInWindow++
		}
	}
	return sum
}

// dailySeries returns one bucket per calendar day, oldest first, ending
// with the day of now.
func dailySeries(movements []models.Movement, now time.Time, days int) []DayTotal {
	series := make([]DayTotal, days)
	index := make(map[string]int, days)
	today := util.StartOfDay(now)
	for i := range series {
		date := util.FormatDate(today.AddDate(0, 0, i-(days-1)))
		series[i].Date = date
		index[date] = i
	}

	for _, m := range movements {
		i, ok := index[m.Date]
		if !ok {
			continue
		}
		switch m.Kind {
		case models.MovementEntry:
			series[i].Entries += m.Quantity
		case models.MovementExit:
			series[i].Exits += m.Quantity
		}
	}
	return series
}

// groupBy folds xs into one T per distinct key, in first-appearance order.
func groupBy[X any, K comparable, T any](xs []X, key func(X) K, add func(*T, K, X)) []T {
	var out []T
	pos := make(map[K]int)
	for _, x := range xs {
		k := key(x)
		i, ok := pos[k]
		if !ok {
			i = len(out)
			pos[k] = i
			out = append(out, *new(T))
		}
		add(&out[i], k, x)
	}
	return out
}

// countEnum tallies xs by an enum value, in the enum's declared order.
func countEnum[X any, E comparable](xs []X, order []E, of func(X) E, label func(E) string) []Count {
	tally := make(map[E]int, len(order))
	for _, x := range xs {
		tally[of(x)]++
	}

	var out []Count
	for _, e := range order {
		if n := tally[e]; n > 0 {
			out = append(out, Count{Label: label(e), Count: n})
		}
	}
	return out
}
