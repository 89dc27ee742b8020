package core

import "sort"

// MonthlyTotal is the amount spent in a calendar month.
type MonthlyTotal struct {
	Year  int
	Month int // 1-12
	Total Money
}

// Observation returns the total as an observation dated on the 1st of the month.
func (m MonthlyTotal) Observation() Observation {
	return Observation{Date: NewDate(m.Year, m.Month, 1), Amount: m.Total}
}

// AggregateMonthly sums expenses per calendar month and returns one
// observation per month with spending, sorted by date.
func AggregateMonthly(expenses []Expense) []Observation {
	type key struct{ year, month int }
	sums := map[key]int64{}
	for _, e := range expenses {
		k := key{e.Date.Year(), e.Date.Month()}
		sums[k] += e.Amount.Cents
	}

	totals := make([]MonthlyTotal, 0, len(sums))
	for k, cents := range sums {
		totals = append(totals, MonthlyTotal{Year: k.year, Month: k.month, Total: Money{Cents: cents}})
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Year != totals[j].Year {
			return totals[i].Year < totals[j].Year
		}
		return totals[i].Month < totals[j].Month
	})

	out := make([]Observation, len(totals))
	for i, t := range totals {
		out[i] = t.Observation()
	}
	return out
}

// SortObservations orders observations by date, keeping the relative order of
// equal dates.
func SortObservations(obs []Observation) {
	sort.SliceStable(obs, func(i, j int) bool {
		return obs[i].Date.Before(obs[j].Date.Time)
	})
}
