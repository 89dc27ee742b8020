package core

// MonthIndex encodes a date as months since January of baseYear, counting
// from 1: January of baseYear is 1, December is 12, the next January is 13.
func MonthIndex(d Date, baseYear int) int {
	return d.Month() + 12*(d.Year()-baseYear)
}

// MonthIndices derives the month index feature for every observation, in input
// order. The base year is the minimum year found in obs. Input is not sorted:
// callers that want a non-decreasing feature must pass date-ordered data.
func MonthIndices(obs []Observation) []int {
	if len(obs) == 0 {
		return []int{}
	}
	minYear := obs[0].Date.Year()
	for _, o := range obs[1:] {
		if y := o.Date.Year(); y < minYear {
			minYear = y
		}
	}
	out := make([]int, len(obs))
	for i, o := range obs {
		out[i] = MonthIndex(o.Date, minYear)
	}
	return out
}

// Amounts returns the observation amounts in euros, in input order.
func Amounts(obs []Observation) []float64 {
	out := make([]float64, len(obs))
	for i, o := range obs {
		out[i] = o.Amount.Euros()
	}
	return out
}
