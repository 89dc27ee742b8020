package core

import "testing"

func TestAggregateMonthly(t *testing.T) {
	expenses := []Expense{
		{Date: NewDate(2023, 2, 10), Amount: Money{Cents: 1000}},
		{Date: NewDate(2023, 1, 5), Amount: Money{Cents: 500}},
		{Date: NewDate(2023, 2, 1), Amount: Money{Cents: 250}},
		{Date: NewDate(2022, 12, 31), Amount: Money{Cents: 99}},
	}
	got := AggregateMonthly(expenses)
	want := []Observation{
		{Date: NewDate(2022, 12, 1), Amount: Money{Cents: 99}},
		{Date: NewDate(2023, 1, 1), Amount: Money{Cents: 500}},
		{Date: NewDate(2023, 2, 1), Amount: Money{Cents: 1250}},
	}
	if len(got) != len(want) {
		t.Fatalf("len=%d want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if !got[i].Date.Equal(want[i].Date.Time) || got[i].Amount != want[i].Amount {
			t.Fatalf("row %d: got %+v want %+v", i, got[i], want[i])
		}
	}
}

func TestSortObservations(t *testing.T) {
	obs := []Observation{obsAt(2023, 3, 3), obsAt(2023, 1, 1), obsAt(2023, 2, 2)}
	SortObservations(obs)
	for i, m := range []int{1, 2, 3} {
		if obs[i].Date.Month() != m {
			t.Fatalf("position %d: got month %d want %d", i, obs[i].Date.Month(), m)
		}
	}
}
