package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"-1", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestParseAmountToCentsAllowsZero(t *testing.T) {
	got, err := ParseAmountToCents("0")
	if err != nil || got != 0 {
		t.Fatalf("expected 0, got %d (err=%v)", got, err)
	}
	got, err = ParseAmountToCents("200")
	if err != nil || got != 20000 {
		t.Fatalf("expected 20000, got %d (err=%v)", got, err)
	}
	if _, err := ParseAmountToCents("-5"); err == nil {
		t.Fatalf("expected error for negative amount")
	}
}

func TestMoneyEurosAndBack(t *testing.T) {
	cases := []int64{0, 1, 99, 20000, 123456}
	for _, cents := range cases {
		m := Money{Cents: cents}
		if got := FromEuros(m.Euros()); got != m {
			t.Fatalf("round trip %d cents: got %d", cents, got.Cents)
		}
	}
}
