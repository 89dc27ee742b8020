package memory

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"spese-forecast/internal/core"
	ports "spese-forecast/internal/sheets"
)

var _ ports.ObservationSource = (*Store)(nil)

// Store serves a fixed set of observations.
type Store struct {
	obs []core.Observation
}

func New(obs []core.Observation) *Store {
	return &Store{obs: append([]core.Observation(nil), obs...)}
}

// SampleObservations is the five-month dataset used when no other source is
// configured.
func SampleObservations() []core.Observation {
	return []core.Observation{
		{Date: core.NewDate(2023, 1, 1), Amount: core.Money{Cents: 20000}},
		{Date: core.NewDate(2023, 2, 1), Amount: core.Money{Cents: 25000}},
		{Date: core.NewDate(2023, 3, 1), Amount: core.Money{Cents: 22000}},
		{Date: core.NewDate(2023, 4, 1), Amount: core.Money{Cents: 21000}},
		{Date: core.NewDate(2023, 5, 1), Amount: core.Money{Cents: 24000}},
	}
}

// Sample returns a store seeded with SampleObservations.
func Sample() *Store {
	return New(SampleObservations())
}

// NewFromFile reads a CSV of "date,amount" rows. Blank lines, lines starting
// with '#' and a leading "date" header are skipped.
func NewFromFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	obs, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	return New(obs), nil
}

// ReadCSV parses "date,amount" records. Dates are YYYY-MM-DD, amounts accept
// dot or comma decimals and may be zero.
func ReadCSV(r io.Reader) ([]core.Observation, error) {
	var out []core.Observation
	err := readRecords(r, 2, func(line int, rec []string) error {
		d, err := core.ParseDate(rec[0])
		if err != nil {
			return fmt.Errorf("record %d: invalid date %q: %w", line, rec[0], err)
		}
		cents, err := core.ParseAmountToCents(rec[1])
		if err != nil {
			return fmt.Errorf("record %d: invalid amount %q: %w", line, rec[1], err)
		}
		o := core.Observation{Date: d, Amount: core.Money{Cents: cents}}
		if err := o.Validate(); err != nil {
			return fmt.Errorf("record %d: %w", line, err)
		}
		out = append(out, o)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ReadExpensesCSV parses "date,description,amount,primary,secondary" records
// of individual expenses. Amounts must be positive.
func ReadExpensesCSV(r io.Reader) ([]core.Expense, error) {
	var out []core.Expense
	err := readRecords(r, 5, func(line int, rec []string) error {
		d, err := core.ParseDate(rec[0])
		if err != nil {
			return fmt.Errorf("record %d: invalid date %q: %w", line, rec[0], err)
		}
		cents, err := core.ParseDecimalToCents(rec[2])
		if err != nil {
			return fmt.Errorf("record %d: invalid amount %q: %w", line, rec[2], err)
		}
		out = append(out, core.Expense{
			Date:        d,
			Description: strings.TrimSpace(rec[1]),
			Amount:      core.Money{Cents: cents},
			Primary:     strings.TrimSpace(rec[3]),
			Secondary:   strings.TrimSpace(rec[4]),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// readRecords calls fn for every record with the given number of fields.
// Blank lines, '#' comments and a leading "date" header are skipped.
func readRecords(r io.Reader, fields int, fn func(line int, rec []string) error) error {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		line++
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if len(rec) != fields {
			return fmt.Errorf("record %d: expected %d fields, got %d", line, fields, len(rec))
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "date") {
			continue
		}
		if err := fn(line, rec); err != nil {
			return err
		}
	}
}

// Observations returns a date-ordered copy of the stored dataset.
func (s *Store) Observations(_ context.Context) ([]core.Observation, error) {
	out := append([]core.Observation(nil), s.obs...)
	core.SortObservations(out)
	return out, nil
}
