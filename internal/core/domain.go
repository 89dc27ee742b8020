package core

import (
	"errors"
	"strings"
	"time"
)

type (
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Expense is a single recorded expense row.
	Expense struct {
		Date        Date
		Description string
		Amount      Money
		Primary     string // Primary category
		Secondary   string // Secondary category
	}

	// Observation is one (date, amount) point of the training dataset.
	Observation struct {
		Date   Date
		Amount Money
	}
)

var (
	ErrInvalidDay       = errors.New("invalid day")
	ErrInvalidMonth     = errors.New("invalid month")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrNegativeAmount   = errors.New("negative amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyPrimary     = errors.New("empty primary category")
	ErrEmptySecondary   = errors.New("empty secondary category")
)

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	_, month, day := d.Date()
	if day < 1 || day > 31 {
		return ErrInvalidDay
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a calendar day in YYYY-MM-DD format.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Primary) == "" {
		return ErrEmptyPrimary
	}
	if strings.TrimSpace(e.Secondary) == "" {
		return ErrEmptySecondary
	}
	return nil
}

// Validate checks the date is a real calendar day and the amount is not negative.
// Zero amounts are allowed: a month with no spending is still a data point.
func (o Observation) Validate() error {
	if err := o.Date.Validate(); err != nil {
		return err
	}
	if o.Amount.Cents < 0 {
		return ErrNegativeAmount
	}
	return nil
}
