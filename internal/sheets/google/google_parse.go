package google

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"spese-forecast/internal/core"
)

// parseExpenseRows converts a values matrix of an expense sheet into
// expenses of the given year. Header rows, rows with a non-numeric month or an
// impossible day, and rows without a parsable amount are skipped.
func parseExpenseRows(values [][]interface{}, year int) []core.Expense {
	out := make([]core.Expense, 0, len(values))
	for _, row := range values {
		cols := toStrings(row)
		if len(cols) < 4 {
			continue
		}
		month, err := strconv.Atoi(cols[0])
		if err != nil || month < 1 || month > 12 {
			continue
		}
		day, err := strconv.Atoi(cols[1])
		if err != nil || day < 1 || day > daysIn(year, month) {
			continue
		}
		cents, ok := parseEurosToCents(cols[3])
		if !ok || cents < 0 {
			continue
		}
		out = append(out, core.Expense{
			Date:        core.NewDate(year, month, day),
			Description: cols[2],
			Amount:      core.Money{Cents: cents},
			Primary:     safeGet(cols, 6),
			Secondary:   safeGet(cols, 7),
		})
	}
	return out
}

func daysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}

// parseEurosToCents accepts sheet amounts such as "12,50", "€ 12.50" or 12.5.
func parseEurosToCents(s string) (int64, bool) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "€"))
	if s == "" {
		return 0, false
	}
	// Normalize decimal comma
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return core.FromEuros(f).Cents, true
}

// yearPrefixedName returns "<year> <base>" unless base already starts with a 4-digit year.
func yearPrefixedName(base string, year int) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return base
	}
	if len(base) >= 5 {
		if y, err := strconv.Atoi(base[0:4]); err == nil && base[4] == ' ' && y > 1900 && y < 3000 {
			return base
		}
	}
	return fmt.Sprintf("%d %s", year, base)
}
