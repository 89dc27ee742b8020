package sheets

import (
	"context"

	"spese-forecast/internal/core"
)

// Ports for outbound adapters.
type (
	// ObservationSource yields the date-ordered training dataset.
	ObservationSource interface {
		Observations(ctx context.Context) ([]core.Observation, error)
	}

	// ExpenseWriter stores a raw expense that later feeds Observations.
	ExpenseWriter interface {
		Append(ctx context.Context, e core.Expense) (rowRef string, err error)
	}
)
