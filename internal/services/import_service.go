package services

import (
	"context"
	"fmt"

	"spese-forecast/internal/core"
	"spese-forecast/internal/log"
	ports "spese-forecast/internal/sheets"
)

// ImportResult counts the outcome of an import run.
type ImportResult struct {
	Imported int
	Failed   int
}

// ImportService appends raw expenses to a writable store so later training
// runs see them in their monthly totals.
type ImportService struct {
	writer    ports.ExpenseWriter
	component string
}

// NewImportService wires an import into writer. component names the store in
// failure logs.
func NewImportService(writer ports.ExpenseWriter, component string) *ImportService {
	return &ImportService{
		writer:    writer,
		component: component,
	}
}

// Run appends every expense. A rejected expense is logged and counted, and the
// run continues; only context cancellation stops it early.
func (s *ImportService) Run(ctx context.Context, expenses []core.Expense) (ImportResult, error) {
	logger := log.FromContext(ctx)
	var res ImportResult

	for i, e := range expenses {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("import interrupted after %d rows: %w", i, err)
		}
		ref, err := s.writer.Append(ctx, e)
		if err != nil {
			fields := log.NewFields()
			fields["row"] = i + 1
			fields["date"] = e.Date.Format("2006-01-02")
			log.NewStructuredLogger(logger).LogError(ctx, "Failed to import expense", err,
				s.component, log.OpSave, fields)
			res.Failed++
			continue
		}
		logger.DebugContext(ctx, "Expense imported", "row", i+1, "ref", ref)
		res.Imported++
	}

	logger.InfoContext(ctx, "Import finished",
		"imported", res.Imported,
		"failed", res.Failed)
	return res, nil
}
