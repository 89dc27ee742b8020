package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"spese-forecast/internal/core"
	"spese-forecast/internal/log"
	"spese-forecast/internal/storage"
)

func importExpense(year, month, day int, cents int64) core.Expense {
	return core.Expense{
		Date:        core.NewDate(year, month, day),
		Description: "spesa",
		Amount:      core.Money{Cents: cents},
		Primary:     "Casa",
		Secondary:   "Generale",
	}
}

func TestImportService_FeedsTraining(t *testing.T) {
	dir := t.TempDir()
	repo, err := storage.NewSQLiteRepository(filepath.Join(dir, "spese.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	defer repo.Close()

	expenses := []core.Expense{
		importExpense(2023, 1, 5, 10000),
		importExpense(2023, 1, 20, 10000),
		importExpense(2023, 2, 3, 25000),
		importExpense(2023, 3, 3, 22000),
	}
	invalid := importExpense(2023, 3, 4, 100)
	invalid.Description = " "
	expenses = append(expenses, invalid)

	res, err := NewImportService(repo, log.ComponentStorage).Run(context.Background(), expenses)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Imported != 4 || res.Failed != 1 {
		t.Errorf("result = %+v, want 4 imported, 1 failed", res)
	}

	trainRes, err := NewTrainingService(repo, filepath.Join(dir, "model.bin"), 0, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("training on imported data: %v", err)
	}
	if trainRes.TrainRows != 3 {
		t.Errorf("TrainRows = %d, want 3 monthly totals", trainRes.TrainRows)
	}
}

func TestImportService_StopsOnCancel(t *testing.T) {
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "spese.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	defer repo.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := NewImportService(repo, log.ComponentStorage).Run(ctx, []core.Expense{importExpense(2023, 1, 1, 100)})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if res.Imported != 0 {
		t.Errorf("Imported = %d, want 0", res.Imported)
	}
}
