package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"spese-forecast/internal/artifact"
	"spese-forecast/internal/regression"
)

func saveModel(t *testing.T, dir string, m regression.LinearModel) string {
	t.Helper()
	path := filepath.Join(dir, artifact.DefaultPath)
	if err := artifact.Save(path, m); err != nil {
		t.Fatalf("save model: %v", err)
	}
	return path
}

func TestPredictor_Predict(t *testing.T) {
	p := NewPredictor(regression.LinearModel{Slope: 5, Intercept: 200}, "model.bin")

	tests := []struct {
		x    float64
		want float64
	}{
		{6, 230},
		{0, 200},
		{-2, 190},
		{1.5, 207.5},
	}
	for _, tt := range tests {
		got, err := p.Predict(context.Background(), tt.x)
		if err != nil {
			t.Fatalf("Predict(%v) error = %v", tt.x, err)
		}
		if got != tt.want {
			t.Errorf("Predict(%v) = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestPredictor_NotLoaded(t *testing.T) {
	p := NewEmptyPredictor()
	if p.Loaded() {
		t.Fatal("empty predictor reports loaded")
	}
	if _, err := p.Predict(context.Background(), 6); !errors.Is(err, ErrModelNotLoaded) {
		t.Fatalf("Predict() error = %v, want ErrModelNotLoaded", err)
	}
}

func TestLoadPredictor(t *testing.T) {
	dir := t.TempDir()
	want := regression.LinearModel{Slope: -1.25, Intercept: 321.5}
	path := saveModel(t, dir, want)

	p, err := LoadPredictor(path)
	if err != nil {
		t.Fatalf("LoadPredictor() error = %v", err)
	}
	got, ok := p.Model()
	if !ok || got != want {
		t.Errorf("Model() = %+v, %v; want %+v", got, ok, want)
	}
	if p.Path() != path {
		t.Errorf("Path() = %q, want %q", p.Path(), path)
	}

	_, err = LoadPredictor(filepath.Join(dir, "missing.bin"))
	var notFound *artifact.ArtifactNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("LoadPredictor(missing) error = %v, want ArtifactNotFoundError", err)
	}
}

func TestPredictor_Reload(t *testing.T) {
	dir := t.TempDir()
	first := regression.LinearModel{Slope: 1, Intercept: 1}
	p := NewPredictor(first, "")

	second := regression.LinearModel{Slope: 2, Intercept: 10}
	path := saveModel(t, dir, second)
	if err := p.Reload(context.Background(), path); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if got, _ := p.Predict(context.Background(), 6); got != 22 {
		t.Errorf("Predict after reload = %v, want 22", got)
	}

	corrupt := filepath.Join(dir, "corrupt.bin")
	if err := os.WriteFile(corrupt, []byte("short"), 0o644); err != nil {
		t.Fatalf("write corrupt: %v", err)
	}
	err := p.Reload(context.Background(), corrupt)
	var ce *artifact.CorruptArtifactError
	if !errors.As(err, &ce) {
		t.Fatalf("Reload(corrupt) error = %v, want CorruptArtifactError", err)
	}
	if got, _ := p.Model(); got != second {
		t.Errorf("failed reload replaced model: %+v", got)
	}
	if p.Path() != path {
		t.Errorf("failed reload changed path to %q", p.Path())
	}
}

func TestPredictor_ReloadEmpty(t *testing.T) {
	p := NewEmptyPredictor()
	path := saveModel(t, t.TempDir(), regression.LinearModel{Slope: 3, Intercept: 4})

	if err := p.Reload(context.Background(), path); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if !p.Loaded() {
		t.Fatal("predictor not loaded after reload")
	}
}

func TestPredictor_ConcurrentPredictAndReload(t *testing.T) {
	dir := t.TempDir()
	path := saveModel(t, dir, regression.LinearModel{Slope: 2, Intercept: 0})
	p := NewPredictor(regression.LinearModel{Slope: 2, Intercept: 0}, path)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if got, err := p.Predict(context.Background(), 3); err != nil || got != 6 {
					t.Errorf("Predict() = %v, %v", got, err)
					return
				}
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				if err := p.Reload(context.Background(), path); err != nil {
					t.Errorf("Reload() error = %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()
}
