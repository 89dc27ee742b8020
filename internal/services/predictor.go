package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"spese-forecast/internal/artifact"
	"spese-forecast/internal/log"
	"spese-forecast/internal/regression"
)

// ErrModelNotLoaded is returned by Predict before any model is held.
var ErrModelNotLoaded = errors.New("model not loaded")

// Predictor serves predictions from the currently loaded model. It is safe
// for concurrent use; Reload swaps the model atomically.
type Predictor struct {
	mu    sync.RWMutex
	model *regression.LinearModel
	path  string
}

// NewPredictor returns a Predictor holding m.
func NewPredictor(m regression.LinearModel, path string) *Predictor {
	return &Predictor{model: &m, path: path}
}

// NewEmptyPredictor returns a Predictor without a model. Predict fails with
// ErrModelNotLoaded until Reload succeeds.
func NewEmptyPredictor() *Predictor {
	return &Predictor{}
}

// LoadPredictor loads the artifact at path. Errors are the artifact
// package's typed errors.
func LoadPredictor(path string) (*Predictor, error) {
	m, err := artifact.Load(path)
	if err != nil {
		return nil, err
	}
	return NewPredictor(m, path), nil
}

// Predict evaluates the loaded line at monthIndex.
func (p *Predictor) Predict(ctx context.Context, monthIndex float64) (float64, error) {
	p.mu.RLock()
	m := p.model
	p.mu.RUnlock()
	if m == nil {
		return 0, ErrModelNotLoaded
	}

	y := m.Predict(monthIndex)
	log.FromContext(ctx).DebugContext(ctx, "Prediction served",
		log.FieldMonthIndex, monthIndex,
		log.FieldPredicted, y)
	return y, nil
}

// Model returns the loaded model and whether one is loaded.
func (p *Predictor) Model() (regression.LinearModel, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.model == nil {
		return regression.LinearModel{}, false
	}
	return *p.model, true
}

// Loaded reports whether a model is held.
func (p *Predictor) Loaded() bool {
	_, ok := p.Model()
	return ok
}

// Path returns the artifact path of the loaded model, if any.
func (p *Predictor) Path() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.path
}

// Reload loads the artifact at path and replaces the held model. On failure
// the previous model keeps serving.
func (p *Predictor) Reload(ctx context.Context, path string) error {
	m, err := artifact.Load(path)
	if err != nil {
		return fmt.Errorf("reload model: %w", err)
	}

	p.mu.Lock()
	p.model = &m
	p.path = path
	p.mu.Unlock()

	log.FromContext(ctx).InfoContext(ctx, "Model reloaded",
		log.FieldOperation, log.OpReload,
		log.FieldModelPath, path,
		log.FieldSlope, m.Slope,
		log.FieldIntercept, m.Intercept)
	return nil
}
