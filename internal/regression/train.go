package regression

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"spese-forecast/internal/core"
)

// DefaultHoldout is the fraction of the latest rows withheld for evaluation.
const DefaultHoldout = 0.2

// Result is the outcome of a training run.
type Result struct {
	Model     LinearModel
	MSE       float64 // NaN when TestRows is 0
	TrainRows int
	TestRows  int
	// Predictions are the model's values for the test rows, in order.
	Predictions []float64
}

// Split divides n rows chronologically: the first rows train, the last
// ceil(holdout*n) rows test. Rows are never shuffled.
func Split(n int, holdout float64) (trainRows, testRows int, err error) {
	if math.IsNaN(holdout) || holdout < 0 || holdout >= 1 {
		return 0, 0, ErrInvalidHoldout
	}
	// The epsilon keeps products such as 0.2*5 from rounding up to 2.
	testRows = int(math.Ceil(holdout*float64(n) - 1e-9))
	if testRows < 0 {
		testRows = 0
	}
	if testRows > n {
		testRows = n
	}
	return n - testRows, testRows, nil
}

// Fit runs ordinary least squares of ys on xs with an intercept.
func Fit(xs, ys []float64) (LinearModel, error) {
	if len(xs) != len(ys) {
		return LinearModel{}, ErrLengthMismatch
	}
	if len(xs) < MinTrainRows {
		return LinearModel{}, &InsufficientDataError{Rows: len(xs), Required: MinTrainRows}
	}
	if stat.Variance(xs, nil) == 0 {
		return LinearModel{}, ErrConstantFeature
	}
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	return LinearModel{Slope: beta, Intercept: alpha}, nil
}

// MeanSquaredError returns mean((pred - truth)^2). Empty input yields NaN.
func MeanSquaredError(truth, pred []float64) float64 {
	if len(truth) == 0 || len(truth) != len(pred) {
		return math.NaN()
	}
	diff := make([]float64, len(pred))
	floats.SubTo(diff, pred, truth)
	return floats.Dot(diff, diff) / float64(len(diff))
}

// Train fits a line on the chronological prefix of (features, targets) and
// evaluates it on the withheld suffix.
func Train(features []int, targets []float64, holdout float64) (Result, error) {
	if len(features) != len(targets) {
		return Result{}, ErrLengthMismatch
	}
	trainRows, testRows, err := Split(len(features), holdout)
	if err != nil {
		return Result{}, err
	}
	if trainRows < MinTrainRows {
		return Result{}, &InsufficientDataError{Rows: trainRows, Required: MinTrainRows}
	}

	xs := make([]float64, len(features))
	for i, f := range features {
		xs[i] = float64(f)
	}

	model, err := Fit(xs[:trainRows], targets[:trainRows])
	if err != nil {
		return Result{}, err
	}

	preds := model.PredictAll(xs[trainRows:])
	return Result{
		Model:       model,
		MSE:         MeanSquaredError(targets[trainRows:], preds),
		TrainRows:   trainRows,
		TestRows:    testRows,
		Predictions: preds,
	}, nil
}

// TrainObservations derives month indices from obs and trains on them.
func TrainObservations(obs []core.Observation, holdout float64) (Result, error) {
	return Train(core.MonthIndices(obs), core.Amounts(obs), holdout)
}
