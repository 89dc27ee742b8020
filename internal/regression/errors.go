package regression

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidHoldout is returned when the holdout fraction is outside [0, 1).
	ErrInvalidHoldout = errors.New("holdout fraction must be in [0, 1)")

	// ErrConstantFeature is returned when every training row has the same month
	// index, which leaves the slope undefined.
	ErrConstantFeature = errors.New("month index has no variance in training rows")

	// ErrLengthMismatch is returned when features and targets differ in length.
	ErrLengthMismatch = errors.New("features and targets have different lengths")
)

// MinTrainRows is the smallest training set a line can be fitted to.
const MinTrainRows = 2

// InsufficientDataError reports a training set too small to fit a line.
type InsufficientDataError struct {
	Rows     int
	Required int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: %d training rows, need at least %d", e.Rows, e.Required)
}

// InputParseError reports a prediction input that is missing or not a number.
type InputParseError struct {
	Input  string
	Reason string
}

func (e *InputParseError) Error() string {
	if e.Input == "" {
		return e.Reason
	}
	return fmt.Sprintf("invalid month_num %q: %s", e.Input, e.Reason)
}
