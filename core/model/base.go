package model

// EstimatorState is the training state of an estimator.
type EstimatorState int

const (
	// NotFitted means Fit has not completed successfully.
	NotFitted EstimatorState = iota
	// Fitted means the estimator holds learned parameters.
	Fitted
)

// BaseEstimator carries the fitted state shared by every estimator.
type BaseEstimator struct {
	state EstimatorState
}

// IsFitted reports whether the estimator has been fitted.
func (e *BaseEstimator) IsFitted() bool {
	return e.state == Fitted
}

// SetFitted marks the estimator as fitted.
func (e *BaseEstimator) SetFitted() {
	e.state = Fitted
}

// Reset returns the estimator to the unfitted state.
func (e *BaseEstimator) Reset() {
	e.state = NotFitted
}
