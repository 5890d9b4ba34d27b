package model

import "gonum.org/v1/gonum/mat"

// Fitter is a model that can be trained.
type Fitter interface {
	// Fit trains the model on X (n_samples x n_features) and y (n_samples x 1).
	Fit(X, y mat.Matrix) error
}

// Predictor is a model that can predict.
type Predictor interface {
	// Predict returns an n_samples x 1 matrix of predictions.
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Regressor is a supervised regression estimator.
type Regressor interface {
	Fitter
	Predictor
	// Score returns the coefficient of determination R² on (X, y).
	Score(X, y mat.Matrix) (float64, error)
}

// LinearModel exposes the learned parameters of a linear regressor.
type LinearModel interface {
	Regressor
	// Coefficients returns one weight per feature, in column order.
	Coefficients() []float64
	// InterceptValue returns the fitted constant term.
	InterceptValue() float64
	// Weights packages the fitted parameters with the given feature names.
	Weights(featureNames []string) *ModelWeights
}
