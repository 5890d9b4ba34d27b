// Package linear fits ordinary least squares and ridge regression on gonum
// matrices.
package linear

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/solvereg/core/model"
	"github.com/YuminosukeSato/solvereg/metrics"
	"github.com/YuminosukeSato/solvereg/pkg/errors"
)

// fitted holds the parameters shared by every linear estimator.
type fitted struct {
	model.BaseEstimator
	name      string
	coef      []float64
	intercept float64
	nFeatures int
}

// checkXY validates training input and returns its shape.
func checkXY(op string, X, y mat.Matrix) (int, int, error) {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return 0, 0, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	ry, cy := y.Dims()
	if ry != r {
		return 0, 0, errors.NewDimensionError(op, r, ry, 0)
	}
	if cy != 1 {
		return 0, 0, errors.NewValueError(op, "y must be a column vector")
	}
	return r, c, nil
}

func (f *fitted) set(coef []float64, intercept float64) error {
	if err := errors.CheckNumericalStability(f.name+".Fit", append(coef, intercept), 0); err != nil {
		return err
	}
	f.coef = coef
	f.intercept = intercept
	f.nFeatures = len(coef)
	f.SetFitted()
	return nil
}

// Predict returns X·w + intercept as an n x 1 matrix.
func (f *fitted) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !f.IsFitted() {
		return nil, errors.NewNotFittedError(f.name, "Predict")
	}
	r, c := X.Dims()
	if c != f.nFeatures {
		return nil, errors.NewDimensionError(f.name+".Predict", f.nFeatures, c, 1)
	}

	var out mat.VecDense
	out.MulVec(X, mat.NewVecDense(c, f.coef))
	pred := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		pred.Set(i, 0, out.AtVec(i)+f.intercept)
	}
	return pred, nil
}

// Score returns R² of the predictions for X against y.
func (f *fitted) Score(X, y mat.Matrix) (float64, error) {
	if !f.IsFitted() {
		return 0, errors.NewNotFittedError(f.name, "Score")
	}
	pred, err := f.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.R2ScoreMatrix(y, pred)
}

// Coefficients returns a copy of the fitted weights, one per feature.
func (f *fitted) Coefficients() []float64 {
	if !f.IsFitted() {
		return nil
	}
	return append([]float64(nil), f.coef...)
}

// InterceptValue returns the fitted constant term.
func (f *fitted) InterceptValue() float64 {
	if !f.IsFitted() {
		return 0
	}
	return f.intercept
}

func (f *fitted) weights(featureNames []string, hyper map[string]interface{}) *model.ModelWeights {
	mw := &model.ModelWeights{
		ModelType:       f.name,
		Version:         model.WeightsVersion,
		Hyperparameters: hyper,
		Metadata:        map[string]interface{}{},
		IsFitted:        f.IsFitted(),
	}
	if f.IsFitted() {
		mw.Coefficients = f.Coefficients()
		mw.Intercept = f.intercept
		if len(featureNames) == len(f.coef) {
			mw.Features = append([]string(nil), featureNames...)
		}
	}
	return mw
}
