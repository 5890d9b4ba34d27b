package linear

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/solvereg/core/model"
	"github.com/YuminosukeSato/solvereg/core/parallel"
	"github.com/YuminosukeSato/solvereg/pkg/errors"
	"github.com/YuminosukeSato/solvereg/pkg/log"
)

// LinearRegression is ordinary least squares.
type LinearRegression struct {
	fitted
	fitIntercept bool
}

// NewLinearRegression creates an OLS estimator. WithFitIntercept is the only
// option it reads.
func NewLinearRegression(opts ...Option) *LinearRegression {
	cfg := newConfig(opts)
	return &LinearRegression{
		fitted:       fitted{name: "LinearRegression"},
		fitIntercept: cfg.fitIntercept,
	}
}

// Fit solves min ||A·b - y||² where A is X with a leading column of ones when
// fitting the intercept. The system is solved by QR factorisation.
func (lr *LinearRegression) Fit(X, y mat.Matrix) error {
	r, c, err := checkXY("LinearRegression.Fit", X, y)
	if err != nil {
		return err
	}

	offset := 0
	if lr.fitIntercept {
		offset = 1
	}
	p := c + offset
	if r < p {
		// underdetermined: no unique solution
		return errors.NewModelError("LinearRegression.Fit",
			fmt.Sprintf("%d samples for %d parameters", r, p), errors.ErrSingularMatrix)
	}

	A := mat.NewDense(r, p, nil)
	b := mat.NewDense(r, 1, nil)
	parallel.ParallelizeWithThreshold(r, parallel.DefaultThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			if lr.fitIntercept {
				A.Set(i, 0, 1)
			}
			for j := 0; j < c; j++ {
				A.Set(i, j+offset, X.At(i, j))
			}
			b.Set(i, 0, y.At(i, 0))
		}
	})

	var sol mat.Dense
	if err := sol.Solve(A, b); err != nil {
		return errors.NewModelError("LinearRegression.Fit", "singular matrix", errors.ErrSingularMatrix)
	}

	var intercept float64
	if lr.fitIntercept {
		intercept = sol.At(0, 0)
	}
	coef := make([]float64, c)
	for j := range coef {
		coef[j] = sol.At(j+offset, 0)
	}
	if err := lr.set(coef, intercept); err != nil {
		return err
	}

	log.GetLogger().Debug("model fitted",
		log.ModelNameKey, lr.name,
		log.OperationKey, log.OperationFit,
		log.SamplesKey, r,
		log.FeaturesKey, c,
	)
	return nil
}

// Weights packages the fitted parameters under featureNames.
func (lr *LinearRegression) Weights(featureNames []string) *model.ModelWeights {
	return lr.weights(featureNames, map[string]interface{}{
		"fit_intercept": lr.fitIntercept,
	})
}

func (lr *LinearRegression) String() string {
	return fmt.Sprintf("LinearRegression(fit_intercept=%t)", lr.fitIntercept)
}

var _ model.LinearModel = (*LinearRegression)(nil)
