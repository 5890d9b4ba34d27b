package linear

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/solvereg/core/model"
	"github.com/YuminosukeSato/solvereg/pkg/errors"
	"github.com/YuminosukeSato/solvereg/pkg/log"
	"github.com/YuminosukeSato/solvereg/preprocessing"
)

// Ridge is least squares with an L2 penalty alpha·||w||² on the coefficients.
// The intercept is not penalised.
type Ridge struct {
	fitted
	Alpha        float64
	fitIntercept bool
	normalize    bool
}

// NewRidge creates a ridge estimator. alpha is checked by Fit.
func NewRidge(alpha float64, opts ...Option) *Ridge {
	cfg := newConfig(opts)
	return &Ridge{
		fitted:       fitted{name: "Ridge"},
		Alpha:        alpha,
		fitIntercept: cfg.fitIntercept,
		normalize:    cfg.normalize,
	}
}

// Fit solves (XcᵀXc + αI)·w = Xcᵀ·yc by Cholesky, where Xc and yc are X and y
// centred on their means when fitting the intercept. With normalisation Xc is
// also divided by the feature standard deviations and w is rescaled after the
// solve. The intercept is ȳ - x̄ᵀw.
func (rg *Ridge) Fit(X, y mat.Matrix) error {
	if rg.Alpha < 0 {
		return errors.NewValidationError("alpha", "must be non-negative", rg.Alpha)
	}
	r, c, err := checkXY("Ridge.Fit", X, y)
	if err != nil {
		return err
	}

	scaler := preprocessing.NewStandardScaler(rg.fitIntercept, rg.normalize)
	Xc, err := scaler.FitTransform(X)
	if err != nil {
		return errors.Wrap(err, "Ridge.Fit")
	}

	var yMean float64
	yc := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		yc.SetVec(i, y.At(i, 0))
	}
	if rg.fitIntercept {
		yMean = mat.Sum(yc) / float64(r)
		for i := 0; i < r; i++ {
			yc.SetVec(i, yc.AtVec(i)-yMean)
		}
	}

	var gram mat.SymDense
	gram.SymOuterK(1, Xc.T())
	for j := 0; j < c; j++ {
		gram.SetSym(j, j, gram.At(j, j)+rg.Alpha)
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(&gram); !ok {
		return errors.NewModelError("Ridge.Fit", "singular matrix", errors.ErrSingularMatrix)
	}

	var xty, w mat.VecDense
	xty.MulVec(Xc.T(), yc)
	if err := chol.SolveVecTo(&w, &xty); err != nil {
		return errors.NewModelError("Ridge.Fit", "singular matrix", errors.ErrSingularMatrix)
	}

	coef := mat.Col(nil, 0, &w)
	floats.Div(coef, scaler.Scale)
	intercept := yMean - floats.Dot(scaler.Mean, coef)
	if err := rg.set(coef, intercept); err != nil {
		return err
	}

	log.GetLogger().Debug("model fitted",
		log.ModelNameKey, rg.name,
		log.OperationKey, log.OperationFit,
		log.AlphaKey, rg.Alpha,
		log.SamplesKey, r,
		log.FeaturesKey, c,
	)
	return nil
}

// Weights packages the fitted parameters under featureNames.
func (rg *Ridge) Weights(featureNames []string) *model.ModelWeights {
	return rg.weights(featureNames, map[string]interface{}{
		"alpha":         rg.Alpha,
		"fit_intercept": rg.fitIntercept,
		"normalize":     rg.normalize,
	})
}

func (rg *Ridge) String() string {
	return fmt.Sprintf("Ridge(alpha=%g, fit_intercept=%t, normalize=%t)", rg.Alpha, rg.fitIntercept, rg.normalize)
}

var _ model.LinearModel = (*Ridge)(nil)
