package modelselection

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/solvereg/core/model"
	"github.com/YuminosukeSato/solvereg/metrics"
	"github.com/YuminosukeSato/solvereg/pkg/errors"
)

// Scorer evaluates a fitted estimator on held-out rows. Higher is better.
type Scorer struct {
	Name  string
	Score func(est model.Predictor, X, y mat.Matrix) (float64, error)
}

// R2Scorer scores by coefficient of determination. A fold whose held-out
// targets are all equal scores 1 when predicted exactly and 0 otherwise, and
// raises an UndefinedMetricWarning.
var R2Scorer = Scorer{
	Name: "r2",
	Score: func(est model.Predictor, X, y mat.Matrix) (float64, error) {
		pred, err := est.Predict(X)
		if err != nil {
			return 0, err
		}
		score, err := metrics.R2ScoreMatrix(y, pred)
		if errors.Is(err, errors.ErrNoVariance) {
			return constantTargetR2(y, pred)
		}
		return score, err
	},
}

func constantTargetR2(y, pred mat.Matrix) (float64, error) {
	mse, err := metrics.MSEMatrix(y, pred)
	if err != nil {
		return 0, err
	}
	score := 0.0
	if mse == 0 {
		score = 1
	}
	errors.Warn(errors.NewUndefinedMetricWarning("r2", "constant held-out targets", score))
	return score, nil
}

// NegMSEScorer scores by negated mean squared error.
var NegMSEScorer = Scorer{
	Name: "neg_mean_squared_error",
	Score: func(est model.Predictor, X, y mat.Matrix) (float64, error) {
		pred, err := est.Predict(X)
		if err != nil {
			return 0, err
		}
		mse, err := metrics.MSEMatrix(y, pred)
		if err != nil {
			return 0, err
		}
		return -mse, nil
	},
}

// ScorerByName looks up a scorer by its Name.
func ScorerByName(name string) (Scorer, bool) {
	switch name {
	case R2Scorer.Name, "":
		return R2Scorer, true
	case NegMSEScorer.Name, "neg_mse", "mse":
		return NegMSEScorer, true
	default:
		return Scorer{}, false
	}
}
