package linear

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/solvereg/core/model"
	"github.com/YuminosukeSato/solvereg/modelselection"
	"github.com/YuminosukeSato/solvereg/pkg/errors"
	"github.com/YuminosukeSato/solvereg/pkg/log"
)

// RidgeCV picks alpha by k-fold cross-validated R² and refits a Ridge on all
// rows with the winner.
type RidgeCV struct {
	fitted
	cfg config

	// Alpha is the selected penalty.
	Alpha float64
	// BestScore is the mean R² of the selected penalty.
	BestScore float64
	// MeanScores holds the mean R² of every candidate, parallel to Alphas().
	MeanScores []float64
}

// NewRidgeCV creates the estimator. WithAlphas, WithFolds and WithShuffle set
// the search; WithFitIntercept and WithNormalize are passed to every Ridge.
func NewRidgeCV(opts ...Option) *RidgeCV {
	return &RidgeCV{
		fitted: fitted{name: "RidgeCV"},
		cfg:    newConfig(opts),
	}
}

// Alphas returns the candidate penalties.
func (cv *RidgeCV) Alphas() []float64 {
	return append([]float64(nil), cv.cfg.alphas...)
}

// Fit runs the search with a background context.
func (cv *RidgeCV) Fit(X, y mat.Matrix) error {
	return cv.FitContext(context.Background(), X, y)
}

// FitContext scores every candidate alpha and refits with the best one. Ties
// keep the smaller alpha.
func (cv *RidgeCV) FitContext(ctx context.Context, X, y mat.Matrix) error {
	if len(cv.cfg.alphas) == 0 {
		return errors.NewValidationError("alphas", "must not be empty", cv.cfg.alphas)
	}
	for _, a := range cv.cfg.alphas {
		if a < 0 {
			return errors.NewValidationError("alphas", "must be non-negative", a)
		}
	}
	if _, _, err := checkXY("RidgeCV.Fit", X, y); err != nil {
		return err
	}

	ridgeOpts := []Option{
		WithFitIntercept(cv.cfg.fitIntercept),
		WithNormalize(cv.cfg.normalize),
	}
	kfold := modelselection.NewKFold(cv.cfg.folds, cv.cfg.shuffle, cv.cfg.seed)
	logger := log.GetLogger().With(log.ModelNameKey, cv.name)

	cv.MeanScores = make([]float64, len(cv.cfg.alphas))
	best := -1
	for i, alpha := range cv.cfg.alphas {
		scores, err := modelselection.CrossValScore(ctx, func() model.Regressor {
			return NewRidge(alpha, ridgeOpts...)
		}, X, y, kfold, modelselection.R2Scorer)
		if err != nil {
			return errors.Wrapf(err, "RidgeCV alpha=%g", alpha)
		}
		cv.MeanScores[i] = scores.Mean()
		logger.Debug("alpha scored", log.AlphaKey, alpha, log.ScoreKey, cv.MeanScores[i])

		if best < 0 || cv.MeanScores[i] > cv.MeanScores[best] ||
			(cv.MeanScores[i] == cv.MeanScores[best] && alpha < cv.cfg.alphas[best]) {
			best = i
		}
	}

	cv.Alpha = cv.cfg.alphas[best]
	cv.BestScore = cv.MeanScores[best]

	final := NewRidge(cv.Alpha, ridgeOpts...)
	if err := final.Fit(X, y); err != nil {
		return err
	}
	if err := cv.set(final.coef, final.intercept); err != nil {
		return err
	}

	logger.Info("alpha selected", log.AlphaKey, cv.Alpha, log.ScoreKey, cv.BestScore)
	return nil
}

// Weights packages the fitted parameters and the selected alpha.
func (cv *RidgeCV) Weights(featureNames []string) *model.ModelWeights {
	mw := cv.weights(featureNames, map[string]interface{}{
		"alpha":         cv.Alpha,
		"alphas":        cv.Alphas(),
		"folds":         cv.cfg.folds,
		"fit_intercept": cv.cfg.fitIntercept,
		"normalize":     cv.cfg.normalize,
	})
	if cv.IsFitted() {
		mw.Metadata["cv_r2"] = cv.BestScore
	}
	return mw
}

func (cv *RidgeCV) String() string {
	return fmt.Sprintf("RidgeCV(alphas=%v, folds=%d)", cv.cfg.alphas, cv.cfg.folds)
}

var _ model.LinearModel = (*RidgeCV)(nil)
