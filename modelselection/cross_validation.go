package modelselection

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/solvereg/core/model"
	"github.com/YuminosukeSato/solvereg/dataset"
	"github.com/YuminosukeSato/solvereg/pkg/errors"
	"github.com/YuminosukeSato/solvereg/pkg/log"
)

// Factory builds a fresh, unfitted estimator for one fold.
type Factory func() model.Regressor

// Scores holds the held-out score of every fold, in fold order.
type Scores struct {
	Scorer   string
	Values   []float64
	FitTimes []time.Duration
}

// Mean is the average fold score. Folds whose score was undefined count
// with the substitute value their scorer returned.
func (s Scores) Mean() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	return stat.Mean(s.Values, nil)
}

// Std is the sample standard deviation of the fold scores.
func (s Scores) Std() float64 {
	if len(s.Values) < 2 {
		return 0
	}
	return stat.StdDev(s.Values, nil)
}

// CrossValScore fits a new estimator on the training rows of every fold and
// scores it on the test rows. Folds run concurrently; the first failure
// cancels the remaining folds and is returned.
func CrossValScore(ctx context.Context, factory Factory, X, y mat.Matrix, cv KFold, scorer Scorer) (Scores, error) {
	n, _ := X.Dims()
	if ry, _ := y.Dims(); ry != n {
		return Scores{}, errors.NewDimensionError("CrossValScore", n, ry, 0)
	}
	return crossVal(ctx, factory, n, func(idx []int) (mat.Matrix, mat.Matrix, error) {
		return Rows(X, idx), Rows(y, idx), nil
	}, cv, scorer)
}

// CrossValSolves is CrossValScore over a solves table; each fold is cut
// with Solves.Subset.
func CrossValSolves(ctx context.Context, factory Factory, solves *dataset.Solves, cv KFold, scorer Scorer) (Scores, error) {
	return crossVal(ctx, factory, solves.Len(), func(idx []int) (mat.Matrix, mat.Matrix, error) {
		sub, err := solves.Subset(idx)
		if err != nil {
			return nil, nil, err
		}
		return sub.X(), sub.Y(), nil
	}, cv, scorer)
}

type rowsFunc func(indices []int) (X, y mat.Matrix, err error)

func crossVal(ctx context.Context, factory Factory, n int, rows rowsFunc, cv KFold, scorer Scorer) (Scores, error) {
	if n == 0 {
		return Scores{}, errors.NewModelError("CrossValScore", "empty data", errors.ErrEmptyData)
	}
	if scorer.Score == nil {
		scorer = R2Scorer
	}

	folds, err := cv.Split(n)
	if err != nil {
		return Scores{}, err
	}

	logger := log.GetLogger().With(
		log.OperationKey, log.OperationCrossValidate,
		log.FoldsKey, len(folds),
	)

	scores := Scores{
		Scorer:   scorer.Name,
		Values:   make([]float64, len(folds)),
		FitTimes: make([]time.Duration, len(folds)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, fold := range folds {
		g.Go(func() (err error) {
			defer errors.Recover(&err, fmt.Sprintf("fold %d", i))
			if err := gctx.Err(); err != nil {
				return err
			}

			trainX, trainY, err := rows(fold.Train)
			if err != nil {
				return errors.Wrapf(err, "fold %d", i)
			}
			testX, testY, err := rows(fold.Test)
			if err != nil {
				return errors.Wrapf(err, "fold %d", i)
			}

			est := factory()
			start := time.Now()
			if err := est.Fit(trainX, trainY); err != nil {
				return errors.Wrapf(err, "fold %d", i)
			}
			scores.FitTimes[i] = time.Since(start)

			score, err := scorer.Score(est, testX, testY)
			if err != nil {
				return errors.Wrapf(err, "fold %d", i)
			}
			scores.Values[i] = score

			logger.Debug("fold scored",
				log.FoldKey, i,
				log.SamplesKey, len(fold.Test),
				log.ScoreKey, score,
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Scores{}, err
	}

	logger.Info("cross-validation complete",
		log.ScoreKey, scores.Mean(),
		log.StdDevKey, scores.Std(),
	)
	return scores, nil
}

// Rows copies the given rows of m into a new matrix.
func Rows(m mat.Matrix, indices []int) *mat.Dense {
	_, c := m.Dims()
	out := mat.NewDense(len(indices), c, nil)
	for i, idx := range indices {
		for j := 0; j < c; j++ {
			out.Set(i, j, m.At(idx, j))
		}
	}
	return out
}
