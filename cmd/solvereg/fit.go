package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/solvereg/core/model"
	"github.com/YuminosukeSato/solvereg/dataset"
	"github.com/YuminosukeSato/solvereg/linear"
	"github.com/YuminosukeSato/solvereg/metrics"
	"github.com/YuminosukeSato/solvereg/modelselection"
	"github.com/YuminosukeSato/solvereg/pkg/errors"
	"github.com/YuminosukeSato/solvereg/pkg/log"
	"github.com/YuminosukeSato/solvereg/report"
)

const (
	modelOLS     = "ols"
	modelRidge   = "ridge"
	modelRidgeCV = "ridgecv"
)

// estimator builds the named model from the loaded config.
func (a *app) estimator(name string) (model.LinearModel, error) {
	opts := a.cfg.LinearOptions()
	switch name {
	case modelOLS:
		return linear.NewLinearRegression(opts...), nil
	case modelRidge:
		return linear.NewRidge(a.cfg.Model.Alpha, opts...), nil
	case modelRidgeCV:
		return linear.NewRidgeCV(opts...), nil
	default:
		return nil, errors.NewValidationError("model", "must be ols, ridge or ridgecv", name)
	}
}

func (a *app) kfold() modelselection.KFold {
	return modelselection.NewKFold(a.cfg.Model.Folds, a.cfg.Model.Shuffle, a.cfg.Model.Seed)
}

func addModelFlags(cmd *cobra.Command, a *app) {
	cmd.Flags().BoolVar(&a.flags.noFit, "no-intercept", false, "fit through the origin")
	cmd.Flags().StringVar(&a.flags.jsonOut, "json", "", "also write the fitted weights as JSON to this path")
}

func addCVFlags(cmd *cobra.Command, a *app) {
	cmd.Flags().IntVarP(&a.flags.folds, "folds", "k", 0, "number of cross-validation folds")
	cmd.Flags().BoolVar(&a.flags.shuffle, "shuffle", false, "shuffle rows before splitting")
	cmd.Flags().Uint64Var(&a.flags.seed, "seed", 0, "shuffle seed")
}

// fitAndReport fits est on the solves file and prints labelled coefficients
// and the training R².
func (a *app) fitAndReport(ctx context.Context, w io.Writer, est model.LinearModel) (*dataset.Solves, error) {
	solves, err := dataset.Load(a.cfg.Data.Input)
	if err != nil {
		return nil, err
	}
	X, y := solves.X(), solves.Y()

	if cv, ok := est.(*linear.RidgeCV); ok {
		err = cv.FitContext(ctx, X, y)
	} else {
		err = est.Fit(X, y)
	}
	if err != nil {
		return nil, err
	}

	if cv, ok := est.(*linear.RidgeCV); ok {
		fmt.Fprintf(w, "alpha\t%g\ncv_r2\t%.6f\n", cv.Alpha, cv.BestScore)
	}
	if err := report.PrintCoefficients(w, solves.FeatureNames(), est.Coefficients(), est.InterceptValue()); err != nil {
		return nil, err
	}

	score, err := est.Score(X, y)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(w, "R2\t%.6f\n", score)

	if path := a.cfg.Output.JSON; path != "" {
		weights := est.Weights(solves.FeatureNames())
		weights.Metadata["train_r2"] = score
		weights.Metadata["samples"] = solves.Len()
		if err := weights.WriteFile(path); err != nil {
			return nil, err
		}
		log.GetLogger().Info("weights written", log.PathKey, path)
	}
	return solves, nil
}

func newOLSCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ols",
		Short: "Fit ordinary least squares and print coefficients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			est, err := a.estimator(modelOLS)
			if err != nil {
				return err
			}
			_, err = a.fitAndReport(cmd.Context(), cmd.OutOrStdout(), est)
			return err
		},
	}
	addModelFlags(cmd, a)
	return cmd
}

func newRidgeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ridge",
		Short: "Fit ridge regression and print coefficients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			est, err := a.estimator(modelRidge)
			if err != nil {
				return err
			}
			_, err = a.fitAndReport(cmd.Context(), cmd.OutOrStdout(), est)
			return err
		},
	}
	addModelFlags(cmd, a)
	cmd.Flags().Float64VarP(&a.flags.alpha, "alpha", "a", 0, "L2 penalty")
	cmd.Flags().BoolVar(&a.flags.norm, "normalize", false, "standardise features before solving")
	return cmd
}

func newRidgeCVCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ridgecv",
		Short: "Choose the ridge penalty by cross-validation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			est, err := a.estimator(modelRidgeCV)
			if err != nil {
				return err
			}
			_, err = a.fitAndReport(cmd.Context(), cmd.OutOrStdout(), est)
			return err
		},
	}
	addModelFlags(cmd, a)
	addCVFlags(cmd, a)
	cmd.Flags().Float64SliceVar(&a.flags.alphas, "alphas", nil, "candidate penalties")
	cmd.Flags().BoolVar(&a.flags.norm, "normalize", false, "standardise features before solving")
	return cmd
}

func newCVCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cv",
		Short: "Score a model by k-fold cross-validation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.estimator(a.flags.model); err != nil {
				return err
			}
			scorer, ok := modelselection.ScorerByName(a.cfg.Model.Scorer)
			if !ok {
				return errors.NewValidationError("scorer", "unknown", a.cfg.Model.Scorer)
			}
			solves, err := dataset.Load(a.cfg.Data.Input)
			if err != nil {
				return err
			}

			scores, err := modelselection.CrossValSolves(cmd.Context(), func() model.Regressor {
				est, _ := a.estimator(a.flags.model)
				return est
			}, solves, a.kfold(), scorer)
			if err != nil {
				return err
			}
			return report.PrintScores(cmd.OutOrStdout(), scores)
		},
	}
	cmd.Flags().StringVarP(&a.flags.model, "model", "m", modelOLS, "ols, ridge or ridgecv")
	cmd.Flags().Float64VarP(&a.flags.alpha, "alpha", "a", 0, "L2 penalty for ridge")
	cmd.Flags().StringVar(&a.flags.scorer, "scorer", "", "r2 or neg_mean_squared_error")
	cmd.Flags().BoolVar(&a.flags.noFit, "no-intercept", false, "fit through the origin")
	cmd.Flags().BoolVar(&a.flags.norm, "normalize", false, "standardise features before ridge")
	addCVFlags(cmd, a)
	return cmd
}

func newPlotCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Fit a model and plot actual against predicted difficulty",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			est, err := a.estimator(a.flags.model)
			if err != nil {
				return err
			}
			solves, err := a.fitAndReport(cmd.Context(), io.Discard, est)
			if err != nil {
				return err
			}
			pred, err := est.Predict(solves.X())
			if err != nil {
				return err
			}
			yPred := metrics.ColumnVector(pred).RawVector().Data

			title := fmt.Sprintf("%s: %s", a.flags.model, solves.TargetName())
			if err := report.PlotPredictions(a.cfg.Output.Plot, solves.Targets, yPred, title); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", a.cfg.Output.Plot)
			return nil
		},
	}
	cmd.Flags().StringVarP(&a.flags.model, "model", "m", modelOLS, "ols, ridge or ridgecv")
	cmd.Flags().Float64VarP(&a.flags.alpha, "alpha", "a", 0, "L2 penalty for ridge")
	cmd.Flags().StringVarP(&a.flags.plotOut, "plot-out", "o", "", "image path (.png, .svg, .pdf)")
	return cmd
}
