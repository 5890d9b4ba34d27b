// Package preprocessing holds feature transformers applied before fitting.
package preprocessing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/solvereg/core/model"
	"github.com/YuminosukeSato/solvereg/pkg/errors"
)

// minScale replaces standard deviations below it so constant columns map to zero.
const minScale = 1e-8

// StandardScaler centres each feature on its mean and divides by its
// population standard deviation.
type StandardScaler struct {
	model.BaseEstimator

	// Mean per feature. All zeros when WithMean is false.
	Mean []float64

	// Scale per feature. All ones when WithStd is false.
	Scale []float64

	NFeatures int

	WithMean bool
	WithStd  bool
}

// NewStandardScaler creates a scaler.
//
//	scaler := preprocessing.NewStandardScaler(true, true)
//	Xs, err := scaler.FitTransform(X)
func NewStandardScaler(withMean, withStd bool) *StandardScaler {
	return &StandardScaler{WithMean: withMean, WithStd: withStd}
}

// Fit learns per-feature mean and scale from X.
func (s *StandardScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("StandardScaler.Fit", "empty data", errors.ErrEmptyData)
	}

	s.NFeatures = c
	s.Mean = make([]float64, c)
	s.Scale = make([]float64, c)

	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, X)
		mean, variance := stat.PopMeanVariance(col, nil)
		if s.WithMean {
			s.Mean[j] = mean
		}
		s.Scale[j] = 1
		if s.WithStd {
			if !s.WithMean {
				// spread around zero, not around the mean
				variance = stat.PopVariance(col, nil) + mean*mean
			}
			if sd := math.Sqrt(variance); sd >= minScale {
				s.Scale[j] = sd
			}
		}
	}

	s.SetFitted()
	return nil
}

// Transform standardises X with the fitted statistics.
func (s *StandardScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.check("Transform", X); err != nil {
		return nil, err
	}
	r, c := X.Dims()
	out := mat.NewDense(r, c, nil)
	out.Apply(func(i, j int, v float64) float64 {
		return (v - s.Mean[j]) / s.Scale[j]
	}, X)
	return out, nil
}

// FitTransform fits on X and returns the transformed X.
func (s *StandardScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform maps standardised values back to the original scale.
func (s *StandardScaler) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.check("InverseTransform", X); err != nil {
		return nil, err
	}
	r, c := X.Dims()
	out := mat.NewDense(r, c, nil)
	out.Apply(func(i, j int, v float64) float64 {
		return v*s.Scale[j] + s.Mean[j]
	}, X)
	return out, nil
}

func (s *StandardScaler) check(method string, X mat.Matrix) error {
	if !s.IsFitted() {
		return errors.NewNotFittedError("StandardScaler", method)
	}
	if _, c := X.Dims(); c != s.NFeatures {
		return errors.NewDimensionError("StandardScaler."+method, s.NFeatures, c, 1)
	}
	return nil
}

func (s *StandardScaler) String() string {
	if !s.IsFitted() {
		return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t)", s.WithMean, s.WithStd)
	}
	return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t, n_features=%d)",
		s.WithMean, s.WithStd, s.NFeatures)
}
