// Package report writes fitted coefficients, scraped weights and
// cross-validation scores for people to read.
package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/YuminosukeSato/solvereg/core/model"
	"github.com/YuminosukeSato/solvereg/modelselection"
	"github.com/YuminosukeSato/solvereg/pkg/errors"
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// PrintCoefficients writes "name<TAB>coef" per feature in column order,
// followed by the intercept under model.ConstantName. When names and coefs
// differ in length the coefficients are written under positional labels and
// an error is returned.
func PrintCoefficients(w io.Writer, names []string, coefs []float64, intercept float64) error {
	var mismatch error
	if len(names) != len(coefs) {
		mismatch = errors.NewDimensionError("PrintCoefficients", len(coefs), len(names), 1)
		names = nil
	}
	for i, c := range coefs {
		name := "x" + strconv.Itoa(i)
		if names != nil {
			name = names[i]
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\n", name, formatFloat(c)); err != nil {
			return errors.Wrap(err, "write coefficients")
		}
	}
	if _, err := fmt.Fprintf(w, "%s\t%s\n", model.ConstantName, formatFloat(intercept)); err != nil {
		return errors.Wrap(err, "write coefficients")
	}
	return mismatch
}

// PrintWeights writes "name: value" lines in lexical name order.
func PrintWeights(w io.Writer, weights map[string]float64) error {
	names := make([]string, 0, len(weights))
	for name := range weights {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := fmt.Fprintf(w, "%s: %s\n", name, formatFloat(weights[name])); err != nil {
			return errors.Wrap(err, "write weights")
		}
	}
	return nil
}

// PrintScores writes one line per fold followed by the mean and standard
// deviation.
func PrintScores(w io.Writer, scores modelselection.Scores) error {
	for i, v := range scores.Values {
		if _, err := fmt.Fprintf(w, "fold %d\t%s\t%.6f\n", i+1, scores.Scorer, v); err != nil {
			return errors.Wrap(err, "write scores")
		}
	}
	_, err := fmt.Fprintf(w, "mean\t%s\t%.6f (+/- %.6f)\n", scores.Scorer, scores.Mean(), scores.Std())
	if err != nil {
		return errors.Wrap(err, "write scores")
	}
	return nil
}
