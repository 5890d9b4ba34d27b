package weka

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/solvereg/core/model"
	"github.com/YuminosukeSato/solvereg/pkg/errors"
	"github.com/YuminosukeSato/solvereg/pkg/log"
)

func TestParseWeightsFile(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelDebug)

	weights, err := ParseWeightsFile(filepath.Join("testdata", "smoreg_output.txt"), logger)
	require.NoError(t, err)

	assert.Equal(t, Weights{
		"Block Block Interactions Count":      -0.0182,
		"Block Block Interactions Percentage": 0.0034,
		"Guess Count":                         0.027,
		"Hidden Pair Block Count":             0.1157,
		"Necessary In Row Percentage":         -0.5822,
		"Hidden Triple Row Count":             0,
		model.ConstantName:                    0.0577,
	}, weights)
	assert.Zero(t, logger.CountLevel("WARN"))
}

func TestParseWeights(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Weights
	}{
		{"positive term", "+0.42 * f", Weights{"f": 0.42}},
		{"negative term", "-0.42 * f", Weights{"f": -0.42}},
		{"constant", "  - 1.5  ", Weights{model.ConstantName: -1.5}},
		{"name is trimmed", "+ 2 *   Naked Pair Row Count   ", Weights{"Naked Pair Row Count": 2}},
		{"unsigned lines ignored", "weights:\n0.5 * f\n\n+1 * g", Weights{"g": 1}},
		{"later line wins", "+1 * f\n-3 * f", Weights{"f": -3}},
		{"empty input", "", Weights{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseWeights(strings.NewReader(tt.input), log.Nop())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseWeightsSkipsExtraSeparators(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelDebug)
	input := "+1 * a\n+2 * b * c\n-3 * d\n"

	got, err := ParseWeights(strings.NewReader(input), logger)
	require.NoError(t, err)

	assert.Equal(t, Weights{"a": 1, "d": -3}, got)
	assert.Equal(t, 1, logger.CountLevel("WARN"))
	assert.True(t, logger.ContainsField(log.LineKey, 2.0))
	assert.True(t, logger.ContainsMessage("skipped line 2"))
}

func TestParseWeightsBadNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantLine int
		wantText string
	}{
		{"not a number", "+1 * a\n\n+abc * b\n", 3, "+abc"},
		{"doubled sign", "+1 * a\n--0.42 * f\n", 2, "--0.42"},
		{"mixed signs", "+-0.42 * f\n", 1, "+-0.42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseWeights(strings.NewReader(tt.input), log.Nop())
			require.Error(t, err)

			var pe *errors.ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.wantLine, pe.Line)
			assert.Equal(t, tt.wantText, pe.Text)
		})
	}
}

func TestParseWeightsFileMissing(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelDebug)

	_, err := ParseWeightsFile(filepath.Join(t.TempDir(), "input.txt"), logger)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Equal(t, 1, logger.CountLevel("ERROR"))
}

func TestParseR2(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "smoreg_output.txt"))
	require.NoError(t, err)

	r2, err := ParseR2(strings.NewReader(string(data)))
	require.NoError(t, err)
	assert.InDelta(t, 0.7681, r2, 1e-12)

	_, err = ParseR2(strings.NewReader("Correlation coefficient 0.9\n"))
	assert.True(t, errors.Is(err, errors.ErrNotFound), "training-only output: %v", err)

	_, err = ParseR2(strings.NewReader("=== Cross-validation ===\nCorrelation coefficient  n/a\n"))
	var pe *errors.ParseError
	assert.True(t, errors.As(err, &pe))
}

func TestWeightsNames(t *testing.T) {
	w := Weights{"b": 1, model.ConstantName: 2, "a": 3}
	assert.Equal(t, []string{model.ConstantName, "a", "b"}, w.Names())
}
