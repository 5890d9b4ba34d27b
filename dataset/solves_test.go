package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/solvereg/pkg/errors"
)

const sample = `Difficulty,Necked Single,Hidden Single,Guess
0.25,4,1,0
0.5, 3 ,2,0
0.9,1,0,2
`

func TestRead(t *testing.T) {
	s, err := Read(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, []string{"Difficulty", "Necked Single", "Hidden Single", "Guess"}, s.Header)
	assert.Equal(t, "Difficulty", s.TargetName())
	assert.Equal(t, []string{"Necked Single", "Hidden Single", "Guess"}, s.FeatureNames())
	assert.Equal(t, []float64{0.25, 0.5, 0.9}, s.Targets)
	assert.Equal(t, [][]float64{{4, 1, 0}, {3, 2, 0}, {1, 0, 2}}, s.Features)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 3, s.NumFeatures())

	for _, row := range s.Features {
		assert.Len(t, row, len(s.Header)-1)
	}
}

func TestMatrices(t *testing.T) {
	s, err := Read(strings.NewReader(sample))
	require.NoError(t, err)

	X := s.X()
	r, c := X.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, 2.0, X.At(2, 2))

	y := s.Y()
	r, c = y.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 1, c)
	assert.Equal(t, 0.5, y.At(1, 0))

	// Y copies the targets
	y.Set(0, 0, 99)
	assert.Equal(t, 0.25, s.Targets[0])
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantLine   int
		wantColumn int
	}{
		{"non-numeric cell", "d,a,b\n1,2,3\n4,x,6\n", 3, 2},
		{"non-numeric target", "d,a\nhard,1\n", 2, 1},
		{"short row", "d,a,b\n1,2\n", 2, 0},
		{"long row", "d,a\n1,2\n1,2,3\n", 3, 0},
		{"header only", "d,a\n", 2, 0},
		{"empty", "", 1, 0},
		{"single column header", "d\n1\n", 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadNamed(strings.NewReader(tt.input), "solves.csv")
			require.Error(t, err)

			var pe *errors.ParseError
			require.True(t, errors.As(err, &pe), "got %T: %v", err, err)
			assert.Equal(t, "solves.csv", pe.Source)
			assert.Equal(t, tt.wantLine, pe.Line)
			assert.Equal(t, tt.wantColumn, pe.Column)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solves.csv")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Len())

	_, err = Load(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.csv")
}

func TestSubset(t *testing.T) {
	s, err := Read(strings.NewReader(sample))
	require.NoError(t, err)

	sub, err := s.Subset([]int{2, 0})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.9, 0.25}, sub.Targets)
	assert.Equal(t, [][]float64{{1, 0, 2}, {4, 1, 0}}, sub.Features)
	assert.Equal(t, s.Header, sub.Header)

	sub.Features[0][0] = 42
	assert.Equal(t, 1.0, s.Features[2][0])

	_, err = s.Subset([]int{3})
	assert.Error(t, err)
}
