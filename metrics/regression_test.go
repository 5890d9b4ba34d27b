package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/solvereg/pkg/errors"
)

type vecMetric func(yTrue, yPred *mat.VecDense) (float64, error)

func vec(xs ...float64) *mat.VecDense {
	return mat.NewVecDense(len(xs), xs)
}

func TestVectorMetrics(t *testing.T) {
	tests := []struct {
		name    string
		metric  vecMetric
		yTrue   *mat.VecDense
		yPred   *mat.VecDense
		want    float64
		wantErr bool
	}{
		{"MSE perfect", MSE, vec(1, 2, 3, 4, 5), vec(1, 2, 3, 4, 5), 0, false},
		{"MSE half offsets", MSE, vec(1, 2, 3, 4), vec(1.5, 2.5, 2.5, 3.5), 0.25, false},
		{"MSE larger errors", MSE, vec(10, 20, 30), vec(12, 18, 33), 17.0 / 3.0, false},
		{"MSE mismatch", MSE, vec(1, 2, 3), vec(1, 2), 0, true},
		{"MSE empty", MSE, &mat.VecDense{}, &mat.VecDense{}, 0, true},

		{"RMSE unit offset", RMSE, vec(0, 0, 0, 0), vec(1, 1, 1, 1), 1, false},
		{"RMSE mismatch", RMSE, vec(1, 2, 3), vec(1, 2), 0, true},

		{"MAE mixed signs", MAE, vec(1, 2, 3, 4), vec(2, 1, 3, 6), 1, false},
		{"MAE empty", MAE, &mat.VecDense{}, &mat.VecDense{}, 0, true},

		{"R2 perfect", R2Score, vec(1, 2, 3, 4, 5), vec(1, 2, 3, 4, 5), 1, false},
		{"R2 reversed", R2Score, vec(1, 2, 3, 4), vec(4, 3, 2, 1), -3, false},
		{"R2 mean baseline", R2Score, vec(1, 2, 3, 4), vec(2.5, 2.5, 2.5, 2.5), 0, false},
		{"R2 constant truth", R2Score, vec(3, 3, 3), vec(2, 3, 4), 0, true},
		{"R2 mismatch", R2Score, vec(1, 2, 3), vec(1, 2), 0, true},

		{"EV constant offset", ExplainedVarianceScore, vec(1, 2, 3, 4), vec(2, 3, 4, 5), 1, false},
		{"EV constant truth", ExplainedVarianceScore, vec(2, 2), vec(1, 3), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.metric(tt.yTrue, tt.yPred)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-10 {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatrixMetrics(t *testing.T) {
	yTrue := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	yPred := mat.NewDense(4, 1, []float64{1.5, 2.5, 2.5, 3.5})

	mse, err := MSEMatrix(yTrue, yPred)
	if err != nil {
		t.Fatalf("MSEMatrix: %v", err)
	}
	if math.Abs(mse-0.25) > 1e-10 {
		t.Errorf("MSEMatrix() = %v, want 0.25", mse)
	}

	r2, err := R2ScoreMatrix(yTrue, yPred)
	if err != nil {
		t.Fatalf("R2ScoreMatrix: %v", err)
	}
	// TSS = 5, RSS = 1
	if math.Abs(r2-0.8) > 1e-10 {
		t.Errorf("R2ScoreMatrix() = %v, want 0.8", r2)
	}

	wide := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	if _, err := MSEMatrix(wide, wide); err == nil {
		t.Error("expected error for multi-column input")
	}
	if _, err := R2ScoreMatrix(yTrue, mat.NewDense(3, 1, nil)); err == nil {
		t.Error("expected error for row mismatch")
	}
}

func TestConstantTruthIsNoVariance(t *testing.T) {
	_, err := R2Score(vec(3, 3, 3), vec(3, 3, 3))
	if !errors.Is(err, errors.ErrNoVariance) {
		t.Errorf("R2Score error = %v, want ErrNoVariance", err)
	}
	_, err = ExplainedVarianceScore(vec(2, 2), vec(1, 3))
	if !errors.Is(err, errors.ErrNoVariance) {
		t.Errorf("ExplainedVarianceScore error = %v, want ErrNoVariance", err)
	}
}

func TestColumnVector(t *testing.T) {
	m := mat.NewDense(3, 2, []float64{1, 9, 2, 9, 3, 9})
	v := ColumnVector(m)
	if v.Len() != 3 || v.AtVec(2) != 3 {
		t.Errorf("ColumnVector() = %v", mat.Formatted(v))
	}
}

func BenchmarkMSE(b *testing.B) {
	size := 10000
	yTrue := mat.NewVecDense(size, nil)
	yPred := mat.NewVecDense(size, nil)
	for i := 0; i < size; i++ {
		yTrue.SetVec(i, float64(i))
		yPred.SetVec(i, float64(i)+0.1*float64(i%10))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = MSE(yTrue, yPred)
	}
}
