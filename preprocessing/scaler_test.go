package preprocessing

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestStandardScaler(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		1, 10,
		2, 10,
		3, 10,
		4, 10,
	})

	scaler := NewStandardScaler(true, true)
	Xs, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform: %v", err)
	}

	if math.Abs(scaler.Mean[0]-2.5) > 1e-12 {
		t.Errorf("Mean[0] = %v, want 2.5", scaler.Mean[0])
	}
	if want := math.Sqrt(1.25); math.Abs(scaler.Scale[0]-want) > 1e-12 {
		t.Errorf("Scale[0] = %v, want %v", scaler.Scale[0], want)
	}
	// constant column keeps unit scale and becomes zero
	if scaler.Scale[1] != 1 {
		t.Errorf("Scale[1] = %v, want 1", scaler.Scale[1])
	}
	for i := 0; i < 4; i++ {
		if Xs.At(i, 1) != 0 {
			t.Errorf("Xs[%d,1] = %v, want 0", i, Xs.At(i, 1))
		}
	}

	back, err := scaler.InverseTransform(Xs)
	if err != nil {
		t.Fatalf("InverseTransform: %v", err)
	}
	if !mat.EqualApprox(back, X, 1e-12) {
		t.Errorf("round trip mismatch:\n%v", mat.Formatted(back))
	}
}

func TestStandardScalerErrors(t *testing.T) {
	scaler := NewStandardScaler(true, true)
	if _, err := scaler.Transform(mat.NewDense(1, 1, nil)); err == nil {
		t.Error("expected not fitted error")
	}
	if err := scaler.Fit(&mat.Dense{}); err == nil {
		t.Error("expected error for empty data")
	}
	if err := scaler.Fit(mat.NewDense(2, 2, []float64{1, 2, 3, 4})); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if _, err := scaler.Transform(mat.NewDense(2, 3, nil)); err == nil {
		t.Error("expected dimension error")
	}
}

func TestStandardScalerWithoutMean(t *testing.T) {
	X := mat.NewDense(2, 1, []float64{3, 4})
	scaler := NewStandardScaler(false, true)
	Xs, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform: %v", err)
	}
	// root mean square of {3, 4}
	want := math.Sqrt(12.5)
	if math.Abs(scaler.Scale[0]-want) > 1e-12 {
		t.Errorf("Scale[0] = %v, want %v", scaler.Scale[0], want)
	}
	if math.Abs(Xs.At(0, 0)-3/want) > 1e-12 {
		t.Errorf("Xs[0,0] = %v", Xs.At(0, 0))
	}
}
