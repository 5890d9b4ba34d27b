package model

import (
	"encoding/json"
	"os"
	"strconv"

	"github.com/YuminosukeSato/solvereg/pkg/errors"
)

// ConstantName is the key used for the intercept when weights are keyed by
// feature name. It matches the label regression tools print for the bias term.
const ConstantName = "Constant"

// WeightsVersion is the serialisation version written by ToJSON.
const WeightsVersion = "1.0"

// ModelWeights is the serialisable form of a fitted linear model.
type ModelWeights struct {
	// ModelType is the estimator name (LinearRegression, Ridge, RidgeCV).
	ModelType string `json:"model_type"`

	// Version guards compatibility of the JSON layout.
	Version string `json:"version"`

	// Coefficients holds one weight per feature.
	Coefficients []float64 `json:"coefficients"`

	Intercept float64 `json:"intercept"`

	// Features are the column labels, parallel to Coefficients.
	Features []string `json:"features,omitempty"`

	// Hyperparameters records the settings used to fit (alpha, fit_intercept, ...).
	Hyperparameters map[string]interface{} `json:"hyperparameters"`

	// Metadata carries fit statistics such as the training or CV score.
	Metadata map[string]interface{} `json:"metadata,omitempty"`

	IsFitted bool `json:"is_fitted"`
}

// ToJSON serialises the weights as indented JSON.
func (mw *ModelWeights) ToJSON() ([]byte, error) {
	return json.MarshalIndent(mw, "", "  ")
}

// FromJSON loads weights from JSON.
func (mw *ModelWeights) FromJSON(data []byte) error {
	if err := json.Unmarshal(data, mw); err != nil {
		return errors.Wrap(err, "decode model weights")
	}
	return nil
}

// Validate checks that the weights are internally consistent.
func (mw *ModelWeights) Validate() error {
	if mw.ModelType == "" {
		return errors.NewValidationError("model_type", "is required", mw.ModelType)
	}
	if mw.Version == "" {
		return errors.NewValidationError("version", "is required", mw.Version)
	}
	if !mw.IsFitted && len(mw.Coefficients) > 0 {
		return errors.NewValidationError("coefficients", "unfitted model should not have coefficients", len(mw.Coefficients))
	}
	if mw.IsFitted && len(mw.Coefficients) == 0 {
		return errors.NewValidationError("coefficients", "fitted model must have coefficients", 0)
	}
	if len(mw.Features) > 0 && len(mw.Features) != len(mw.Coefficients) {
		return errors.NewDimensionError("ModelWeights.Validate", len(mw.Coefficients), len(mw.Features), 1)
	}
	return nil
}

// Map returns the weights keyed by feature name, with the intercept under
// ConstantName. Features without a name are keyed by their column index.
func (mw *ModelWeights) Map() map[string]float64 {
	out := make(map[string]float64, len(mw.Coefficients)+1)
	for i, c := range mw.Coefficients {
		name := ""
		if i < len(mw.Features) {
			name = mw.Features[i]
		}
		if name == "" {
			name = "x" + strconv.Itoa(i)
		}
		out[name] = c
	}
	out[ConstantName] = mw.Intercept
	return out
}

// Clone returns a deep copy.
func (mw *ModelWeights) Clone() *ModelWeights {
	clone := &ModelWeights{
		ModelType:       mw.ModelType,
		Version:         mw.Version,
		Intercept:       mw.Intercept,
		IsFitted:        mw.IsFitted,
		Coefficients:    append([]float64(nil), mw.Coefficients...),
		Features:        append([]string(nil), mw.Features...),
		Hyperparameters: make(map[string]interface{}, len(mw.Hyperparameters)),
		Metadata:        make(map[string]interface{}, len(mw.Metadata)),
	}
	for k, v := range mw.Hyperparameters {
		clone.Hyperparameters[k] = v
	}
	for k, v := range mw.Metadata {
		clone.Metadata[k] = v
	}
	return clone
}

// WriteFile writes the weights as JSON to path.
func (mw *ModelWeights) WriteFile(path string) error {
	if err := mw.Validate(); err != nil {
		return err
	}
	data, err := mw.ToJSON()
	if err != nil {
		return errors.Wrap(err, "encode model weights")
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}

// ReadWeightsFile loads and validates weights written by WriteFile.
func ReadWeightsFile(path string) (*ModelWeights, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	var mw ModelWeights
	if err := mw.FromJSON(data); err != nil {
		return nil, err
	}
	if err := mw.Validate(); err != nil {
		return nil, err
	}
	return &mw, nil
}
