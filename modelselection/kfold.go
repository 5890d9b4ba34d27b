// Package modelselection splits samples into folds and scores estimators by
// cross-validation.
package modelselection

import (
	"math/rand/v2"

	"github.com/YuminosukeSato/solvereg/pkg/errors"
)

// DefaultSplits is the fold count used when none is configured.
const DefaultSplits = 5

// Fold holds the row indices of one train/test partition.
type Fold struct {
	Train []int
	Test  []int
}

// KFold partitions samples into NSplits contiguous test folds. With Shuffle
// the index order is permuted first using Seed, so the same seed gives the
// same folds.
type KFold struct {
	NSplits int
	Shuffle bool
	Seed    uint64
}

// NewKFold creates a k-fold splitter.
func NewKFold(nSplits int, shuffle bool, seed uint64) KFold {
	return KFold{NSplits: nSplits, Shuffle: shuffle, Seed: seed}
}

// Validate checks the fold count against the number of samples.
func (kf KFold) Validate(nSamples int) error {
	if kf.NSplits < 2 {
		return errors.NewValidationError("folds", "must be at least 2", kf.NSplits)
	}
	if kf.NSplits > nSamples {
		return errors.NewValidationError("folds", "cannot exceed the number of samples", kf.NSplits)
	}
	return nil
}

// Split returns one Fold per split. The first nSamples % NSplits folds get one
// extra test sample. Every index appears in exactly one test set.
func (kf KFold) Split(nSamples int) ([]Fold, error) {
	if err := kf.Validate(nSamples); err != nil {
		return nil, err
	}

	indices := make([]int, nSamples)
	for i := range indices {
		indices[i] = i
	}
	if kf.Shuffle {
		r := rand.New(rand.NewPCG(kf.Seed, kf.Seed))
		r.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	folds := make([]Fold, kf.NSplits)
	foldSize := nSamples / kf.NSplits
	remainder := nSamples % kf.NSplits

	start := 0
	for i := range folds {
		size := foldSize
		if i < remainder {
			size++
		}
		end := start + size

		test := make([]int, size)
		copy(test, indices[start:end])

		train := make([]int, 0, nSamples-size)
		train = append(train, indices[:start]...)
		train = append(train, indices[end:]...)

		folds[i] = Fold{Train: train, Test: test}
		start = end
	}
	return folds, nil
}
