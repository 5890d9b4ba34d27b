// Package dataset loads the solves CSV: a header row followed by rows whose
// first cell is the difficulty target and whose remaining cells are features.
package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/solvereg/pkg/errors"
	"github.com/YuminosukeSato/solvereg/pkg/log"
)

// Solves is the parsed content of a solves CSV.
type Solves struct {
	// Header holds the column labels as written, target first.
	Header []string
	// Targets[i] is the first cell of data row i.
	Targets []float64
	// Features[i] holds the remaining cells of data row i.
	Features [][]float64
}

// Load reads the CSV at path.
func Load(path string) (*Solves, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open solves file %s", path)
	}
	defer f.Close()

	s, err := ReadNamed(f, path)
	if err != nil {
		return nil, err
	}

	log.GetLogger().Info("solves loaded",
		log.ComponentKey, "dataset",
		log.PathKey, path,
		log.SamplesKey, s.Len(),
		log.FeaturesKey, s.NumFeatures(),
	)
	return s, nil
}

// Read parses a solves CSV from r.
func Read(r io.Reader) (*Solves, error) {
	return ReadNamed(r, "input")
}

// ReadNamed parses a solves CSV from r, naming source in errors.
func ReadNamed(r io.Reader, source string) (*Solves, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 0

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.NewParseError(source, 1, 0, "", errors.ErrEmptyData)
	}
	if err != nil {
		return nil, csvError(source, err)
	}
	if len(header) < 2 {
		return nil, errors.NewParseError(source, 1, 0, strings.Join(header, ","),
			errors.New("header needs a target column and at least one feature column"))
	}

	s := &Solves{Header: make([]string, len(header))}
	for i, h := range header {
		s.Header[i] = strings.TrimSpace(h)
	}

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, csvError(source, err)
		}

		line, _ := cr.FieldPos(0)
		values := make([]float64, len(record))
		for j, cell := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				var numErr *strconv.NumError
				if errors.As(err, &numErr) {
					err = numErr.Err
				}
				return nil, errors.NewParseError(source, line, j+1, cell, err)
			}
			values[j] = v
		}

		s.Targets = append(s.Targets, values[0])
		s.Features = append(s.Features, values[1:])
	}

	if len(s.Targets) == 0 {
		return nil, errors.NewParseError(source, 2, 0, "", errors.ErrEmptyData)
	}
	return s, nil
}

func csvError(source string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		column := pe.Column
		if errors.Is(pe.Err, csv.ErrFieldCount) {
			column = 0
		}
		return errors.NewParseError(source, pe.Line, column, "", pe.Err)
	}
	return errors.Wrapf(err, "read %s", source)
}

// Len is the number of data rows.
func (s *Solves) Len() int {
	return len(s.Targets)
}

// NumFeatures is the number of feature columns.
func (s *Solves) NumFeatures() int {
	return len(s.Header) - 1
}

// TargetName is the label of the target column.
func (s *Solves) TargetName() string {
	return s.Header[0]
}

// FeatureNames are the labels of the feature columns, in order.
func (s *Solves) FeatureNames() []string {
	return append([]string(nil), s.Header[1:]...)
}

// X returns the features as an n x f matrix.
func (s *Solves) X() *mat.Dense {
	m := mat.NewDense(s.Len(), s.NumFeatures(), nil)
	for i, row := range s.Features {
		m.SetRow(i, row)
	}
	return m
}

// Y returns the targets as an n x 1 matrix.
func (s *Solves) Y() *mat.Dense {
	return mat.NewDense(s.Len(), 1, append([]float64(nil), s.Targets...))
}

// Subset returns the rows at indices, sharing the header.
func (s *Solves) Subset(indices []int) (*Solves, error) {
	out := &Solves{
		Header:   s.Header,
		Targets:  make([]float64, 0, len(indices)),
		Features: make([][]float64, 0, len(indices)),
	}
	for _, i := range indices {
		if i < 0 || i >= s.Len() {
			return nil, errors.NewValueError("Solves.Subset", "row index "+strconv.Itoa(i)+" out of range")
		}
		out.Targets = append(out.Targets, s.Targets[i])
		out.Features = append(out.Features, append([]float64(nil), s.Features[i]...))
	}
	return out, nil
}
