// Package weka drives the external SMOreg support vector regression tool and
// scrapes the linear weights and cross-validated correlation out of its
// console output.
package weka

import (
	"bufio"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/solvereg/core/model"
	"github.com/YuminosukeSato/solvereg/pkg/errors"
	"github.com/YuminosukeSato/solvereg/pkg/log"
)

const (
	termSeparator    = " * "
	crossValHeading  = "Cross-validation"
	correlationLabel = "Correlation coefficient"
)

// Weights maps an attribute name to its weight. The bias term is stored
// under model.ConstantName.
type Weights map[string]float64

// Names returns the keys in lexical order.
func (w Weights) Names() []string {
	names := make([]string, 0, len(w))
	for name := range w {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseWeights reads tool output line by line and collects every signed
// weight term. Lines that do not start with '+' or '-' are ignored. A line
// with more than one " * " separator is logged and skipped.
func ParseWeights(r io.Reader, logger log.Logger) (Weights, error) {
	if logger == nil {
		logger = log.GetLogger()
	}
	weights := make(Weights)

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if line[0] != '+' && line[0] != '-' {
			continue
		}

		parts := strings.Split(strings.TrimSpace(line[1:]), termSeparator)

		var name string
		switch len(parts) {
		case 1:
			name = model.ConstantName
		case 2:
			name = strings.TrimSpace(parts[1])
		default:
			w := errors.NewMalformedLineWarning(lineNo, line, "more than one term separator")
			logger.Warn(w.Error(),
				log.OperationKey, log.OperationParse,
				log.LineKey, lineNo,
				log.ErrorKey, w,
			)
			continue
		}

		// the sign is put back in front of the digits, so "--1" is rejected
		number := line[:1] + strings.TrimSpace(parts[0])
		v, err := strconv.ParseFloat(number, 64)
		if err != nil {
			return nil, errors.NewParseError("weights", lineNo, 0, number, cause(err))
		}
		weights[name] = v
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "read weights")
	}
	return weights, nil
}

// ParseWeightsFile parses the tool output saved at path.
func ParseWeightsFile(path string, logger log.Logger) (Weights, error) {
	if logger == nil {
		logger = log.GetLogger()
	}
	f, err := os.Open(path)
	if err != nil {
		err = errors.Wrapf(err, "open weka output %s", path)
		logger.Error("cannot read weka output", err, log.PathKey, path)
		return nil, err
	}
	defer f.Close()
	return ParseWeights(f, logger)
}

// ParseR2 returns the first correlation coefficient reported after the
// cross-validation heading.
func ParseR2(r io.Reader) (float64, error) {
	sc := bufio.NewScanner(r)
	inCrossVal := false
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if strings.Contains(line, crossValHeading) {
			inCrossVal = true
			continue
		}
		if !inCrossVal || !strings.HasPrefix(line, correlationLabel) {
			continue
		}

		number := strings.TrimSpace(strings.TrimPrefix(line, correlationLabel))
		v, err := strconv.ParseFloat(number, 64)
		if err != nil {
			return 0, errors.NewParseError("r2", lineNo, 0, number, cause(err))
		}
		return v, nil
	}
	if err := sc.Err(); err != nil {
		return 0, errors.Wrap(err, "read r2")
	}
	return 0, errors.Wrap(errors.ErrNotFound, "no cross-validated correlation coefficient")
}

// cause strips the strconv wrapper so messages do not repeat the input.
func cause(err error) error {
	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		return numErr.Err
	}
	return err
}
