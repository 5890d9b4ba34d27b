// Package errors provides the structured errors and warning hook used across solvereg.
// Every constructor attaches a stack trace through cockroachdb/errors so that the
// log package can print where a failure originated.
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	Global warning handling
//
// ===========================================================================
var (
	warningMutex sync.Mutex
	// zerolog hook, installed by pkg/log to avoid an import cycle
	zerologWarnFunc func(warning error)
)

// SetZerologWarnFunc installs the structured warning hook.
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn reports a non-fatal condition through the zerolog hook, or the
// standard logger before logging is set up.
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}
	log.Printf("solvereg-warning: %v", w)
}

// ===========================================================================
//
//	Warnings
//
// ===========================================================================

// MalformedLineWarning is raised when a line of regression tool output has an
// unexpected shape and is skipped.
type MalformedLineWarning struct {
	Line   int
	Text   string
	Reason string
}

func (w *MalformedLineWarning) Error() string {
	return fmt.Sprintf("skipped line %d (%q): %s", w.Line, w.Text, w.Reason)
}

// MarshalZerologObject adds the warning fields to a zerolog event.
func (w *MalformedLineWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Int("line", w.Line).
		Str("text", w.Text).
		Str("reason", w.Reason).
		Str("type", "MalformedLineWarning")
}

// NewMalformedLineWarning creates a MalformedLineWarning.
func NewMalformedLineWarning(line int, text, reason string) *MalformedLineWarning {
	return &MalformedLineWarning{Line: line, Text: text, Reason: reason}
}

// UndefinedMetricWarning is raised when a metric cannot be computed and a
// substitute value is returned instead.
type UndefinedMetricWarning struct {
	Metric    string
	Condition string
	Result    float64
}

func (w *UndefinedMetricWarning) Error() string {
	return fmt.Sprintf("'%s' is ill-defined and being set to %f due to %s.", w.Metric, w.Result, w.Condition)
}

// MarshalZerologObject adds the warning fields to a zerolog event.
func (w *UndefinedMetricWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("metric", w.Metric).
		Str("condition", w.Condition).
		Float64("result", w.Result).
		Str("type", "UndefinedMetricWarning")
}

// NewUndefinedMetricWarning creates an UndefinedMetricWarning.
func NewUndefinedMetricWarning(metric, condition string, result float64) *UndefinedMetricWarning {
	return &UndefinedMetricWarning{Metric: metric, Condition: condition, Result: result}
}

// ===========================================================================
//
//	Structured errors
//
// ===========================================================================

// NotFittedError is returned when Predict or Score is called before Fit.
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("solvereg: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError creates a NotFittedError with a stack trace.
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// DimensionError is returned when input dimensions do not match.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("solvereg: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, e.axisName(), e.Expected, e.Got)
}

func (e *DimensionError) axisName() string {
	if e.Axis == 0 {
		return "rows"
	}
	return "features"
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", e.axisName()).
		Str("type", "DimensionError")
}

// NewDimensionError creates a DimensionError with a stack trace.
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValidationError is returned when a parameter fails validation.
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("solvereg: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError creates a ValidationError with a stack trace.
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// ValueError is returned when an argument has an unusable value.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("solvereg: %s: %s", e.Op, e.Message)
}

// NewValueError creates a ValueError with a stack trace.
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ModelError is a general estimator failure.
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("solvereg: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("solvereg: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError creates a ModelError with a stack trace.
func NewModelError(op, kind string, err error) error {
	modelErr := &ModelError{Op: op, Kind: kind, Err: err}
	return errors.WithStack(modelErr)
}

// ParseError is returned when a text input (CSV cell, tool output line)
// cannot be converted. Line and Column are 1-based; Column is 0 when the
// whole line is at fault.
type ParseError struct {
	Source string
	Line   int
	Column int
	Text   string
	Err    error
}

func (e *ParseError) Error() string {
	loc := fmt.Sprintf("line %d", e.Line)
	if e.Column > 0 {
		loc = fmt.Sprintf("line %d, column %d", e.Line, e.Column)
	}
	if e.Err != nil {
		return fmt.Sprintf("solvereg: %s: %s: cannot parse %q: %v", e.Source, loc, e.Text, e.Err)
	}
	return fmt.Sprintf("solvereg: %s: %s: cannot parse %q", e.Source, loc, e.Text)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *ParseError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("source", e.Source).
		Int("line", e.Line).
		Int("column", e.Column).
		Str("text", e.Text).
		Str("type", "ParseError")
}

// NewParseError creates a ParseError with a stack trace.
func NewParseError(source string, line, column int, text string, err error) error {
	parseErr := &ParseError{Source: source, Line: line, Column: column, Text: text, Err: err}
	return errors.WithStack(parseErr)
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap annotates err with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf annotates err with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates an error with a stack trace.
func New(message string) error {
	return errors.New(message)
}

// ===========================================================================
//
//	Numerical errors
//
// ===========================================================================

// NumericalInstabilityError reports NaN or Inf values produced by a computation.
type NumericalInstabilityError struct {
	Operation string
	Values    []float64
	Iteration int
}

func (e *NumericalInstabilityError) Error() string {
	valStr := ""
	for i, v := range e.Values {
		if i > 0 {
			valStr += ", "
		}
		if i >= 5 {
			valStr += "..."
			break
		}
		valStr += fmt.Sprintf("%.6g", v)
	}
	return fmt.Sprintf("solvereg: numerical instability detected in %s at iteration %d. Values: [%s]",
		e.Operation, e.Iteration, valStr)
}

// NewNumericalInstabilityError creates a NumericalInstabilityError with a stack trace.
func NewNumericalInstabilityError(operation string, values []float64, iteration int) error {
	err := &NumericalInstabilityError{
		Operation: operation,
		Values:    values,
		Iteration: iteration,
	}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Sentinel errors
//
// ===========================================================================

var (
	// ErrEmptyData is returned for inputs without rows or columns.
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix is returned when a linear system has no unique solution.
	ErrSingularMatrix = New("singular matrix")

	// ErrNotFound is returned when a required file or tool cannot be located.
	ErrNotFound = New("not found")

	// ErrNoVariance is returned by scores that divide by the variance of a
	// constant target.
	ErrNoVariance = New("no variance in yTrue")
)
