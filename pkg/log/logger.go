package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	solverrors "github.com/YuminosukeSato/solvereg/pkg/errors"
)

// Output formats accepted by Setup.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

var (
	globalMu sync.RWMutex
	global   Logger = newDefault()
)

func newDefault() Logger {
	zl := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(zerolog.InfoLevel).
		With().Timestamp().Logger()
	return &ZerologLogger{zl: zl}
}

// Setup configures the global logger and routes errors.Warn through it.
//
// level is one of debug, info, warn, error. format is "console" for
// human-readable output or "json" for one JSON object per line.
func Setup(level, format string, w io.Writer) error {
	lvl, err := ToLogLevel(level)
	if err != nil {
		return err
	}
	if w == nil {
		w = os.Stderr
	}

	var out io.Writer
	switch strings.ToLower(format) {
	case "", FormatConsole:
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	case FormatJSON:
		out = w
	default:
		return solverrors.NewValidationError("log.format", "must be console or json", format)
	}

	zl := zerolog.New(out).Level(toZerolog(lvl)).With().Timestamp().Logger()
	SetLogger(&ZerologLogger{zl: zl})
	return nil
}

// SetLogger replaces the global logger.
func SetLogger(l Logger) {
	globalMu.Lock()
	global = l
	globalMu.Unlock()

	solverrors.SetZerologWarnFunc(func(w error) {
		l.Warn(w.Error(), ErrorKey, w)
	})
}

// GetLogger returns the global logger.
func GetLogger() Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return global
}

// ToLogLevel converts a level name to a Level.
func ToLogLevel(level string) (Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, solverrors.NewValidationError("log.level", "must be debug, info, warn or error", level)
	}
}

func toZerolog(l Level) zerolog.Level {
	switch {
	case l <= LevelDebug:
		return zerolog.DebugLevel
	case l <= LevelInfo:
		return zerolog.InfoLevel
	case l <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// ZerologLogger adapts a zerolog.Logger to Logger.
type ZerologLogger struct {
	zl zerolog.Logger
}

// NewZerologLogger wraps an existing zerolog logger.
func NewZerologLogger(zl zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{zl: zl}
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return &ZerologLogger{zl: zerolog.Nop()}
}

func (z *ZerologLogger) Debug(msg string, fields ...any) {
	z.emit(z.zl.Debug(), msg, fields)
}

func (z *ZerologLogger) Info(msg string, fields ...any) {
	z.emit(z.zl.Info(), msg, fields)
}

func (z *ZerologLogger) Warn(msg string, fields ...any) {
	z.emit(z.zl.Warn(), msg, fields)
}

func (z *ZerologLogger) Error(msg string, fields ...any) {
	ev := z.zl.Error()
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			attachError(ev, err)
			fields = fields[1:]
		}
	}
	z.emit(ev, msg, fields)
}

func (z *ZerologLogger) With(fields ...any) Logger {
	return &ZerologLogger{zl: z.zl.With().Fields(normalize(fields)).Logger()}
}

func (z *ZerologLogger) Enabled(_ context.Context, level Level) bool {
	return toZerolog(level) >= z.zl.GetLevel()
}

func (z *ZerologLogger) emit(ev *zerolog.Event, msg string, fields []any) {
	if ev == nil {
		return
	}
	pairs := normalize(fields)
	for i := 0; i+1 < len(pairs); i += 2 {
		if err, ok := pairs[i+1].(error); ok && pairs[i] == ErrorKey {
			attachError(ev, err)
			pairs = append(pairs[:i:i], pairs[i+2:]...)
			i -= 2
		}
	}
	ev.Fields(pairs).Msg(msg)
}

func attachError(ev *zerolog.Event, err error) {
	ev.Err(err)
	var obj zerolog.LogObjectMarshaler
	if errors.As(err, &obj) {
		ev.Object("error.detail", obj)
	}
	if st := extractStacktrace(err); st != "" {
		ev.Str(StacktraceKey, st)
	}
}

// normalize turns fields into an even-length key/value slice with string keys.
func normalize(fields []any) []any {
	out := make([]any, 0, len(fields)+1)
	for i := 0; i < len(fields); i += 2 {
		key := fmt.Sprintf("%v", fields[i])
		if i+1 >= len(fields) {
			out = append(out, "!BADKEY", fields[i])
			break
		}
		out = append(out, key, fields[i+1])
	}
	return out
}

func extractStacktrace(err error) string {
	safeDetails := errors.GetSafeDetails(err).SafeDetails
	if len(safeDetails) > 0 {
		return safeDetails[0]
	}
	return ""
}
