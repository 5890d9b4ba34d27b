package weka

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/YuminosukeSato/solvereg/pkg/errors"
	"github.com/YuminosukeSato/solvereg/pkg/log"
)

// Java classes invoked by the trainer.
const (
	csvLoaderClass = "weka.core.converters.CSVLoader"
	smoregClass    = "weka.classifiers.functions.SMOreg"
	optimizerOpts  = "weka.classifiers.functions.supportVector.RegSMOImproved -L 0.001 -W 1 -P 1.0E-12 -T 0.001 -V"
	kernelOpts     = "weka.classifiers.functions.supportVector.PolyKernel -C 250007 -E 1.0"
)

// DefaultJarCandidates are searched in order when no jar path is configured.
var DefaultJarCandidates = []string{
	"/Applications/weka-3-6-11-oracle-jvm.app/Contents/Java/weka.jar",
	"/Applications/weka-3-6-12-oracle-jvm.app/Contents/Java/weka.jar",
	"/usr/share/java/weka.jar",
}

// Runner executes an external command, writing its standard output to stdout.
type Runner interface {
	Run(ctx context.Context, stdout io.Writer, name string, args ...string) error
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	// Stderr receives the command's standard error. Nil discards it.
	Stderr io.Writer
}

// Run starts the command and waits for it. Cancelling ctx kills the process.
func (r ExecRunner) Run(ctx context.Context, stdout io.Writer, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = r.Stderr
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "run %s %s", name, strings.Join(args, " "))
	}
	return nil
}

// Options configures a Trainer.
type Options struct {
	// Java is the java executable. Defaults to "java".
	Java string
	// Jar is the weka.jar path. When empty the first existing candidate is used.
	Jar string
	// JarCandidates overrides DefaultJarCandidates.
	JarCandidates []string
	// Timeout bounds a whole Train call. Zero means no limit.
	Timeout time.Duration
}

// Result is the outcome of one training run.
type Result struct {
	// Output is the raw console output of SMOreg.
	Output []byte
	// Weights are the linear weights scraped from Output.
	Weights Weights
	// R2 is the cross-validated correlation coefficient. Zero when absent.
	R2 float64
}

// Trainer converts a solves CSV to ARFF and trains SMOreg on it.
type Trainer struct {
	opts   Options
	runner Runner
	logger log.Logger
}

// NewTrainer creates a Trainer. A nil runner uses ExecRunner writing
// diagnostics to stderr; a nil logger uses the global logger.
func NewTrainer(opts Options, runner Runner, logger log.Logger) *Trainer {
	if opts.Java == "" {
		opts.Java = "java"
	}
	if len(opts.JarCandidates) == 0 {
		opts.JarCandidates = DefaultJarCandidates
	}
	if runner == nil {
		runner = ExecRunner{Stderr: os.Stderr}
	}
	if logger == nil {
		logger = log.GetLogger()
	}
	return &Trainer{opts: opts, runner: runner, logger: logger.With(log.ComponentKey, "weka")}
}

// ResolveJar returns the configured jar or the first candidate that exists.
func (t *Trainer) ResolveJar() (string, error) {
	if t.opts.Jar != "" {
		if _, err := os.Stat(t.opts.Jar); err != nil {
			return "", errors.Wrapf(err, "weka jar %s", t.opts.Jar)
		}
		return t.opts.Jar, nil
	}
	for _, candidate := range t.opts.JarCandidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", errors.Wrapf(errors.ErrNotFound, "weka jar (searched %s)", strings.Join(t.opts.JarCandidates, ", "))
}

// TrainArgs returns the SMOreg arguments for the ARFF file at arff.
func TrainArgs(jar, arff string) []string {
	return []string{
		"-cp", jar, smoregClass,
		"-C", "1.0",
		"-N", "2",
		"-I", optimizerOpts,
		"-K", kernelOpts,
		"-c", "first",
		"-i",
		"-t", arff,
	}
}

// Train runs the conversion and training for the CSV at csvPath. The
// intermediate ARFF file is removed before Train returns.
func (t *Trainer) Train(ctx context.Context, csvPath string) (*Result, error) {
	if _, err := os.Stat(csvPath); err != nil {
		return nil, errors.Wrapf(err, "solves file %s", csvPath)
	}
	jar, err := t.ResolveJar()
	if err != nil {
		return nil, err
	}
	if t.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.opts.Timeout)
		defer cancel()
	}

	arff, err := os.CreateTemp("", "solves-*.arff")
	if err != nil {
		return nil, errors.Wrap(err, "create temporary arff")
	}
	defer os.Remove(arff.Name())

	start := time.Now()
	convertErr := t.runner.Run(ctx, arff, t.opts.Java, "-cp", jar, csvLoaderClass, csvPath)
	if closeErr := arff.Close(); convertErr == nil && closeErr != nil {
		convertErr = closeErr
	}
	if convertErr != nil {
		return nil, errors.Wrap(convertErr, "convert csv to arff")
	}
	t.logger.Debug("csv converted",
		log.CommandKey, csvLoaderClass,
		log.PathKey, arff.Name(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)

	start = time.Now()
	var out bytes.Buffer
	if err := t.runner.Run(ctx, &out, t.opts.Java, TrainArgs(jar, arff.Name())...); err != nil {
		return nil, errors.Wrap(err, "train smoreg")
	}

	res := &Result{Output: out.Bytes()}
	res.Weights, err = ParseWeights(bytes.NewReader(res.Output), t.logger)
	if err != nil {
		return nil, err
	}
	res.R2, err = ParseR2(bytes.NewReader(res.Output))
	if err != nil {
		t.logger.Warn("no r2 in training output", log.ErrorKey, err)
	}

	t.logger.Info("smoreg trained",
		log.OperationKey, log.OperationTrain,
		log.CommandKey, smoregClass,
		log.R2Key, res.R2,
		log.FeaturesKey, len(res.Weights),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return res, nil
}

// WriteOutput saves raw tool output to path.
func (r *Result) WriteOutput(path string) error {
	if err := os.WriteFile(path, r.Output, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}
