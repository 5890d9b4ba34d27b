// Package config assembles solvereg settings from defaults, a YAML file, a
// .env file and SOLVEREG_ environment variables, in increasing precedence.
// Command-line flags are applied on top by the CLI.
package config

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/solvereg/linear"
	"github.com/YuminosukeSato/solvereg/pkg/errors"
	"github.com/YuminosukeSato/solvereg/pkg/log"
	"github.com/YuminosukeSato/solvereg/weka"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "SOLVEREG_"

// Default file names looked up when none is given.
const (
	DefaultConfigFile = "solvereg.yaml"
	DefaultEnvFile    = ".env"
)

// Config is the full set of settings shared by every command.
type Config struct {
	Data   DataConfig   `yaml:"data" env:", prefix=DATA_"`
	Model  ModelConfig  `yaml:"model" env:", prefix=MODEL_"`
	Weka   WekaConfig   `yaml:"weka" env:", prefix=WEKA_"`
	Log    LogConfig    `yaml:"log" env:", prefix=LOG_"`
	Output OutputConfig `yaml:"output" env:", prefix=OUTPUT_"`
}

// DataConfig locates the input files.
type DataConfig struct {
	// Input is the solves CSV.
	Input string `yaml:"input" env:"INPUT"`
	// WekaOutput is where SMOreg console output is saved and parsed from.
	WekaOutput string `yaml:"weka_output" env:"WEKA_OUTPUT"`
}

// ModelConfig holds estimator and cross-validation settings.
type ModelConfig struct {
	Alpha        float64   `yaml:"alpha" env:"ALPHA"`
	Alphas       []float64 `yaml:"alphas" env:"ALPHAS"`
	Folds        int       `yaml:"folds" env:"FOLDS"`
	Shuffle      bool      `yaml:"shuffle" env:"SHUFFLE"`
	Seed         uint64    `yaml:"seed" env:"SEED"`
	FitIntercept bool      `yaml:"fit_intercept" env:"FIT_INTERCEPT"`
	Normalize    bool      `yaml:"normalize" env:"NORMALIZE"`
	// Scorer is "r2" or "neg_mean_squared_error".
	Scorer string `yaml:"scorer" env:"SCORER"`
}

// WekaConfig controls how the external SMOreg tool is launched. A zero
// Timeout means no limit.
type WekaConfig struct {
	Java          string        `yaml:"java" env:"JAVA"`
	Jar           string        `yaml:"jar" env:"JAR"`
	JarCandidates []string      `yaml:"jar_candidates" env:"JAR_CANDIDATES"`
	Timeout       time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// LogConfig is passed to log.Setup.
type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
}

// OutputConfig names the files commands write.
type OutputConfig struct {
	// GoFile is the generated weights file.
	GoFile string `yaml:"go_file" env:"GO_FILE"`
	// Package is the package clause of GoFile.
	Package string `yaml:"package" env:"PACKAGE"`
	// JSON, when set, receives fitted weights as JSON.
	JSON string `yaml:"json" env:"JSON"`
	// Plot is the actual-vs-predicted image path.
	Plot string `yaml:"plot" env:"PLOT"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			Input:      "solves.csv",
			WekaOutput: "analysis.txt",
		},
		Model: ModelConfig{
			Alpha:        1,
			Alphas:       linear.DefaultAlphas(),
			Folds:        5,
			FitIntercept: true,
			Scorer:       "r2",
		},
		Weka: WekaConfig{
			Java:          "java",
			JarCandidates: append([]string(nil), weka.DefaultJarCandidates...),
		},
		Log: LogConfig{
			Level:  "info",
			Format: log.FormatConsole,
		},
		Output: OutputConfig{
			GoFile:  "hs_difficulty_weights.go",
			Package: "sudoku",
			Plot:    "predictions.png",
		},
	}
}

// Sources names where Load reads from. Empty file names fall back to the
// defaults, which may be absent. Explicit file names must exist.
type Sources struct {
	ConfigFile string
	EnvFile    string
	// Lookuper overrides the process environment, for tests.
	Lookuper envconfig.Lookuper
}

// Load builds a validated Config from sources.
func Load(ctx context.Context, src Sources) (*Config, error) {
	cfg, err := Read(ctx, src)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read merges sources over the defaults without validating, so callers can
// apply further overrides first.
func Read(ctx context.Context, src Sources) (*Config, error) {
	cfg := Default()

	path, required := src.ConfigFile, true
	if path == "" {
		path, required = DefaultConfigFile, false
	}
	if err := cfg.mergeYAML(path, required); err != nil {
		return nil, err
	}

	lookuper := src.Lookuper
	if lookuper == nil {
		lookuper = envconfig.OsLookuper()
	}
	dotenv, err := readEnvFile(src.EnvFile)
	if err != nil {
		return nil, err
	}
	if len(dotenv) > 0 {
		lookuper = envconfig.MultiLookuper(lookuper, envconfig.MapLookuper(dotenv))
	}

	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:           cfg,
		Lookuper:         envconfig.PrefixLookuper(EnvPrefix, lookuper),
		DefaultOverwrite: true,
	}); err != nil {
		return nil, errors.Wrap(err, "read environment")
	}
	return cfg, nil
}

func (c *Config) mergeYAML(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if !required && os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return errors.Wrapf(err, "parse config %s", path)
	}
	return nil
}

func readEnvFile(path string) (map[string]string, error) {
	required := path != ""
	if !required {
		path = DefaultEnvFile
	}
	values, err := godotenv.Read(path)
	if err != nil {
		if !required && os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "read env file %s", path)
	}
	return values, nil
}

// Validate checks values that would otherwise fail deep inside a command.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Data.Input) == "" {
		return errors.NewValidationError("data.input", "is required", c.Data.Input)
	}
	if c.Model.Alpha < 0 {
		return errors.NewValidationError("model.alpha", "must be non-negative", c.Model.Alpha)
	}
	if len(c.Model.Alphas) == 0 {
		return errors.NewValidationError("model.alphas", "must not be empty", c.Model.Alphas)
	}
	for _, a := range c.Model.Alphas {
		if a < 0 {
			return errors.NewValidationError("model.alphas", "must be non-negative", a)
		}
	}
	if c.Model.Folds < 2 {
		return errors.NewValidationError("model.folds", "must be at least 2", c.Model.Folds)
	}
	switch c.Model.Scorer {
	case "r2", "neg_mean_squared_error":
	default:
		return errors.NewValidationError("model.scorer", "must be r2 or neg_mean_squared_error", c.Model.Scorer)
	}
	if c.Weka.Timeout < 0 {
		return errors.NewValidationError("weka.timeout", "must be non-negative", c.Weka.Timeout)
	}
	if _, err := log.ToLogLevel(c.Log.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case log.FormatConsole, log.FormatJSON:
	default:
		return errors.NewValidationError("log.format", "must be console or json", c.Log.Format)
	}
	return nil
}

// WekaOptions converts the weka section for weka.NewTrainer.
func (c *Config) WekaOptions() weka.Options {
	return weka.Options{
		Java:          c.Weka.Java,
		Jar:           c.Weka.Jar,
		JarCandidates: c.Weka.JarCandidates,
		Timeout:       c.Weka.Timeout,
	}
}

// LinearOptions converts the model section for the linear estimators.
func (c *Config) LinearOptions() []linear.Option {
	return []linear.Option{
		linear.WithFitIntercept(c.Model.FitIntercept),
		linear.WithNormalize(c.Model.Normalize),
		linear.WithAlphas(c.Model.Alphas...),
		linear.WithFolds(c.Model.Folds),
		linear.WithShuffle(c.Model.Shuffle, c.Model.Seed),
	}
}
