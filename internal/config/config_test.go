package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/solvereg/pkg/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func noEnv() envconfig.Lookuper {
	return envconfig.MapLookuper(map[string]string{})
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(context.Background(), Sources{Lookuper: noEnv()})
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "solves.csv", cfg.Data.Input)
	assert.Equal(t, 5, cfg.Model.Folds)
	assert.True(t, cfg.Model.FitIntercept)
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	yamlPath := writeFile(t, dir, "solvereg.yaml", `
data:
  input: from-yaml.csv
model:
  alpha: 0.5
  folds: 4
  alphas: [0.1, 1]
weka:
  timeout: 30s
log:
  level: debug
`)
	envPath := writeFile(t, dir, "test.env", "SOLVEREG_MODEL_FOLDS=3\nSOLVEREG_LOG_LEVEL=warn\n")

	env := envconfig.MapLookuper(map[string]string{
		"SOLVEREG_LOG_LEVEL":           "error",
		"SOLVEREG_MODEL_FIT_INTERCEPT": "false",
		"SOLVEREG_MODEL_ALPHAS":        "2,3,4",
	})

	cfg, err := Load(context.Background(), Sources{ConfigFile: yamlPath, EnvFile: envPath, Lookuper: env})
	require.NoError(t, err)

	// yaml over defaults
	assert.Equal(t, "from-yaml.csv", cfg.Data.Input)
	assert.Equal(t, 0.5, cfg.Model.Alpha)
	assert.Equal(t, 30*time.Second, cfg.Weka.Timeout)
	// .env over yaml
	assert.Equal(t, 3, cfg.Model.Folds)
	// environment over .env
	assert.Equal(t, "error", cfg.Log.Level)
	assert.False(t, cfg.Model.FitIntercept)
	assert.Equal(t, []float64{2, 3, 4}, cfg.Model.Alphas)
	// untouched defaults survive
	assert.Equal(t, "analysis.txt", cfg.Data.WekaOutput)
}

func TestLoadMissingExplicitFiles(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(context.Background(), Sources{ConfigFile: filepath.Join(dir, "nope.yaml"), Lookuper: noEnv()})
	assert.Error(t, err)

	_, err = Load(context.Background(), Sources{EnvFile: filepath.Join(dir, "nope.env"), Lookuper: noEnv()})
	assert.Error(t, err)
}

func TestLoadBadYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.yaml", "model: [unterminated\n")
	_, err := Load(context.Background(), Sources{ConfigFile: path, Lookuper: noEnv()})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		param  string
	}{
		{"empty input", func(c *Config) { c.Data.Input = " " }, "data.input"},
		{"negative alpha", func(c *Config) { c.Model.Alpha = -1 }, "model.alpha"},
		{"no alphas", func(c *Config) { c.Model.Alphas = nil }, "model.alphas"},
		{"negative candidate", func(c *Config) { c.Model.Alphas = []float64{1, -2} }, "model.alphas"},
		{"one fold", func(c *Config) { c.Model.Folds = 1 }, "model.folds"},
		{"unknown scorer", func(c *Config) { c.Model.Scorer = "accuracy" }, "model.scorer"},
		{"negative timeout", func(c *Config) { c.Weka.Timeout = -time.Second }, "weka.timeout"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			var ve *errors.ValidationError
			require.True(t, errors.As(cfg.Validate(), &ve))
			assert.Equal(t, tt.param, ve.ParamName)
		})
	}

	assert.NoError(t, Default().Validate())
}

func TestConversions(t *testing.T) {
	cfg := Default()
	cfg.Weka.Jar = "/opt/weka.jar"
	cfg.Weka.Timeout = time.Minute

	opts := cfg.WekaOptions()
	assert.Equal(t, "/opt/weka.jar", opts.Jar)
	assert.Equal(t, time.Minute, opts.Timeout)
	assert.Equal(t, "java", opts.Java)

	assert.Len(t, cfg.LinearOptions(), 5)
}
