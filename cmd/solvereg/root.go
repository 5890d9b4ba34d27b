package main

import (
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/solvereg/internal/config"
	"github.com/YuminosukeSato/solvereg/pkg/log"
	"github.com/YuminosukeSato/solvereg/weka"
)

// flagValues receives command-line flags. They only override the loaded
// config when set explicitly.
type flagValues struct {
	configFile string
	envFile    string
	input      string
	logLevel   string
	logFormat  string
	jsonOut    string

	model   string
	alpha   float64
	alphas  []float64
	folds   int
	shuffle bool
	seed    uint64
	scorer  string
	noFit   bool
	norm    bool

	wekaOutput string
	jar        string
	goFile     string
	pkg        string
	plotOut    string
}

type app struct {
	flags  flagValues
	cfg    *config.Config
	runner weka.Runner
}

func newApp() *app {
	return &app{}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "solvereg",
		Short:         "Regression experiments over puzzle solve statistics",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configFile, "config", "", "YAML config file (default "+config.DefaultConfigFile+" if present)")
	pf.StringVar(&a.flags.envFile, "env-file", "", "dotenv file (default "+config.DefaultEnvFile+" if present)")
	pf.StringVarP(&a.flags.input, "input", "i", "", "solves CSV file")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "debug, info, warn or error")
	pf.StringVar(&a.flags.logFormat, "log-format", "", "console or json")

	root.AddCommand(
		newOLSCmd(a),
		newRidgeCmd(a),
		newRidgeCVCmd(a),
		newCVCmd(a),
		newPlotCmd(a),
		newWekaCmd(a),
	)
	return root
}

// setup loads configuration, applies explicit flags and configures logging.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Read(cmd.Context(), config.Sources{
		ConfigFile: a.flags.configFile,
		EnvFile:    a.flags.envFile,
	})
	if err != nil {
		return err
	}
	a.applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := log.Setup(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr()); err != nil {
		return err
	}
	a.cfg = cfg

	log.GetLogger().Debug("configuration loaded",
		log.CommandKey, cmd.CommandPath(),
		log.PathKey, cfg.Data.Input,
	)
	return nil
}

func (a *app) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	f := a.flags

	if changed("input") {
		cfg.Data.Input = f.input
	}
	if changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if changed("log-format") {
		cfg.Log.Format = f.logFormat
	}
	if changed("alpha") {
		cfg.Model.Alpha = f.alpha
	}
	if changed("alphas") {
		cfg.Model.Alphas = f.alphas
	}
	if changed("folds") {
		cfg.Model.Folds = f.folds
	}
	if changed("shuffle") {
		cfg.Model.Shuffle = f.shuffle
	}
	if changed("seed") {
		cfg.Model.Seed = f.seed
	}
	if changed("scorer") {
		cfg.Model.Scorer = f.scorer
	}
	if changed("no-intercept") {
		cfg.Model.FitIntercept = !f.noFit
	}
	if changed("normalize") {
		cfg.Model.Normalize = f.norm
	}
	if changed("json") {
		cfg.Output.JSON = f.jsonOut
	}
	if changed("weka-output") {
		cfg.Data.WekaOutput = f.wekaOutput
	}
	if changed("jar") {
		cfg.Weka.Jar = f.jar
	}
	if changed("out") {
		cfg.Output.GoFile = f.goFile
	}
	if changed("package") {
		cfg.Output.Package = f.pkg
	}
	if changed("plot-out") {
		cfg.Output.Plot = f.plotOut
	}
}
