package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/solvereg/codegen"
	"github.com/YuminosukeSato/solvereg/pkg/errors"
	"github.com/YuminosukeSato/solvereg/pkg/log"
	"github.com/YuminosukeSato/solvereg/report"
	"github.com/YuminosukeSato/solvereg/weka"
)

func newWekaCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weka",
		Short: "Train SMOreg and turn its output into weights",
	}
	cmd.PersistentFlags().StringVar(&a.flags.wekaOutput, "weka-output", "", "file holding SMOreg console output")
	cmd.AddCommand(newWekaTrainCmd(a), newWekaParseCmd(a), newWekaGenCmd(a))
	return cmd
}

// outputPath is the first argument when given, else the configured weka output.
func (a *app) outputPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return a.cfg.Data.WekaOutput
}

func newWekaTrainCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Run SMOreg on the solves file and save its output",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			trainer := weka.NewTrainer(a.cfg.WekaOptions(), a.runner, log.GetLogger())
			res, err := trainer.Train(cmd.Context(), a.cfg.Data.Input)
			if err != nil {
				return err
			}
			if err := res.WriteOutput(a.cfg.Data.WekaOutput); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "R2 = %g\n", res.R2)
			return nil
		},
	}
	cmd.Flags().StringVar(&a.flags.jar, "jar", "", "path to weka.jar")
	return cmd
}

func newWekaParseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "parse [output-file]",
		Short: "Print the weights found in saved SMOreg output",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			weights, err := weka.ParseWeightsFile(a.outputPath(args), log.GetLogger())
			if err != nil {
				return err
			}
			return report.PrintWeights(cmd.OutOrStdout(), weights)
		},
	}
}

func newWekaGenCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen [output-file]",
		Short: "Generate a Go file registering the weights in saved SMOreg output",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.outputPath(args)
			weights, err := weka.ParseWeightsFile(path, log.GetLogger())
			if err != nil {
				return err
			}

			opts := codegen.DefaultOptions()
			opts.Package = a.cfg.Output.Package
			opts.Generator = "solvereg weka gen"

			f, err := os.Open(path)
			if err != nil {
				return errors.Wrapf(err, "open %s", path)
			}
			defer f.Close()
			if r2, err := weka.ParseR2(f); err != nil {
				log.GetLogger().Warn("generating weights without r2", log.ErrorKey, err)
			} else {
				opts.R2, opts.HasR2 = r2, true
			}

			if err := codegen.WriteWeights(a.cfg.Output.GoFile, weights, opts); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d weights to %s\n", len(weights), a.cfg.Output.GoFile)
			return nil
		},
	}
	cmd.Flags().StringVarP(&a.flags.goFile, "out", "o", "", "generated Go file")
	cmd.Flags().StringVar(&a.flags.pkg, "package", "", "package clause of the generated file")
	return cmd
}
