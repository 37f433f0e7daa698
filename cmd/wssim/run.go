package main

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/spf13/cobra"

	"github.com/sarchlab/systolic/api"
	"github.com/sarchlab/systolic/arch"
	"github.com/sarchlab/systolic/config"
	"github.com/sarchlab/systolic/hw"
	"github.com/sarchlab/systolic/stats"
)

var errValidation = errors.New("output does not match the reference")

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a random convolution layer",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		f, err := loadFile(cmd)
		if err != nil {
			return err
		}

		quiet, _ := cmd.Flags().GetBool("quiet")

		return runLayer(cmd.OutOrStdout(), f, !quiet)
	},
}

func init() {
	runCmd.Flags().StringP("config", "c", "",
		"YAML file with the arch and layer sections")
	runCmd.Flags().Int64("seed", 0, "seed of the random tensors, overrides the file")
	runCmd.Flags().Uint64("max-cycles", 0, "cycle bound of the run, overrides the file")
	runCmd.Flags().BoolP("quiet", "q", false, "do not print the counter tables")
	rootCmd.AddCommand(runCmd)
}

func loadFile(cmd *cobra.Command) (arch.File, error) {
	f := arch.DefaultFile()

	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		var err error

		f, err = arch.LoadConfigFile(path)
		if err != nil {
			return f, err
		}
	}

	if cmd.Flags().Changed("seed") {
		f.Seed, _ = cmd.Flags().GetInt64("seed")
	}

	if cmd.Flags().Changed("max-cycles") {
		f.MaxCycles, _ = cmd.Flags().GetUint64("max-cycles")
	}

	return f, nil
}

func runLayer(out io.Writer, f arch.File, verbose bool) error {
	w := hw.NewWiring()

	device := config.MakeDeviceBuilder().
		WithWiring(w).
		WithArch(f.Arch).
		Build("Device")

	driver := api.MakeDriverBuilder().
		WithEngine(sim.NewSerialEngine()).
		WithWiring(w).
		WithArch(f.Arch).
		WithMaxCycles(f.MaxCycles).
		Build("Driver")
	driver.RegisterDevice(device)

	res, err := driver.Run(api.RandomJob(f.Layer, f.Seed))
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "run %s: %s after %d cycles in %d passes\n",
		res.RunID, res.Outcome.Message, res.Cycles, res.Passes)

	if verbose {
		fmt.Fprintln(out, stats.CounterTable(res.Entries))
		fmt.Fprintln(out, stats.EnergyTable(res.Energy))
	}

	if res.Outcome.Status != hw.Success {
		fmt.Fprintln(out, res.Outcome.Diff)
		return errValidation
	}

	return nil
}
