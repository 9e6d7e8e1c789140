package main

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/olsfit/pkg/errors"
	"github.com/YuminosukeSato/olsfit/render"
	"github.com/YuminosukeSato/olsfit/simulation"
)

func newSimulateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Draw one sample and print the fitted coefficients",
		Long: `Draw one sample from the population, fit OLS and print the coefficient
table with n, R² and ŝ.

Slider values outside their configured range are clamped and snapped to the
slider step, as the interactive page does.

Examples:
  olsfit simulate                                  # slider defaults, seed 0
  olsfit simulate --slope 1 --sigma 1 --n 100
  olsfit simulate --resample                       # fresh seed in [0, 10000)
  olsfit simulate --slope 2 --plot fit.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSimulate(cmd)
		},
	}

	cmd.Flags().Float64("intercept", 0, "Population intercept β₀ (default from config)")
	cmd.Flags().Float64("slope", 0, "Population slope β₁ (default from config)")
	cmd.Flags().Float64("sigma", 0, "Error standard deviation σ (default from config)")
	cmd.Flags().Int("n", 0, "Sample size (default from config)")
	cmd.Flags().Uint64("seed", 0, "Random seed (default from config)")
	cmd.Flags().Bool("resample", false, "Draw a fresh seed instead of using --seed")
	cmd.Flags().String("plot", "", "Write the scatter, fitted line and band to this .png or .svg file")
	return cmd
}

// paramsFromFlags starts from the configured defaults and applies only the flags the user set.
func (a *app) paramsFromFlags(cmd *cobra.Command) simulation.Params {
	p := a.cfg.DefaultParams()
	flags := cmd.Flags()
	if flags.Changed("intercept") {
		p.Intercept, _ = flags.GetFloat64("intercept")
	}
	if flags.Changed("slope") {
		p.Slope, _ = flags.GetFloat64("slope")
	}
	if flags.Changed("sigma") {
		p.ErrorStdDev, _ = flags.GetFloat64("sigma")
	}
	if flags.Changed("n") {
		p.SampleSize, _ = flags.GetInt("n")
	}
	if flags.Changed("seed") {
		p.Seed, _ = flags.GetUint64("seed")
	}
	return a.cfg.Snap(p)
}

func (a *app) runSimulate(cmd *cobra.Command) error {
	params := a.paramsFromFlags(cmd)

	session := simulation.NewSession(params, a.cfg.Simulation.SeedBound)
	var (
		res *simulation.Result
		err error
	)
	if resample, _ := cmd.Flags().GetBool("resample"); resample {
		rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))
		res, err = session.Resample(rng)
	} else {
		res, err = session.Current()
	}
	if err != nil {
		return err
	}

	if path, _ := cmd.Flags().GetString("plot"); path != "" {
		if err := writePlotFile(path, res, a.cfg.Plot.SizeInches); err != nil {
			return err
		}
	}

	view := render.NewView(res)
	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		return writeJSON(cmd.OutOrStdout(), struct {
			Params simulation.Params   `json:"params"`
			Fit    simulation.FitStats `json:"fit"`
			View   *render.View        `json:"view"`
		}{res.Params, res.Fit, view})
	}
	return render.WriteTable(cmd.OutOrStdout(), view)
}

func writePlotFile(path string, res *simulation.Result, size float64) (err error) {
	format, err := render.ParseFormat(filepath.Ext(path))
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return render.WritePlot(f, res, format, size)
}
