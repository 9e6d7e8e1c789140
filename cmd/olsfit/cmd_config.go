package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/olsfit/internal/config"
	"github.com/YuminosukeSato/olsfit/pkg/errors"
)

// configView is the YAML shape of the effective configuration.
type configView struct {
	LogLevel   string               `yaml:"log_level" json:"log_level"`
	Sliders    config.SlidersConfig `yaml:"sliders" json:"sliders"`
	Simulation struct {
		DefaultSeed uint64 `yaml:"default_seed" json:"default_seed"`
		SeedBound   int    `yaml:"seed_bound" json:"seed_bound"`
	} `yaml:"simulation" json:"simulation"`
	Server struct {
		Addr string `yaml:"addr" json:"addr"`
		Mode string `yaml:"mode" json:"mode"`
	} `yaml:"server" json:"server"`
	Plot struct {
		SizeInches float64 `yaml:"size_inches" json:"size_inches"`
		Format     string  `yaml:"format" json:"format"`
	} `yaml:"plot" json:"plot"`
	Study struct {
		Trials  int     `yaml:"trials" json:"trials"`
		Workers int     `yaml:"workers" json:"workers"`
		X0      float64 `yaml:"x0" json:"x0"`
	} `yaml:"study" json:"study"`
}

func newConfigView(cfg *config.Config) configView {
	var v configView
	v.LogLevel = cfg.LogLevel
	v.Sliders = cfg.Sliders
	v.Simulation.DefaultSeed = cfg.Simulation.DefaultSeed
	v.Simulation.SeedBound = cfg.Simulation.SeedBound
	v.Server.Addr = cfg.Server.Addr
	v.Server.Mode = cfg.Server.Mode
	v.Plot.SizeInches = cfg.Plot.SizeInches
	v.Plot.Format = cfg.Plot.Format
	v.Study.Trials = cfg.Study.Trials
	v.Study.Workers = cfg.Study.Workers
	v.Study.X0 = cfg.Study.X0
	return v
}

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect olsfit configuration",
		Long: `Print the effective configuration after olsfit.yaml, OLSFIT_* environment
variables and .env have been applied. The output is valid olsfit.yaml.`,
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			view := newConfigView(a.cfg)
			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				return writeJSON(cmd.OutOrStdout(), view)
			}
			data, err := yaml.Marshal(view)
			if err != nil {
				return errors.Wrap(err, "failed to encode config")
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	})
	return cmd
}
