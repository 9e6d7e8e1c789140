package main

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/olsfit/internal/config"
	"github.com/YuminosukeSato/olsfit/pkg/errors"
	"github.com/YuminosukeSato/olsfit/pkg/log"
)

var version = "0.1.0-dev"

// app carries state resolved once by the root command before any subcommand runs.
type app struct {
	cfg *config.Config
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "olsfit",
		Short: "Explore OLS fit statistics on simulated data",
		Long: `olsfit draws samples from a known linear population
y = β₀ + β₁x + ε, ε ~ N(0, σ²), fits ordinary least squares and reports
coefficients, standard errors, 95% confidence bands, R² and ŝ.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "Path to olsfit.yaml (default: ./configs or working directory)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level override: debug, info, warn or error")
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")

	rootCmd.AddCommand(
		newVersionCmd(),
		newSimulateCmd(a),
		newStudyCmd(a),
		newServeCmd(a),
		newConfigCmd(a),
	)
	return rootCmd
}

func (a *app) init(cmd *cobra.Command) error {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errors.Wrap(err, "failed to load .env")
	}

	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return errors.NewValidationError("log-level", "must be debug, info, warn or error", cfg.LogLevel)
	}
	log.SetProvider(log.NewZerologProvider(cmd.ErrOrStderr(), level))

	a.cfg = cfg
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// version needs no configuration
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				_ = writeJSON(cmd.OutOrStdout(), map[string]string{"version": version})
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "olsfit version %s\n", version)
			}
		},
	}
}
