// Package config loads olsfit settings from olsfit.yaml and OLSFIT_* environment variables.
package config

import (
	"math"
	"strings"

	"github.com/spf13/viper"

	"github.com/YuminosukeSato/olsfit/pkg/errors"
	"github.com/YuminosukeSato/olsfit/pkg/log"
	"github.com/YuminosukeSato/olsfit/simulation"
)

const envPrefix = "OLSFIT"

type Config struct {
	LogLevel   string           `mapstructure:"log_level"`
	Sliders    SlidersConfig    `mapstructure:"sliders"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Server     ServerConfig     `mapstructure:"server"`
	Plot       PlotConfig       `mapstructure:"plot"`
	Study      StudyConfig      `mapstructure:"study"`
}

// Slider describes one numeric input: its range, step and initial value.
type Slider struct {
	Min     float64 `mapstructure:"min" json:"min" yaml:"min"`
	Max     float64 `mapstructure:"max" json:"max" yaml:"max"`
	Step    float64 `mapstructure:"step" json:"step" yaml:"step"`
	Default float64 `mapstructure:"default" json:"default" yaml:"default"`
}

type SlidersConfig struct {
	Intercept   Slider `mapstructure:"intercept" json:"intercept" yaml:"intercept"`
	Slope       Slider `mapstructure:"slope" json:"slope" yaml:"slope"`
	ErrorStdDev Slider `mapstructure:"error_stddev" json:"error_stddev" yaml:"error_stddev"`
	SampleSize  Slider `mapstructure:"sample_size" json:"sample_size" yaml:"sample_size"`
}

type SimulationConfig struct {
	DefaultSeed uint64 `mapstructure:"default_seed"`
	SeedBound   int    `mapstructure:"seed_bound"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	Mode string `mapstructure:"mode"`
}

type PlotConfig struct {
	SizeInches float64 `mapstructure:"size_inches"`
	Format     string  `mapstructure:"format"`
}

type StudyConfig struct {
	Trials  int     `mapstructure:"trials"`
	Workers int     `mapstructure:"workers"`
	X0      float64 `mapstructure:"x0"`
}

// Load reads olsfit.yaml from ./configs or the working directory, or the
// explicit file when path is not empty. A missing default file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("olsfit")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable, we'll use defaults and env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, errors.Wrapf(err, "failed to read config file")
		}
	} else {
		log.GetLoggerWithName("config").Debug("config file loaded", "file", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in configuration without reading files or the environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(err)
	}
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "warn")

	// Slider defaults
	setSliderDefault(v, "sliders.intercept", Slider{Min: -10, Max: 10, Step: 0.1, Default: 0})
	setSliderDefault(v, "sliders.slope", Slider{Min: -5, Max: 5, Step: 0.1, Default: 0})
	setSliderDefault(v, "sliders.error_stddev", Slider{Min: 0.1, Max: 20, Step: 0.1, Default: 10})
	setSliderDefault(v, "sliders.sample_size", Slider{Min: 10, Max: 1000, Step: 10, Default: 500})

	v.SetDefault("simulation.default_seed", simulation.DefaultSeed)
	v.SetDefault("simulation.seed_bound", simulation.DefaultSeedBound)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")

	v.SetDefault("plot.size_inches", 4.0)
	v.SetDefault("plot.format", "png")

	v.SetDefault("study.trials", 1000)
	v.SetDefault("study.workers", 0)
	v.SetDefault("study.x0", 0.0)
}

// Leaf keys are registered one by one so AutomaticEnv can override them.
func setSliderDefault(v *viper.Viper, key string, s Slider) {
	v.SetDefault(key+".min", s.Min)
	v.SetDefault(key+".max", s.Max)
	v.SetDefault(key+".step", s.Step)
	v.SetDefault(key+".default", s.Default)
}

// Validate checks slider ranges and the remaining numeric settings.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return errors.NewValidationError("log_level", "must be debug, info, warn or error", c.LogLevel)
	}
	for name, s := range map[string]Slider{
		"sliders.intercept":    c.Sliders.Intercept,
		"sliders.slope":        c.Sliders.Slope,
		"sliders.error_stddev": c.Sliders.ErrorStdDev,
		"sliders.sample_size":  c.Sliders.SampleSize,
	} {
		if err := s.validate(name); err != nil {
			return err
		}
	}
	if c.Sliders.ErrorStdDev.Min <= 0 {
		return errors.NewValidationError("sliders.error_stddev.min", "must be positive", c.Sliders.ErrorStdDev.Min)
	}
	if c.Sliders.SampleSize.Min < simulation.MinSampleSize {
		return errors.NewValidationError("sliders.sample_size.min", "must leave positive degrees of freedom", c.Sliders.SampleSize.Min)
	}
	if c.Simulation.SeedBound <= 0 {
		return errors.NewValidationError("simulation.seed_bound", "must be positive", c.Simulation.SeedBound)
	}
	if c.Plot.SizeInches <= 0 {
		return errors.NewValidationError("plot.size_inches", "must be positive", c.Plot.SizeInches)
	}
	if c.Study.Trials <= 0 {
		return errors.NewValidationError("study.trials", "must be positive", c.Study.Trials)
	}
	return nil
}

func (s Slider) validate(name string) error {
	switch {
	case !(s.Min < s.Max):
		return errors.NewValidationError(name, "min must be below max", s)
	case !(s.Step > 0):
		return errors.NewValidationError(name+".step", "must be positive", s.Step)
	case s.Default < s.Min || s.Default > s.Max:
		return errors.NewValidationError(name+".default", "must lie within [min, max]", s.Default)
	}
	return nil
}

// Snap clamps v into [Min, Max] and rounds it to the nearest step from Min.
func (s Slider) Snap(v float64) float64 {
	if math.IsNaN(v) {
		return s.Default
	}
	v = math.Max(s.Min, math.Min(s.Max, v))
	steps := math.Round((v - s.Min) / s.Step)
	snapped := s.Min + steps*s.Step
	// 0.1 刻みの誤差を落とす
	snapped = math.Round(snapped*1e9) / 1e9
	return math.Min(snapped, s.Max)
}

// DefaultParams returns the slider defaults with the configured default seed.
func (c *Config) DefaultParams() simulation.Params {
	return simulation.Params{
		Intercept:   c.Sliders.Intercept.Default,
		Slope:       c.Sliders.Slope.Default,
		ErrorStdDev: c.Sliders.ErrorStdDev.Default,
		SampleSize:  int(c.Sliders.SampleSize.Default),
		Seed:        c.Simulation.DefaultSeed,
	}
}

// Snap moves every slider-backed field of p onto its slider grid. The seed is kept.
func (c *Config) Snap(p simulation.Params) simulation.Params {
	p.Intercept = c.Sliders.Intercept.Snap(p.Intercept)
	p.Slope = c.Sliders.Slope.Snap(p.Slope)
	p.ErrorStdDev = c.Sliders.ErrorStdDev.Snap(p.ErrorStdDev)
	p.SampleSize = int(c.Sliders.SampleSize.Snap(float64(p.SampleSize)))
	return p
}
