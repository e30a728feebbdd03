package config

import (
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"

	"github.com/32Lwk/monte-carlo-pi-multi-language/estimator"
	"github.com/32Lwk/monte-carlo-pi-multi-language/report"
	"github.com/32Lwk/monte-carlo-pi-multi-language/xoshiro"
)

type Config struct {
	Iterations uint64 `toml:"iterations"`
	Seed       uint64 `toml:"seed"`
	// Workers of 0 resolves to the number of CPUs.
	Workers int    `toml:"workers"`
	Mode    string `toml:"mode"`
	Format  string `toml:"format"`

	Warmup int `toml:"warmup"`
	Runs   int `toml:"runs"`

	MetricsAddr string `toml:"metrics_addr"`
	Profile     bool   `toml:"profile"`
}

func Default() *Config {
	return &Config{
		Iterations: estimator.DefaultIterations,
		Seed:       xoshiro.DefaultSeed,
		Mode:       estimator.ModeSingle.String(),
		Runs:       1,
	}
}

// Load overlays the TOML file at path on top of the defaults. Keys the
// file sets but Config does not know are an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "loading config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.Newf("config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Workers < 0 {
		return errors.Newf("workers must not be negative, got %d", c.Workers)
	}
	if _, err := estimator.ParseMode(c.Mode); err != nil {
		return err
	}
	if _, err := report.ParseFormat(c.Format); err != nil {
		return err
	}
	if c.Runs < 1 {
		return errors.Newf("runs must be at least 1, got %d", c.Runs)
	}
	if c.Warmup < 0 {
		return errors.Newf("warmup must not be negative, got %d", c.Warmup)
	}
	return nil
}

// ResolvedWorkers returns the worker count with 0 replaced by the CPU count.
func (c *Config) ResolvedWorkers() int {
	if c.Workers == 0 {
		return runtime.NumCPU()
	}
	return c.Workers
}

func (c *Config) EstimatorConfig(logger func(...any)) (*estimator.Config, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	mode, _ := estimator.ParseMode(c.Mode)
	workers := 1
	if mode == estimator.ModeParallel {
		workers = c.ResolvedWorkers()
	}
	return &estimator.Config{
		Mode:       mode,
		Iterations: c.Iterations,
		Workers:    workers,
		Seed:       c.Seed,
		Logger:     logger,
	}, nil
}
