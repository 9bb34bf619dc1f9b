// Package config loads and validates the simulation's YAML configuration
// file: the nine recognized options from spec.md section 6, no more, no
// fewer.
package config

import (
	"bytes"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"lintim.dev/ptsim/delay"
	"lintim.dev/ptsim/simerrors"
)

// DelayStrategyCode is the on-disk encoding of delay.StrategyKind.
type DelayStrategyCode int

const (
	NoWaitCode   DelayStrategyCode = 0
	WaitTimeCode DelayStrategyCode = 1
	WaitCode     DelayStrategyCode = 2
)

// WaitTimeThreshold is the fixed threshold (seconds) for WAIT_TIME,
// pinned by spec.md section 4.4 rather than made configurable.
const WaitTimeThreshold = 120

// Config is the recognized set of simulation options.
type Config struct {
	StopAt                int               `yaml:"stop_at"`
	DelayStrategy         DelayStrategyCode `yaml:"delay_strategy"`
	DebugLevel            int               `yaml:"debug_level"`
	OfflinePassengerShare float64           `yaml:"offline_passenger_share"`
	RandomSeed            int64             `yaml:"random_seed"`
	SPAlgo                int               `yaml:"sp_algo"`
	DistributionMethod    int               `yaml:"distribution_method"`
	StrandedPenalty       int               `yaml:"stranded_penalty"`
	DataFolderLocation    string            `yaml:"data_folder_location"`
}

// Load reads and validates a Config from path. Any YAML key outside the
// nine recognized fields fails with UnknownConfig.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, simerrors.New(simerrors.UnknownConfig, "Load", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads and validates a Config from r.
func Decode(r io.Reader) (*Config, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, simerrors.New(simerrors.UnknownConfig, "Decode", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(buf))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, simerrors.New(simerrors.UnknownConfig, "Decode", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects out-of-range values for the enum-like options.
func (c *Config) Validate() error {
	switch c.DelayStrategy {
	case NoWaitCode, WaitTimeCode, WaitCode:
	default:
		return simerrors.Newf(simerrors.UnknownConfig, "Validate", "delay_strategy %d out of range", c.DelayStrategy)
	}
	if c.DebugLevel < 0 || c.DebugLevel > 3 {
		return simerrors.Newf(simerrors.UnknownConfig, "Validate", "debug_level %d out of range [0,3]", c.DebugLevel)
	}
	if c.OfflinePassengerShare < 0 || c.OfflinePassengerShare > 1 {
		return simerrors.Newf(simerrors.UnknownConfig, "Validate", "offline_passenger_share %f out of range [0,1]", c.OfflinePassengerShare)
	}
	if c.SPAlgo != 0 && c.SPAlgo != 1 {
		return simerrors.Newf(simerrors.UnknownConfig, "Validate", "sp_algo %d out of range", c.SPAlgo)
	}
	if c.DistributionMethod != 0 && c.DistributionMethod != 1 {
		return simerrors.Newf(simerrors.UnknownConfig, "Validate", "distribution_method %d out of range", c.DistributionMethod)
	}
	if c.DataFolderLocation == "" {
		return simerrors.Newf(simerrors.UnknownConfig, "Validate", "data_folder_location must not be empty")
	}
	return nil
}

// DelayManagerStrategy translates the on-disk strategy code into the
// delay package's Strategy value, pinning WAIT_TIME's threshold.
func (c *Config) DelayManagerStrategy() delay.Strategy {
	switch c.DelayStrategy {
	case NoWaitCode:
		return delay.Strategy{Kind: delay.NoWait}
	case WaitTimeCode:
		return delay.Strategy{Kind: delay.WaitTime, Threshold: WaitTimeThreshold}
	default:
		return delay.Strategy{Kind: delay.Wait}
	}
}
