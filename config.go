package rabinwilliams

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-multierror"

	"github.com/bastionzero/rabinwilliams/log"
)

const (
	DefaultPrimeBits  = 512
	DefaultIterations = 1000000
)

// Config holds the parameters of a signing and benchmarking run
type Config struct {
	// PrimeBits is the size of each secret prime. Elements are drawn at twice this size
	PrimeBits int `toml:"prime_bits"`
	// Iterations is the number of verifications in the benchmark
	Iterations int `toml:"iterations"`
	// Workers is the number of goroutines sharing the benchmark; 1 runs it sequentially
	Workers int `toml:"workers"`
	// RandomSource is a path to read random bytes from. Empty means crypto/rand
	RandomSource string `toml:"random_source"`
	LogLevel     string `toml:"log_level"`
	JSONLogs     bool   `toml:"json_logs"`
	// MonitorInterval, if positive, logs runtime memory statistics at this period during the benchmark
	MonitorInterval Duration `toml:"monitor_interval"`
}

// Duration is a time.Duration read from TOML strings such as "30s"
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// DefaultConfig reproduces the reference run: 512-bit primes and a million sequential verifications
func DefaultConfig() Config {
	return Config{
		PrimeBits:  DefaultPrimeBits,
		Iterations: DefaultIterations,
		Workers:    1,
		LogLevel:   "info",
	}
}

// ElementBits is the size of sampled group elements
func (c Config) ElementBits() int {
	return 2 * c.PrimeBits
}

// LoadConfig reads a TOML file on top of DefaultConfig
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every invalid field at once
func (c Config) Validate() error {
	var result *multierror.Error

	if c.PrimeBits < 16 || c.PrimeBits%8 != 0 {
		result = multierror.Append(result, fmt.Errorf("prime_bits must be a multiple of 8 and at least 16, got %d", c.PrimeBits))
	} else if c.ElementBits()/8 > MaxRandomBytes {
		result = multierror.Append(result, fmt.Errorf("prime_bits %d needs %d-byte elements, limit is %d", c.PrimeBits, c.ElementBits()/8, MaxRandomBytes))
	}
	if c.Iterations < 1 {
		result = multierror.Append(result, fmt.Errorf("iterations must be positive, got %d", c.Iterations))
	}
	if c.Workers < 1 {
		result = multierror.Append(result, fmt.Errorf("workers must be positive, got %d", c.Workers))
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		result = multierror.Append(result, err)
	}
	if c.MonitorInterval < 0 {
		result = multierror.Append(result, fmt.Errorf("monitor_interval must not be negative, got %s", c.MonitorInterval))
	}

	return result.ErrorOrNil()
}
