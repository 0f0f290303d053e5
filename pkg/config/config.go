// Package config holds the scan run configuration, its validation rules
// and YAML file loading.
package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/probekit/probekit/pkg/defaults"
	"github.com/probekit/probekit/pkg/duration"
	"github.com/probekit/probekit/pkg/generate"
)

// Config holds all options recognized by a scan run.
type Config struct {
	// Target settings
	Target string `yaml:"target"`

	// Execution settings
	Concurrency     int           `yaml:"concurrency"`
	PerProbeTimeout time.Duration `yaml:"per_probe_timeout"`
	MaxCandidates   int           `yaml:"max_candidates"`
	RateLimit       int           `yaml:"rate_limit"` // requests per second, 0 = unlimited

	// HTTP prober settings
	FollowRedirects bool   `yaml:"follow_redirects"`
	SkipVerify      bool   `yaml:"skip_verify"`
	UserAgent       string `yaml:"user_agent"`

	// Candidate source selection
	Mode  string `yaml:"mode"`  // ports, backup, oauth, sqli, smuggle
	Ports string `yaml:"ports"` // "1-1000" or "80,443,8080"; empty = common ports

	// Response capture bounds
	BodySampleCap int `yaml:"body_sample_cap"`

	// Output settings
	OutputFile   string `yaml:"output"`
	OutputFormat string `yaml:"format"` // console, json, html
	NoColor      bool   `yaml:"no_color"`
	Verbose      bool   `yaml:"verbose"`
}

// Default returns the baseline configuration before flags or file
// overrides are applied.
func Default() *Config {
	return &Config{
		Concurrency:     defaults.ConcurrencyMedium,
		PerProbeTimeout: duration.ProbeHTTP,
		MaxCandidates:   defaults.MaxCandidates,
		BodySampleCap:   defaults.BodySampleCap,
		UserAgent:       defaults.UAChrome,
		Mode:            "ports",
		OutputFormat:    "console",
		SkipVerify:      true, // scanners routinely hit self-signed targets
	}
}

// ParseFlags parses command line arguments and returns the resulting
// Config. An optional -config YAML file is applied first so flags win.
func ParseFlags(args []string) (*Config, error) {
	cfg := Default()

	fs := flag.NewFlagSet("probekit", flag.ContinueOnError)

	var configFile string
	fs.StringVar(&configFile, "config", "", "YAML configuration file")

	fs.StringVar(&cfg.Target, "u", cfg.Target, "Target host or URL")
	fs.StringVar(&cfg.Target, "target", cfg.Target, "Target host or URL (alias)")

	fs.IntVar(&cfg.Concurrency, "concurrency", cfg.Concurrency, "Concurrent workers")
	fs.IntVar(&cfg.Concurrency, "c", cfg.Concurrency, "Concurrent workers (alias)")
	fs.DurationVar(&cfg.PerProbeTimeout, "timeout", cfg.PerProbeTimeout, "Hard per-probe timeout")
	fs.IntVar(&cfg.MaxCandidates, "max-candidates", cfg.MaxCandidates, "Candidate cap per run")
	fs.IntVar(&cfg.RateLimit, "rate-limit", cfg.RateLimit, "Max requests per second (0 = unlimited)")
	fs.IntVar(&cfg.RateLimit, "rl", cfg.RateLimit, "Rate limit (alias)")

	fs.StringVar(&cfg.Mode, "mode", cfg.Mode, "Candidate source: ports, backup, oauth, sqli, smuggle")
	fs.StringVar(&cfg.Ports, "p", cfg.Ports, "Port range (1-1000) or list (80,443)")
	fs.StringVar(&cfg.Ports, "ports", cfg.Ports, "Port range (alias)")

	fs.BoolVar(&cfg.FollowRedirects, "follow-redirects", cfg.FollowRedirects, "Follow HTTP redirects")
	fs.BoolVar(&cfg.SkipVerify, "skip-verify", cfg.SkipVerify, "Skip TLS verification")
	fs.BoolVar(&cfg.SkipVerify, "k", cfg.SkipVerify, "Skip TLS verification (alias)")

	fs.StringVar(&cfg.OutputFile, "o", cfg.OutputFile, "Output file path")
	fs.StringVar(&cfg.OutputFile, "output", cfg.OutputFile, "Output file path (alias)")
	fs.StringVar(&cfg.OutputFormat, "format", cfg.OutputFormat, "Output format: console, json, html")
	fs.BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "Disable colored output")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "Verbose output")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if configFile != "" {
		fileCfg, err := LoadFile(configFile)
		if err != nil {
			return nil, err
		}
		// Flags set explicitly override the file.
		merged := fileCfg
		fs.Visit(func(f *flag.Flag) { applyFlag(merged, cfg, f.Name) })
		if merged.Target == "" {
			merged.Target = cfg.Target
		}
		cfg = merged
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFlag copies one explicitly-set flag value from src onto dst.
func applyFlag(dst, src *Config, name string) {
	switch name {
	case "u", "target":
		dst.Target = src.Target
	case "concurrency", "c":
		dst.Concurrency = src.Concurrency
	case "timeout":
		dst.PerProbeTimeout = src.PerProbeTimeout
	case "max-candidates":
		dst.MaxCandidates = src.MaxCandidates
	case "rate-limit", "rl":
		dst.RateLimit = src.RateLimit
	case "mode":
		dst.Mode = src.Mode
	case "p", "ports":
		dst.Ports = src.Ports
	case "follow-redirects":
		dst.FollowRedirects = src.FollowRedirects
	case "skip-verify", "k":
		dst.SkipVerify = src.SkipVerify
	case "o", "output":
		dst.OutputFile = src.OutputFile
	case "format":
		dst.OutputFormat = src.OutputFormat
	case "no-color":
		dst.NoColor = src.NoColor
	case "v":
		dst.Verbose = src.Verbose
	}
}

// LoadFile reads a YAML configuration file on top of Default().
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// Validate checks the configuration. Invalid values are fatal at setup
// time; nothing is dispatched on a config that fails validation.
func (c *Config) Validate() error {
	if c.Target == "" {
		return fmt.Errorf("%w: target", ErrMissingRequired)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("%w: concurrency must be >= 1, got %d", ErrInvalidConfig, c.Concurrency)
	}
	if c.PerProbeTimeout <= 0 {
		return fmt.Errorf("%w: per-probe timeout must be positive, got %v", ErrInvalidConfig, c.PerProbeTimeout)
	}
	if c.MaxCandidates < 1 {
		return fmt.Errorf("%w: max candidates must be >= 1, got %d", ErrInvalidConfig, c.MaxCandidates)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("%w: rate limit must be >= 0, got %d", ErrInvalidConfig, c.RateLimit)
	}
	if c.BodySampleCap < 1 || c.BodySampleCap > defaults.BodySampleCap {
		return fmt.Errorf("%w: body sample cap must be in [1, %d], got %d",
			ErrInvalidConfig, defaults.BodySampleCap, c.BodySampleCap)
	}
	switch c.Mode {
	case "ports", "backup", "oauth", "sqli", "smuggle":
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, c.Mode)
	}
	if c.Mode == "ports" {
		// A bad port spec fails here, not mid-run as an empty candidate set.
		if err := generate.ValidatePortSpec(c.Ports); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	switch c.OutputFormat {
	case "console", "json", "html":
	default:
		return fmt.Errorf("%w: unknown output format %q", ErrInvalidConfig, c.OutputFormat)
	}
	return nil
}
