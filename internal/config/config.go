package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Paths         []string      `toml:"paths"`
	Exclude       Exclude       `toml:"exclude"`
	Rule          Rule          `toml:"rule"`
	Output        Output        `toml:"output"`
	Watch         Watch         `toml:"watch"`
	History       History       `toml:"history"`
	Observability Observability `toml:"observability"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Rule struct {
	// AllowImplicitItShadows exempts the implicit lambda parameter `it`
	// from shadow detection.
	AllowImplicitItShadows bool `toml:"allow_implicit_it_shadows"`
	IncludeTests           bool `toml:"include_tests"`
}

type Output struct {
	SARIF    string `toml:"sarif"`
	Markdown string `toml:"markdown"`
	TSV      string `toml:"tsv"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
	// MaxRescansPerSecond caps watch-mode rescan bursts.
	MaxRescansPerSecond float64 `toml:"max_rescans_per_second"`
}

type History struct {
	Path string `toml:"path"`
}

type Observability struct {
	Addr         string `toml:"addr"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if len(cfg.Paths) == 0 {
		cfg.Paths = []string{"."}
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.MaxRescansPerSecond == 0 {
		cfg.Watch.MaxRescansPerSecond = 4
	}
	if len(cfg.Exclude.Dirs) == 0 {
		cfg.Exclude.Dirs = []string{".git", "build", "out"}
	}
}
