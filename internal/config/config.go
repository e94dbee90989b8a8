package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/dgnsrekt/gexlab/internal/gex"
)

type Config struct {
	Analytics AnalyticsConfig `mapstructure:"analytics"`
	Data      DataConfig      `mapstructure:"data"`
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// AnalyticsConfig carries the exposure parameters. They are handed to each
// computation as explicit values and never read mid-pass, so replaying a
// snapshot is deterministic.
type AnalyticsConfig struct {
	StrikeWidth  float64 `mapstructure:"strike_width"`
	Multiplier   int64   `mapstructure:"multiplier"`
	GammaScale   float64 `mapstructure:"gamma_scale"`
	RiskFreeRate float64 `mapstructure:"risk_free_rate"`
	GridRange    float64 `mapstructure:"grid_range"`
	GridStep     float64 `mapstructure:"grid_step"`
	// SpotWindowPct is the full hedge-flow window around spot
	// (0.01 means +/-0.5%).
	SpotWindowPct    float64 `mapstructure:"spot_window_pct"`
	ReferenceMovePct float64 `mapstructure:"reference_move_pct"`
	Workers          int     `mapstructure:"workers"`
}

// Window builds the immutable per-pass window value object.
func (a AnalyticsConfig) Window() gex.ExposureWindow {
	return gex.ExposureWindow{
		StrikeWidth: a.StrikeWidth,
		Multiplier:  a.Multiplier,
		GammaScale:  a.GammaScale,
	}
}

type DataConfig struct {
	Directory string `mapstructure:"directory"`
}

type ServerConfig struct {
	Port            string `mapstructure:"port"`
	RatePerSecond   int    `mapstructure:"rate_per_second"`
	ReadTimeoutSec  int    `mapstructure:"read_timeout_sec"`
	WriteTimeoutSec int    `mapstructure:"write_timeout_sec"`
}

type LoggingConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Directory string `mapstructure:"directory"`
	Level     string `mapstructure:"level"`
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("analytics.strike_width", 50.0)
	v.SetDefault("analytics.multiplier", 100)
	v.SetDefault("analytics.gamma_scale", 0.01)
	v.SetDefault("analytics.risk_free_rate", 0.0)
	v.SetDefault("analytics.grid_range", 300.0)
	v.SetDefault("analytics.grid_step", 1.0)
	v.SetDefault("analytics.spot_window_pct", 0.01)
	v.SetDefault("analytics.reference_move_pct", 0.0025)
	v.SetDefault("analytics.workers", 4)
	v.SetDefault("data.directory", "data")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.rate_per_second", 10)
	v.SetDefault("server.read_timeout_sec", 30)
	v.SetDefault("server.write_timeout_sec", 30)
	v.SetDefault("logging.enabled", true)
	v.SetDefault("logging.directory", "logs")
	v.SetDefault("logging.level", "info")

	// Environment variable support
	v.SetEnvPrefix("GEXLAB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Load config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("default")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}
