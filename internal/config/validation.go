package config

import (
	"fmt"
	"strings"
)

// InvalidField records one rejected configuration value.
type InvalidField struct {
	Key    string
	Value  interface{}
	Reason string
}

// ValidationErrors collects all validation errors so a user fixes the
// whole file in one round instead of replaying failures one at a time.
type ValidationErrors struct {
	Fields []InvalidField
}

func (e *ValidationErrors) add(key string, value interface{}, reason string) {
	e.Fields = append(e.Fields, InvalidField{Key: key, Value: value, Reason: reason})
}

// HasErrors returns true if any validation errors exist
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Fields) > 0
}

// Error formats all validation errors into a clear message
func (e *ValidationErrors) Error() string {
	var sb strings.Builder
	sb.WriteString("configuration validation failed:\n")
	for _, f := range e.Fields {
		sb.WriteString(fmt.Sprintf("  - %s = %v (%s)\n", f.Key, f.Value, f.Reason))
	}
	return sb.String()
}

func (c *Config) Validate() error {
	errs := &ValidationErrors{}

	a := c.Analytics
	if a.StrikeWidth <= 0 {
		errs.add("analytics.strike_width", a.StrikeWidth, "must be > 0")
	}
	if a.Multiplier < 1 {
		errs.add("analytics.multiplier", a.Multiplier, "must be >= 1")
	}
	if a.GammaScale <= 0 {
		errs.add("analytics.gamma_scale", a.GammaScale, "must be > 0")
	}
	if a.GridRange <= 0 {
		errs.add("analytics.grid_range", a.GridRange, "must be > 0")
	}
	if a.GridStep <= 0 {
		errs.add("analytics.grid_step", a.GridStep, "must be > 0")
	} else if a.GridStep > a.GridRange && a.GridRange > 0 {
		errs.add("analytics.grid_step", a.GridStep, "must not exceed grid_range")
	}
	if a.SpotWindowPct <= 0 {
		errs.add("analytics.spot_window_pct", a.SpotWindowPct, "must be > 0")
	}
	if a.ReferenceMovePct <= 0 {
		errs.add("analytics.reference_move_pct", a.ReferenceMovePct, "must be > 0")
	}
	if a.Workers < 1 {
		errs.add("analytics.workers", a.Workers, "must be >= 1")
	}
	if c.Data.Directory == "" {
		errs.add("data.directory", c.Data.Directory, "must not be empty")
	}
	if c.Server.Port == "" {
		errs.add("server.port", c.Server.Port, "must not be empty")
	}
	if c.Server.RatePerSecond < 1 {
		errs.add("server.rate_per_second", c.Server.RatePerSecond, "must be >= 1")
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
