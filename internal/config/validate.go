package config

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate rejects settings the server cannot start with.
func Validate(cfg *ProxyConfig) error {
	var errs []error

	if p := cfg.GeneralSettings.Port; p < 1 || p > 65535 {
		errs = append(errs, fmt.Errorf("general_settings.port: %d out of range", p))
	}
	g := cfg.GeneralSettings
	for _, timeout := range []struct {
		name  string
		value int
	}{
		{"read_timeout", g.ReadTimeout},
		{"write_timeout", g.WriteTimeout},
		{"idle_timeout", g.IdleTimeout},
		{"shutdown_timeout", g.ShutdownTimeout},
	} {
		if timeout.value < 0 {
			errs = append(errs, fmt.Errorf("general_settings.%s: must not be negative", timeout.name))
		}
	}

	u := cfg.UpstreamSettings
	if parsed, err := url.Parse(u.APIBase); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		errs = append(errs, fmt.Errorf("upstream_settings.api_base: %q is not an absolute URL", u.APIBase))
	}
	if u.Timeout < 0 {
		errs = append(errs, errors.New("upstream_settings.timeout: must not be negative"))
	}
	if u.RateLimit() < 0 {
		errs = append(errs, errors.New("upstream_settings.requests_per_second: must not be negative"))
	}
	if u.Burst < 0 {
		errs = append(errs, errors.New("upstream_settings.burst: must not be negative"))
	}

	if !validLogLevels[strings.ToLower(cfg.LogSettings.Level)] {
		errs = append(errs, fmt.Errorf("log_settings.level: unknown level %q", cfg.LogSettings.Level))
	}

	return errors.Join(errs...)
}

// UnknownFields lists config keys that were parsed but are not recognized,
// as dotted paths sorted alphabetically.
func UnknownFields(cfg *ProxyConfig) []string {
	var fields []string
	collect := func(section string, overflow map[string]any) {
		for k := range overflow {
			if section == "" {
				fields = append(fields, k)
			} else {
				fields = append(fields, section+"."+k)
			}
		}
	}
	collect("", cfg.Overflow)
	collect("general_settings", cfg.GeneralSettings.Overflow)
	collect("upstream_settings", cfg.UpstreamSettings.Overflow)
	collect("log_settings", cfg.LogSettings.Overflow)
	collect("metrics", cfg.Metrics.Overflow)
	sort.Strings(fields)
	return fields
}
