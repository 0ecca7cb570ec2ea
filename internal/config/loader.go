package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults applied when a setting is left unset.
const (
	DefaultPort              = 8080
	DefaultReadTimeout       = 30
	DefaultWriteTimeout      = 60
	DefaultIdleTimeout       = 120
	DefaultShutdownTimeout   = 15
	DefaultAPIBase           = "https://en.wikipedia.org/w/api.php"
	DefaultUserAgent         = "wikiproxy/1.0 (https://github.com/kahdian/wikiproxy)"
	DefaultUpstreamTimeout   = 10
	DefaultRequestsPerSecond = 10.0
	DefaultBurst             = 5
	DefaultLogLevel          = "info"
	DefaultMetricsAddr       = ":9090"
)

// Load reads a wikiproxy.yaml file and returns a ProxyConfig with
// environment references resolved and defaults applied. An empty path
// yields the default configuration.
func Load(path string) (*ProxyConfig, error) {
	var cfg ProxyConfig
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvironmentVariables(&cfg)
	resolveEnvVars(&cfg)
	setDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// applyEnvironmentVariables exports the environment_variables section so
// later os.environ/ references can see it.
func applyEnvironmentVariables(cfg *ProxyConfig) {
	for k, v := range cfg.EnvironmentVariables {
		os.Setenv(k, ResolveEnvVar(v))
	}
}

func resolveEnvVars(cfg *ProxyConfig) {
	cfg.UpstreamSettings.APIBase = ResolveEnvVar(cfg.UpstreamSettings.APIBase)
	cfg.UpstreamSettings.UserAgent = ResolveEnvVar(cfg.UpstreamSettings.UserAgent)
	cfg.LogSettings.Level = ResolveEnvVar(cfg.LogSettings.Level)
	if cfg.Metrics.Addr != nil {
		addr := ResolveEnvVar(*cfg.Metrics.Addr)
		cfg.Metrics.Addr = &addr
	}
}

func setDefaults(cfg *ProxyConfig) {
	g := &cfg.GeneralSettings
	if g.Port == 0 {
		g.Port = DefaultPort
	}
	if g.ReadTimeout == 0 {
		g.ReadTimeout = DefaultReadTimeout
	}
	if g.WriteTimeout == 0 {
		g.WriteTimeout = DefaultWriteTimeout
	}
	if g.IdleTimeout == 0 {
		g.IdleTimeout = DefaultIdleTimeout
	}
	if g.ShutdownTimeout == 0 {
		g.ShutdownTimeout = DefaultShutdownTimeout
	}

	u := &cfg.UpstreamSettings
	if u.APIBase == "" {
		u.APIBase = DefaultAPIBase
	}
	if u.UserAgent == "" {
		u.UserAgent = DefaultUserAgent
	}
	if u.Timeout == 0 {
		u.Timeout = DefaultUpstreamTimeout
	}
	if u.Burst == 0 {
		u.Burst = DefaultBurst
	}

	if cfg.LogSettings.Level == "" {
		cfg.LogSettings.Level = DefaultLogLevel
	}
}
