package config

import "time"

// ProxyConfig represents the top-level wikiproxy.yaml structure.
type ProxyConfig struct {
	GeneralSettings      GeneralSettings   `yaml:"general_settings"`
	UpstreamSettings     UpstreamSettings  `yaml:"upstream_settings"`
	LogSettings          LogSettings       `yaml:"log_settings"`
	Metrics              MetricsConfig     `yaml:"metrics,omitempty"`
	EnvironmentVariables map[string]string `yaml:"environment_variables,omitempty"`

	// Overflow captures any unknown top-level YAML fields.
	Overflow map[string]any `yaml:",inline"`
}

// GeneralSettings holds HTTP server settings. Timeouts are in seconds.
type GeneralSettings struct {
	Port            int `yaml:"port,omitempty"`
	ReadTimeout     int `yaml:"read_timeout,omitempty"`
	WriteTimeout    int `yaml:"write_timeout,omitempty"`
	IdleTimeout     int `yaml:"idle_timeout,omitempty"`
	ShutdownTimeout int `yaml:"shutdown_timeout,omitempty"`

	Overflow map[string]any `yaml:",inline"`
}

// UpstreamSettings configures the MediaWiki API client.
type UpstreamSettings struct {
	APIBase   string `yaml:"api_base,omitempty"`
	UserAgent string `yaml:"user_agent,omitempty"`
	// Timeout is the per-request timeout in seconds.
	Timeout int `yaml:"timeout,omitempty"`

	// RequestsPerSecond caps outgoing calls. nil means the default; 0 disables.
	RequestsPerSecond *float64 `yaml:"requests_per_second,omitempty"`
	Burst             int      `yaml:"burst,omitempty"`

	Overflow map[string]any `yaml:",inline"`
}

// LogSettings configures the zap logger.
type LogSettings struct {
	Level    string `yaml:"level,omitempty"`
	JSONLogs *bool  `yaml:"json_logs,omitempty"`

	Overflow map[string]any `yaml:",inline"`
}

// MetricsConfig configures the Prometheus listener.
type MetricsConfig struct {
	// Addr is the listen address, e.g. ":9090". nil means the default; "" disables.
	Addr *string `yaml:"addr,omitempty"`

	Overflow map[string]any `yaml:",inline"`
}

// JSON reports whether logs are emitted as JSON.
func (l LogSettings) JSON() bool {
	return l.JSONLogs == nil || *l.JSONLogs
}

// MetricsAddr returns the metrics listen address, "" when disabled.
func (c *ProxyConfig) MetricsAddr() string {
	if c.Metrics.Addr == nil {
		return DefaultMetricsAddr
	}
	return *c.Metrics.Addr
}

// RateLimit returns the configured upstream requests per second.
func (u UpstreamSettings) RateLimit() float64 {
	if u.RequestsPerSecond == nil {
		return DefaultRequestsPerSecond
	}
	return *u.RequestsPerSecond
}

func seconds(n int) time.Duration { return time.Duration(n) * time.Second }

func (g GeneralSettings) ReadTimeoutDuration() time.Duration { return seconds(g.ReadTimeout) }
func (g GeneralSettings) WriteTimeoutDuration() time.Duration { return seconds(g.WriteTimeout) }
func (g GeneralSettings) IdleTimeoutDuration() time.Duration { return seconds(g.IdleTimeout) }
func (g GeneralSettings) ShutdownTimeoutDuration() time.Duration { return seconds(g.ShutdownTimeout) }
func (u UpstreamSettings) TimeoutDuration() time.Duration { return seconds(u.Timeout) }
