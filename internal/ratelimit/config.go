// Package ratelimit throttles requests per client address.
package ratelimit

import "time"

// Config defines a token bucket per client. Zero RPS disables limiting.
type Config struct {
	RPS     float64       `yaml:"rps"     mapstructure:"rps"`
	Burst   int           `yaml:"burst"   mapstructure:"burst"`
	IdleTTL time.Duration `yaml:"idle_ttl" mapstructure:"idle_ttl"`
}

// Enabled reports whether the config imposes a limit.
func (c Config) Enabled() bool {
	return c.RPS > 0
}
