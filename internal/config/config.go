// Package config loads kroneus settings from a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/kroneus/kroneus-site/internal/alert"
	"github.com/kroneus/kroneus-site/internal/mailer"
)

// EnvPrefix prefixes every environment override, e.g. KRONEUS_HTTP_ADDR.
const EnvPrefix = "KRONEUS"

// Mailer providers.
const (
	ProviderResend = "resend"
	ProviderLog    = "log"
)

// ErrMissingAPIKey is returned by Validate when the resend provider has no key.
var ErrMissingAPIKey = mailer.ErrMissingAPIKey

type HTTP struct {
	Addr            string        `mapstructure:"addr"             yaml:"addr"`
	StaticDir       string        `mapstructure:"static_dir"       yaml:"static_dir"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

type Catalog struct {
	Path  string `mapstructure:"path"  yaml:"path"`
	Watch bool   `mapstructure:"watch" yaml:"watch"`
}

type Demo struct {
	TickInterval time.Duration `mapstructure:"tick_interval" yaml:"tick_interval"`
	SessionTTL   time.Duration `mapstructure:"session_ttl"   yaml:"session_ttl"`
	MaxSessions  int           `mapstructure:"max_sessions"  yaml:"max_sessions"`
}

type RateLimit struct {
	RPS   float64 `mapstructure:"rps"   yaml:"rps"`
	Burst int     `mapstructure:"burst" yaml:"burst"`
}

type Contact struct {
	From      string    `mapstructure:"from"       yaml:"from"`
	To        []string  `mapstructure:"to"         yaml:"to"`
	RateLimit RateLimit `mapstructure:"rate_limit" yaml:"rate_limit"`
}

type Mailer struct {
	Provider  string        `mapstructure:"provider"   yaml:"provider"`
	Endpoint  string        `mapstructure:"endpoint"   yaml:"endpoint"`
	APIKey    string        `mapstructure:"api_key"    yaml:"api_key,omitempty"`
	Timeout   time.Duration `mapstructure:"timeout"    yaml:"timeout"`
	Retries   int           `mapstructure:"retries"    yaml:"retries"`
	RetryWait time.Duration `mapstructure:"retry_wait" yaml:"retry_wait"`
}

type Chat struct {
	RulesPath string    `mapstructure:"rules_path" yaml:"rules_path"`
	RateLimit RateLimit `mapstructure:"rate_limit" yaml:"rate_limit"`
}

type Audit struct {
	Path string `mapstructure:"path" yaml:"path"`
}

type Telemetry struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint" yaml:"otlp_endpoint"`
	Insecure     bool   `mapstructure:"insecure"      yaml:"insecure"`
}

type Health struct {
	GRPCAddr string `mapstructure:"grpc_addr" yaml:"grpc_addr"`
}

type Log struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Config is the full process configuration.
type Config struct {
	HTTP      HTTP                `mapstructure:"http"      yaml:"http"`
	Catalog   Catalog             `mapstructure:"catalog"   yaml:"catalog"`
	Demo      Demo                `mapstructure:"demo"      yaml:"demo"`
	Contact   Contact             `mapstructure:"contact"   yaml:"contact"`
	Mailer    Mailer              `mapstructure:"mailer"    yaml:"mailer"`
	Chat      Chat                `mapstructure:"chat"      yaml:"chat"`
	Alerts    []alert.AlertConfig `mapstructure:"alerts"    yaml:"alerts,omitempty"`
	Audit     Audit               `mapstructure:"audit"     yaml:"audit"`
	Telemetry Telemetry           `mapstructure:"telemetry" yaml:"telemetry"`
	Health    Health              `mapstructure:"health"    yaml:"health"`
	Log       Log                 `mapstructure:"log"       yaml:"log"`
}

// Default returns the built-in settings. The mailer defaults to the log provider
// so a fresh checkout runs without credentials.
func Default() Config {
	return Config{
		HTTP: HTTP{
			Addr:            ":8080",
			StaticDir:       "",
			ShutdownTimeout: 10 * time.Second,
		},
		Demo: Demo{
			TickInterval: 800 * time.Millisecond,
			SessionTTL:   10 * time.Minute,
			MaxSessions:  1000,
		},
		Contact: Contact{
			From:      "KRONEUS Contact Form <onboarding@resend.dev>",
			To:        []string{"contact@kroneus.example"},
			RateLimit: RateLimit{RPS: 0.2, Burst: 3},
		},
		Mailer: Mailer{
			Provider:  ProviderLog,
			Endpoint:  mailer.DefaultEndpoint,
			Timeout:   10 * time.Second,
			Retries:   2,
			RetryWait: 500 * time.Millisecond,
		},
		Chat: Chat{
			RateLimit: RateLimit{RPS: 2, Burst: 10},
		},
		Health: Health{GRPCAddr: ""},
		Log:    Log{Level: "info", Format: "console"},
	}
}

// Load reads path (optional) and applies environment overrides on top of Default.
// RESEND_API_KEY fills mailer.api_key.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("mailer.api_key", EnvPrefix+"_MAILER_API_KEY", "RESEND_API_KEY"); err != nil {
		return Config{}, fmt.Errorf("bind env: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("http.addr", d.HTTP.Addr)
	v.SetDefault("http.static_dir", d.HTTP.StaticDir)
	v.SetDefault("http.shutdown_timeout", d.HTTP.ShutdownTimeout)
	v.SetDefault("catalog.path", d.Catalog.Path)
	v.SetDefault("catalog.watch", d.Catalog.Watch)
	v.SetDefault("demo.tick_interval", d.Demo.TickInterval)
	v.SetDefault("demo.session_ttl", d.Demo.SessionTTL)
	v.SetDefault("demo.max_sessions", d.Demo.MaxSessions)
	v.SetDefault("contact.from", d.Contact.From)
	v.SetDefault("contact.to", d.Contact.To)
	v.SetDefault("contact.rate_limit.rps", d.Contact.RateLimit.RPS)
	v.SetDefault("contact.rate_limit.burst", d.Contact.RateLimit.Burst)
	v.SetDefault("mailer.provider", d.Mailer.Provider)
	v.SetDefault("mailer.endpoint", d.Mailer.Endpoint)
	v.SetDefault("mailer.api_key", "")
	v.SetDefault("mailer.timeout", d.Mailer.Timeout)
	v.SetDefault("mailer.retries", d.Mailer.Retries)
	v.SetDefault("mailer.retry_wait", d.Mailer.RetryWait)
	v.SetDefault("chat.rules_path", d.Chat.RulesPath)
	v.SetDefault("chat.rate_limit.rps", d.Chat.RateLimit.RPS)
	v.SetDefault("chat.rate_limit.burst", d.Chat.RateLimit.Burst)
	v.SetDefault("audit.path", d.Audit.Path)
	v.SetDefault("telemetry.otlp_endpoint", d.Telemetry.OTLPEndpoint)
	v.SetDefault("telemetry.insecure", d.Telemetry.Insecure)
	v.SetDefault("health.grpc_addr", d.Health.GRPCAddr)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// Validate checks settings that would otherwise fail at first use.
func (c Config) Validate() error {
	var errs []error

	switch c.Mailer.Provider {
	case ProviderResend:
		if strings.TrimSpace(c.Mailer.APIKey) == "" {
			errs = append(errs, fmt.Errorf("%w: set RESEND_API_KEY or mailer.api_key", ErrMissingAPIKey))
		}
	case ProviderLog:
	default:
		errs = append(errs, fmt.Errorf("unknown mailer provider %q (want %s or %s)", c.Mailer.Provider, ProviderResend, ProviderLog))
	}

	if c.HTTP.Addr == "" {
		errs = append(errs, errors.New("http.addr is required"))
	}
	if c.Contact.From == "" || len(c.Contact.To) == 0 {
		errs = append(errs, errors.New("contact.from and contact.to are required"))
	}
	if c.Demo.TickInterval <= 0 {
		errs = append(errs, errors.New("demo.tick_interval must be positive"))
	}
	for i, a := range c.Alerts {
		if a.URL == "" {
			errs = append(errs, fmt.Errorf("alerts[%d]: url is required", i))
		}
	}
	return errors.Join(errs...)
}

// WriteYAML writes cfg to path without the API key. Existing files are not overwritten.
func WriteYAML(path string, cfg Config) error {
	cfg.Mailer.APIKey = ""
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
