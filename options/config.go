package options

import (
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v9"
	"github.com/gravitational/trace"
)

// Config is the environment configuration of the to-url command. Command
// line flags take precedence over it.
type Config struct {
	Verbose        bool   `env:"TOURL_VERBOSE"`
	LogFormat      string `env:"TOURL_LOG_FORMAT" envDefault:"text"`
	Compression    string `env:"TOURL_COMPRESSION"`
	Identifier     string `env:"TOURL_IDENTIFIER" envDefault:"ulid"`
	UserAgent      string `env:"TOURL_USER_AGENT"`
	ProtocolScheme string `env:"TOURL_PROTOCOL_SCHEME"`
}

// LoadConfig reads Config from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, trace.Wrap(err, "could not read configuration from env")
	}
	return cfg, nil
}

// Option builds an Option from the configuration.
func (c Config) Option() (*Option, error) {
	compression, err := ParseCompression(c.Compression)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	identifier, err := ParseIdentifier(c.Identifier)
	if err != nil {
		return nil, trace.Wrap(err)
	}

	opt := New(&Option{
		Verbose:              c.Verbose,
		Compression:          compression,
		UserAgent:            c.UserAgent,
		UniqueIdentifierType: identifier,
	})

	switch strings.ToLower(c.LogFormat) {
	case "", "text":
		opt.Logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	case "json":
		opt.Logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))
	default:
		return nil, trace.BadParameter("unsupported log format %q", c.LogFormat)
	}

	if c.ProtocolScheme != "" {
		opt.SetProtocolScheme(c.ProtocolScheme)
	}

	return opt, nil
}

// FromEnv returns an Option configured from the environment.
func FromEnv() (*Option, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, trace.Wrap(err)
	}
	return cfg.Option()
}
