package deluge

import (
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// Config holds connection and post-add settings for the Deluge daemon.
type Config struct {
	// Host is the daemon host.
	Host string `mapstructure:"host" default:"localhost"`
	// Port is the daemon RPC port.
	Port int `mapstructure:"port" default:"58846"`
	// User is the daemon username.
	User string `mapstructure:"user" default:""`
	// Pass is the daemon password.
	Pass string `mapstructure:"pass" default:""`
	// Path is the download location template.
	Path string `mapstructure:"path" default:""`
	// MoveDone is the move-on-complete location template.
	MoveDone string `mapstructure:"movedone" default:""`
	// Label is the label assigned to added torrents. Always lower-cased before use.
	Label string `mapstructure:"label" default:""`
	// QueueToTop moves added torrents to the top of the queue.
	QueueToTop bool `mapstructure:"queuetotop" default:"false"`
	// Enabled is the master switch.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// SettleDelay is how long the legacy client path waits after an add before
	// taking the second session snapshot.
	SettleDelay time.Duration `mapstructure:"settle_delay" default:"2s"`
}

const (
	DefaultHost        = "localhost"
	DefaultPort        = 58846
	DefaultSettleDelay = 2 * time.Second
)

// Defaults returns a Config with every option at its default value.
func Defaults() Config {
	return Config{
		Host:        DefaultHost,
		Port:        DefaultPort,
		Enabled:     true,
		SettleDelay: DefaultSettleDelay,
	}
}

// Resolve normalizes a raw configuration value against the defaults.
//
// raw may be nil (all defaults), a bool (enable or disable with all defaults),
// a mapping of option names to values, or an already typed Config.
// Unknown option names are rejected.
func Resolve(raw any) (Config, error) {
	return ResolveOver(Defaults(), raw)
}

// ResolveOver is Resolve with base in place of the defaults: options missing from
// a mapping keep their value from base, and a bool only toggles base.Enabled.
// A typed Config replaces base.
func ResolveOver(base Config, raw any) (Config, error) {
	cfg := base

	switch v := raw.(type) {
	case nil:
		return cfg, nil
	case bool:
		cfg.Enabled = v
		return cfg, nil
	case Config:
		return fillZero(v), nil
	case *Config:
		if v == nil {
			return cfg, nil
		}
		return fillZero(*v), nil
	case map[string]any:
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &cfg,
			ErrorUnused:      true,
			WeaklyTypedInput: true,
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		})
		if err != nil {
			return Config{}, fmt.Errorf("failed to build config decoder: %w", err)
		}
		if err := dec.Decode(v); err != nil {
			return Config{}, fmt.Errorf("invalid deluge config: %w", err)
		}
		return cfg, nil
	default:
		return Config{}, fmt.Errorf("invalid deluge config: expected boolean or mapping, got %T", raw)
	}
}

// fillZero applies defaults to connection fields left empty in a typed Config.
func fillZero(c Config) Config {
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	return c
}

// Address returns host:port.
func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
