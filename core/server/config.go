package server

import (
	"fmt"
	"strconv"
	"time"
)

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// ReadTimeoutSeconds bounds reading a request.
	ReadTimeoutSeconds int `mapstructure:"read_timeout_seconds" default:"15"`
}

// Validate checks that the port is a usable TCP port.
func (c Config) Validate() error {
	p, err := strconv.Atoi(c.Port)
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("invalid server port: %q", c.Port)
	}
	return nil
}

// Address returns the listen address.
func (c Config) Address() string {
	return ":" + c.Port
}

// ReadTimeout returns the request read timeout.
func (c Config) ReadTimeout() time.Duration {
	if c.ReadTimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}
