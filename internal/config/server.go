package config

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// ServerConfig represents the [server] section
type ServerConfig struct {
	Bind           string        `toml:"bind" mapstructure:"bind"`
	Port           int           `toml:"port" mapstructure:"port"`
	RequestTimeout time.Duration `toml:"request_timeout" mapstructure:"request_timeout"`
}

// Address returns the host:port the RPC server listens on.
func (s *ServerConfig) Address() string {
	return net.JoinHostPort(s.Bind, strconv.Itoa(s.Port))
}

// Validate performs validation on the server configuration
func (s *ServerConfig) Validate() error {
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", s.Port)
	}
	if s.Bind != "" && net.ParseIP(s.Bind) == nil && s.Bind != "localhost" {
		return fmt.Errorf("invalid bind address: %s", s.Bind)
	}
	if s.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must be non-negative, got %s", s.RequestTimeout)
	}
	return nil
}
