package config

import (
	"net"
	"time"

	"github.com/pkg/errors"
)

// Version holds the tellocontrol version.
var Version string

// C holds the global configuration.
var C Config

// Config defines the configuration structure.
type Config struct {
	General struct {
		LogLevel int `mapstructure:"log_level"`
	} `mapstructure:"general"`

	Tello struct {
		Host string `mapstructure:"host"`
		Port int    `mapstructure:"port"`
	} `mapstructure:"tello"`

	Handshake struct {
		Payload    string        `mapstructure:"payload"`
		BufferSize int           `mapstructure:"buffer_size"`
		Timeout    time.Duration `mapstructure:"timeout"`
	} `mapstructure:"handshake"`

	Simulator struct {
		Bind    string   `mapstructure:"bind"`
		Replies []string `mapstructure:"replies"`
	} `mapstructure:"simulator"`
}

// Default values, matching the Tello SDK control endpoint.
const (
	DefaultLogLevel   = 4
	DefaultHost       = "192.168.10.1"
	DefaultPort       = 8889
	DefaultPayload    = "command"
	DefaultBufferSize = 256
	DefaultBind       = "127.0.0.1:8889"
)

// Defaults returns a Config populated with the default values.
func Defaults() Config {
	var c Config
	c.General.LogLevel = DefaultLogLevel
	c.Tello.Host = DefaultHost
	c.Tello.Port = DefaultPort
	c.Handshake.Payload = DefaultPayload
	c.Handshake.BufferSize = DefaultBufferSize
	c.Simulator.Bind = DefaultBind
	return c
}

// Validate checks the configuration for values the handshake can not work
// with.
func (c *Config) Validate() error {
	ip := net.ParseIP(c.Tello.Host)
	if ip == nil || ip.To4() == nil {
		return errors.Errorf("tello.host %q is not an IPv4 address", c.Tello.Host)
	}
	if c.Tello.Port < 1 || c.Tello.Port > 65535 {
		return errors.Errorf("tello.port %d out of range", c.Tello.Port)
	}
	if c.Handshake.Payload == "" {
		return errors.New("handshake.payload must not be empty")
	}
	// One spare byte so a longer datagram is not truncated into a match.
	if c.Handshake.BufferSize <= len(c.Handshake.Payload) {
		return errors.Errorf("handshake.buffer_size %d must be larger than the payload (%d bytes)",
			c.Handshake.BufferSize, len(c.Handshake.Payload))
	}
	if c.Handshake.Timeout < 0 {
		return errors.New("handshake.timeout must not be negative")
	}
	return nil
}
