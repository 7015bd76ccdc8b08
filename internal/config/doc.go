// Package config handles configuration loading, saving, and schema definition.
package config

import (
	"errors"
	"fmt"
)

// Config is the top-level tgmux configuration.
// JSON keys are camelCase; the YAML form uses the same keys.
type Config struct {
	Bots    []BotConfig   `json:"bots" yaml:"bots"`
	API     APIConfig     `json:"api" yaml:"api"`
	Polling PollingConfig `json:"polling" yaml:"polling"`
	Relay   RelayConfig   `json:"relay" yaml:"relay"`
	Redis   RedisConfig   `json:"redis" yaml:"redis"`
}

// BotConfig is one bot token. Order matters: it fixes the credential index.
type BotConfig struct {
	Token string `json:"token" yaml:"token"`
	Name  string `json:"name,omitempty" yaml:"name,omitempty"` // label for logs only
}

// APIConfig holds Bot API transport settings.
type APIConfig struct {
	BaseURL        string `json:"baseUrl,omitempty" yaml:"baseUrl,omitempty"`
	RequestTimeout int    `json:"requestTimeout,omitempty" yaml:"requestTimeout,omitempty"` // seconds, 0 = none
	ForceHTTP2     bool   `json:"forceHttp2,omitempty" yaml:"forceHttp2,omitempty"`
	BalanceUnseen  bool   `json:"balanceUnseen,omitempty" yaml:"balanceUnseen,omitempty"`
}

// PollingConfig holds getUpdates long-poll settings.
type PollingConfig struct {
	Timeout        int      `json:"timeout,omitempty" yaml:"timeout,omitempty"` // seconds
	Limit          int      `json:"limit,omitempty" yaml:"limit,omitempty"`
	AllowedUpdates []string `json:"allowedUpdates,omitempty" yaml:"allowedUpdates,omitempty"`
	Buffer         int      `json:"buffer,omitempty" yaml:"buffer,omitempty"`
}

// RelayConfig holds the WebSocket relay settings. Empty Addr disables it.
type RelayConfig struct {
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// RedisConfig holds the Redis publisher settings. Empty URL disables it.
type RedisConfig struct {
	URL      string `json:"url,omitempty" yaml:"url,omitempty"` // redis://host:port
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	DB       int    `json:"db,omitempty" yaml:"db,omitempty"`
	Channel  string `json:"channel,omitempty" yaml:"channel,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL:        "https://api.telegram.org",
			RequestTimeout: 60,
		},
		Polling: PollingConfig{
			Timeout: 30,
			Limit:   100,
			Buffer:  100,
		},
		Relay: RelayConfig{
			Path: "/updates",
		},
		Redis: RedisConfig{
			Channel: "tgmux:updates",
		},
	}
}

// Tokens returns the bot tokens in credential order.
func (c Config) Tokens() []string {
	out := make([]string, 0, len(c.Bots))
	for _, b := range c.Bots {
		out = append(out, b.Token)
	}
	return out
}

var ErrNoBots = errors.New("no bots configured")

// Validate checks the config before a client is built.
func (c Config) Validate() error {
	if len(c.Bots) == 0 {
		return ErrNoBots
	}
	for i, b := range c.Bots {
		if b.Token == "" {
			return fmt.Errorf("bots[%d]: empty token", i)
		}
	}
	if c.Polling.Limit < 0 || c.Polling.Limit > 100 {
		return fmt.Errorf("polling.limit %d out of range 1..100", c.Polling.Limit)
	}
	if c.Polling.Buffer < 0 {
		return fmt.Errorf("polling.buffer %d must not be negative", c.Polling.Buffer)
	}
	if c.Polling.Timeout < 0 {
		return fmt.Errorf("polling.timeout %d must not be negative", c.Polling.Timeout)
	}
	// The HTTP timeout must outlast the server-side long poll.
	if c.API.RequestTimeout > 0 && c.API.RequestTimeout <= c.Polling.Timeout {
		return fmt.Errorf("api.requestTimeout (%ds) must exceed polling.timeout (%ds)",
			c.API.RequestTimeout, c.Polling.Timeout)
	}
	return nil
}
