package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/dayuer/tgmux/internal/botapi"
	"github.com/dayuer/tgmux/internal/config"
	"github.com/dayuer/tgmux/internal/connector"
)

// loadConfig reads the config file, applies environment overrides and
// validates the result.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, fmt.Errorf("loading config: %w", err)
	}
	if err := config.ApplyEnv(&cfg, envFile); err != nil {
		return cfg, fmt.Errorf("loading %s: %w", envFile, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// clientConfig maps the file config onto the client's options.
func clientConfig(cfg config.Config) botapi.Config {
	return botapi.Config{
		HTTP: connector.HTTPOptions{
			BaseURL:    cfg.API.BaseURL,
			Timeout:    time.Duration(cfg.API.RequestTimeout) * time.Second,
			ForceHTTP2: cfg.API.ForceHTTP2,
		},
		BalanceUnseen: cfg.API.BalanceUnseen,
		Poll: botapi.PollConfig{
			Timeout:        time.Duration(cfg.Polling.Timeout) * time.Second,
			Limit:          cfg.Polling.Limit,
			AllowedUpdates: cfg.Polling.AllowedUpdates,
			Buffer:         cfg.Polling.Buffer,
		},
	}
}

// makeClient builds the multi-token client from the loaded config.
func makeClient(cfg config.Config) (*botapi.Client, error) {
	return botapi.BuildMulti(cfg.Tokens(), clientConfig(cfg))
}

// parsePriority maps a --priority flag value.
func parsePriority(s string) (botapi.Priority, error) {
	switch strings.ToLower(s) {
	case "", "low":
		return botapi.LowPriority, nil
	case "high":
		return botapi.HighPriority, nil
	case "deterministic", "det":
		return botapi.Deterministic, nil
	default:
		return 0, fmt.Errorf("unknown priority %q (want low, high or deterministic)", s)
	}
}

// maskToken hides the secret half of a bot token ("123456:ABC..." → "123456:***").
func maskToken(tok string) string {
	if i := strings.IndexByte(tok, ':'); i >= 0 {
		return tok[:i] + ":***"
	}
	if len(tok) > 4 {
		return tok[:4] + "***"
	}
	return "***"
}
