package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read by ApplyEnv.
const (
	EnvTokens    = "TELEGRAM_BOT_TOKENS" // comma-separated, replaces bots
	EnvBaseURL   = "TGMUX_BASE_URL"
	EnvRedisURL  = "TGMUX_REDIS_URL"
	EnvRelayAddr = "TGMUX_RELAY_ADDR"
)

// GetConfigPath returns the default config file path (~/.tgmux/config.json).
func GetConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".tgmux", "config.json")
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// Load reads configuration from a JSON or YAML file (chosen by extension).
// If path is empty, uses the default config path.
// If the file doesn't exist, returns DefaultConfig().
func Load(path string) (Config, error) {
	if path == "" {
		path = GetConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return Config{}, err
	}

	cfg := DefaultConfig() // start with defaults so zero-value fields get filled
	if isYAML(path) {
		err = yaml.Unmarshal(data, &cfg)
	} else {
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return DefaultConfig(), err
	}
	return cfg, nil
}

// Save writes configuration to a JSON or YAML file.
// If path is empty, uses the default config path.
func Save(cfg Config, path string) error {
	if path == "" {
		path = GetConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(cfg)
	} else {
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return err
	}
	// Tokens are secrets.
	return os.WriteFile(path, data, 0600)
}

// ApplyEnv loads envFile (if it exists; empty means ".env") into the process
// environment, then overrides cfg from the TGMUX_* / TELEGRAM_BOT_TOKENS
// variables. Variables already set in the environment win over the file.
func ApplyEnv(cfg *Config, envFile string) error {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		return err
	}

	if raw := os.Getenv(EnvTokens); raw != "" {
		var bots []BotConfig
		for _, tok := range strings.Split(raw, ",") {
			if tok = strings.TrimSpace(tok); tok != "" {
				bots = append(bots, BotConfig{Token: tok})
			}
		}
		cfg.Bots = bots
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv(EnvRedisURL); v != "" {
		cfg.Redis.URL = v
	}
	if v := os.Getenv(EnvRelayAddr); v != "" {
		cfg.Relay.Addr = v
	}
	return nil
}
