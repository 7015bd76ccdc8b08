package cmd

import (
	"fmt"

	"github.com/dayuer/tgmux/internal/config"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show tgmux configuration",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		path = config.GetConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := config.ApplyEnv(&cfg, envFile); err != nil {
		return fmt.Errorf("loading %s: %w", envFile, err)
	}

	fmt.Println("🤖 tgmux Status")
	fmt.Println()
	fmt.Printf("Config: %s\n", path)
	fmt.Printf("API: %s (http2=%v, balanceUnseen=%v)\n", cfg.API.BaseURL, cfg.API.ForceHTTP2, cfg.API.BalanceUnseen)
	fmt.Printf("Polling: timeout=%ds limit=%d\n", cfg.Polling.Timeout, cfg.Polling.Limit)

	fmt.Println("\nBots:")
	if len(cfg.Bots) == 0 {
		fmt.Println("  (none)")
	}
	for i, b := range cfg.Bots {
		label := b.Name
		if label == "" {
			label = "-"
		}
		fmt.Printf("  [%d] %s %s\n", i, maskToken(b.Token), label)
	}

	fmt.Println("\nSinks:")
	if cfg.Relay.Addr != "" {
		fmt.Printf("  WebSocket relay: ✓ %s%s\n", cfg.Relay.Addr, cfg.Relay.Path)
	}
	if cfg.Redis.URL != "" {
		fmt.Printf("  Redis: ✓ channel %s\n", cfg.Redis.Channel)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Printf("\n⚠ %v\n", err)
	}
	return nil
}
