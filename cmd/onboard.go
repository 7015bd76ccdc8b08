package cmd

import (
	"fmt"
	"os"

	"github.com/dayuer/tgmux/internal/config"
	"github.com/spf13/cobra"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard [token...]",
	Short: "Initialize tgmux configuration",
	RunE:  runOnboard,
}

func init() {
	rootCmd.AddCommand(onboardCmd)
}

func runOnboard(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		path = config.GetConfigPath()
	}

	if _, err := os.Stat(path); err == nil {
		fmt.Printf("Config already exists at %s\n", path)
		return nil
	}

	cfg := config.DefaultConfig()
	for _, tok := range args {
		cfg.Bots = append(cfg.Bots, config.BotConfig{Token: tok})
	}
	if err := config.Save(cfg, path); err != nil {
		return fmt.Errorf("creating config: %w", err)
	}
	fmt.Printf("✓ Created config at %s with %d bot(s)\n", path, len(cfg.Bots))
	if len(cfg.Bots) == 0 {
		fmt.Println("  Add tokens under \"bots\" or set TELEGRAM_BOT_TOKENS.")
	}
	return nil
}
