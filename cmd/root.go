package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "dev"

var (
	configPath string
	envFile    string
)

var rootCmd = &cobra.Command{
	Use:   "tgmux",
	Short: "tgmux: multi-token Telegram Bot API client",
	Long: "tgmux balances Bot API requests across several bot tokens and merges\n" +
		"their long-poll update feeds into one de-duplicated stream.",
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = Version
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (.json or .yaml; default ~/.tgmux/config.json)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "dotenv file loaded before reading TELEGRAM_BOT_TOKENS / TGMUX_*")
}
