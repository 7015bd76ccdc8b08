package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/dayuer/tgmux/internal/botapi"
	"github.com/dayuer/tgmux/internal/telegram"
	"github.com/spf13/cobra"
)

var getmeTimeout time.Duration

var getmeCmd = &cobra.Command{
	Use:   "getme",
	Short: "Call getMe on every configured bot",
	RunE:  runGetMe,
}

func init() {
	getmeCmd.Flags().DurationVar(&getmeTimeout, "timeout", 10*time.Second, "Per-bot timeout")
	rootCmd.AddCommand(getmeCmd)
}

func runGetMe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := makeClient(cfg)
	if err != nil {
		return err
	}

	failed := 0
	for i := 0; i < client.Len(); i++ {
		me, ok, err := botapi.ReceiveTimeout(commandContext(cmd), client, telegram.GetMe{}, getmeTimeout, i)
		switch {
		case err != nil:
			failed++
			fmt.Printf("  [%d] ❌ %v\n", i, err)
		case !ok:
			failed++
			fmt.Printf("  [%d] ⏱ timed out after %s\n", i, getmeTimeout)
		default:
			fmt.Printf("  [%d] ✓ @%s (id %d)\n", i, me.Username, me.ID)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d bots failed", failed, client.Len())
	}
	return nil
}

// commandContext falls back to Background when cobra runs without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
