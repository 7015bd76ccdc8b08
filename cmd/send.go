package cmd

import (
	"errors"
	"fmt"

	"github.com/dayuer/tgmux/internal/botapi"
	"github.com/dayuer/tgmux/internal/telegram"
	"github.com/spf13/cobra"
)

var (
	sendChat      int64
	sendText      string
	sendPriority  string
	sendParseMode string
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a text message through the balanced client",
	RunE:  runSend,
}

func init() {
	sendCmd.Flags().Int64Var(&sendChat, "chat", 0, "Target chat id")
	sendCmd.Flags().StringVarP(&sendText, "text", "m", "", "Message text")
	sendCmd.Flags().StringVarP(&sendPriority, "priority", "p", "low", "low, high or deterministic")
	sendCmd.Flags().StringVar(&sendParseMode, "parse-mode", "", "Telegram parse_mode (HTML, MarkdownV2)")
	sendCmd.MarkFlagRequired("chat")
	sendCmd.MarkFlagRequired("text")
	rootCmd.AddCommand(sendCmd)
}

func runSend(cmd *cobra.Command, args []string) error {
	prio, err := parsePriority(sendPriority)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := makeClient(cfg)
	if err != nil {
		return err
	}

	chat := telegram.ChatID(sendChat)
	req := chat.Text(sendText)
	req.ParseMode = sendParseMode

	msg, err := botapi.Send(commandContext(cmd), client, req, chat, prio)
	if err != nil {
		var apiErr *telegram.APIError
		if errors.As(err, &apiErr) {
			return fmt.Errorf("telegram rejected message: %s (code %d)", apiErr.Description, apiErr.Code)
		}
		return err
	}
	fmt.Printf("✓ Sent message %d to chat %s (%s)\n", msg.MessageID, chat, prio)
	return nil
}
