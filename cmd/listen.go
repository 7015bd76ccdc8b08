package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dayuer/tgmux/internal/redis"
	"github.com/dayuer/tgmux/internal/relay"
	"github.com/spf13/cobra"
)

var (
	listenRelay string
	listenRedis string
	listenQuiet bool
)

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Print the merged, de-duplicated update stream of all bots",
	RunE:  runListen,
}

func init() {
	listenCmd.Flags().StringVar(&listenRelay, "relay", "", "Serve updates to WebSocket clients on this address (e.g. :8090)")
	listenCmd.Flags().StringVar(&listenRedis, "redis", "", "Publish updates to Redis (redis://host:port)")
	listenCmd.Flags().BoolVarP(&listenQuiet, "quiet", "q", false, "Do not print updates to stdout")
	rootCmd.AddCommand(listenCmd)
}

func runListen(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if listenRelay != "" {
		cfg.Relay.Addr = listenRelay
	}
	if listenRedis != "" {
		cfg.Redis.URL = listenRedis
	}

	client, err := makeClient(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var hub *relay.Hub
	var relayErr <-chan error
	if cfg.Relay.Addr != "" {
		hub = relay.NewHub()
		relayErr = startRelay(ctx, cfg.Relay.Addr, cfg.Relay.Path, hub)
	}

	useRedis := redis.Init(redis.Config{
		URL:      cfg.Redis.URL,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Channel:  cfg.Redis.Channel,
	})
	defer redis.Close()

	stream := client.Stream(ctx)
	defer stream.Close()

	log.Printf("[Listen] 🚀 Polling %d bots", client.Len())
	enc := json.NewEncoder(os.Stdout)

	for {
		select {
		case err := <-relayErr:
			return fmt.Errorf("relay: %w", err)
		case u, ok := <-stream.Updates():
			if !ok {
				if err := stream.Err(); err != nil && ctx.Err() == nil {
					return err
				}
				log.Println("[Listen] Stopped")
				return nil
			}
			if !listenQuiet {
				if err := enc.Encode(u); err != nil {
					return err
				}
			}
			if hub != nil {
				hub.Broadcast(u)
			}
			if useRedis {
				redis.PublishUpdate(ctx, u)
			}
		}
	}
}


// startRelay serves hub in the background. The channel only ever carries a
// real failure; a shutdown through ctx sends nothing.
func startRelay(ctx context.Context, addr, path string, hub *relay.Hub) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		if err := relay.ListenAndServe(ctx, addr, path, hub); err != nil {
			errCh <- err
		}
	}()
	return errCh
}
