// Package redis publishes the merged update feed to a Redis pub/sub channel
// so other processes can consume it.
//
// Graceful fallback: if Redis is unavailable, publishing silently returns
// false instead of blocking the update loop.
package redis

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dayuer/tgmux/internal/telegram"
)

// DefaultChannel is the pub/sub channel used when Config.Channel is empty.
const DefaultChannel = "tgmux:updates"

// Config holds the publisher's connection and channel settings.
type Config struct {
	URL      string // redis://host:port
	Password string
	DB       int
	Channel  string
}

var (
	mu      sync.RWMutex
	client  *redis.Client
	channel string
)

// Init connects the update publisher. It returns false, leaving publishing
// disabled, when no URL is set or the server does not answer a ping.
func Init(cfg Config) bool {
	if cfg.URL == "" {
		log.Println("[Redis] URL not configured, update publishing off")
		return false
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		log.Printf("[Redis] ❌ Invalid URL: %v", err)
		return false
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opts.DB = cfg.DB
	}
	// Publishes run on the update path.
	opts.DialTimeout = 5 * time.Second
	opts.WriteTimeout = 2 * time.Second
	opts.MaxRetries = 1

	c := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		log.Printf("[Redis] ❌ Connection failed: %v", err)
		c.Close()
		return false
	}

	ch := cfg.Channel
	if ch == "" {
		ch = DefaultChannel
	}

	mu.Lock()
	client, channel = c, ch
	mu.Unlock()

	log.Printf("[Redis] ✅ Publishing updates to channel %q", ch)
	return true
}

// Close stops publishing and releases the connection.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if client == nil {
		return
	}
	client.Close()
	client, channel = nil, ""
	log.Println("[Redis] Publisher closed")
}

// Client returns the connected client, or nil.
func Client() *redis.Client {
	mu.RLock()
	defer mu.RUnlock()
	return client
}

// Channel returns the channel updates are published to, or "" when
// publishing is off.
func Channel() string {
	mu.RLock()
	defer mu.RUnlock()
	return channel
}

// IsAvailable reports whether updates are being published.
func IsAvailable() bool {
	return Client() != nil
}

// Envelope is the message published for every update.
type Envelope struct {
	Kind         telegram.Kind   `json:"kind"`
	Conversation telegram.ChatID `json:"conversation"`
	Update       telegram.Update `json:"update"`
}

// NewEnvelope wraps u for publishing.
func NewEnvelope(u telegram.Update) Envelope {
	return Envelope{Kind: u.Kind(), Conversation: u.Conversation(), Update: u}
}

// PublishUpdate publishes u on the configured channel. Returns false if
// publishing is off or the publish failed.
func PublishUpdate(ctx context.Context, u telegram.Update) bool {
	mu.RLock()
	c, ch := client, channel
	mu.RUnlock()
	if c == nil {
		return false
	}
	data, err := json.Marshal(NewEnvelope(u))
	if err != nil {
		log.Printf("[Redis] publish marshal failed (update %d): %v", u.ID, err)
		return false
	}
	if err := c.Publish(ctx, ch, data).Err(); err != nil {
		log.Printf("[Redis] publish to %s failed: %v", ch, err)
		return false
	}
	return true
}
