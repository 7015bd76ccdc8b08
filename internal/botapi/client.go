// Package botapi is a Bot API client that spreads requests over several bot
// tokens and merges their update feeds.
//
// Outbound requests are routed by conversation affinity: a reply goes out
// through a credential whose long poll has already seen the chat. Inbound,
// one long poll per credential feeds a single stream with redelivered
// updates removed.
//
//	c, err := botapi.BuildMulti(tokens, botapi.Config{})
//	s := c.Stream(ctx)
//	for u := range s.Updates() {
//		botapi.Spawn(ctx, c, u.Message.Chat.ID.Text("pong"), u.Conversation(), botapi.LowPriority)
//	}
package botapi

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/dayuer/tgmux/internal/affinity"
	"github.com/dayuer/tgmux/internal/connector"
	"github.com/dayuer/tgmux/internal/telegram"
)

// Priority picks the send binding and the routing rule for a request.
type Priority int

const (
	// LowPriority round-robins over credentials that have seen the chat,
	// using the low-priority binding.
	LowPriority Priority = iota
	// HighPriority round-robins like LowPriority with its own counter and
	// the high-priority binding.
	HighPriority
	// Deterministic always picks the lowest-indexed credential that has
	// seen the chat, using the low-priority binding.
	Deterministic
)

func (p Priority) String() string {
	switch p {
	case LowPriority:
		return "low"
	case HighPriority:
		return "high"
	case Deterministic:
		return "deterministic"
	default:
		return fmt.Sprintf("priority(%d)", int(p))
	}
}

// PollConfig tunes the per-credential long polls behind Stream.
type PollConfig struct {
	Timeout        time.Duration // Server-side long-poll wait (default 30s)
	Limit          int           // Updates per batch, 1..100 (default 100)
	AllowedUpdates []string      // Update kinds to request (nil = server default)
	Buffer         int           // Merged channel buffer (default 100)
}

// Config configures BuildMulti.
type Config struct {
	// Connector builds every connector. Nil uses the HTTP connector with
	// the HTTP options below.
	Connector connector.Factory
	HTTP      connector.HTTPOptions

	// BalanceUnseen round-robins over all credentials when no credential
	// has seen the chat yet. Off by default: unseen chats go to index 0.
	BalanceUnseen bool

	Poll PollConfig
}

// Client routes requests across credentials. Safe for concurrent use.
type Client struct {
	registry      *Registry // immutable after BuildMulti
	poll          PollConfig
	balanceUnseen bool

	// mu guards everything below; it is the single writer lock for the
	// routing state shared by requests and streams.
	mu       sync.Mutex
	affinity *affinity.Tracker
	rr       uint64
	rrHigh   uint64
}

// BuildMulti registers every token and returns the client. Any connector
// construction failure aborts with a KindConfiguration error.
func BuildMulti(tokens []string, cfg Config) (*Client, error) {
	if len(tokens) == 0 {
		return nil, &Error{Kind: KindConfiguration, Op: "build", Err: fmt.Errorf("no tokens")}
	}

	factory := cfg.Connector
	if factory == nil {
		factory = cfg.HTTP.Factory()
	}

	reg := NewRegistry()
	for _, tok := range tokens {
		if _, err := reg.Register(tok, factory); err != nil {
			return nil, err
		}
	}

	poll := cfg.Poll
	if poll.Timeout == 0 {
		poll.Timeout = 30 * time.Second
	}
	if poll.Limit == 0 {
		poll.Limit = telegram.MaxUpdatesLimit
	}
	if poll.Buffer <= 0 {
		poll.Buffer = 100
	}

	log.Printf("[BotAPI] %d credentials registered", reg.Len())

	return &Client{
		registry:      reg,
		poll:          poll,
		balanceUnseen: cfg.BalanceUnseen,
		affinity:      affinity.NewTracker(),
	}, nil
}

// Len returns the number of credentials.
func (c *Client) Len() int {
	return c.registry.Len()
}

// Conversations returns the chats credential index has observed.
func (c *Client) Conversations(index int) []telegram.ChatID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.affinity.Conversations(index)
}

// observe records that credential index received an update for chat.
func (c *Client) observe(index int, chat telegram.ChatID) {
	c.mu.Lock()
	c.affinity.Record(index, chat)
	c.mu.Unlock()
}

// route picks the credential index and binding for a request to chat.
func (c *Client) route(chat telegram.ChatID, p Priority) (int, Class) {
	class := ClassLow
	if p == HighPriority {
		class = ClassHigh
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	eligible := c.affinity.Eligible(chat)
	if p == Deterministic {
		if len(eligible) > 0 {
			return eligible[0], class
		}
		return 0, class
	}

	counter := &c.rr
	if p == HighPriority {
		counter = &c.rrHigh
	}
	if len(eligible) == 0 {
		if !c.balanceUnseen {
			return 0, class
		}
		*counter++
		return int(*counter % uint64(c.registry.Len())), class
	}
	*counter++
	return eligible[*counter%uint64(len(eligible))], class
}
