package botapi

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dayuer/tgmux/internal/connector"
	"github.com/dayuer/tgmux/internal/telegram"
)

// recordedCall is one connector invocation seen by fakeBot.
type recordedCall struct {
	index  int
	class  Class
	token  string
	method string
	body   []byte
}

// fakeBot is an in-memory Bot API. Connectors are numbered in creation
// order, which BuildMulti makes (credential, class) = (n/3, n%3).
type fakeBot struct {
	mu       sync.Mutex
	next     int
	calls    []recordedCall
	feeds    map[string]chan []telegram.Update
	pollErr  map[string]error
	respond  func(method string, body []byte) (telegram.HTTPResponse, error)
	blocking bool // non-poll calls wait for ctx cancellation
}

func newFakeBot() *fakeBot {
	return &fakeBot{
		feeds:   make(map[string]chan []telegram.Update),
		pollErr: make(map[string]error),
		respond: func(method string, body []byte) (telegram.HTTPResponse, error) {
			switch method {
			case "sendMessage":
				var req telegram.SendMessage
				json.Unmarshal(body, &req)
				return okResponse(telegram.Message{MessageID: 1, Chat: telegram.Chat{ID: req.ChatID}, Text: req.Text}), nil
			case "getMe":
				return okResponse(telegram.User{ID: 1, IsBot: true, Username: "fake_bot"}), nil
			default:
				return okResponse(true), nil
			}
		},
	}
}

func okResponse(v any) telegram.HTTPResponse {
	result, _ := json.Marshal(v)
	body, _ := json.Marshal(map[string]any{"ok": true, "result": json.RawMessage(result)})
	return telegram.HTTPResponse{StatusCode: 200, Body: body}
}

func (f *fakeBot) feed(token string) chan []telegram.Update {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.feeds[token]
	if !ok {
		ch = make(chan []telegram.Update, 16)
		f.feeds[token] = ch
	}
	return ch
}

func (f *fakeBot) push(token string, updates ...telegram.Update) {
	f.feed(token) <- updates
}

func (f *fakeBot) factory() connector.Factory {
	return func() (connector.Connector, error) {
		f.mu.Lock()
		n := f.next
		f.next++
		f.mu.Unlock()

		return connector.Func(func(ctx context.Context, token string, req telegram.HTTPRequest) (telegram.HTTPResponse, error) {
			f.mu.Lock()
			f.calls = append(f.calls, recordedCall{index: n / 3, class: Class(n % 3), token: token, method: req.Method, body: req.Body})
			pollErr := f.pollErr[token]
			blocking := f.blocking
			f.mu.Unlock()

			if req.Method == "getUpdates" {
				if pollErr != nil {
					return telegram.HTTPResponse{}, pollErr
				}
				select {
				case batch := <-f.feed(token):
					return okResponse(batch), nil
				case <-ctx.Done():
					return telegram.HTTPResponse{}, ctx.Err()
				}
			}
			if blocking {
				<-ctx.Done()
				return telegram.HTTPResponse{}, ctx.Err()
			}
			return f.respond(req.Method, req.Body)
		}), nil
	}
}

// sent returns the recorded calls for method.
func (f *fakeBot) sent(method string) []recordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []recordedCall
	for _, c := range f.calls {
		if c.method == method {
			out = append(out, c)
		}
	}
	return out
}

func newTestClient(t *testing.T, f *fakeBot, tokens ...string) *Client {
	t.Helper()
	c, err := BuildMulti(tokens, Config{Connector: f.factory(), Poll: PollConfig{Timeout: time.Second}})
	require.NoError(t, err)
	return c
}

func textUpdate(id int64, chat telegram.ChatID, msgID int64) telegram.Update {
	return telegram.Update{ID: id, Message: &telegram.Message{MessageID: msgID, Chat: telegram.Chat{ID: chat}, Text: "hi"}}
}

// next reads one update from s or fails the test.
func next(t *testing.T, s *Stream) telegram.Update {
	t.Helper()
	select {
	case u, ok := <-s.Updates():
		require.True(t, ok, "stream closed: %v", s.Err())
		return u
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for update")
		return telegram.Update{}
	}
}

var errBoom = errors.New("boom")
