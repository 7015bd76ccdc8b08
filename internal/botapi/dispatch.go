package botapi

import (
	"context"
	"log"
	"time"

	"github.com/dayuer/tgmux/internal/telegram"
)

// Send routes req by chat affinity and priority, performs the call and
// decodes the result.
func Send[T any](ctx context.Context, c *Client, req telegram.Request[T], chat telegram.ChatID, p Priority) (T, error) {
	httpReq, err := telegram.Build(req)
	if err != nil {
		var zero T
		return zero, &Error{Kind: KindSerialization, Op: req.Name(), Index: -1, Err: err}
	}
	idx, class := c.route(chat, p)
	return do(ctx, c, req, httpReq, idx, class)
}

// SendTimeout is Send raced against a timer. ok is false when d elapsed
// first; the call is then cancelled and its outcome discarded.
func SendTimeout[T any](ctx context.Context, c *Client, req telegram.Request[T], d time.Duration, chat telegram.ChatID, p Priority) (resp T, ok bool, err error) {
	return race(ctx, d, func(ctx context.Context) (T, error) {
		return Send(ctx, c, req, chat, p)
	})
}

// Spawn sends req in the background and drops the outcome. Cancelling ctx
// does not stop the send.
func Spawn[T any](ctx context.Context, c *Client, req telegram.Request[T], chat telegram.ChatID, p Priority) {
	ctx = context.WithoutCancel(ctx)
	go func() {
		_, _ = Send(ctx, c, req, chat, p)
	}()
}

// Receive sends req through credential index's receive binding, bypassing
// routing. Use it for calls that are not tied to a conversation.
func Receive[T any](ctx context.Context, c *Client, req telegram.Request[T], index int) (T, error) {
	httpReq, err := telegram.Build(req)
	if err != nil {
		var zero T
		return zero, &Error{Kind: KindSerialization, Op: req.Name(), Index: index, Err: err}
	}
	return do(ctx, c, req, httpReq, index, ClassReceive)
}

// ReceiveTimeout is Receive raced against a timer, like SendTimeout.
func ReceiveTimeout[T any](ctx context.Context, c *Client, req telegram.Request[T], d time.Duration, index int) (resp T, ok bool, err error) {
	return race(ctx, d, func(ctx context.Context) (T, error) {
		return Receive(ctx, c, req, index)
	})
}

func do[T any](ctx context.Context, c *Client, req telegram.Request[T], httpReq telegram.HTTPRequest, idx int, class Class) (T, error) {
	var zero T

	token, conn, err := c.registry.Get(idx, class)
	if err != nil {
		return zero, err
	}

	resp, err := conn.Do(ctx, token, httpReq)
	if err != nil {
		return zero, &Error{Kind: KindTransport, Op: httpReq.Method, Index: idx, Err: err}
	}

	out, err := req.Deserialize(resp)
	if err != nil {
		log.Printf("[BotAPI] ⚠️ %s via credential %d (%s): undecodable response (status %d): %q",
			httpReq.Method, idx, class, resp.StatusCode, resp.Body)
		return zero, &Error{Kind: KindDeserialization, Op: httpReq.Method, Index: idx, Err: err}
	}
	return out, nil
}

// race runs call against a timer of length d. Whichever finishes first
// wins; the loser is cancelled and its result is never read.
func race[T any](ctx context.Context, d time.Duration, call func(context.Context) (T, error)) (T, bool, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		v   T
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := call(ctx)
		done <- result{v, err}
	}()

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case r := <-done:
		return r.v, true, r.err
	case <-timer.C:
		var zero T
		return zero, false, nil
	}
}
