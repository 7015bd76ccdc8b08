package botapi

import (
	"context"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dayuer/tgmux/internal/dedup"
	"github.com/dayuer/tgmux/internal/telegram"
)

// taggedUpdate is an update together with the credential that received it.
type taggedUpdate struct {
	index  int
	update telegram.Update
}

// Stream is the merged, de-duplicated update feed of every credential.
//
// Updates from one credential arrive in server order; across credentials the
// interleaving is whatever arrives first. A failure of any credential's long
// poll ends the whole stream: Updates is closed and Err reports the cause.
// Open a new Stream to recover.
type Stream struct {
	updates chan telegram.Update
	cancel  context.CancelFunc
	done    chan struct{}
	pollers *errgroup.Group

	mu  sync.Mutex
	err error
}

// Stream starts one long poll per credential and returns the merged feed.
// Each call is independent, with its own offsets and duplicate filter.
func (c *Client) Stream(ctx context.Context) *Stream {
	ctx, cancel := context.WithCancel(ctx)
	s := &Stream{
		updates: make(chan telegram.Update),
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	// The group cancels pctx on the first poller error, after fail has
	// recorded it.
	g, pctx := errgroup.WithContext(ctx)
	s.pollers = g

	merged := make(chan taggedUpdate, c.poll.Buffer)
	for i := 0; i < c.registry.Len(); i++ {
		idx := i
		g.Go(func() error {
			err := c.pollLoop(pctx, idx, merged)
			if err != nil {
				log.Printf("[Stream] ❌ credential %d long poll failed: %v", idx, err)
				s.fail(err)
			}
			return err
		})
	}
	go func() {
		g.Wait()
		close(merged)
	}()

	go s.consume(pctx, c, merged, dedup.New())
	return s
}

// Updates returns the feed. It is closed when the stream ends.
func (s *Stream) Updates() <-chan telegram.Update {
	return s.updates
}

// Err returns the long-poll failure that ended the stream, or nil if it was
// stopped by Close or context cancellation. Only meaningful once Updates is
// closed.
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close stops every long poll and waits for them and the feed to finish.
func (s *Stream) Close() {
	s.cancel()
	<-s.done
	s.pollers.Wait()
}

func (s *Stream) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.err = err
	}
}

// consume records affinity for every tagged update, then forwards the ones
// the filter has not seen. The filter is owned by this goroutine.
func (s *Stream) consume(ctx context.Context, c *Client, merged <-chan taggedUpdate, filter *dedup.Filter) {
	defer close(s.done)
	defer close(s.updates)

	for {
		select {
		case <-ctx.Done():
			return
		case t, ok := <-merged:
			if !ok {
				return
			}
			c.observe(t.index, t.update.Conversation())

			u, fresh := filter.Pass(t.update)
			if !fresh {
				continue
			}
			select {
			case s.updates <- u:
			case <-ctx.Done():
				return
			}
		}
	}
}

// pollLoop long-polls getUpdates on credential idx, advancing the offset past
// every update it hands on. It returns nil when ctx is cancelled.
func (c *Client) pollLoop(ctx context.Context, idx int, out chan<- taggedUpdate) error {
	req := telegram.GetUpdates{
		Limit:          c.poll.Limit,
		Timeout:        int(c.poll.Timeout.Seconds()),
		AllowedUpdates: c.poll.AllowedUpdates,
	}

	for {
		batch, err := Receive(ctx, c, req, idx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		for _, u := range batch {
			if u.ID >= req.Offset {
				req.Offset = u.ID + 1
			}
			select {
			case out <- taggedUpdate{index: idx, update: u}:
			case <-ctx.Done():
				return nil
			}
		}
	}
}
