// Package affinity records which credentials have seen which conversations,
// so replies can be routed through a credential that already talks to the
// chat.
//
// The table only grows. Its size is bounded by the number of distinct
// conversations ever observed, for the lifetime of the client.
package affinity

import (
	"sort"

	"github.com/dayuer/tgmux/internal/telegram"
)

// Tracker maps credential index → set of conversations seen on that
// credential's receive stream. It is not safe for concurrent use; the owning
// client serializes access.
type Tracker struct {
	rooms map[int]map[telegram.ChatID]struct{}
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{rooms: make(map[int]map[telegram.ChatID]struct{})}
}

// Record notes that credential index observed chat. Idempotent.
func (t *Tracker) Record(index int, chat telegram.ChatID) {
	set, ok := t.rooms[index]
	if !ok {
		set = make(map[telegram.ChatID]struct{})
		t.rooms[index] = set
	}
	set[chat] = struct{}{}
}

// Eligible returns, in ascending order, the credential indices that have
// observed chat. Nil when the chat is unseen.
func (t *Tracker) Eligible(chat telegram.ChatID) []int {
	var out []int
	for idx, set := range t.rooms {
		if _, ok := set[chat]; ok {
			out = append(out, idx)
		}
	}
	sort.Ints(out)
	return out
}

// Has reports whether credential index has observed chat.
func (t *Tracker) Has(index int, chat telegram.ChatID) bool {
	_, ok := t.rooms[index][chat]
	return ok
}

// Conversations lists the chats credential index has observed, ascending.
func (t *Tracker) Conversations(index int) []telegram.ChatID {
	set := t.rooms[index]
	out := make([]telegram.ChatID, 0, len(set))
	for chat := range set {
		out = append(out, chat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Len returns the total number of (index, chat) associations.
func (t *Tracker) Len() int {
	n := 0
	for _, set := range t.rooms {
		n += len(set)
	}
	return n
}
