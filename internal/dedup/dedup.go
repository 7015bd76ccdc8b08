// Package dedup suppresses updates the server redelivers, using a bounded
// two-generation cache of identity keys.
//
// Each generation holds at most Limit keys. When the active generation grows
// past Limit the filter switches to the other generation and clears it, so at
// most about 2*Limit keys are live and the detection window is the last
// Limit..2*Limit unique keys rather than a span of time.
package dedup

import (
	"github.com/dayuer/tgmux/internal/telegram"
)

// Limit is the per-generation capacity.
const Limit = 10000

// Filter is a two-generation duplicate detector. Not safe for concurrent use.
type Filter struct {
	gens   [2]map[telegram.IdentityKey]struct{}
	active int
	limit  int
}

// New creates a filter with the default Limit.
func New() *Filter {
	return NewWithLimit(Limit)
}

// NewWithLimit creates a filter with a custom per-generation capacity.
func NewWithLimit(limit int) *Filter {
	if limit <= 0 {
		limit = Limit
	}
	return &Filter{
		gens: [2]map[telegram.IdentityKey]struct{}{
			make(map[telegram.IdentityKey]struct{}),
			make(map[telegram.IdentityKey]struct{}),
		},
		limit: limit,
	}
}

// Check reports whether key is fresh, i.e. absent from both generations.
// The key is inserted into the active generation either way, so a duplicate
// found only in the older generation is carried forward.
func (f *Filter) Check(key telegram.IdentityKey) bool {
	_, inA := f.gens[0][key]
	_, inB := f.gens[1][key]
	dup := inA || inB

	f.gens[f.active][key] = struct{}{}
	if len(f.gens[f.active]) > f.limit {
		f.active = 1 - f.active
		clear(f.gens[f.active])
	}
	return !dup
}

// Pass returns u and true when u is not a duplicate.
func (f *Filter) Pass(u telegram.Update) (telegram.Update, bool) {
	if !f.Check(u.Key()) {
		return telegram.Update{}, false
	}
	return u, true
}

// Len returns the number of keys held across both generations.
func (f *Filter) Len() int {
	return len(f.gens[0]) + len(f.gens[1])
}
