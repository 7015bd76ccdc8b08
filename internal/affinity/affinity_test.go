package affinity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dayuer/tgmux/internal/telegram"
)

func TestTracker_Empty(t *testing.T) {
	tr := NewTracker()
	assert.Nil(t, tr.Eligible(5))
	assert.Empty(t, tr.Conversations(0))
	assert.False(t, tr.Has(0, 5))
	assert.Equal(t, 0, tr.Len())
}

func TestTracker_RecordIdempotent(t *testing.T) {
	tr := NewTracker()
	tr.Record(0, 5)
	tr.Record(0, 5)
	tr.Record(0, 5)

	assert.Equal(t, 1, tr.Len())
	assert.Equal(t, []telegram.ChatID{5}, tr.Conversations(0))
	assert.True(t, tr.Has(0, 5))
}

func TestTracker_EligibleSorted(t *testing.T) {
	tr := NewTracker()
	for _, idx := range []int{7, 2, 4, 0} {
		tr.Record(idx, -100)
	}
	tr.Record(3, 1)

	assert.Equal(t, []int{0, 2, 4, 7}, tr.Eligible(-100))
	assert.Equal(t, []int{3}, tr.Eligible(1))
	assert.Nil(t, tr.Eligible(2))
}

func TestTracker_ConversationsSorted(t *testing.T) {
	tr := NewTracker()
	tr.Record(1, 30)
	tr.Record(1, -2)
	tr.Record(1, 10)

	assert.Equal(t, []telegram.ChatID{-2, 10, 30}, tr.Conversations(1))
}
