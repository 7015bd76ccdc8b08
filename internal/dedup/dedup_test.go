package dedup

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dayuer/tgmux/internal/telegram"
)

func key(i int) telegram.IdentityKey {
	return telegram.IdentityKey{Chat: 1, Message: strconv.Itoa(i)}
}

func TestFilter_ImmediateDuplicate(t *testing.T) {
	f := New()
	assert.True(t, f.Check(key(1)))
	assert.False(t, f.Check(key(1)))
	assert.True(t, f.Check(key(2)))
}

func TestFilter_SameMessageDifferentChat(t *testing.T) {
	f := New()
	assert.True(t, f.Check(telegram.IdentityKey{Chat: 1, Message: "1"}))
	assert.True(t, f.Check(telegram.IdentityKey{Chat: 2, Message: "1"}))
}

func TestFilter_RotationKeepsPreviousGeneration(t *testing.T) {
	f := New()
	for i := 1; i <= Limit+1; i++ {
		assert.True(t, f.Check(key(i)))
	}
	// The first generation overflowed and became inactive, but it is not
	// cleared until the next rotation, so the first key is still known.
	assert.Equal(t, 1, f.active)
	assert.False(t, f.Check(key(1)))
}

func TestFilter_SecondRotationForgetsOldest(t *testing.T) {
	f := New()
	for i := 1; i <= 2*(Limit+1); i++ {
		assert.True(t, f.Check(key(i)))
	}
	assert.Equal(t, 0, f.active)
	assert.Equal(t, 0, len(f.gens[0]))
	assert.True(t, f.Check(key(1)), "oldest key should have been rotated out")
	assert.False(t, f.Check(key(2*(Limit+1))), "newest key is still in the previous generation")
}

func TestFilter_BoundedMemory(t *testing.T) {
	f := NewWithLimit(10)
	for i := 0; i < 1000; i++ {
		f.Check(key(i))
		assert.LessOrEqual(t, f.Len(), 2*10+1)
	}
}

func TestFilter_DuplicateRefreshedIntoActiveGeneration(t *testing.T) {
	f := NewWithLimit(2)
	f.Check(key(1))
	f.Check(key(2))
	f.Check(key(3)) // gen0 = {1,2,3} → rotate to gen1
	assert.False(t, f.Check(key(1)))
	_, refreshed := f.gens[1][key(1)]
	assert.True(t, refreshed)

	f.Check(key(4))
	f.Check(key(5)) // gen1 = {1,4,5} → rotate, gen0 cleared
	assert.False(t, f.Check(key(1)), "refreshed key survives the clear of its original generation")
	assert.True(t, f.Check(key(2)))
}

func TestFilter_Pass(t *testing.T) {
	f := New()
	u := telegram.Update{ID: 1, Message: &telegram.Message{MessageID: 1, Chat: telegram.Chat{ID: 5}}}

	got, ok := f.Pass(u)
	assert.True(t, ok)
	assert.Equal(t, u, got)

	redelivered := u
	redelivered.ID = 2
	_, ok = f.Pass(redelivered)
	assert.False(t, ok)
}

func TestNewWithLimit_NonPositive(t *testing.T) {
	assert.Equal(t, Limit, NewWithLimit(0).limit)
	assert.Equal(t, Limit, NewWithLimit(-5).limit)
}
