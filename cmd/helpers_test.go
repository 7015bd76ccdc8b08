package cmd

import (
	"testing"
	"time"

	"github.com/dayuer/tgmux/internal/botapi"
	"github.com/dayuer/tgmux/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriority(t *testing.T) {
	cases := map[string]botapi.Priority{
		"":              botapi.LowPriority,
		"low":           botapi.LowPriority,
		"HIGH":          botapi.HighPriority,
		"deterministic": botapi.Deterministic,
		"det":           botapi.Deterministic,
	}
	for in, want := range cases {
		got, err := parsePriority(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := parsePriority("urgent")
	assert.Error(t, err)
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "123456:***", maskToken("123456:ABC-secret"))
	assert.Equal(t, "abcd***", maskToken("abcdefgh"))
	assert.Equal(t, "***", maskToken("ab"))
}

func TestClientConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.API.RequestTimeout = 45
	cfg.API.BalanceUnseen = true
	cfg.Polling.Timeout = 20
	cfg.Polling.AllowedUpdates = []string{"message"}

	got := clientConfig(cfg)
	assert.Equal(t, cfg.API.BaseURL, got.HTTP.BaseURL)
	assert.Equal(t, 45*time.Second, got.HTTP.Timeout)
	assert.True(t, got.BalanceUnseen)
	assert.Equal(t, 20*time.Second, got.Poll.Timeout)
	assert.Equal(t, cfg.Polling.Limit, got.Poll.Limit)
	assert.Equal(t, []string{"message"}, got.Poll.AllowedUpdates)
}

func TestMakeClient(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Bots = []config.BotConfig{{Token: "1:a"}, {Token: "2:b"}}

	c, err := makeClient(cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
}
