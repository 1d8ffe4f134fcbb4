package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEnvHelpers(t *testing.T) {
	t.Setenv("X_STR", "hello")
	t.Setenv("X_BOOL", "false")
	t.Setenv("X_INT", "42")
	t.Setenv("X_DUR", "90s")
	t.Setenv("X_BAD_INT", "nope")
	t.Setenv("X_BAD_DUR", "nope")

	require.Equal(t, "hello", envStr("X_STR", "def"))
	require.Equal(t, "def", envStr("X_MISSING", "def"))

	require.False(t, envBool("X_BOOL", true))
	require.True(t, envBool("X_MISSING", true))

	require.Equal(t, 42, envInt("X_INT", 7))
	require.Equal(t, 7, envInt("X_BAD_INT", 7))
	require.Equal(t, 7, envInt("X_MISSING", 7))

	require.Equal(t, 90*time.Second, envDur("X_DUR", time.Minute))
	require.Equal(t, time.Minute, envDur("X_BAD_DUR", time.Minute))
}

func TestLoadRateLimitConfigClamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-5")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	require.Equal(t, 1, cfg.Capacity)
	require.Equal(t, 1, cfg.RefillTokens)
	require.Equal(t, 2*time.Second, cfg.RefillInterval)
	// TTL is raised to cover several refill intervals.
	require.Equal(t, 10*time.Second, cfg.TTL)
}

func TestParseMethods(t *testing.T) {
	m := parseMethods("get, POST ,")
	require.True(t, m["GET"])
	require.True(t, m["POST"])
	require.False(t, m["PUT"])
	require.Len(t, m, 2)
}
