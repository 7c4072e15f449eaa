//go:build unit

package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"parking-orchestrator/internal/pkg/config"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeScripter answers EvalSha with a canned result and records the call.
type fakeScripter struct {
	result any
	err    error
	keys   []string
	args   []any
}

func (f *fakeScripter) Eval(ctx context.Context, _ string, keys []string, args ...any) *redis.Cmd {
	return f.EvalSha(ctx, "", keys, args...)
}

func (f *fakeScripter) EvalSha(_ context.Context, _ string, keys []string, args ...any) *redis.Cmd {
	f.keys = keys
	f.args = args
	return redis.NewCmdResult(f.result, f.err)
}

func (f *fakeScripter) EvalRO(ctx context.Context, script string, keys []string, args ...any) *redis.Cmd {
	return f.Eval(ctx, script, keys, args...)
}

func (f *fakeScripter) EvalShaRO(ctx context.Context, sha1 string, keys []string, args ...any) *redis.Cmd {
	return f.EvalSha(ctx, sha1, keys, args...)
}

func (f *fakeScripter) ScriptExists(ctx context.Context, _ ...string) *redis.BoolSliceCmd {
	return redis.NewBoolSliceResult([]bool{true}, nil)
}

func (f *fakeScripter) ScriptLoad(ctx context.Context, _ string) *redis.StringCmd {
	return redis.NewStringResult("sha", nil)
}

func testConfig() config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled:        true,
		Capacity:       10,
		RefillTokens:   1,
		RefillInterval: 6 * time.Second,
		TTL:            10 * time.Minute,
		Prefix:         "rl:booking",
	}
}

func TestTokenBucket_Take(t *testing.T) {
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

	t.Run("allowed", func(t *testing.T) {
		rdb := &fakeScripter{result: []any{int64(1), int64(9), int64(0)}}
		b := NewTokenBucket(rdb, testConfig())
		b.now = func() time.Time { return now }

		d, err := b.Take(context.Background(), "user:abc")
		require.NoError(t, err)

		assert.True(t, d.Allowed)
		assert.Equal(t, 10, d.Limit)
		assert.Equal(t, int64(9), d.Remaining)
		assert.Equal(t, []string{"rl:booking:user:abc"}, rdb.keys)
		assert.Equal(t, []any{now.UnixMilli(), 10, 1, int64(6000), int64(600)}, rdb.args)
	})

	t.Run("blocked", func(t *testing.T) {
		rdb := &fakeScripter{result: []any{int64(0), int64(0), int64(4200)}}
		d, err := NewTokenBucket(rdb, testConfig()).Take(context.Background(), "user:abc")
		require.NoError(t, err)

		assert.False(t, d.Allowed)
		assert.Equal(t, 4200*time.Millisecond, d.RetryAfter)
	})

	t.Run("redis error", func(t *testing.T) {
		rdb := &fakeScripter{err: errors.New("connection refused")}
		_, err := NewTokenBucket(rdb, testConfig()).Take(context.Background(), "user:abc")
		assert.Error(t, err)
	})

	t.Run("malformed result", func(t *testing.T) {
		rdb := &fakeScripter{result: []any{int64(1)}}
		_, err := NewTokenBucket(rdb, testConfig()).Take(context.Background(), "user:abc")
		assert.Error(t, err)
	})
}
