// Package toolutil provides shared helper functions for go_gist MCP tools.
package toolutil

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anatolykoptev/go_gist/internal/engine"
)

// CacheKey builds a deterministic key from tool name + parameters.
func CacheKey(parts ...string) string {
	joined := strings.Join(parts, "|")
	hash := sha256.Sum256([]byte(joined))
	return fmt.Sprintf("gg:%x", hash[:12])
}

// cacheEnvelope stamps a stored tool result so readers can apply a TTL on top
// of stores that never expire entries.
type cacheEnvelope struct {
	StoredAt int64           `json:"stored_at"`
	Value    json.RawMessage `json:"value"`
}

// CacheLoadJSON tries to load a cached value of type T from store.
// Returns the decoded value and true on hit; zero value and false on miss,
// decode error or an entry older than ttl (ttl <= 0 disables expiry).
func CacheLoadJSON[T any](ctx context.Context, store engine.Store, key string, ttl time.Duration) (T, bool) {
	var zero T
	if store == nil {
		return zero, false
	}
	data, ok, err := store.Get(ctx, key)
	if err != nil || !ok {
		return zero, false
	}
	var env cacheEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return zero, false
	}
	if ttl > 0 && time.Since(time.Unix(env.StoredAt, 0)) > ttl {
		return zero, false
	}
	var out T
	if err := json.Unmarshal(env.Value, &out); err != nil {
		return zero, false
	}
	return out, true
}

// CacheStoreJSON marshals v and stores it in store. Failures are logged only.
func CacheStoreJSON[T any](ctx context.Context, store engine.Store, key string, v T) {
	if store == nil {
		return
	}
	value, err := json.Marshal(v)
	if err != nil {
		return
	}
	data, err := json.Marshal(cacheEnvelope{StoredAt: time.Now().Unix(), Value: value})
	if err != nil {
		return
	}
	if err := store.Set(ctx, key, data); err != nil {
		slog.Warn("toolutil: cache store failed", slog.String("key", key), slog.Any("err", err))
	}
}
