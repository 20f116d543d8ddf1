package engine

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultL1TTL bounds how long an L1 copy shadows L2. Shared backends (Redis,
// Postgres) see other replicas' writes once the copy expires.
const DefaultL1TTL = 30 * time.Second

// TieredStore provides 2-tier storage: L1 in-memory + L2 persistent.
// L1 is fast but lost on restart. L2 survives restarts.
type TieredStore struct {
	l1         sync.Map // key → *tierEntry
	l2         Store
	maxEntries int
	ttl        time.Duration
	now        func() time.Time
	seq        atomic.Int64
	count      atomic.Int64
}

type tierEntry struct {
	data      []byte
	seq       int64 // insertion order, used for eviction
	expiresAt time.Time
}

// NewTieredStore fronts l2 with an L1 of at most maxEntries (0 = unbounded)
// whose entries live for ttl (<= 0 = until evicted).
func NewTieredStore(l2 Store, maxEntries int, ttl time.Duration) *TieredStore {
	return &TieredStore{l2: l2, maxEntries: maxEntries, ttl: ttl, now: time.Now}
}

// Get tries L1, then L2. On L2 hit, populates L1. Expired L1 entries are
// dropped on read.
func (t *TieredStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if val, ok := t.l1.Load(key); ok {
		entry := val.(*tierEntry)
		if entry.expiresAt.IsZero() || t.now().Before(entry.expiresAt) {
			slog.Debug("store: L1 hit", slog.String("key", key))
			return entry.data, true, nil
		}
		if t.l1.CompareAndDelete(key, val) {
			t.count.Add(-1)
		}
	}

	data, ok, err := t.l2.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	slog.Debug("store: L2 hit", slog.String("key", key))
	t.storeL1(key, data)
	return data, true, nil
}

// Set writes through to L2 first; L1 is only updated when L2 accepted the value.
func (t *TieredStore) Set(ctx context.Context, key string, value []byte) error {
	if err := t.l2.Set(ctx, key, value); err != nil {
		return err
	}
	t.storeL1(key, value)
	return nil
}

func (t *TieredStore) storeL1(key string, data []byte) {
	entry := &tierEntry{data: data, seq: t.seq.Add(1)}
	if t.ttl > 0 {
		entry.expiresAt = t.now().Add(t.ttl)
	}
	if _, exists := t.l1.Load(key); !exists {
		t.evictIfNeeded()
	}
	if _, loaded := t.l1.Swap(key, entry); !loaded {
		t.count.Add(1)
	}
}

// evictIfNeeded drops the oldest L1 entries until there is room for one more.
// L2 keeps everything, so an evicted key is still readable.
func (t *TieredStore) evictIfNeeded() {
	if t.maxEntries <= 0 {
		return
	}
	for t.count.Load() >= int64(t.maxEntries) {
		var (
			oldestKey any
			oldestSeq int64 = -1
		)
		t.l1.Range(func(key, val any) bool {
			e := val.(*tierEntry)
			if oldestSeq < 0 || e.seq < oldestSeq {
				oldestKey, oldestSeq = key, e.seq
			}
			return true
		})
		if oldestKey == nil {
			return
		}
		if _, loaded := t.l1.LoadAndDelete(oldestKey); loaded {
			t.count.Add(-1)
		}
	}
}

// l1Len reports the number of L1 entries.
func (t *TieredStore) l1Len() int {
	return int(t.count.Load())
}
