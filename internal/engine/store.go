package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Store is a process-wide key-value store. Entries never expire; a Set
// overwrites, last writer wins.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// MemoryStore keeps entries in process memory. Lost on restart.
type MemoryStore struct {
	m sync.Map // key → []byte
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := s.m.Load(key)
	if !ok {
		return nil, false, nil
	}
	return v.([]byte), true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	s.m.Store(key, append([]byte(nil), value...))
	return nil
}

// OpenStore picks a backend from a DSN:
//
//	""  or "memory"            in-process only
//	redis:// rediss://         Redis
//	postgres:// postgresql://  PostgreSQL
//	sqlite://<path> or <path>  SQLite file
//
// Persistent backends are fronted by an in-memory L1 holding at most l1Max
// entries for l1TTL each.
func OpenStore(ctx context.Context, dsn string, l1Max int, l1TTL time.Duration) (Store, error) {
	var (
		l2  Store
		err error
	)
	switch {
	case dsn == "" || dsn == "memory":
		slog.Info("store: in-memory only, entries are lost on restart")
		return NewMemoryStore(), nil
	case strings.HasPrefix(dsn, "redis://"), strings.HasPrefix(dsn, "rediss://"):
		l2, err = OpenRedisStore(ctx, dsn)
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		l2, err = OpenPostgresStore(ctx, dsn)
	default:
		l2, err = OpenSQLiteStore(strings.TrimPrefix(dsn, "sqlite://"))
	}
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	return NewTieredStore(l2, l1Max, l1TTL), nil
}
