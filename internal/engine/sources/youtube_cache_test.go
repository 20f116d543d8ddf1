package sources

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatolykoptev/go_gist/internal/engine"
)

type brokenStore struct{}

func (brokenStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("read failed")
}

func (brokenStore) Set(context.Context, string, []byte) error { return errors.New("write failed") }

func TestTranscriptCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := engine.NewMemoryStore()
	cache := TranscriptCache{Store: store}

	_, ok := cache.Load(ctx, "abc")
	assert.False(t, ok)

	cues := []engine.Cue{{Text: "a", StartTime: 0, EndTime: 1}}
	saved := cache.Save(ctx, "abc", cues, "en")
	assert.False(t, saved.Truncated)

	got, ok := cache.Load(ctx, "abc")
	require.True(t, ok)
	assert.Equal(t, saved, got)

	raw, ok, err := store.Get(ctx, "yt_transcript_abc")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"cues":[{"text":"a","startTime":0,"endTime":1}],"lang":"en","truncated":false}`, string(raw))
}

func TestTranscriptCacheIgnoresEmptyEntries(t *testing.T) {
	ctx := context.Background()
	store := engine.NewMemoryStore()
	require.NoError(t, store.Set(ctx, TranscriptCacheKey("v"), []byte(`{"cues":[],"truncated":false}`)))
	require.NoError(t, store.Set(ctx, TranscriptCacheKey("w"), []byte(`not json`)))

	cache := TranscriptCache{Store: store}
	_, ok := cache.Load(ctx, "v")
	assert.False(t, ok)
	_, ok = cache.Load(ctx, "w")
	assert.False(t, ok)
}

func TestTranscriptCacheTruncates(t *testing.T) {
	ctx := context.Background()
	cache := TranscriptCache{Store: engine.NewMemoryStore()}

	text := strings.Repeat("é", 1000) // runes, not bytes, are counted
	cues := make([]engine.Cue, 200)
	for i := range cues {
		cues[i] = engine.Cue{Text: text, StartTime: i, EndTime: i + 1}
	}
	saved := cache.Save(ctx, "big", cues, "fr")
	assert.True(t, saved.Truncated)
	assert.Len(t, saved.Cues, MaxCachedChars/1000)

	got, ok := cache.Load(ctx, "big")
	require.True(t, ok)
	assert.True(t, got.Truncated)
	assert.Less(t, len(got.Cues), len(cues))
}

func TestTranscriptCacheStoreErrors(t *testing.T) {
	ctx := context.Background()
	cache := TranscriptCache{Store: brokenStore{}}
	_, ok := cache.Load(ctx, "x")
	assert.False(t, ok)
	res := cache.Save(ctx, "x", []engine.Cue{{Text: "a"}}, "en")
	assert.Len(t, res.Cues, 1)
}
