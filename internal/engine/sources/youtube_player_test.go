package sources

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatolykoptev/go_gist/internal/engine"
)

func TestPlayerReaderWindowGlobal(t *testing.T) {
	insp := &fakeInspector{globals: map[string]any{
		"ytInitialPlayerResponse": playerGlobal(map[string]any{"baseUrl": "https://x/tt", "languageCode": "en"}),
	}}
	pr := PlayerReader{Poll: engine.PollConfig{Attempts: 3}}.Read(context.Background(), insp)
	require.Len(t, pr.Tracks(), 1)
	assert.Equal(t, "en", pr.Tracks()[0].LanguageCode)
	assert.Equal(t, 1, insp.reads)
}

func TestPlayerReaderLegacyArgs(t *testing.T) {
	insp := &fakeInspector{globals: map[string]any{
		"ytplayer.config.args.player_response": `{"captions":{"playerCaptionsTracklistRenderer":{"captionTracks":[{"baseUrl":"u","kind":"asr"}]}}}`,
	}}
	pr := PlayerReader{Poll: engine.PollConfig{Attempts: 1}}.Read(context.Background(), insp)
	require.Len(t, pr.Tracks(), 1)
	assert.True(t, pr.Tracks()[0].IsASR())
}

func TestPlayerReaderInlineScript(t *testing.T) {
	script := `var ytInitialPlayerResponse = {"note":"brace } in \"string\"", 'q': 1,` +
		`"captions":{"playerCaptionsTracklistRenderer":{"captionTracks":[{"baseUrl":"https://x/tt?a=1","languageCode":"de"}]}}};var other = {};`
	insp := &fakeInspector{scripts: []string{"var x = 1;", script}}
	// The single-quoted key is not JSON, so the parse fails and nothing is returned.
	pr := PlayerReader{Poll: engine.PollConfig{Attempts: 1}}.Read(context.Background(), insp)
	assert.Empty(t, pr.Tracks())

	valid := `var ytInitialPlayerResponse = {"note":"brace } in \"string\" and 'quote'",` +
		`"captions":{"playerCaptionsTracklistRenderer":{"captionTracks":[{"baseUrl":"https://x/tt?a=1","languageCode":"de"}]}}};var other = {};`
	insp = &fakeInspector{scripts: []string{"var x = 1;", valid}}
	pr = PlayerReader{Poll: engine.PollConfig{Attempts: 1}}.Read(context.Background(), insp)
	require.Len(t, pr.Tracks(), 1)
	assert.Equal(t, "de", pr.Tracks()[0].LanguageCode)
}

func TestPlayerReaderPollsUntilReady(t *testing.T) {
	insp := &fakeInspector{
		readyAfter: 6, // two globals are read per attempt
		globals: map[string]any{
			"ytInitialPlayerResponse": playerGlobal(map[string]any{"baseUrl": "u", "languageCode": "en"}),
		},
	}
	pr := PlayerReader{Poll: engine.PollConfig{Attempts: 6}}.Read(context.Background(), insp)
	require.Len(t, pr.Tracks(), 1)
	assert.Equal(t, 7, insp.reads)
}

func TestPlayerReaderExhaustedReturnsLastRead(t *testing.T) {
	insp := &fakeInspector{globals: map[string]any{
		"ytInitialPlayerResponse": map[string]any{"playabilityStatus": map[string]any{"status": "OK"}},
	}}
	pr := PlayerReader{Poll: engine.PollConfig{Attempts: 3}}.Read(context.Background(), insp)
	require.NotNil(t, pr)
	assert.Empty(t, pr.Tracks())

	assert.Nil(t, PlayerReader{Poll: engine.PollConfig{Attempts: 2}}.Read(context.Background(), &fakeInspector{}))
}

func TestPlayerReaderHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	pr := PlayerReader{Poll: engine.PollConfig{Attempts: 6, Delay: time.Second}}.Read(ctx, &fakeInspector{})
	assert.Nil(t, pr)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}
