package sources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectCaptionTrack(t *testing.T) {
	frManual := CaptionTrack{BaseURL: "u1", LanguageCode: "fr"}
	enASR := CaptionTrack{BaseURL: "u2", LanguageCode: "en", Kind: "asr"}
	enManual := CaptionTrack{BaseURL: "u3", LanguageCode: "en"}
	deASR := CaptionTrack{BaseURL: "u4", LanguageCode: "de", Kind: "asr"}

	tests := []struct {
		name   string
		tracks []CaptionTrack
		langs  []string
		want   string
	}{
		{"manual beats matching asr", []CaptionTrack{frManual, enASR, enManual}, []string{"en"}, "u3"},
		{"first manual without match", []CaptionTrack{enASR, frManual}, []string{"ja"}, "u1"},
		{"manual beats asr match", []CaptionTrack{enASR, frManual}, []string{"en"}, "u1"},
		{"asr match", []CaptionTrack{deASR, enASR}, []string{"en"}, "u2"},
		{"first asr", []CaptionTrack{deASR, enASR}, []string{"ja"}, "u4"},
		{"prefix match is case-insensitive", []CaptionTrack{frManual, {BaseURL: "u5", LanguageCode: "en-GB"}}, []string{"EN"}, "u5"},
		{"language order wins over track order", []CaptionTrack{enManual, frManual}, []string{"fr", "en"}, "u1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectCaptionTrack(tt.tracks, tt.langs)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.BaseURL)
		})
	}
}

func TestSelectCaptionTrackEmpty(t *testing.T) {
	assert.Nil(t, SelectCaptionTrack(nil, []string{"en"}))
	assert.Nil(t, SelectCaptionTrack([]CaptionTrack{}, nil))
}

func TestFormatVariantURLs(t *testing.T) {
	assert.Equal(t, []string{
		"https://x/api/timedtext?v=1&fmt=json3",
		"https://x/api/timedtext?v=1&fmt=srv3",
		"https://x/api/timedtext?v=1&fmt=srv1",
	}, formatVariantURLs(CaptionTrack{BaseURL: "https://x/api/timedtext?v=1"}))

	assert.Equal(t, []string{
		"https://x/tt?fmt=json3&kind=asr",
		"https://x/tt?fmt=srv3&kind=asr",
		"https://x/tt?fmt=srv1&kind=asr",
	}, formatVariantURLs(CaptionTrack{BaseURL: "https://x/tt", Kind: "asr"}))

	// A URL that already names a format is used unchanged.
	assert.Equal(t, []string{"https://x/tt?v=1&fmt=srv3"},
		formatVariantURLs(CaptionTrack{BaseURL: "https://x/tt?v=1&fmt=srv3", Kind: "asr"}))

	urls := formatVariantURLs(CaptionTrack{BaseURL: "https://x/tt?v=1&kind=asr", Kind: "asr"})
	require.Len(t, urls, 3)
	assert.Equal(t, "https://x/tt?v=1&kind=asr&fmt=json3", urls[0])
}

func TestOrderTracks(t *testing.T) {
	tracks := []CaptionTrack{
		{BaseURL: "a1", Kind: "asr"},
		{BaseURL: "m1"},
		{BaseURL: "a2", Kind: "asr"},
		{BaseURL: "m2"},
	}
	var got []string
	for _, tr := range orderTracks(tracks) {
		got = append(got, tr.BaseURL)
	}
	assert.Equal(t, []string{"m1", "m2", "a1", "a2"}, got)
}

func TestSweepLanguages(t *testing.T) {
	got := sweepLanguages("en-GB", baseSweepLangs, extraSweepLangs)
	assert.Equal(t, []string{"en-GB", "en", "en-US", "en-CA", "en-AU", "en-IN", "en-uk", "en-nz"}, got)

	got = sweepLanguages("", []string{"en"}, extraSweepLangs)
	assert.Equal(t, []string{"en", "en-uk", "en-nz"}, got)
}

func TestTimedTextURLs(t *testing.T) {
	urls := timedTextURLs("https://www.youtube.com/", "abc", "en-US", true)
	require.Len(t, urls, 3)
	assert.Equal(t, "https://www.youtube.com/api/timedtext?fmt=json3&kind=asr&lang=en-US&v=abc", urls[0])
	assert.Contains(t, urls[2], "fmt=srv1")

	urls = timedTextURLs("https://www.youtube.com", "abc", "de", false)
	assert.NotContains(t, urls[0], "kind=asr")
}
