package engine

import (
	"context"
	"log/slog"
	"strconv"
)

// PrefDisableTranscripts is the store key of the user's transcript opt-out.
const PrefDisableTranscripts = "pref_disable_transcripts"

// Preferences exposes persisted user settings.
type Preferences interface {
	TranscriptsDisabled(ctx context.Context) bool
}

// StorePreferences reads settings from a Store. Default applies when the key is absent
// or unreadable.
type StorePreferences struct {
	Store   Store
	Default bool
}

func (p StorePreferences) TranscriptsDisabled(ctx context.Context) bool {
	if p.Store == nil {
		return p.Default
	}
	data, ok, err := p.Store.Get(ctx, PrefDisableTranscripts)
	if err != nil {
		slog.Debug("prefs: read failed", slog.Any("err", err))
		return p.Default
	}
	if !ok {
		return p.Default
	}
	v, err := strconv.ParseBool(string(data))
	if err != nil {
		return p.Default
	}
	return v
}

// SetTranscriptsDisabled persists the opt-out flag.
func (p StorePreferences) SetTranscriptsDisabled(ctx context.Context, disabled bool) error {
	return p.Store.Set(ctx, PrefDisableTranscripts, []byte(strconv.FormatBool(disabled)))
}
