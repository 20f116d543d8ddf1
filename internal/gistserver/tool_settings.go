package gistserver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/anatolykoptev/go_gist/internal/engine"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (t *tools) transcriptSettings(ctx context.Context, _ *mcp.CallToolRequest, input engine.TranscriptSettingsInput) (*mcp.CallToolResult, engine.TranscriptSettingsOutput, error) {
	if err := t.prefs.SetTranscriptsDisabled(ctx, input.DisableTranscripts); err != nil {
		return nil, engine.TranscriptSettingsOutput{}, fmt.Errorf("save transcript setting: %w", err)
	}
	slog.Info("transcript setting changed", slog.Bool("disabled", input.DisableTranscripts))
	return nil, engine.TranscriptSettingsOutput{DisableTranscripts: t.prefs.TranscriptsDisabled(ctx)}, nil
}
