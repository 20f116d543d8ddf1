package extract

import (
	"context"

	"github.com/anatolykoptev/go_gist/internal/engine"
)

// ExtractPage collects everything the summarizer needs from doc.
func ExtractPage(ctx context.Context, doc engine.Document, ts TranscriptFetcher) *engine.ExtractedPage {
	video := ExtractVideo(ctx, doc, ts)
	return &engine.ExtractedPage{
		URL:      doc.Location(),
		Title:    doc.Title(),
		MainText: MainText(doc, engine.Cfg.MaxContentChars),
		Video:    video,
	}
}
