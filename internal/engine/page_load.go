package engine

import (
	"context"
	"fmt"
	"log/slog"
)

// LoadPage fetches pageURL and parses it into an HTMLPage, through the stealth
// browser client when one is configured.
func LoadPage(ctx context.Context, pageURL string) (*HTMLPage, error) {
	metrics.PageLoads.Add(1)
	ctx, cancel := context.WithTimeout(ctx, cfg.FetchTimeout)
	defer cancel()

	var (
		body []byte
		err  error
	)
	if cfg.BrowserClient != nil {
		body, err = browserGetPage(ctx, cfg.BrowserClient, pageURL)
	} else {
		body, err = getPage(ctx, pageURL, defaultPageRetry)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", pageURL, err)
	}

	slog.Debug("page loaded", slog.String("url", pageURL), slog.Int("bytes", len(body)))
	return NewHTMLPage(string(body), pageURL)
}
