package gistserver

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/anatolykoptev/go_gist/internal/engine"
	"github.com/anatolykoptev/go_gist/internal/engine/extract"
	"github.com/anatolykoptev/go_gist/internal/toolutil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func validatePageURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("url is required")
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("url must be an absolute http(s) URL, got %q", raw)
	}
	return u.String(), nil
}

// extractURL loads pageURL and runs page extraction with transcript fetching.
func (t *tools) extractURL(ctx context.Context, pageURL string) (*engine.ExtractedPage, error) {
	page, err := engine.LoadPage(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return extract.ExtractPage(ctx, page, t.transcripts), nil
}

func (t *tools) pageExtract(ctx context.Context, _ *mcp.CallToolRequest, input engine.PageExtractInput) (*mcp.CallToolResult, *engine.ExtractedPage, error) {
	pageURL, err := validatePageURL(input.URL)
	if err != nil {
		return nil, nil, err
	}
	out, err := t.extractURL(ctx, pageURL)
	if err != nil {
		return nil, nil, err
	}
	return nil, out, nil
}

func (t *tools) pageSummarize(ctx context.Context, _ *mcp.CallToolRequest, input engine.PageSummarizeInput) (*mcp.CallToolResult, *engine.PageSummarizeOutput, error) {
	pageURL, err := validatePageURL(input.URL)
	if err != nil {
		return nil, nil, err
	}
	mode := engine.ParseSummarizeMode(input.Mode)

	cacheKey := toolutil.CacheKey("page_summarize", pageURL, string(mode))
	if out, ok := toolutil.CacheLoadJSON[engine.PageSummarizeOutput](ctx, t.store, cacheKey, t.summaryTTL); ok {
		return nil, &out, nil
	}

	page, err := t.extractURL(ctx, pageURL)
	if err != nil {
		return nil, nil, err
	}
	var summary string
	err = engine.TrackOperation(ctx, "page_summarize", func(ctx context.Context) error {
		var serr error
		summary, serr = engine.Summarize(ctx, page, mode)
		return serr
	})
	if err != nil {
		return nil, nil, err
	}
	out := engine.PageSummarizeOutput{Summary: summary, Extract: *page}
	toolutil.CacheStoreJSON(ctx, t.store, cacheKey, out)
	return nil, &out, nil
}
