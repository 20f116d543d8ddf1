package engine

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	stealth "github.com/anatolykoptev/go-stealth"
)

// BrowserClient is the go-stealth client with a Chrome TLS fingerprint.
type BrowserClient = stealth.BrowserClient

// browserHeaders layers extra over the Chrome default header set.
func browserHeaders(extra map[string]string) map[string]string {
	h := stealth.ChromeHeaders()
	for k, v := range extra {
		h[k] = v
	}
	return h
}

// BrowserFetcher sends requests through a BrowserClient. The stealth client
// keeps its own cookie jar, so every request is credentialed.
type BrowserFetcher struct {
	Client *BrowserClient
}

func (f *BrowserFetcher) Fetch(ctx context.Context, fr *FetchRequest) (*FetchResponse, error) {
	metrics.FetchAttempts.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	method := fr.Method
	if method == "" {
		method = http.MethodGet
	}
	var body io.Reader
	if fr.Body != nil {
		body = bytes.NewReader(fr.Body)
	}
	data, _, status, err := f.Client.Do(method, fr.URL, browserHeaders(fr.Headers), body)
	if err != nil {
		metrics.FetchErrors.Add(1)
		return nil, fmt.Errorf("stealth %s: %w", method, err)
	}
	return &FetchResponse{Status: status, Body: data}, nil
}

// browserGetPage loads a page in a single stealth attempt; proxy rotation
// inside the client stands in for retries.
func browserGetPage(ctx context.Context, bc *BrowserClient, pageURL string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, _, status, err := bc.Do(http.MethodGet, pageURL, browserHeaders(nil), nil)
	if err != nil {
		metrics.FetchErrors.Add(1)
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &StatusError{Code: status}
	}
	return data, nil
}
