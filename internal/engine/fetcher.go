package engine

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// FetchRequest is one network call. Credentials asks the transport to send
// the session cookies it holds.
type FetchRequest struct {
	Method      string
	URL         string
	Headers     map[string]string
	Body        []byte
	Credentials bool
}

// FetchResponse carries the status and (size-limited) body of a completed call.
type FetchResponse struct {
	Status int
	Body   []byte
}

// OK reports a 2xx status.
func (r *FetchResponse) OK() bool {
	return r != nil && r.Status >= 200 && r.Status < 300
}

// Fetcher performs network calls. Non-2xx statuses are returned, not errors.
type Fetcher interface {
	Fetch(ctx context.Context, req *FetchRequest) (*FetchResponse, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, req *FetchRequest) (*FetchResponse, error)

func (f FetcherFunc) Fetch(ctx context.Context, req *FetchRequest) (*FetchResponse, error) {
	return f(ctx, req)
}

const defaultMaxBody = 8 * 1024 * 1024

// HTTPFetcher sends requests through a net/http client. The client's cookie
// jar is only used for credentialed requests.
type HTTPFetcher struct {
	Client  *http.Client
	MaxBody int64
}

// NewHTTPFetcher wraps c (http.DefaultClient when nil).
func NewHTTPFetcher(c *http.Client) *HTTPFetcher {
	if c == nil {
		c = http.DefaultClient
	}
	return &HTTPFetcher{Client: c, MaxBody: defaultMaxBody}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, fr *FetchRequest) (*FetchResponse, error) {
	metrics.FetchAttempts.Add(1)
	method := fr.Method
	if method == "" {
		method = http.MethodGet
	}
	var body io.Reader
	if fr.Body != nil {
		body = bytes.NewReader(fr.Body)
	}
	req, err := http.NewRequestWithContext(ctx, method, fr.URL, body)
	if err != nil {
		metrics.FetchErrors.Add(1)
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgentChrome)
	for k, v := range fr.Headers {
		req.Header.Set(k, v)
	}

	client := f.Client
	if !fr.Credentials && client.Jar != nil {
		anon := *client
		anon.Jar = nil
		client = &anon
	}

	resp, err := client.Do(req)
	if err != nil {
		metrics.FetchErrors.Add(1)
		return nil, err
	}
	defer resp.Body.Close()

	limit := f.MaxBody
	if limit <= 0 {
		limit = defaultMaxBody
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		metrics.FetchErrors.Add(1)
		return nil, fmt.Errorf("read body: %w", err)
	}
	return &FetchResponse{Status: resp.StatusCode, Body: data}, nil
}

// DefaultFetcher returns the configured transport: the stealth browser client
// when one is set, otherwise Cfg.HTTPClient.
func DefaultFetcher() Fetcher {
	if Cfg.BrowserClient != nil {
		return &BrowserFetcher{Client: Cfg.BrowserClient}
	}
	return NewHTTPFetcher(Cfg.HTTPClient)
}
