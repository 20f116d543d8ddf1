package engine

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	stealth "github.com/anatolykoptev/go-stealth"
	"github.com/cenkalti/backoff/v5"
)

const maxPageBytes = 8 * 1024 * 1024

// StatusError is a page load that completed with a non-200 status.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string { return fmt.Sprintf("status %d", e.Code) }

// RetryPolicy bounds the exponential backoff of page loads.
type RetryPolicy struct {
	Tries      uint
	Initial    time.Duration
	Max        time.Duration
	MaxElapsed time.Duration
}

var defaultPageRetry = RetryPolicy{Tries: 3, Initial: time.Second, Max: 10 * time.Second, MaxElapsed: 30 * time.Second}

var pageClient = &http.Client{
	Timeout: 30 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     30 * time.Second,
		TLSHandshakeTimeout: 15 * time.Second,
	},
	CheckRedirect: func(_ *http.Request, via []*http.Request) error {
		if len(via) >= 10 {
			return errors.New("stopped after 10 redirects")
		}
		return nil
	},
}

// sessionPageClient shares Cfg.HTTPClient's cookie jar, so cookies set by a
// page reach the credentialed caption and Innertube requests that follow.
func sessionPageClient() *http.Client {
	if cfg.HTTPClient == nil || cfg.HTTPClient.Jar == nil {
		return pageClient
	}
	c := *pageClient
	c.Jar = cfg.HTTPClient.Jar
	return &c
}

// getPage downloads an HTML page. Throttling (429) and 5xx statuses are retried
// with backoff; any other non-200 status is a *StatusError right away.
func getPage(ctx context.Context, pageURL string, rp RetryPolicy) ([]byte, error) {
	client := sessionPageClient()
	attempt := func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		req.Header.Set("User-Agent", stealth.RandomUserAgent())
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		req.Header.Set("Accept-Encoding", "gzip")

		resp, err := client.Do(req)
		if err != nil {
			metrics.FetchErrors.Add(1)
			return nil, backoff.Permanent(err)
		}
		defer resp.Body.Close()
		switch {
		case resp.StatusCode == http.StatusOK:
			return readBody(resp)
		case stealth.IsRetryableStatus(resp.StatusCode):
			return nil, &StatusError{Code: resp.StatusCode}
		default:
			return nil, backoff.Permanent(&StatusError{Code: resp.StatusCode})
		}
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = rp.Initial
	bo.MaxInterval = rp.Max

	return backoff.Retry(ctx, attempt,
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(rp.Tries),
		backoff.WithMaxElapsedTime(rp.MaxElapsed))
}

// readBody reads at most maxPageBytes, inflating gzip bodies; Accept-Encoding
// is set by hand so the transport leaves them compressed.
func readBody(resp *http.Response) ([]byte, error) {
	var r io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer gz.Close()
		r = gz
	}
	return io.ReadAll(io.LimitReader(r, maxPageBytes))
}
