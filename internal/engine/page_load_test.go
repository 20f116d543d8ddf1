package engine

import (
	"compress/gzip"
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/plain":
			_, _ = w.Write([]byte(`<html lang="de"><head><title>Plain</title></head><body><p>Hallo Welt</p></body></html>`))
		case "/gzip":
			assert.Contains(t, r.Header.Get("Accept-Encoding"), "gzip")
			w.Header().Set("Content-Encoding", "gzip")
			gz := gzip.NewWriter(w)
			_, _ = gz.Write([]byte(`<html><head><title>Zipped</title></head></html>`))
			_ = gz.Close()
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	before := GetMetrics()["page_loads"]

	p, err := LoadPage(ctx, srv.URL+"/plain")
	require.NoError(t, err)
	assert.Equal(t, "Plain", p.Title())
	assert.Equal(t, "de", p.Lang())
	assert.Equal(t, srv.URL+"/plain", p.Location())

	p, err = LoadPage(ctx, srv.URL+"/gzip")
	require.NoError(t, err)
	assert.Equal(t, "Zipped", p.Title())

	_, err = LoadPage(ctx, srv.URL+"/missing")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "status 404"))

	assert.Equal(t, before+3, GetMetrics()["page_loads"])
}

func TestGetPageRetriesThrottling(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	rp := RetryPolicy{Tries: 3, Initial: time.Millisecond, Max: 5 * time.Millisecond, MaxElapsed: time.Second}
	body, err := getPage(context.Background(), srv.URL, rp)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, int32(3), hits.Load())
}

func TestGetPageNotFoundIsPermanent(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	rp := RetryPolicy{Tries: 3, Initial: time.Millisecond, Max: 5 * time.Millisecond, MaxElapsed: time.Second}
	_, err := getPage(context.Background(), srv.URL, rp)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Code)
	assert.Equal(t, int32(1), hits.Load())
}

func TestLoadPageSharesSessionCookies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/watch":
			http.SetCookie(w, &http.Cookie{Name: "VISITOR_INFO1_LIVE", Value: "abc", Path: "/"})
			_, _ = w.Write([]byte(`<html><head><title>Watch</title></head></html>`))
		case "/api/timedtext":
			c, err := r.Cookie("VISITOR_INFO1_LIVE")
			if err != nil || c.Value != "abc" {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			_, _ = w.Write([]byte("captions"))
		}
	}))
	defer srv.Close()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	Init(Config{HTTPClient: &http.Client{Jar: jar}})
	defer Init(Config{})

	ctx := context.Background()
	_, err = LoadPage(ctx, srv.URL+"/watch?v=abc")
	require.NoError(t, err)

	resp, err := DefaultFetcher().Fetch(ctx, &FetchRequest{URL: srv.URL + "/api/timedtext?v=abc", Credentials: true})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "captions", string(resp.Body))
}
