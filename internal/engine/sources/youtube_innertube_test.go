package sources

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatolykoptev/go_gist/internal/engine"
)

func TestExtractInnertubeCredentialsFromConfig(t *testing.T) {
	insp := &fakeInspector{config: map[string]any{
		"INNERTUBE_API_KEY":        "KEY",
		"INNERTUBE_CLIENT_NAME":    float64(1),
		"INNERTUBE_CLIENT_VERSION": "2.20250101.00.00",
		"VISITOR_DATA":             "VD",
	}}
	c := ExtractInnertubeCredentials(insp)
	require.NotNil(t, c)
	assert.Equal(t, InnertubeCredentials{APIKey: "KEY", ClientName: "1", ClientVersion: "2.20250101.00.00", VisitorData: "VD"}, *c)
}

func TestExtractInnertubeCredentialsFromScripts(t *testing.T) {
	script := `ytcfg.data_ = {"INNERTUBE_API_KEY":"SKEY","INNERTUBE_CLIENT_NAME":56,"INNERTUBE_CLIENT_VERSION":"1.2","VISITOR_DATA":"V1"};`
	insp := &fakeInspector{
		// Config accessor without a client version does not count.
		config:  map[string]any{"INNERTUBE_API_KEY": "CFG"},
		scripts: []string{`var a = "INNERTUBE_API_KEY";`, script},
	}
	c := ExtractInnertubeCredentials(insp)
	require.NotNil(t, c)
	assert.Equal(t, "SKEY", c.APIKey)
	assert.Equal(t, "56", c.ClientName)
	assert.Equal(t, "1.2", c.ClientVersion)
	assert.Equal(t, "V1", c.VisitorData)
}

func TestExtractInnertubeCredentialsDefaultsClientName(t *testing.T) {
	insp := &fakeInspector{scripts: []string{`{"INNERTUBE_API_KEY":"K","INNERTUBE_CLIENT_NAME":"WEB","INNERTUBE_CLIENT_VERSION":"2.0"}`}}
	c := ExtractInnertubeCredentials(insp)
	require.NotNil(t, c)
	assert.Equal(t, "1", c.ClientName)
	assert.Empty(t, c.VisitorData)
}

func TestExtractInnertubeCredentialsMissing(t *testing.T) {
	assert.Nil(t, ExtractInnertubeCredentials(&fakeInspector{}))
	assert.Nil(t, ExtractInnertubeCredentials(&fakeInspector{
		scripts: []string{`{"INNERTUBE_API_KEY":"K","INNERTUBE_CLIENT_VERSION":""}`},
	}))
}

func TestExtractInnertubeCredentialsFromHTMLPage(t *testing.T) {
	html := `<html><head><script>ytcfg.set({"INNERTUBE_API_KEY":"PK","INNERTUBE_CLIENT_NAME":1,"INNERTUBE_CLIENT_VERSION":"2.1"});</script></head><body></body></html>`
	page, err := engine.NewHTMLPage(html, "https://www.youtube.com/watch?v=abc")
	require.NoError(t, err)
	c := ExtractInnertubeCredentials(page)
	require.NotNil(t, c)
	assert.Equal(t, "PK", c.APIKey)
	assert.Equal(t, "1", c.ClientName)
}

func TestFetchInnertubePlayerRequest(t *testing.T) {
	var got innertubeReq
	f := engine.FetcherFunc(func(_ context.Context, req *engine.FetchRequest) (*engine.FetchResponse, error) {
		assert.Equal(t, http.MethodPost, req.Method)
		assert.Equal(t, "https://yt.test/youtubei/v1/player?key=A%2BB", req.URL)
		assert.Equal(t, "application/json", req.Headers["Content-Type"])
		require.NoError(t, json.Unmarshal(req.Body, &got))
		return &engine.FetchResponse{Status: http.StatusOK, Body: []byte(`{"playabilityStatus":{"status":"LOGIN_REQUIRED","reason":"Sign in"}}`)}, nil
	})
	_, err := fetchInnertubePlayer(context.Background(), f, "https://yt.test", "vid", &InnertubeCredentials{
		APIKey: "A+B", ClientName: "1", ClientVersion: "2.0", VisitorData: "VD",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Sign in")
	assert.Equal(t, "vid", got.VideoID)
	assert.Equal(t, innertubeClient{ClientName: "1", ClientVersion: "2.0", Hl: "en", Gl: "US", VisitorData: "VD"}, got.Context.Client)
}
