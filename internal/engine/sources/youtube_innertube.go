package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/anatolykoptev/go_gist/internal/engine"
)

// YouTube Innertube API: credentials scraped from the host page and the
// /player call that returns a fresh caption track list.

const (
	ytPlayerPath    = "/youtubei/v1/player"
	ytAPIKeyName    = "INNERTUBE_API_KEY"
	ytClientName    = "INNERTUBE_CLIENT_NAME"
	ytClientVer     = "INNERTUBE_CLIENT_VERSION"
	ytVisitorData   = "VISITOR_DATA"
	ytDefaultClient = "1" // WEB
)

// innertubeLangs are the languages used to pick a track from the /player response.
var innertubeLangs = []string{"en", "en-US", "en-GB"}

var (
	apiKeyRE        = regexp.MustCompile(`(?i)INNERTUBE_API_KEY":"([^"]+)"`)
	clientVersionRE = regexp.MustCompile(`(?i)INNERTUBE_CLIENT_VERSION":"([^"]+)"`)
	clientNameRE    = regexp.MustCompile(`(?i)INNERTUBE_CLIENT_NAME":(\d+)`)
	visitorDataRE   = regexp.MustCompile(`VISITOR_DATA":"([^"]+)"`)
)

// InnertubeCredentials authorize one Innertube /player call. Not persisted.
type InnertubeCredentials struct {
	APIKey        string
	ClientName    string
	ClientVersion string
	VisitorData   string
}

// --- /player request types ---

type innertubeReq struct {
	Context innertubeCtx `json:"context"`
	VideoID string       `json:"videoId"`
}

type innertubeCtx struct {
	Client innertubeClient `json:"client"`
}

type innertubeClient struct {
	ClientName    string `json:"clientName"`
	ClientVersion string `json:"clientVersion"`
	Hl            string `json:"hl,omitempty"`
	Gl            string `json:"gl,omitempty"`
	VisitorData   string `json:"visitorData,omitempty"`
}

// ExtractInnertubeCredentials reads Innertube credentials from the page. The
// config accessor is tried first and needs key, client name and version; the
// inline script scan needs key and version, defaulting the client name to "1".
// Returns nil when neither yields credentials.
func ExtractInnertubeCredentials(insp engine.Inspector) *InnertubeCredentials {
	if c := credentialsFromConfig(insp); c != nil {
		return c
	}
	return credentialsFromScripts(insp)
}

func credentialsFromConfig(insp engine.Inspector) *InnertubeCredentials {
	apiKey := configString(insp, ytAPIKeyName)
	name := configString(insp, ytClientName)
	version := configString(insp, ytClientVer)
	if apiKey == "" || name == "" || version == "" {
		return nil
	}
	return &InnertubeCredentials{
		APIKey:        apiKey,
		ClientName:    name,
		ClientVersion: version,
		VisitorData:   configString(insp, ytVisitorData),
	}
}

// configString stringifies a config value; numbers keep their integer form.
func configString(insp engine.Inspector, key string) string {
	v, ok := insp.ConfigValue(key)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	case bool:
		if !t {
			return ""
		}
		return "true"
	default:
		return fmt.Sprint(t)
	}
}

func credentialsFromScripts(insp engine.Inspector) *InnertubeCredentials {
	for _, txt := range insp.ScanInlineScripts(ytAPIKeyName) {
		if !strings.Contains(txt, ytClientVer) {
			continue
		}
		apiKey := firstSubmatch(apiKeyRE, txt)
		version := firstSubmatch(clientVersionRE, txt)
		if apiKey == "" || version == "" {
			continue
		}
		name := firstSubmatch(clientNameRE, txt)
		if name == "" {
			name = ytDefaultClient
		}
		return &InnertubeCredentials{
			APIKey:        apiKey,
			ClientName:    name,
			ClientVersion: version,
			VisitorData:   firstSubmatch(visitorDataRE, txt),
		}
	}
	return nil
}

func firstSubmatch(re *regexp.Regexp, s string) string {
	if m := re.FindStringSubmatch(s); len(m) >= 2 {
		return m[1]
	}
	return ""
}

// fetchInnertubePlayer POSTs to the Innertube /player endpoint and returns the
// advertised caption tracks.
func fetchInnertubePlayer(ctx context.Context, f engine.Fetcher, baseURL, videoID string, creds *InnertubeCredentials) ([]CaptionTrack, error) {
	body, err := json.Marshal(innertubeReq{
		Context: innertubeCtx{Client: innertubeClient{
			ClientName:    creds.ClientName,
			ClientVersion: creds.ClientVersion,
			Hl:            "en",
			Gl:            "US",
			VisitorData:   creds.VisitorData,
		}},
		VideoID: videoID,
	})
	if err != nil {
		return nil, err
	}
	endpoint := strings.TrimRight(baseURL, "/") + ytPlayerPath + "?key=" + url.QueryEscape(creds.APIKey)
	resp, err := f.Fetch(ctx, &engine.FetchRequest{
		Method:  http.MethodPost,
		URL:     endpoint,
		Headers: map[string]string{"Content-Type": "application/json"},
		Body:    body,
	})
	if err != nil {
		return nil, fmt.Errorf("innertube player: %w", err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("innertube player: HTTP %d", resp.Status)
	}
	var pr PlayerResponse
	if err := json.Unmarshal(resp.Body, &pr); err != nil {
		return nil, fmt.Errorf("decode player: %w", err)
	}
	tracks := pr.Tracks()
	if len(tracks) == 0 {
		if pr.PlayabilityStatus != nil && pr.PlayabilityStatus.Reason != "" {
			return nil, fmt.Errorf("captions unavailable: %s", pr.PlayabilityStatus.Reason)
		}
		return nil, errors.New("no caption tracks")
	}
	return tracks, nil
}
