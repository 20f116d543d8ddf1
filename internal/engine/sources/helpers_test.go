package sources

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/anatolykoptev/go_gist/internal/engine"
)

// fakeInspector is an in-memory engine.Inspector.
type fakeInspector struct {
	mu      sync.Mutex
	globals map[string]any
	config  map[string]any
	scripts []string
	lang    string
	reads   int
	// readyAfter hides globals until Global has been called this many times.
	readyAfter int
}

func (f *fakeInspector) Global(path string) (any, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	if f.reads <= f.readyAfter {
		return nil, false
	}
	v, ok := f.globals[path]
	return v, ok
}

func (f *fakeInspector) ConfigValue(key string) (any, bool) {
	v, ok := f.config[key]
	return v, ok
}

func (f *fakeInspector) ScanInlineScripts(substr string) []string {
	var out []string
	for _, s := range f.scripts {
		if strings.Contains(s, substr) {
			out = append(out, s)
		}
	}
	return out
}

func (f *fakeInspector) Lang() string { return f.lang }

// recordingFetcher answers from a route table and records every request.
type recordingFetcher struct {
	mu     sync.Mutex
	routes map[string]string // "METHOD URL" or URL → body (200)
	calls  []engine.FetchRequest
	fail   bool
}

func (r *recordingFetcher) Fetch(_ context.Context, req *engine.FetchRequest) (*engine.FetchResponse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, *req)
	if r.fail {
		return nil, fmt.Errorf("network down")
	}
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	if body, ok := r.routes[method+" "+req.URL]; ok {
		return &engine.FetchResponse{Status: http.StatusOK, Body: []byte(body)}, nil
	}
	if body, ok := r.routes[req.URL]; ok && method == http.MethodGet {
		return &engine.FetchResponse{Status: http.StatusOK, Body: []byte(body)}, nil
	}
	return &engine.FetchResponse{Status: http.StatusNotFound}, nil
}

func (r *recordingFetcher) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func (r *recordingFetcher) urls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	for i, c := range r.calls {
		out[i] = c.URL
	}
	return out
}

// json3Payload builds a json3 body with n one-second events.
func json3Payload(n int) string {
	var events []string
	for i := range n {
		events = append(events, fmt.Sprintf(`{"tStartMs":%d,"dDurationMs":1000,"segs":[{"utf8":"cue %d"}]}`, i*1000, i))
	}
	return `{"events":[` + strings.Join(events, ",") + `]}`
}

// playerGlobal builds a decoded ytInitialPlayerResponse value with the given tracks.
func playerGlobal(tracks ...map[string]any) map[string]any {
	list := make([]any, len(tracks))
	for i, t := range tracks {
		list[i] = t
	}
	return map[string]any{
		"captions": map[string]any{
			"playerCaptionsTracklistRenderer": map[string]any{"captionTracks": list},
		},
	}
}
