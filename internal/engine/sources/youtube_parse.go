package sources

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/anatolykoptev/go_gist/internal/engine"
)

const (
	// xssiPrefix is the anti-JSON-hijacking guard some endpoints prepend.
	xssiPrefix = ")]}'"
	// MaxParsedCues caps the cues returned by ParseTranscript.
	MaxParsedCues = 1200
)

var (
	xmlTextRE  = regexp.MustCompile(`<text[^>]*start="([0-9.]+)"[^>]*dur="([0-9.]+)"[^>]*>([\s\S]*?)</text>`)
	xmlBrRE    = regexp.MustCompile(`(?i)<br\s*/?>`)
	xmlTagRE   = regexp.MustCompile(`<[^>]+>`)
	newlinesRE = regexp.MustCompile(`\n+`)
)

// --- json3 payload types ---

type json3Doc struct {
	Events []json.RawMessage `json:"events"`
}

type json3Event struct {
	TStartMs    float64         `json:"tStartMs"`
	DDurationMs float64         `json:"dDurationMs"`
	Dur         float64         `json:"dur"`
	Segs        json.RawMessage `json:"segs"`
}

type json3Seg struct {
	UTF8 string `json:"utf8"`
}

// ParseTranscript turns a raw caption payload (json3 events or legacy timedtext
// XML) into cues. It never fails: malformed or unknown input yields no cues.
func ParseTranscript(raw string) []engine.Cue {
	s := strings.TrimSpace(raw)
	s = strings.TrimSpace(strings.TrimPrefix(s, xssiPrefix))
	if s == "" {
		return nil
	}
	if strings.HasPrefix(s, "{") {
		if cues, ok := parseJSON3(s); ok {
			return cues
		}
	}
	if strings.Contains(s, "<transcript") || strings.Contains(s, "<text") {
		return parseTimedTextXML(s)
	}
	return nil
}

// parseJSON3 reports ok=false when s is not JSON or has no events array.
func parseJSON3(s string) ([]engine.Cue, bool) {
	var doc json3Doc
	if err := json.Unmarshal([]byte(s), &doc); err != nil || doc.Events == nil {
		return nil, false
	}
	cues := make([]engine.Cue, 0, min(len(doc.Events), MaxParsedCues))
	for _, rawEv := range doc.Events {
		if len(cues) >= MaxParsedCues {
			break
		}
		var ev json3Event
		if err := json.Unmarshal(rawEv, &ev); err != nil {
			continue
		}
		var segs []json.RawMessage
		if err := json.Unmarshal(ev.Segs, &segs); err != nil || segs == nil {
			continue
		}
		var sb strings.Builder
		for _, rawSeg := range segs {
			var seg json3Seg
			if json.Unmarshal(rawSeg, &seg) == nil {
				sb.WriteString(seg.UTF8)
			}
		}
		text := strings.TrimSpace(newlinesRE.ReplaceAllString(sb.String(), " "))
		if text == "" {
			continue
		}
		dur := ev.DDurationMs
		if dur == 0 {
			dur = ev.Dur
		}
		cues = append(cues, engine.Cue{
			Text:      text,
			StartTime: roundSeconds(ev.TStartMs / 1000),
			EndTime:   roundSeconds((ev.TStartMs + dur) / 1000),
		})
	}
	return cues, true
}

func parseTimedTextXML(s string) []engine.Cue {
	var cues []engine.Cue
	for _, m := range xmlTextRE.FindAllStringSubmatch(s, -1) {
		if len(cues) >= MaxParsedCues {
			break
		}
		start, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		dur, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		text := m[3]
		text = strings.ReplaceAll(text, "&#39;", "'")
		text = strings.ReplaceAll(text, "&quot;", `"`)
		text = strings.ReplaceAll(text, "&amp;", "&")
		text = xmlBrRE.ReplaceAllString(text, " ")
		text = strings.TrimSpace(xmlTagRE.ReplaceAllString(text, ""))
		if text == "" {
			continue
		}
		cues = append(cues, engine.Cue{
			Text:      text,
			StartTime: roundSeconds(start),
			EndTime:   roundSeconds(start + dur),
		})
	}
	return cues
}

// roundSeconds rounds half-up, so 1.5 → 2 and 2.5 → 3.
func roundSeconds(sec float64) int {
	return int(math.Floor(sec + 0.5))
}
