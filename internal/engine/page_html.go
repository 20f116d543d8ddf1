package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// HTMLPage is a Document backed by static HTML. Scripts never run, so globals
// only exist when injected with SetGlobal (e.g. by a headless browser) and the
// host config accessor is emulated from ytcfg.set({...}) calls in inline scripts.
type HTMLPage struct {
	doc      *goquery.Document
	raw      string
	location string
	base     *url.URL

	globals map[string]any
	cues    []Cue

	cfgOnce sync.Once
	cfg     map[string]any
}

const ytcfgSetMarker = "ytcfg.set("

var isoDurationRe = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?$`)

// NewHTMLPage parses html as the document found at location.
func NewHTMLPage(html, location string) (*HTMLPage, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("goquery parse: %w", err)
	}
	base, err := url.Parse(location)
	if err != nil {
		base = &url.URL{}
	}
	return &HTMLPage{
		doc:      doc,
		raw:      html,
		location: location,
		base:     base,
		globals:  map[string]any{},
	}, nil
}

// SetGlobal injects a window-level value.
func (p *HTMLPage) SetGlobal(path string, v any) {
	p.globals[path] = v
}

// SetTextTrackCues injects cues loaded by a media pipeline.
func (p *HTMLPage) SetTextTrackCues(cues []Cue) {
	p.cues = cues
}

func (p *HTMLPage) Global(path string) (any, bool) {
	if v, ok := p.globals[path]; ok {
		return v, true
	}
	parts := strings.Split(path, ".")
	cur, ok := p.globals[parts[0]]
	if !ok {
		return nil, false
	}
	for _, part := range parts[1:] {
		m, isMap := cur.(map[string]any)
		if !isMap {
			return nil, false
		}
		if cur, ok = m[part]; !ok {
			return nil, false
		}
	}
	return cur, true
}

func (p *HTMLPage) ConfigValue(key string) (any, bool) {
	p.cfgOnce.Do(p.loadConfig)
	v, ok := p.cfg[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// loadConfig merges every ytcfg.set({...}) object literal, later calls winning.
func (p *HTMLPage) loadConfig() {
	p.cfg = map[string]any{}
	if m, ok := p.globals["ytcfg"].(map[string]any); ok {
		for k, v := range m {
			p.cfg[k] = v
		}
	}
	for _, script := range p.ScanInlineScripts(ytcfgSetMarker) {
		for idx := 0; ; {
			i := strings.Index(script[idx:], ytcfgSetMarker)
			if i < 0 {
				break
			}
			idx += i + len(ytcfgSetMarker)
			rest := strings.TrimLeft(script[idx:], " \t\r\n")
			start := len(script) - len(rest)
			obj, ok := ScanJSONObject(script, start)
			if !ok {
				continue
			}
			var m map[string]any
			if err := json.Unmarshal([]byte(obj), &m); err != nil {
				slog.Debug("page: ytcfg.set parse failed", slog.Any("err", err))
				continue
			}
			for k, v := range m {
				p.cfg[k] = v
			}
		}
	}
}

func (p *HTMLPage) ScanInlineScripts(substr string) []string {
	var out []string
	p.doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		if _, external := s.Attr("src"); external {
			return
		}
		txt := s.Text()
		if strings.Contains(txt, substr) {
			out = append(out, txt)
		}
	})
	return out
}

func (p *HTMLPage) Lang() string {
	return strings.TrimSpace(p.doc.Find("html").AttrOr("lang", ""))
}

func (p *HTMLPage) Location() string { return p.location }

func (p *HTMLPage) Title() string {
	return strings.TrimSpace(p.doc.Find("title").First().Text())
}

func (p *HTMLPage) CanonicalURL() string {
	href, ok := p.doc.Find(`link[rel="canonical"]`).First().Attr("href")
	if !ok {
		return ""
	}
	return p.resolve(href)
}

func (p *HTMLPage) MetaContent(property string) string {
	sel := p.doc.Find(fmt.Sprintf(`meta[property=%q]`, property)).First()
	return strings.TrimSpace(sel.AttrOr("content", ""))
}

func (p *HTMLPage) IframeSources() []string {
	var out []string
	p.doc.Find("iframe[src]").Each(func(_ int, s *goquery.Selection) {
		out = append(out, p.resolve(s.AttrOr("src", "")))
	})
	return out
}

// HasVideo reports a <video> element or video Open Graph metadata, since the
// player element itself is usually injected by script.
func (p *HTMLPage) HasVideo() bool {
	if p.doc.Find("video").Length() > 0 {
		return true
	}
	if p.MetaContent("og:video") != "" || p.MetaContent("og:video:url") != "" {
		return true
	}
	return strings.HasPrefix(p.MetaContent("og:type"), "video")
}

func (p *HTMLPage) VideoSource() string {
	v := p.doc.Find("video").First()
	if src := v.AttrOr("src", ""); src != "" {
		return p.resolve(src)
	}
	if src := v.Find("source[src]").First().AttrOr("src", ""); src != "" {
		return p.resolve(src)
	}
	return ""
}

// VideoDuration reads schema.org itemprop="duration" (ISO 8601, e.g. PT4M13S).
func (p *HTMLPage) VideoDuration() (float64, bool) {
	content := p.doc.Find(`meta[itemprop="duration"]`).First().AttrOr("content", "")
	m := isoDurationRe.FindStringSubmatch(strings.TrimSpace(content))
	if m == nil || content == "" {
		return 0, false
	}
	var total float64
	for i, mult := range []float64{3600, 60, 1} {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.ParseFloat(m[i+1], 64)
		if err != nil {
			return 0, false
		}
		total += n * mult
	}
	return total, true
}

func (p *HTMLPage) TextTrackCues(limit int) []Cue {
	if limit > 0 && len(p.cues) > limit {
		return p.cues[:limit]
	}
	return p.cues
}

func (p *HTMLPage) TextBlocks() []string {
	root := p.doc.Find("article").First()
	if root.Length() == 0 {
		root = p.doc.Find("body")
	}
	var blocks []string
	root.Find("h1,h2,h3,h4,h5,h6,p,li,blockquote").Each(func(_ int, s *goquery.Selection) {
		t := strings.TrimSpace(s.Text())
		if len([]rune(t)) > 1 {
			blocks = append(blocks, t)
		}
	})
	return blocks
}

func (p *HTMLPage) Readable() (string, error) {
	article, err := readability.FromReader(strings.NewReader(p.raw), p.base)
	if err != nil {
		return "", fmt.Errorf("readability: %w", err)
	}
	md, err := htmltomarkdown.ConvertString(article.Content)
	if err != nil || strings.TrimSpace(md) == "" {
		md = article.TextContent
	}
	md = strings.TrimSpace(md)
	if md == "" {
		return "", errors.New("readability: empty article")
	}
	return md, nil
}

func (p *HTMLPage) resolve(ref string) string {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return ref
	}
	return p.base.ResolveReference(u).String()
}
