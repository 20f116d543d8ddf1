package sources

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	shortsPathRE = regexp.MustCompile(`/shorts/([A-Za-z0-9_-]{6,})`)
	embedPathRE  = regexp.MustCompile(`/embed/([A-Za-z0-9_-]{6,})`)
	bareVideoRE  = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
)

// ExtractVideoID pulls the video id from a YouTube URL: /watch?v=, /shorts/,
// /embed/ and youtu.be/ forms. Returns "" for anything else.
func ExtractVideoID(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	if strings.HasSuffix(host, "youtube.com") {
		if u.Path == "/watch" {
			if v := u.Query().Get("v"); v != "" {
				return v
			}
		}
		if m := shortsPathRE.FindStringSubmatch(u.Path); m != nil {
			return m[1]
		}
		if m := embedPathRE.FindStringSubmatch(u.Path); m != nil {
			return m[1]
		}
	}
	if strings.HasSuffix(host, "youtu.be") {
		return strings.TrimPrefix(u.Path, "/")
	}
	return ""
}

// ParseVideoRef accepts a bare 11-character video id or any URL form
// ExtractVideoID understands.
func ParseVideoRef(ref string) string {
	ref = strings.TrimSpace(ref)
	if bareVideoRE.MatchString(ref) {
		return ref
	}
	return ExtractVideoID(ref)
}

// WatchURL returns the canonical watch page URL of a video.
func WatchURL(baseURL, videoID string) string {
	return strings.TrimRight(baseURL, "/") + "/watch?v=" + url.QueryEscape(videoID)
}
