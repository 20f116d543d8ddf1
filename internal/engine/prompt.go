package engine

import (
	"fmt"
	"strings"
)

// LLM prompt templates and the summary prompt builder.

const (
	promptVideoCues = 30   // cues quoted in the video block
	promptPageChars = 8000 // page text runes quoted in the content block
)

// promptHeader: args URL, title, mode.
const promptHeader = `You are a concise expert summarizer. Summarize the content at the URL below.

URL: %s
Title: %s
Mode: %s`

// promptVideo: args title, src, page URL, platform, duration, cue lines.
const promptVideo = `

Video detected: yes
Video title: %s
Video source: %s
Video pageUrl: %s
Video platform: %s
Video durationSec: %s
Video text tracks (first 30 cues if any):
%s`

const promptNoVideo = `

Video detected: no`

// promptContent: args page text.
const promptContent = `

Extracted page text (truncated):
%s`

// promptTask is tuned per mode by BuildPrompt.
const promptTask = `

Task: Provide a high-quality elaborate summary.
- If an actual video transcript is available, prioritize it; otherwise use page content.
- Include 5-10 key bullet points, a brief TL;DR (1-2 sentences), and any action items or references.
- Keep it factual and neutral.
- If information is insufficient, state assumptions clearly.`

const promptTaskPage = `
- Focus on the page text; mention the video only if it is central to the page.`

const promptTaskVideo = `
- Focus on the video; use the page text only as supporting context.`

// BuildPrompt renders the summary prompt for an extracted page.
func BuildPrompt(p *ExtractedPage, mode SummarizeMode) string {
	if mode == "" {
		mode = ModeAuto
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, promptHeader, p.URL, p.Title, mode)

	if v := p.Video; v.HasVideo {
		duration := ""
		if v.DurationSec != nil {
			duration = fmt.Sprintf("%d", *v.DurationSec)
		}
		fmt.Fprintf(&sb, promptVideo, v.Title, v.Src, v.PageURL, v.SourcePlatform, duration, formatCues(v.Cues, promptVideoCues))
	} else {
		sb.WriteString(promptNoVideo)
	}

	fmt.Fprintf(&sb, promptContent, TruncateRunes(p.MainText, promptPageChars, ""))

	sb.WriteString(promptTask)
	switch mode {
	case ModePage:
		sb.WriteString(promptTaskPage)
	case ModeVideo:
		sb.WriteString(promptTaskVideo)
	}
	return sb.String()
}

// formatCues renders at most n cues as "i. [start-end] text" lines.
func formatCues(cues []Cue, n int) string {
	if len(cues) > n {
		cues = cues[:n]
	}
	lines := make([]string, len(cues))
	for i, c := range cues {
		lines[i] = fmt.Sprintf("%d. [%d-%d] %s", i+1, c.StartTime, c.EndTime, c.Text)
	}
	return strings.Join(lines, "\n")
}

// ParseSummarizeMode maps user input to a mode; unknown values mean auto.
func ParseSummarizeMode(s string) SummarizeMode {
	switch SummarizeMode(strings.ToLower(strings.TrimSpace(s))) {
	case ModePage:
		return ModePage
	case ModeVideo:
		return ModeVideo
	default:
		return ModeAuto
	}
}
