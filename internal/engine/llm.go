package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ErrLLMNotConfigured is returned when no LLM client was set up (missing API key).
var ErrLLMNotConfigured = errors.New("llm: not configured, set LLM_API_KEY")

// stripFences removes a markdown code fence wrapping the whole LLM output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	for _, p := range []string{"```markdown", "```md", "```"} {
		if strings.HasPrefix(s, p) {
			s = strings.TrimPrefix(s, p)
			s = strings.TrimSuffix(strings.TrimSpace(s), "```")
			break
		}
	}
	return strings.TrimSpace(s)
}

// CallLLM sends a prompt using the configured temperature and max_tokens.
func CallLLM(ctx context.Context, prompt string) (string, error) {
	if cfg.LLMClient == nil {
		return "", ErrLLMNotConfigured
	}
	metrics.LLMCalls.Add(1)
	resp, err := cfg.LLMClient.Complete(ctx, "", prompt)
	if err != nil {
		metrics.LLMErrors.Add(1)
		return "", err
	}
	return stripFences(resp), nil
}

// Summarize builds the summary prompt for page and returns the model's answer.
func Summarize(ctx context.Context, page *ExtractedPage, mode SummarizeMode) (string, error) {
	out, err := CallLLM(ctx, BuildPrompt(page, mode))
	if err != nil {
		return "", fmt.Errorf("summarize %s: %w", page.URL, err)
	}
	slog.Debug("summary generated",
		slog.String("url", page.URL), slog.String("mode", string(mode)),
		slog.String("preview", TruncateAtWord(out, 80)))
	return out, nil
}
