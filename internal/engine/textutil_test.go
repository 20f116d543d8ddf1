package engine

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestCapText(t *testing.T) {
	if got := CapText("short", 10, "…"); got != "short" {
		t.Errorf("CapText under limit = %q", got)
	}
	if got := CapText("anything", 0, "…"); got != "anything" {
		t.Errorf("CapText without limit = %q", got)
	}

	long := strings.Repeat("я", 50)
	got := CapText(long, 20, "\n...[truncated]")
	if !strings.HasSuffix(got, "\n...[truncated]") {
		t.Errorf("CapText missing marker: %q", got)
	}
	body := strings.TrimSuffix(got, "\n...[truncated]")
	if n := utf8.RuneCountInString(body); n == 0 || n > 20 {
		t.Errorf("CapText kept %d runes, want 1..20", n)
	}
	if !utf8.ValidString(got) {
		t.Error("CapText produced invalid UTF-8")
	}
}
