package tui

import (
	"strings"
	"testing"
	"time"
)

func TestFormatElapsed(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00"},
		{-5 * time.Second, "00:00"},
		{42 * time.Second, "00:42"},
		{25 * time.Minute, "25:00"},
		{61 * time.Minute, "1:01:00"},
		{2*time.Hour + 3*time.Minute + 4*time.Second, "2:03:04"},
	}
	for _, c := range cases {
		if got := formatElapsed(c.d); got != c.want {
			t.Errorf("formatElapsed(%v) = %q, want %q", c.d, got, c.want)
		}
	}
}

func TestTruncStr(t *testing.T) {
	if got := truncStr("short", 10); got != "short" {
		t.Errorf("got %q", got)
	}
	if got := truncStr("a very long reward name", 10); got != "a very lo…" {
		t.Errorf("got %q", got)
	}
	// rune-aware, not byte-aware
	if got := truncStr("héllo wörld", 6); got != "héllo…" {
		t.Errorf("got %q", got)
	}
}

func TestTruncateToHeight(t *testing.T) {
	s := "one\ntwo\nthree\nfour"
	if got := truncateToHeight(s, 2); got != "one\ntwo\n" {
		t.Errorf("got %q", got)
	}
	if got := truncateToHeight(s, 10); got != s {
		t.Errorf("got %q", got)
	}
	if got := truncateToHeight(s, 0); got != s {
		t.Errorf("got %q", got)
	}
}

func TestEditRune(t *testing.T) {
	if got := editRune("ab", "c"); got != "abc" {
		t.Errorf("got %q", got)
	}
	if got := editRune("ab", "backspace"); got != "a" {
		t.Errorf("got %q", got)
	}
	if got := editRune("", "backspace"); got != "" {
		t.Errorf("got %q", got)
	}
	// multi-rune key names pass through untouched
	if got := editRune("ab", "enter"); got != "ab" {
		t.Errorf("got %q", got)
	}
	full := strings.Repeat("x", maxInputLen)
	if got := editRune(full, "y"); got != full {
		t.Errorf("expected clamp at %d runes, got %d", maxInputLen, len(got))
	}
}

func TestRenderShimmerLogo(t *testing.T) {
	out := renderShimmerLogo(0)
	for _, ch := range "STUDYPOINTS" {
		if !strings.ContainsRune(out, ch) {
			t.Fatalf("logo missing %q:\n%s", ch, out)
		}
	}
	if renderShimmerLogo(7) == "" {
		t.Error("expected non-empty logo at a later frame")
	}
}

func TestClampByte(t *testing.T) {
	if got := clampByte(-3); got != 0 {
		t.Errorf("got %d", got)
	}
	if got := clampByte(300); got != 255 {
		t.Errorf("got %d", got)
	}
	if got := clampByte(128.7); got != 128 {
		t.Errorf("got %d", got)
	}
}
