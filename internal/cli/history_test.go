package cli

import (
	"strings"
	"testing"
	"time"
)

func TestShortID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "uuid", input: "0123456789abcdef-rest", want: "01234567"},
		{name: "exactly eight", input: "12345678", want: "12345678"},
		{name: "shorter", input: "abc", want: "abc"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shortID(tt.input); got != tt.want {
				t.Errorf("shortID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{name: "minutes", t: now.Add(-30 * time.Minute), want: "30m ago"},
		{name: "hours", t: now.Add(-3 * time.Hour), want: "3h ago"},
		{name: "days", t: now.Add(-48 * time.Hour), want: "2d ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatRelativeTime(tt.t); got != tt.want {
				t.Errorf("formatRelativeTime() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatRelativeTimeOld(t *testing.T) {
	old := time.Now().Add(-30 * 24 * time.Hour)
	got := formatRelativeTime(old)

	// Older than a week falls back to the date.
	if strings.HasSuffix(got, "ago") {
		t.Errorf("formatRelativeTime() = %q, want an absolute date", got)
	}
	if want := old.Format("Jan 2, 2006"); got != want {
		t.Errorf("formatRelativeTime() = %q, want %q", got, want)
	}
}
