package ui

import (
	"errors"
	"testing"

	"github.com/roadwatch/roadwatch/internal/analysis"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is far too long", 10, "this is..."},
		{"abc", 0, ""},
		{"abcdef", 3, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("ab", 5); got != "ab   " {
		t.Fatalf("padRight = %q", got)
	}
	if got := padRight("abcdef", 3); got != "abcdef" {
		t.Fatalf("padRight = %q", got)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{2048, "2 KB"},
		{1 << 10, "1 KB"},
		{1 << 20, "1.0 MB"},
		{52_428_800, "50.0 MB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClassifyConnectionError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"refused", errors.New("dial tcp: connection refused"), "OFFLINE"},
		{"dns", errors.New("lookup x: no such host"), "HOST NOT FOUND"},
		{"timeout", errors.New("context deadline exceeded (timeout)"), "TIMEOUT"},
		{"other", errors.New("boom"), "ERROR"},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyConnectionError(tt.err); got != tt.want {
				t.Errorf("classifyConnectionError = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAlertHint_CoversAllLevels(t *testing.T) {
	for _, level := range []analysis.AlertLevel{analysis.AlertLow, analysis.AlertMedium, analysis.AlertHigh} {
		if alertHint(level) == "" {
			t.Errorf("alertHint(%s) empty", level)
		}
	}
}
