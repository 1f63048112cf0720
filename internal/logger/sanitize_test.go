package logger

import (
	"errors"
	"strings"
	"testing"
)

func TestSanitizeString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"empty", "", 10, ""},
		{"plain", "hello", 10, "hello"},
		{"strips control chars", "a\x00b\x07c", 10, "abc"},
		{"keeps whitespace", "a b\tc\nd", 10, "a b\tc\nd"},
		{"truncates", "abcdefghij", 5, "abcde..."},
		{"zero max falls back", strings.Repeat("x", MaxGeneralStringLength+10), 0, strings.Repeat("x", MaxGeneralStringLength) + "..."},
		{"invalid utf8 dropped", "ok\xffok", 10, "okok"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := SanitizeString(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("SanitizeString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSanitizeError(t *testing.T) {
	t.Parallel()

	if got := SanitizeError(nil); got != "" {
		t.Errorf("SanitizeError(nil) = %q, want empty", got)
	}
	if got := SanitizeError(errors.New("boom\x00")); got != "boom" {
		t.Errorf("SanitizeError() = %q, want %q", got, "boom")
	}
}

func TestSanitizePath(t *testing.T) {
	t.Parallel()

	long := "/" + strings.Repeat("a", MaxPathLength+10)
	got := SanitizePath(long)
	if len(got) != MaxPathLength+3 {
		t.Errorf("SanitizePath() length = %d, want %d", len(got), MaxPathLength+3)
	}
	if !strings.HasSuffix(got, "...") {
		t.Error("truncated path should end with ellipsis")
	}
}
