package textutil

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Episode 12", "Episode 12"},
		{"unsafe", `Ep 3: "Links" / Q&A?`, "Ep 3- Links - Q&A"},
		{"hidden", "..secret", "secret"},
		{"empty", "   ", "episode"},
		{"newlines", "Part\n\tOne", "Part One"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFileName(tt.in); got != tt.want {
				t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("a", 200)
	if got := Truncate(long, 150); len(got) != 150 {
		t.Fatalf("unexpected length: got %d want 150", len(got))
	}
	if got := Truncate("short", 150); got != "short" {
		t.Fatalf("unexpected value: %q", got)
	}
	if got := Truncate("anything", 0); got != "" {
		t.Fatalf("expected empty for zero limit, got %q", got)
	}
}

func TestTruncateCountsCharactersNotBytes(t *testing.T) {
	value := strings.Repeat("\u00e9", 160)
	got := Truncate(value, 150)
	if n := utf8.RuneCountInString(got); n != 150 {
		t.Fatalf("unexpected rune count: got %d want 150", n)
	}
	if !utf8.ValidString(got) {
		t.Fatal("truncation split a multi-byte character")
	}
}

func TestTruncateNormalizesDecomposedText(t *testing.T) {
	decomposed := strings.Repeat("e\u0301", 150)
	got := Truncate(decomposed, 150)
	if n := utf8.RuneCountInString(got); n != 150 {
		t.Fatalf("unexpected rune count: got %d want 150", n)
	}
	if got != strings.Repeat("\u00e9", 150) {
		t.Fatal("expected composed output")
	}
}

func TestSummarize(t *testing.T) {
	in := "  Example   Domain\n\tfor docs  "
	if got := Summarize(in, 150); got != "Example Domain for docs" {
		t.Fatalf("unexpected summary: %q", got)
	}
	if got := Summarize(strings.Repeat("word ", 100), 150); utf8.RuneCountInString(got) != 150 {
		t.Fatalf("unexpected summary length: %d", utf8.RuneCountInString(got))
	}
}
