package ui

import (
	"strings"
	"testing"
)

func TestTruncateSimple(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{
			name:   "short text unchanged",
			input:  "hello",
			maxLen: 10,
			want:   "hello",
		},
		{
			name:   "exact length unchanged",
			input:  "hello",
			maxLen: 5,
			want:   "hello",
		},
		{
			name:   "truncate with ellipsis",
			input:  "hello world",
			maxLen: 8,
			want:   "hello...",
		},
		{
			name:   "very short maxLen",
			input:  "hello world",
			maxLen: 3,
			want:   "...",
		},
		{
			name:   "empty string",
			input:  "",
			maxLen: 10,
			want:   "",
		},
		{
			name:   "unicode chars",
			input:  "héllo wörld",
			maxLen: 8,
			want:   "héllo...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateSimple(tt.input, tt.maxLen)
			if got != tt.want {
				t.Errorf("TruncateSimple(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestShouldTruncate(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxLines int
		maxChars int
		want     bool
	}{
		{
			name:     "short text no truncation",
			text:     "hello",
			maxLines: 10,
			maxChars: 100,
			want:     false,
		},
		{
			name:     "exceeds char limit",
			text:     strings.Repeat("a", 200),
			maxLines: 0,
			maxChars: 100,
			want:     true,
		},
		{
			name:     "exceeds line limit",
			text:     "a\nb\nc\nd\ne\nf",
			maxLines: 3,
			maxChars: 0,
			want:     true,
		},
		{
			name:     "empty text",
			text:     "",
			maxLines: 10,
			maxChars: 100,
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShouldTruncate(tt.text, tt.maxLines, tt.maxChars)
			if got != tt.want {
				t.Errorf("ShouldTruncate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOneLine(t *testing.T) {
	if got := OneLine("Issue Ids: 42\n  https://ssc/42 "); got != "Issue Ids: 42 https://ssc/42" {
		t.Errorf("OneLine() = %q", got)
	}
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxWidth int
		wantLine int // Number of lines expected
	}{
		{
			name:     "short line unchanged",
			text:     "hello world",
			maxWidth: 80,
			wantLine: 1,
		},
		{
			name:     "wrap long line",
			text:     "the quick brown fox jumps over the lazy dog",
			maxWidth: 20,
			wantLine: 3, // Should wrap into multiple lines
		},
		{
			name:     "preserve newlines",
			text:     "line 1\nline 2",
			maxWidth: 80,
			wantLine: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapText(tt.text, tt.maxWidth)
			gotLines := strings.Count(got, "\n") + 1
			if gotLines != tt.wantLine {
				t.Errorf("WrapText() got %d lines, want %d lines\nOutput: %q", gotLines, tt.wantLine, got)
			}
		})
	}
}
