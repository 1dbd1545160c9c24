package ui

import (
	"strings"
	"unicode/utf8"
)

// DefaultValueWidth is the width field values are cut to in tables.
const DefaultValueWidth = 60

// TruncateSimple performs simple end truncation with "..." suffix.
// UTF-8 safe.
func TruncateSimple(text string, maxLen int) string {
	if utf8.RuneCountInString(text) <= maxLen {
		return text
	}
	runes := []rune(text)
	if maxLen <= 3 {
		return "..."
	}
	return string(runes[:maxLen-3]) + "..."
}

// OneLine collapses line breaks so a value fits a single table cell.
func OneLine(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// WrapText wraps text at word boundaries to fit within maxWidth.
// Preserves existing line breaks.
func WrapText(text string, maxWidth int) string {
	if maxWidth <= 0 {
		maxWidth = 80
	}

	var result strings.Builder
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			result.WriteString("\n")
		}
		result.WriteString(wrapLine(line, maxWidth))
	}
	return result.String()
}

// wrapLine wraps a single line at word boundaries.
func wrapLine(line string, maxWidth int) string {
	if utf8.RuneCountInString(line) <= maxWidth {
		return line
	}

	var result strings.Builder
	currentLen := 0
	for _, word := range strings.Fields(line) {
		wordLen := utf8.RuneCountInString(word)

		// First word on a line goes in even when too long
		if currentLen == 0 {
			result.WriteString(word)
			currentLen = wordLen
			continue
		}

		if currentLen+1+wordLen <= maxWidth {
			result.WriteString(" ")
			result.WriteString(word)
			currentLen += 1 + wordLen
		} else {
			result.WriteString("\n")
			result.WriteString(word)
			currentLen = wordLen
		}
	}
	return result.String()
}

// ShouldTruncate returns true if text exceeds the given thresholds.
func ShouldTruncate(text string, maxLines, maxChars int) bool {
	if maxChars > 0 && utf8.RuneCountInString(text) > maxChars {
		return true
	}
	if maxLines > 0 && strings.Count(text, "\n")+1 > maxLines {
		return true
	}
	return false
}
