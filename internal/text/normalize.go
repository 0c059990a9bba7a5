// Package text loads and cleans the raw texts a tokenizer is fitted on.
package text

import (
	"errors"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ErrEmptyText is returned when the input text is empty or whitespace-only.
var ErrEmptyText = errors.New("text is empty")

// NormalizeLineEndings converts CRLF and bare CR to LF.
func NormalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// Normalize prepares a single input text for encoding.
// It normalizes line endings to \n, composes the text to NFC, trims
// surrounding whitespace and rejects empty or whitespace-only input.
func Normalize(s string) (string, error) {
	s = norm.NFC.String(NormalizeLineEndings(s))
	s = strings.TrimSpace(s)

	if s == "" {
		return "", ErrEmptyText
	}

	return s, nil
}
