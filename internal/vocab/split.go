package vocab

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// DefaultFilters lists the characters stripped from text before splitting.
const DefaultFilters = "!\"#$%&()*+,-./:;<=>?@[\\]^_`{|}~\t\n"

// DefaultSeparator is the word separator used by the default splitter.
const DefaultSeparator = " "

// Splitter turns a text into the sequence of words counted by the vocabulary.
// Implementations must be safe for concurrent use.
type Splitter interface {
	Split(text string) []string
}

// WordSplitter lower-cases text, replaces every filter character with the
// separator and splits on the separator, dropping empty words.
type WordSplitter struct {
	lower    bool
	sep      string
	replacer *strings.Replacer
}

// NewWordSplitter returns a WordSplitter. An empty sep falls back to
// DefaultSeparator.
func NewWordSplitter(lower bool, filters, sep string) *WordSplitter {
	if sep == "" {
		sep = DefaultSeparator
	}

	var pairs []string
	for _, r := range filters {
		pairs = append(pairs, string(r), sep)
	}

	return &WordSplitter{
		lower:    lower,
		sep:      sep,
		replacer: strings.NewReplacer(pairs...),
	}
}

// DefaultWordSplitter lower-cases and strips DefaultFilters.
func DefaultWordSplitter() *WordSplitter {
	return NewWordSplitter(true, DefaultFilters, DefaultSeparator)
}

// Split implements Splitter.
func (s *WordSplitter) Split(text string) []string {
	text = norm.NFC.String(text)
	if s.lower {
		// cases.Caser keeps state, so one is built per call.
		text = cases.Lower(language.Und).String(text)
	}

	text = s.replacer.Replace(text)

	parts := strings.Split(text, s.sep)
	words := parts[:0]
	for _, p := range parts {
		if p != "" {
			words = append(words, p)
		}
	}

	return words
}
