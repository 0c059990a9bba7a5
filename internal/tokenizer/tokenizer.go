// Package tokenizer turns a text corpus into fixed-width integer token
// sequences for sequence models.
//
// A TextTokenizer is fitted once on a corpus: it builds the vocabulary,
// encodes every text, optionally reverses each sequence, derives the padding
// width from the length distribution (mean + 2·stddev) and pads the result.
// After construction it is read-only and safe for concurrent use.
package tokenizer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/example/go-texttok/internal/sequence"
	"github.com/example/go-texttok/internal/vocab"
)

var (
	// ErrInvalidInput is the root of all construction errors.
	ErrInvalidInput = errors.New("invalid input")
	// ErrEmptyCorpus is returned by New when no texts are given.
	ErrEmptyCorpus = fmt.Errorf("%w: fitting corpus is empty", ErrInvalidInput)
)

// PaddingWord is returned by TokenToWord for the padding id.
const PaddingWord = " "

// Options configures New.
type Options struct {
	// Padding is the side padded with zeros. Empty means sequence.Pre.
	Padding sequence.Side
	// Reverse flips every sequence; truncation then happens at the front so
	// the tail of the original text is what gets cut.
	Reverse bool
	// NumWords caps the vocabulary; 0 keeps every word.
	NumWords int
	// OOVToken optionally replaces unknown and capped words.
	OOVToken string
	// Splitter defaults to vocab.DefaultWordSplitter.
	Splitter vocab.Splitter
}

// TextTokenizer holds a fitted vocabulary and the padded corpus.
type TextTokenizer struct {
	vocab      *vocab.Vocabulary
	padding    sequence.Side
	truncating sequence.Side
	reverse    bool
	stats      sequence.LengthStats
	maxTokens  int
	tokens     [][]int
	padded     [][]int
}

// New fits a TextTokenizer on texts.
func New(texts []string, opts Options) (*TextTokenizer, error) {
	if len(texts) == 0 {
		return nil, ErrEmptyCorpus
	}

	padding, err := sequence.ParseSide(string(opts.Padding))
	if err != nil {
		return nil, fmt.Errorf("%w: padding: %w", ErrInvalidInput, err)
	}

	v, err := vocab.Fit(texts, vocab.Options{
		NumWords: opts.NumWords,
		OOVToken: opts.OOVToken,
		Splitter: opts.Splitter,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	t := &TextTokenizer{
		vocab:      v,
		padding:    padding,
		truncating: truncationSide(opts.Reverse),
		reverse:    opts.Reverse,
		tokens:     v.TextsToSequences(texts),
	}

	if opts.Reverse {
		for i, seq := range t.tokens {
			t.tokens[i] = sequence.Reverse(seq)
		}
	}

	t.stats, err = sequence.ComputeStats(sequence.Lengths(t.tokens))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	t.maxTokens = t.stats.Cutoff()

	t.padded, err = sequence.Pad(t.tokens, t.maxTokens, t.padding, t.truncating)
	if err != nil {
		return nil, fmt.Errorf("pad corpus: %w", err)
	}

	return t, nil
}

// truncationSide cuts reversed sequences at the front, which is the end of
// the original word order.
func truncationSide(reverse bool) sequence.Side {
	if reverse {
		return sequence.Pre
	}

	return sequence.Post
}

// TokenToWord returns the word for id. The padding id 0 renders as a single
// space; ids outside the vocabulary render as the empty string.
func (t *TextTokenizer) TokenToWord(id int) string {
	if id == sequence.PadValue {
		return PaddingWord
	}

	w, _ := t.vocab.Word(id)

	return w
}

// TokensToText decodes ids into space-separated words. Padding ids are
// skipped; unknown ids contribute an empty word.
func (t *TextTokenizer) TokensToText(ids []int) string {
	return strings.Join(t.TokensToWords(ids), " ")
}

// TokensToWords is TokensToText without the final join.
func (t *TextTokenizer) TokensToWords(ids []int) []string {
	words := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == sequence.PadValue {
			continue
		}

		w, _ := t.vocab.Word(id)
		words = append(words, w)
	}

	return words
}

// EncodeOptions configures TextToTokens.
type EncodeOptions struct {
	// Reverse flips the encoded sequence and truncates at the front.
	Reverse bool
	// Pad pads or truncates the result to MaxTokens.
	Pad bool
	// Padding is the padded side when Pad is set. The zero value pads at the
	// front regardless of the side the corpus was padded with.
	Padding sequence.Side
}

// TextToTokens encodes a single text with the fitted vocabulary. The text is
// split into words exactly like the fitting corpus.
func (t *TextTokenizer) TextToTokens(text string, opts EncodeOptions) ([]int, error) {
	seq := t.vocab.TextToSequence(text)
	if opts.Reverse {
		seq = sequence.Reverse(seq)
	}

	if !opts.Pad {
		return seq, nil
	}

	padding, err := sequence.ParseSide(string(opts.Padding))
	if err != nil {
		return nil, fmt.Errorf("%w: padding: %w", ErrInvalidInput, err)
	}

	return sequence.PadOne(seq, t.maxTokens, padding, truncationSide(opts.Reverse)), nil
}

// MaxTokens returns the padding width derived at construction.
func (t *TextTokenizer) MaxTokens() int { return t.maxTokens }

// Stats returns the length statistics of the fitted corpus.
func (t *TextTokenizer) Stats() sequence.LengthStats { return t.stats }

// Padding returns the side the corpus was padded on.
func (t *TextTokenizer) Padding() sequence.Side { return t.padding }

// Truncating returns the side over-long corpus sequences were cut from.
func (t *TextTokenizer) Truncating() sequence.Side { return t.truncating }

// Reversed reports whether corpus sequences were reversed.
func (t *TextTokenizer) Reversed() bool { return t.reverse }

// Vocabulary returns the fitted vocabulary.
func (t *TextTokenizer) Vocabulary() *vocab.Vocabulary { return t.vocab }

// Tokens returns a copy of the unpadded corpus sequences.
func (t *TextTokenizer) Tokens() [][]int { return cloneMatrix(t.tokens) }

// Padded returns a copy of the padded corpus matrix.
func (t *TextTokenizer) Padded() [][]int { return cloneMatrix(t.padded) }

// Lengths returns the unpadded length of every corpus sequence.
func (t *TextTokenizer) Lengths() []int { return sequence.Lengths(t.tokens) }

func cloneMatrix(m [][]int) [][]int {
	out := make([][]int, len(m))
	for i, row := range m {
		out[i] = append([]int(nil), row...)
	}

	return out
}
