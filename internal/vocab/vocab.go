// Package vocab builds a frequency-ordered word vocabulary from a corpus and
// maps texts to integer id sequences.
//
// Ids start at 1 and are assigned by descending word count, ties broken by
// first occurrence. Id 0 is never assigned; it is reserved for padding.
package vocab

import (
	"errors"
	"fmt"
	"maps"
	"sort"
)

// ErrInvalidOptions is returned by Fit for unusable options.
var ErrInvalidOptions = errors.New("invalid vocabulary options")

// Options configures vocabulary fitting and text conversion.
type Options struct {
	// NumWords caps the vocabulary used for conversion: only ids below
	// NumWords are emitted. Zero disables the cap.
	NumWords int
	// OOVToken, when set, takes id 1 and replaces unknown or capped words.
	OOVToken string
	// Splitter defaults to DefaultWordSplitter.
	Splitter Splitter
}

// WordCount is a word and the number of times it occurred in the corpus.
type WordCount struct {
	Word  string `json:"word" yaml:"word"`
	Count int    `json:"count" yaml:"count"`
}

// Entry describes one vocabulary id.
type Entry struct {
	ID    int    `json:"id" yaml:"id"`
	Word  string `json:"word" yaml:"word"`
	Count int    `json:"count" yaml:"count"`
	Docs  int    `json:"docs" yaml:"docs"`
}

// Vocabulary is an immutable word index fitted on a corpus.
type Vocabulary struct {
	opts      Options
	wordIndex map[string]int
	indexWord map[int]string
	counts    []WordCount // first-occurrence order
	wordDocs  map[string]int
	docCount  int
}

// Fit counts the words of every text and assigns ids.
func Fit(texts []string, opts Options) (*Vocabulary, error) {
	if opts.NumWords < 0 {
		return nil, fmt.Errorf("%w: num words must be non-negative, got %d", ErrInvalidOptions, opts.NumWords)
	}

	if opts.Splitter == nil {
		opts.Splitter = DefaultWordSplitter()
	}

	v := &Vocabulary{
		opts:      opts,
		wordIndex: make(map[string]int),
		indexWord: make(map[int]string),
		wordDocs:  make(map[string]int),
	}

	position := make(map[string]int)
	for _, text := range texts {
		v.docCount++

		seen := make(map[string]struct{})
		for _, w := range opts.Splitter.Split(text) {
			if i, ok := position[w]; ok {
				v.counts[i].Count++
			} else {
				position[w] = len(v.counts)
				v.counts = append(v.counts, WordCount{Word: w, Count: 1})
			}

			if _, ok := seen[w]; !ok {
				seen[w] = struct{}{}
				v.wordDocs[w]++
			}
		}
	}

	ordered := make([]WordCount, len(v.counts))
	copy(ordered, v.counts)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Count > ordered[j].Count
	})

	next := 1
	if opts.OOVToken != "" {
		v.wordIndex[opts.OOVToken] = next
		v.indexWord[next] = opts.OOVToken
		next++
	}

	for _, wc := range ordered {
		if wc.Word == opts.OOVToken {
			continue
		}

		v.wordIndex[wc.Word] = next
		v.indexWord[next] = wc.Word
		next++
	}

	return v, nil
}

// Split returns the words of text as seen by the vocabulary.
func (v *Vocabulary) Split(text string) []string {
	return v.opts.Splitter.Split(text)
}

// TextToSequence maps the words of text to ids. Unknown words and words
// beyond the NumWords cap are dropped, or replaced by the OOV id if set.
func (v *Vocabulary) TextToSequence(text string) []int {
	oov, hasOOV := v.oovID()

	words := v.Split(text)
	seq := make([]int, 0, len(words))
	for _, w := range words {
		id, ok := v.wordIndex[w]
		switch {
		case ok && (v.opts.NumWords == 0 || id < v.opts.NumWords):
			seq = append(seq, id)
		case hasOOV:
			seq = append(seq, oov)
		}
	}

	return seq
}

// TextsToSequences maps every text with TextToSequence.
func (v *Vocabulary) TextsToSequences(texts []string) [][]int {
	out := make([][]int, len(texts))
	for i, t := range texts {
		out[i] = v.TextToSequence(t)
	}

	return out
}

func (v *Vocabulary) oovID() (int, bool) {
	if v.opts.OOVToken == "" {
		return 0, false
	}

	return v.wordIndex[v.opts.OOVToken], true
}

// Word returns the word for id.
func (v *Vocabulary) Word(id int) (string, bool) {
	w, ok := v.indexWord[id]
	return w, ok
}

// ID returns the id for word.
func (v *Vocabulary) ID(word string) (int, bool) {
	id, ok := v.wordIndex[word]
	return id, ok
}

// Len returns the number of assigned ids, including the OOV token.
func (v *Vocabulary) Len() int { return len(v.wordIndex) }

// NumWords returns the configured cap, 0 when uncapped.
func (v *Vocabulary) NumWords() int { return v.opts.NumWords }

// OOVToken returns the configured out-of-vocabulary token.
func (v *Vocabulary) OOVToken() string { return v.opts.OOVToken }

// DocumentCount returns the number of texts the vocabulary was fitted on.
func (v *Vocabulary) DocumentCount() int { return v.docCount }

// WordIndex returns a copy of the word → id mapping.
func (v *Vocabulary) WordIndex() map[string]int { return maps.Clone(v.wordIndex) }

// IndexWord returns a copy of the id → word mapping.
func (v *Vocabulary) IndexWord() map[int]string { return maps.Clone(v.indexWord) }

// WordDocs returns, per word, the number of texts containing it.
func (v *Vocabulary) WordDocs() map[string]int { return maps.Clone(v.wordDocs) }

// WordCounts returns word counts in first-occurrence order.
func (v *Vocabulary) WordCounts() []WordCount {
	out := make([]WordCount, len(v.counts))
	copy(out, v.counts)

	return out
}

// Entries returns every assigned id in ascending order.
func (v *Vocabulary) Entries() []Entry {
	counts := make(map[string]int, len(v.counts))
	for _, wc := range v.counts {
		counts[wc.Word] = wc.Count
	}

	out := make([]Entry, 0, len(v.indexWord))
	for id := 1; id <= len(v.indexWord); id++ {
		w := v.indexWord[id]
		out = append(out, Entry{ID: id, Word: w, Count: counts[w], Docs: v.wordDocs[w]})
	}

	return out
}
