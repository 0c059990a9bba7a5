package tokenizer

import "github.com/example/go-texttok/internal/vocab"

// Snapshot is the exportable summary of a fitted TextTokenizer.
type Snapshot struct {
	MaxTokens     int           `json:"max_tokens" yaml:"max_tokens"`
	Padding       string        `json:"padding" yaml:"padding"`
	Truncating    string        `json:"truncating" yaml:"truncating"`
	Reverse       bool          `json:"reverse" yaml:"reverse"`
	NumWords      int           `json:"num_words,omitempty" yaml:"num_words,omitempty"`
	OOVToken      string        `json:"oov_token,omitempty" yaml:"oov_token,omitempty"`
	DocumentCount int           `json:"document_count" yaml:"document_count"`
	MeanLength    float64       `json:"mean_length" yaml:"mean_length"`
	StdDevLength  float64       `json:"stddev_length" yaml:"stddev_length"`
	VocabSize     int           `json:"vocab_size" yaml:"vocab_size"`
	Vocabulary    []vocab.Entry `json:"vocabulary" yaml:"vocabulary"`
}

// Snapshot summarizes the tokenizer configuration and its vocabulary.
func (t *TextTokenizer) Snapshot() Snapshot {
	return Snapshot{
		MaxTokens:     t.maxTokens,
		Padding:       string(t.padding),
		Truncating:    string(t.truncating),
		Reverse:       t.reverse,
		NumWords:      t.vocab.NumWords(),
		OOVToken:      t.vocab.OOVToken(),
		DocumentCount: t.vocab.DocumentCount(),
		MeanLength:    t.stats.Mean,
		StdDevLength:  t.stats.StdDev,
		VocabSize:     t.vocab.Len(),
		Vocabulary:    t.vocab.Entries(),
	}
}
