package tokenizer

import (
	"errors"
	"fmt"
	"strings"

	gosp "github.com/vikesh-raj/go-sentencepiece-encoder/sentencepiece"
)

// ErrEmptyPath is returned when NewSentencePieceSplitter is called with an empty path.
var ErrEmptyPath = errors.New("sentencepiece model path must not be empty")

// pieceSep is the SentencePiece word-start marker (U+2581).
const pieceSep = "▁"

// SentencePieceSplitter implements vocab.Splitter with a pure-Go UNIGRAM
// SentencePiece model: the vocabulary is then fitted on subword pieces
// instead of whitespace-separated words.
type SentencePieceSplitter struct {
	proc gosp.Sentencepiece
}

// NewSentencePieceSplitter loads a SentencePiece model from the given path.
// lowercase lower-cases text before it is split into pieces.
func NewSentencePieceSplitter(modelPath string, lowercase bool) (*SentencePieceSplitter, error) {
	if modelPath == "" {
		return nil, ErrEmptyPath
	}

	proc, err := gosp.NewSentencepieceFromFile(modelPath, lowercase)
	if err != nil {
		return nil, fmt.Errorf("load sentencepiece model %q: %w", modelPath, err)
	}

	return &SentencePieceSplitter{proc: proc}, nil
}

// Split implements vocab.Splitter. Pieces keep their word-start marker so
// that "▁lo" and a word-internal "lo" stay distinct vocabulary entries;
// bare markers are dropped.
func (s *SentencePieceSplitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{}
	}

	tokens := s.proc.Tokenize(text)

	pieces := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Text == "" || tok.Text == pieceSep {
			continue
		}

		pieces = append(pieces, tok.Text)
	}

	return pieces
}
