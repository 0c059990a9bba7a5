package main

import (
	"fmt"
	"log/slog"

	"github.com/example/go-texttok/internal/config"
	"github.com/example/go-texttok/internal/sequence"
	"github.com/example/go-texttok/internal/text"
	"github.com/example/go-texttok/internal/tokenizer"
	"github.com/example/go-texttok/internal/vocab"
)

// newSplitter returns the SentencePiece splitter when a model is configured
// and the word splitter otherwise.
func newSplitter(cfg config.Config) (vocab.Splitter, error) {
	if cfg.Paths.PiecesModel != "" {
		sp, err := tokenizer.NewSentencePieceSplitter(cfg.Paths.PiecesModel, cfg.Tokenizer.Lower)
		if err != nil {
			return nil, err
		}
		return sp, nil
	}

	return vocab.NewWordSplitter(cfg.Tokenizer.Lower, cfg.Tokenizer.Filters, cfg.Tokenizer.Split), nil
}

func loadCorpus(cfg config.Config) ([]string, error) {
	texts, err := text.ReadCorpusFile(cfg.Paths.Corpus, text.CorpusOptions{
		KeepBlank: cfg.Corpus.KeepBlank,
		Sentences: cfg.Corpus.Sentences,
	})
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}
	return texts, nil
}

func tokenizerOptions(cfg config.Config) (tokenizer.Options, error) {
	padding, err := sequence.ParseSide(cfg.Tokenizer.Padding)
	if err != nil {
		return tokenizer.Options{}, err
	}

	splitter, err := newSplitter(cfg)
	if err != nil {
		return tokenizer.Options{}, err
	}

	return tokenizer.Options{
		Padding:  padding,
		Reverse:  cfg.Tokenizer.Reverse,
		NumWords: cfg.Tokenizer.NumWords,
		OOVToken: cfg.Tokenizer.OOVToken,
		Splitter: splitter,
	}, nil
}

// buildTokenizer reads the configured corpus and fits a tokenizer on it.
func buildTokenizer(cfg config.Config) (*tokenizer.TextTokenizer, error) {
	texts, err := loadCorpus(cfg)
	if err != nil {
		return nil, err
	}

	opts, err := tokenizerOptions(cfg)
	if err != nil {
		return nil, err
	}

	tok, err := tokenizer.New(texts, opts)
	if err != nil {
		return nil, fmt.Errorf("fit tokenizer: %w", err)
	}

	stats := tok.Stats()
	slog.Debug("tokenizer fitted",
		slog.String("corpus", cfg.Paths.Corpus),
		slog.Int("texts", len(texts)),
		slog.Int("vocab_size", tok.Vocabulary().Len()),
		slog.Int("max_tokens", tok.MaxTokens()),
		slog.Float64("mean_length", stats.Mean),
		slog.Float64("stddev_length", stats.StdDev),
	)

	if tok.MaxTokens() == 0 {
		slog.Warn("corpus produced no tokens; every padded sequence is empty",
			slog.String("corpus", cfg.Paths.Corpus),
			slog.Int("texts", len(texts)),
		)
	}

	return tok, nil
}
