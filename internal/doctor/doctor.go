// Package doctor provides environment preflight checks for texttok.
package doctor

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// PassMark and FailMark are the prefix symbols printed for each check result.
const (
	PassMark = "✓"
	FailMark = "✗"
)

// CorpusFunc loads the corpus at path and returns the number of texts.
type CorpusFunc func(path string) (int, error)

// ModelFunc loads the model at path.
type ModelFunc func(path string) error

// Config holds injectable dependencies for each doctor check.
type Config struct {
	// CorpusPath is the fitting corpus; "-" (stdin) is not checked.
	CorpusPath string
	// LoadCorpus reads the corpus. A nil func only checks the file exists.
	LoadCorpus CorpusFunc
	// PiecesModelPath is the optional SentencePiece model; empty skips the check.
	PiecesModelPath string
	// LoadPiecesModel parses the model. A nil func only checks the file exists.
	LoadPiecesModel ModelFunc
	// ConfigFile is an explicit config file to verify on disk.
	ConfigFile string
}

// Result collects the outcome of all checks.
type Result struct {
	failures []string
}

// Failed returns true if any check failed.
func (r *Result) Failed() bool { return len(r.failures) > 0 }

// Failures returns the list of failure messages.
func (r *Result) Failures() []string { return append([]string(nil), r.failures...) }

// AddFailure appends an external failure message to the result.
func (r *Result) AddFailure(msg string) { r.failures = append(r.failures, msg) }

func (r *Result) fail(msg string) { r.failures = append(r.failures, msg) }

var errEmptyCorpus = errors.New("no texts")

// Run executes all configured checks and writes human-readable output to w.
// Each check line is prefixed with PassMark or FailMark.
func Run(cfg Config, w io.Writer) Result {
	var res Result

	// ---- config file ------------------------------------------------------
	if cfg.ConfigFile != "" {
		if err := checkFile(cfg.ConfigFile); err != nil {
			res.fail(fmt.Sprintf("config file %q: %v", cfg.ConfigFile, err))
			fmt.Fprintf(w, "%s config file %s: %v\n", FailMark, cfg.ConfigFile, err)
		} else {
			fmt.Fprintf(w, "%s config file: %s\n", PassMark, cfg.ConfigFile)
		}
	}

	// ---- corpus -----------------------------------------------------------
	switch cfg.CorpusPath {
	case "":
		res.fail("corpus: no path configured")
		fmt.Fprintf(w, "%s corpus: no path configured\n", FailMark)
	case "-":
		fmt.Fprintf(w, "%s corpus: stdin (skipped)\n", PassMark)
	default:
		n, err := checkCorpus(cfg.CorpusPath, cfg.LoadCorpus)
		if err != nil {
			res.fail(fmt.Sprintf("corpus %q: %v", cfg.CorpusPath, err))
			fmt.Fprintf(w, "%s corpus %s: %v\n", FailMark, cfg.CorpusPath, err)
		} else {
			fmt.Fprintf(w, "%s corpus: %s (%d texts)\n", PassMark, cfg.CorpusPath, n)
		}
	}

	// ---- sentencepiece model ----------------------------------------------
	if cfg.PiecesModelPath == "" {
		fmt.Fprintf(w, "%s sentencepiece model: not configured (word splitting)\n", PassMark)
	} else {
		err := checkFile(cfg.PiecesModelPath)
		if err == nil && cfg.LoadPiecesModel != nil {
			err = cfg.LoadPiecesModel(cfg.PiecesModelPath)
		}
		if err != nil {
			res.fail(fmt.Sprintf("sentencepiece model %q: %v", cfg.PiecesModelPath, err))
			fmt.Fprintf(w, "%s sentencepiece model %s: %v\n", FailMark, cfg.PiecesModelPath, err)
		} else {
			fmt.Fprintf(w, "%s sentencepiece model: %s\n", PassMark, cfg.PiecesModelPath)
		}
	}

	return res
}

func checkCorpus(path string, load CorpusFunc) (int, error) {
	if err := checkFile(path); err != nil {
		return 0, err
	}
	if load == nil {
		return 0, nil
	}
	n, err := load(path)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, errEmptyCorpus
	}
	return n, nil
}

// checkFile returns an error unless path is an existing regular file.
func checkFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("is a directory")
	}
	return nil
}
