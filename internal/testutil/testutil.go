// Package testutil provides shared fixtures and skip helpers for tests.
//
// Skip helpers call t.Skip with a clear human-readable reason when the named
// prerequisite is absent, so tests that need optional assets remain runnable
// in partial environments without failing noisily.
//
// Typical usage:
//
//	func TestPieces(t *testing.T) {
//	    path := testutil.PiecesModelPath(t)
//	    ...
//	}
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// PiecesModelEnv names the environment variable that points at a
// SentencePiece model for tests.
const PiecesModelEnv = "TEXTTOK_PATHS_PIECES_MODEL"

// PiecesModelPath returns the path to a SentencePiece model, skipping the test
// if none is available. It checks PiecesModelEnv first, then walks up from the
// working directory looking for models/tokenizer.model.
func PiecesModelPath(tb testing.TB) string {
	tb.Helper()

	if p := os.Getenv(PiecesModelEnv); p != "" {
		_, err := os.Stat(p)
		if err == nil {
			return p
		}

		tb.Skipf("sentencepiece model not found at %s=%q", PiecesModelEnv, p)

		return ""
	}

	dir, err := filepath.Abs(".")
	if err != nil {
		tb.Skipf("abs path: %v", err)
		return ""
	}

	for {
		candidate := filepath.Join(dir, "models", "tokenizer.model")

		_, err = os.Stat(candidate)
		if err == nil {
			return candidate
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}

		dir = parent
	}

	tb.Skip("models/tokenizer.model not found; set " + PiecesModelEnv + " to override")

	return ""
}

// WriteCorpus writes one text per line to a temporary file and returns its path.
func WriteCorpus(tb testing.TB, texts ...string) string {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "corpus.txt")

	err := os.WriteFile(path, []byte(strings.Join(texts, "\n")+"\n"), 0o644)
	if err != nil {
		tb.Fatalf("write corpus: %v", err)
	}

	return path
}

// SampleCorpusPath returns the path to the committed sample corpus relative
// to the repository root.
func SampleCorpusPath() string {
	return filepath.Join("cmd", "texttok", "testdata", "corpus.txt")
}
