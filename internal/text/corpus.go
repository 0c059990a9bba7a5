package text

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// maxLineBytes bounds a single corpus line.
const maxLineBytes = 1 << 20

// CorpusOptions controls how a corpus file is turned into texts.
type CorpusOptions struct {
	// KeepBlank keeps blank lines as empty texts. They still count towards
	// the length statistics.
	KeepBlank bool
	// Sentences splits every line into sentences, one text per sentence.
	Sentences bool
}

// ReadCorpus reads one text per line from r.
func ReadCorpus(r io.Reader, opts CorpusOptions) ([]string, error) {
	var texts []string

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for sc.Scan() {
		line := strings.TrimSpace(norm.NFC.String(strings.TrimRight(sc.Text(), "\r")))

		if line == "" {
			if opts.KeepBlank {
				texts = append(texts, "")
			}

			continue
		}

		if opts.Sentences {
			texts = append(texts, SplitSentences(line)...)
			continue
		}

		texts = append(texts, line)
	}

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}

	return texts, nil
}

// ReadCorpusFile reads a corpus from path; "-" reads from stdin.
func ReadCorpusFile(path string, opts CorpusOptions) ([]string, error) {
	if path == "-" {
		return ReadCorpus(os.Stdin, opts)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus %q: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	return ReadCorpus(f, opts)
}
