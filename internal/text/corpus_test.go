package text

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadCorpus(t *testing.T) {
	input := "The cat sat.\r\n\n  The dog ran fast!  \nTwo sentences. In one line.\n"

	tests := []struct {
		name string
		opts CorpusOptions
		want []string
	}{
		{
			name: "skips blank lines",
			opts: CorpusOptions{},
			want: []string{"The cat sat.", "The dog ran fast!", "Two sentences. In one line."},
		},
		{
			name: "keeps blank lines",
			opts: CorpusOptions{KeepBlank: true},
			want: []string{"The cat sat.", "", "The dog ran fast!", "Two sentences. In one line."},
		},
		{
			name: "splits sentences",
			opts: CorpusOptions{Sentences: true},
			want: []string{"The cat sat.", "The dog ran fast!", "Two sentences.", "In one line."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadCorpus(strings.NewReader(input), tt.opts)
			if err != nil {
				t.Fatalf("ReadCorpus() error = %v", err)
			}

			if len(got) != len(tt.want) {
				t.Fatalf("ReadCorpus() = %q, want %q", got, tt.want)
			}

			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("text[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestReadCorpus_Empty(t *testing.T) {
	got, err := ReadCorpus(strings.NewReader(""), CorpusOptions{})
	if err != nil {
		t.Fatalf("ReadCorpus() error = %v", err)
	}

	if len(got) != 0 {
		t.Errorf("ReadCorpus(empty) = %q, want none", got)
	}
}

func TestReadCorpus_LineTooLong(t *testing.T) {
	long := strings.Repeat("a", maxLineBytes+1)

	_, err := ReadCorpus(strings.NewReader(long), CorpusOptions{})
	if err == nil {
		t.Fatal("expected error for over-long line")
	}
}

func TestReadCorpusFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.txt")

	err := os.WriteFile(path, []byte("one\ntwo\n"), 0o644)
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := ReadCorpusFile(path, CorpusOptions{})
	if err != nil {
		t.Fatalf("ReadCorpusFile() error = %v", err)
	}

	if len(got) != 2 || got[0] != "one" || got[1] != "two" {
		t.Errorf("ReadCorpusFile() = %q", got)
	}
}

func TestReadCorpusFile_Missing(t *testing.T) {
	_, err := ReadCorpusFile(filepath.Join(t.TempDir(), "missing.txt"), CorpusOptions{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ReadCorpusFile(missing) error = %v, want os.ErrNotExist", err)
	}
}
