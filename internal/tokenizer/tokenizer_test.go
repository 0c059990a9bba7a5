package tokenizer

import (
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/example/go-texttok/internal/sequence"
)

var exampleCorpus = []string{"the cat sat", "the dog ran fast"}

func mustNew(t *testing.T, texts []string, opts Options) *TextTokenizer {
	t.Helper()

	tok, err := New(texts, opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	return tok
}

// truncationCorpus has nine one-word texts and one ten-word text. Its
// lengths have mean 1.9 and stddev 2.7, so the cutoff is 7 and the long text
// is truncated.
func truncationCorpus() []string {
	texts := make([]string, 0, 10)
	for i := 0; i < 9; i++ {
		texts = append(texts, "x")
	}

	return append(texts, "a b c d e f g h i j")
}

func assertMatrix(t *testing.T, got, want [][]int) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("rows = %d; want %d", len(got), len(want))
	}

	for i := range want {
		if !slices.Equal(got[i], want[i]) {
			t.Errorf("row %d = %v; want %v", i, got[i], want[i])
		}
	}
}

// ---------------------------------------------------------------------------
// New
// ---------------------------------------------------------------------------

func TestNew_PostPadding(t *testing.T) {
	tok := mustNew(t, exampleCorpus, Options{Padding: sequence.Post})

	if tok.MaxTokens() != 4 {
		t.Fatalf("MaxTokens() = %d; want 4", tok.MaxTokens())
	}

	assertMatrix(t, tok.Tokens(), [][]int{{1, 2, 3}, {1, 4, 5, 6}})
	assertMatrix(t, tok.Padded(), [][]int{{1, 2, 3, 0}, {1, 4, 5, 6}})

	if tok.Truncating() != sequence.Post {
		t.Errorf("Truncating() = %q; want post", tok.Truncating())
	}
}

func TestNew_PrePadding(t *testing.T) {
	tok := mustNew(t, exampleCorpus, Options{Padding: sequence.Pre})

	assertMatrix(t, tok.Padded(), [][]int{{0, 1, 2, 3}, {1, 4, 5, 6}})
}

func TestNew_Reverse(t *testing.T) {
	tok := mustNew(t, exampleCorpus, Options{Padding: sequence.Post, Reverse: true})

	if tok.MaxTokens() != 4 {
		t.Fatalf("MaxTokens() = %d; want 4", tok.MaxTokens())
	}

	assertMatrix(t, tok.Tokens(), [][]int{{3, 2, 1}, {6, 5, 4, 1}})
	assertMatrix(t, tok.Padded(), [][]int{{3, 2, 1, 0}, {6, 5, 4, 1}})

	if !tok.Reversed() {
		t.Error("Reversed() = false; want true")
	}

	if tok.Truncating() != sequence.Pre {
		t.Errorf("Truncating() = %q; want pre", tok.Truncating())
	}
}

func TestNew_TruncatesEndOfOriginalOrder(t *testing.T) {
	// "x" → 1, a..j → 2..11.
	for _, reverse := range []bool{false, true} {
		tok := mustNew(t, truncationCorpus(), Options{Padding: sequence.Post, Reverse: reverse})

		if tok.MaxTokens() != 7 {
			t.Fatalf("reverse=%v: MaxTokens() = %d; want 7", reverse, tok.MaxTokens())
		}

		padded := tok.Padded()
		last := padded[len(padded)-1]

		want := []int{2, 3, 4, 5, 6, 7, 8}
		if reverse {
			want = []int{8, 7, 6, 5, 4, 3, 2}
		}

		if !slices.Equal(last, want) {
			t.Errorf("reverse=%v: long row = %v; want %v", reverse, last, want)
		}

		if got := tok.TokensToText(last); !strings.Contains(got, "a") || strings.Contains(got, "j") {
			t.Errorf("reverse=%v: decoded %q should keep the first words and drop the last", reverse, got)
		}
	}
}

func TestNew_RowsMatchMaxTokens(t *testing.T) {
	corpus := []string{
		"one",
		"one two three",
		"one two three four five six seven eight nine ten eleven",
		"",
		"two three",
	}

	for _, padding := range []sequence.Side{sequence.Pre, sequence.Post} {
		tok := mustNew(t, corpus, Options{Padding: padding})

		padded := tok.Padded()
		if len(padded) != len(corpus) {
			t.Fatalf("rows = %d; want %d", len(padded), len(corpus))
		}

		for i, row := range padded {
			if len(row) != tok.MaxTokens() {
				t.Errorf("padding=%s row %d width = %d; want %d", padding, i, len(row), tok.MaxTokens())
			}
		}
	}
}

func TestNew_NumWordsCap(t *testing.T) {
	tok := mustNew(t, exampleCorpus, Options{Padding: sequence.Post, NumWords: 3})

	assertMatrix(t, tok.Tokens(), [][]int{{1, 2}, {1}})

	if tok.MaxTokens() != 2 {
		t.Fatalf("MaxTokens() = %d; want 2", tok.MaxTokens())
	}

	assertMatrix(t, tok.Padded(), [][]int{{1, 2}, {1, 0}})

	// Capped ids still decode.
	if got := tok.TokenToWord(3); got != "sat" {
		t.Errorf("TokenToWord(3) = %q; want sat", got)
	}
}

func TestNew_OOVToken(t *testing.T) {
	tok := mustNew(t, exampleCorpus, Options{Padding: sequence.Post, NumWords: 3, OOVToken: "<oov>"})

	// <oov> → 1, the → 2, cat → 3.
	assertMatrix(t, tok.Tokens(), [][]int{{2, 1, 1}, {2, 1, 1, 1}})
}

func TestNew_EmptyCorpus(t *testing.T) {
	for _, corpus := range [][]string{nil, {}} {
		_, err := New(corpus, Options{})
		if !errors.Is(err, ErrEmptyCorpus) {
			t.Errorf("New(%v) error = %v; want ErrEmptyCorpus", corpus, err)
		}

		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("New(%v) error = %v; want ErrInvalidInput", corpus, err)
		}
	}
}

func TestNew_AllEmptyTextsIsDegenerate(t *testing.T) {
	tok := mustNew(t, []string{"", "?!", "   "}, Options{Padding: sequence.Post})

	if tok.MaxTokens() != 0 {
		t.Errorf("MaxTokens() = %d; want 0", tok.MaxTokens())
	}

	padded := tok.Padded()
	if len(padded) != 3 {
		t.Fatalf("rows = %d; want 3", len(padded))
	}

	for i, row := range padded {
		if len(row) != 0 {
			t.Errorf("row %d = %v; want empty", i, row)
		}
	}
}

func TestNew_InvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"unknown padding side", Options{Padding: "middle"}},
		{"negative num words", Options{NumWords: -2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(exampleCorpus, tt.opts)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("New() error = %v; want ErrInvalidInput", err)
			}
		})
	}
}

func TestNew_EmptyPaddingDefaultsToPre(t *testing.T) {
	tok := mustNew(t, exampleCorpus, Options{})

	if tok.Padding() != sequence.Pre {
		t.Errorf("Padding() = %q; want pre", tok.Padding())
	}
}

func TestNew_Deterministic(t *testing.T) {
	for _, reverse := range []bool{false, true} {
		a := mustNew(t, truncationCorpus(), Options{Reverse: reverse})
		b := mustNew(t, truncationCorpus(), Options{Reverse: reverse})

		if a.MaxTokens() != b.MaxTokens() {
			t.Errorf("reverse=%v: MaxTokens differ: %d vs %d", reverse, a.MaxTokens(), b.MaxTokens())
		}

		assertMatrix(t, a.Padded(), b.Padded())
	}
}

type charSplitter struct{}

func (charSplitter) Split(text string) []string {
	out := []string{}
	for _, r := range text {
		if r != ' ' {
			out = append(out, string(r))
		}
	}

	return out
}

func TestNew_CustomSplitter(t *testing.T) {
	tok := mustNew(t, []string{"aab", "ba"}, Options{Padding: sequence.Post, Splitter: charSplitter{}})

	// a: 3, b: 2.
	assertMatrix(t, tok.Tokens(), [][]int{{1, 1, 2}, {2, 1}})
}

// ---------------------------------------------------------------------------
// Decoding
// ---------------------------------------------------------------------------

func TestTokenToWord(t *testing.T) {
	tok := mustNew(t, exampleCorpus, Options{Padding: sequence.Post})

	tests := []struct {
		id   int
		want string
	}{
		{0, " "},
		{1, "the"},
		{6, "fast"},
		{7, ""},
		{-1, ""},
		{1000, ""},
	}

	for _, tt := range tests {
		if got := tok.TokenToWord(tt.id); got != tt.want {
			t.Errorf("TokenToWord(%d) = %q; want %q", tt.id, got, tt.want)
		}
	}
}

func TestTokensToText(t *testing.T) {
	tok := mustNew(t, exampleCorpus, Options{Padding: sequence.Post})

	tests := []struct {
		name string
		ids  []int
		want string
	}{
		{"padded row", []int{1, 2, 3, 0}, "the cat sat"},
		{"leading padding", []int{0, 0, 1, 4}, "the dog"},
		{"only padding", []int{0, 0}, ""},
		{"unknown id leaves an empty word", []int{1, 99, 2}, "the  cat"},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tok.TokensToText(tt.ids); got != tt.want {
				t.Errorf("TokensToText(%v) = %q; want %q", tt.ids, got, tt.want)
			}
		})
	}
}

func TestPaddedRowsDecodeToOriginalWords(t *testing.T) {
	corpus := []string{"The cat sat.", "The dog ran fast!", "A bird"}

	for _, reverse := range []bool{false, true} {
		tok := mustNew(t, corpus, Options{Padding: sequence.Pre, Reverse: reverse})

		for i, row := range tok.Padded() {
			words := tok.Vocabulary().Split(corpus[i])
			if len(words) > tok.MaxTokens() {
				continue
			}

			if reverse {
				slices.Reverse(words)
			}

			want := strings.Join(words, " ")
			if got := tok.TokensToText(row); got != want {
				t.Errorf("reverse=%v row %d decodes to %q; want %q", reverse, i, got, want)
			}
		}
	}
}

// ---------------------------------------------------------------------------
// TextToTokens
// ---------------------------------------------------------------------------

func TestTextToTokens(t *testing.T) {
	tok := mustNew(t, exampleCorpus, Options{Padding: sequence.Post})

	tests := []struct {
		name string
		text string
		opts EncodeOptions
		want []int
	}{
		{"words", "The cat", EncodeOptions{}, []int{1, 2}},
		{"unknown words dropped", "the zebra ran", EncodeOptions{}, []int{1, 5}},
		{"reverse", "the cat", EncodeOptions{Reverse: true}, []int{2, 1}},
		{"pad defaults to front", "the cat", EncodeOptions{Pad: true}, []int{0, 0, 1, 2}},
		{"pad at back", "the cat", EncodeOptions{Pad: true, Padding: sequence.Post}, []int{1, 2, 0, 0}},
		{"truncate end", "the cat sat dog ran", EncodeOptions{Pad: true}, []int{1, 2, 3, 4}},
		{"reverse truncates front", "the cat sat dog ran", EncodeOptions{Pad: true, Reverse: true}, []int{4, 3, 2, 1}},
		{"empty", "", EncodeOptions{}, []int{}},
		{"empty padded", "", EncodeOptions{Pad: true}, []int{0, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tok.TextToTokens(tt.text, tt.opts)
			if err != nil {
				t.Fatalf("TextToTokens() error = %v", err)
			}

			if !slices.Equal(got, tt.want) {
				t.Errorf("TextToTokens(%q) = %v; want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestTextToTokens_InvalidPadding(t *testing.T) {
	tok := mustNew(t, exampleCorpus, Options{})

	_, err := tok.TextToTokens("the", EncodeOptions{Pad: true, Padding: "sideways"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("TextToTokens() error = %v; want ErrInvalidInput", err)
	}
}

func TestTextToTokens_ConcurrentReaders(t *testing.T) {
	tok := mustNew(t, exampleCorpus, Options{Padding: sequence.Post})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for j := 0; j < 100; j++ {
				got, err := tok.TextToTokens("The dog ran", EncodeOptions{Pad: true})
				if err != nil || !slices.Equal(got, []int{0, 1, 4, 5}) {
					t.Errorf("TextToTokens() = %v, %v", got, err)
					return
				}

				_ = tok.TokensToText(got)
			}
		}()
	}

	wg.Wait()
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func TestAccessorsReturnCopies(t *testing.T) {
	tok := mustNew(t, exampleCorpus, Options{Padding: sequence.Post})

	tok.Padded()[0][0] = 42
	tok.Tokens()[0][0] = 42

	if tok.Padded()[0][0] != 1 || tok.Tokens()[0][0] != 1 {
		t.Error("accessor copies leaked into tokenizer state")
	}

	if got := tok.Lengths(); !slices.Equal(got, []int{3, 4}) {
		t.Errorf("Lengths() = %v; want [3 4]", got)
	}

	st := tok.Stats()
	if st.Mean != 3.5 || st.StdDev != 0.5 {
		t.Errorf("Stats() = %+v; want mean 3.5 stddev 0.5", st)
	}
}

func TestSnapshot(t *testing.T) {
	tok := mustNew(t, exampleCorpus, Options{Padding: sequence.Post, Reverse: true})

	snap := tok.Snapshot()
	if snap.MaxTokens != 4 || snap.Padding != "post" || snap.Truncating != "pre" || !snap.Reverse {
		t.Errorf("Snapshot() header = %+v", snap)
	}

	if snap.DocumentCount != 2 || snap.VocabSize != 6 || len(snap.Vocabulary) != 6 {
		t.Errorf("Snapshot() counts = docs %d, size %d, entries %d", snap.DocumentCount, snap.VocabSize, len(snap.Vocabulary))
	}

	first := snap.Vocabulary[0]
	if first.ID != 1 || first.Word != "the" || first.Count != 2 || first.Docs != 2 {
		t.Errorf("Snapshot().Vocabulary[0] = %+v", first)
	}
}
