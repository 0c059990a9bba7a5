package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/example/go-texttok/internal/safetensors"
	"github.com/example/go-texttok/internal/sequence"
	"github.com/example/go-texttok/internal/tokenizer"
	"github.com/spf13/cobra"
)

// inputIDsTensor is the padded matrix written by fit --out.
const inputIDsTensor = "input_ids"

func newDecodeCmd() *cobra.Command {
	var (
		words bool
		from  string
	)

	cmd := &cobra.Command{
		Use:   "decode [id...]",
		Short: "Decode token ids back into text (reads ids from stdin without args)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			if from != "" && (len(args) > 0 || words) {
				return errors.New("--from cannot be combined with ids or --words")
			}

			var ids []int
			if from == "" {
				ids, err = readDecodeInput(args, cmd.InOrStdin())
				if err != nil {
					return err
				}
			}

			tok, err := buildTokenizer(cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if from != "" {
				return decodeTensorFile(out, from, tok)
			}

			if words {
				for _, id := range ids {
					_, _ = fmt.Fprintf(out, "%d\t%q\n", id, tok.TokenToWord(id))
				}
				return nil
			}

			_, err = fmt.Fprintln(out, tok.TokensToText(ids))
			return err
		},
	}

	cmd.Flags().BoolVar(&words, "words", false, "Print one id and its word per line, padding included")
	cmd.Flags().StringVar(&from, "from", "", "Decode every input_ids row of a .safetensors file written by fit --out")

	return cmd
}

// readDecodeInput parses ids from args, or from stdin without args. Ids may be
// separated by whitespace or commas and wrapped in brackets.
func readDecodeInput(args []string, stdin io.Reader) ([]int, error) {
	raw := strings.Join(args, " ")
	if len(args) == 0 {
		if stdin == nil {
			stdin = os.Stdin
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		raw = string(data)
	}

	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == '[' || r == ']'
	})

	ids := make([]int, 0, len(fields))
	for _, f := range fields {
		id, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid token id %q: %w", f, err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// decodeTensorFile prints one text per input_ids row. Rows exported from a
// reversed tokenizer are flipped back to reading order first.
func decodeTensorFile(w io.Writer, path string, tok *tokenizer.TextTokenizer) error {
	store, err := safetensors.OpenStore(path)
	if err != nil {
		return err
	}
	defer store.Close()

	if !store.Has(inputIDsTensor) {
		return fmt.Errorf("%s has no %s tensor (found: %s)", path, inputIDsTensor, strings.Join(store.Names(), ", "))
	}

	meta := store.Metadata()
	if want := strconv.Itoa(tok.MaxTokens()); meta["max_tokens"] != "" && meta["max_tokens"] != want {
		slog.Warn("tensor file was written by a different fit",
			slog.String("path", path),
			slog.String("file_max_tokens", meta["max_tokens"]),
			slog.String("max_tokens", want),
		)
	}

	tensor, err := store.Tensor(inputIDsTensor)
	if err != nil {
		return err
	}

	rows, err := tensor.Rows()
	if err != nil {
		return err
	}

	reversed := meta["reverse"] == "true"
	for _, row := range rows {
		if reversed {
			row = sequence.Reverse(row)
		}

		if _, err := fmt.Fprintln(w, tok.TokensToText(row)); err != nil {
			return err
		}
	}

	return nil
}
