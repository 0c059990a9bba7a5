package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/example/go-texttok/internal/sequence"
	"github.com/example/go-texttok/internal/text"
	"github.com/example/go-texttok/internal/tokenizer"
	"github.com/spf13/cobra"
)

func newEncodeCmd() *cobra.Command {
	var (
		pad     bool
		padSide string
		format  string
	)

	cmd := &cobra.Command{
		Use:   "encode [text...]",
		Short: "Encode text with the fitted vocabulary (reads lines from stdin without args)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			if format != "text" && format != "json" {
				return fmt.Errorf("unknown format %q (want text|json)", format)
			}

			side, err := sequence.ParseSide(padSide)
			if err != nil {
				return err
			}

			tok, err := buildTokenizer(cfg)
			if err != nil {
				return err
			}

			opts := tokenizer.EncodeOptions{
				Reverse: cfg.Tokenizer.Reverse,
				Pad:     pad,
				Padding: side,
			}

			texts, err := readEncodeInput(args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			for _, raw := range texts {
				// Blank input encodes to an empty (or all-padding) sequence.
				normalized, err := text.Normalize(raw)
				if err != nil && !errors.Is(err, text.ErrEmptyText) {
					return err
				}

				ids, err := tok.TextToTokens(normalized, opts)
				if err != nil {
					return err
				}
				if err := writeIDs(cmd.OutOrStdout(), ids, format); err != nil {
					return err
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&pad, "pad", false, "Pad or truncate the ids to the fitted max tokens")
	cmd.Flags().StringVar(&padSide, "pad-side", string(sequence.Pre), "Padding side when --pad is set (pre|post)")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text|json")

	return cmd
}

// readEncodeInput joins args into one text, or reads one text per stdin line.
func readEncodeInput(args []string, stdin io.Reader) ([]string, error) {
	if len(args) > 0 {
		return []string{strings.Join(args, " ")}, nil
	}

	if stdin == nil {
		stdin = os.Stdin
	}

	var texts []string
	sc := bufio.NewScanner(stdin)
	for sc.Scan() {
		texts = append(texts, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	if len(texts) == 0 {
		return nil, fmt.Errorf("no text given: pass arguments or pipe text on stdin")
	}

	return texts, nil
}

func writeIDs(w io.Writer, ids []int, format string) error {
	if format == "json" {
		if ids == nil {
			ids = []int{}
		}
		return json.NewEncoder(w).Encode(map[string][]int{"tokens": ids})
	}

	_, err := fmt.Fprintln(w, joinIDs(ids))
	return err
}
