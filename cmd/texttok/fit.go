package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/example/go-texttok/internal/safetensors"
	"github.com/example/go-texttok/internal/tokenizer"
	"github.com/spf13/cobra"
)

type fitReport struct {
	MaxTokens    int     `json:"max_tokens"`
	Padding      string  `json:"padding"`
	Truncating   string  `json:"truncating"`
	Reverse      bool    `json:"reverse"`
	VocabSize    int     `json:"vocab_size"`
	MeanLength   float64 `json:"mean_length"`
	StdDevLength float64 `json:"stddev_length"`
	Sequences    [][]int `json:"sequences"`
}

func newFitCmd() *cobra.Command {
	var (
		format string
		limit  int
		out    string
	)

	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Fit the tokenizer on the corpus and print the padded sequences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			tok, err := buildTokenizer(cfg)
			if err != nil {
				return err
			}

			if out != "" {
				if err := writeFitTensors(out, tok); err != nil {
					return err
				}

				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", out)
			}

			rows := tok.Padded()
			if limit > 0 && limit < len(rows) {
				rows = rows[:limit]
			}

			switch format {
			case "json":
				return writeFitJSON(cmd.OutOrStdout(), tok, rows)
			case "table":
				writeFitTable(cmd.OutOrStdout(), tok, rows)
				return nil
			default:
				return fmt.Errorf("unknown format %q (want table|json)", format)
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "Output format: table|json")
	cmd.Flags().IntVar(&limit, "limit", 0, "Print at most this many sequences (0 = all)")
	cmd.Flags().StringVar(&out, "out", "", "Also write input_ids and lengths to this .safetensors file")

	return cmd
}

func writeFitJSON(w io.Writer, tok *tokenizer.TextTokenizer, rows [][]int) error {
	stats := tok.Stats()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(fitReport{
		MaxTokens:    tok.MaxTokens(),
		Padding:      string(tok.Padding()),
		Truncating:   string(tok.Truncating()),
		Reverse:      tok.Reversed(),
		VocabSize:    tok.Vocabulary().Len(),
		MeanLength:   stats.Mean,
		StdDevLength: stats.StdDev,
		Sequences:    rows,
	})
}

func writeFitTable(w io.Writer, tok *tokenizer.TextTokenizer, rows [][]int) {
	stats := tok.Stats()

	_, _ = fmt.Fprintf(w, "texts: %d  vocab: %d  max_tokens: %d  (mean %.2f, stddev %.2f)\n",
		stats.Count, tok.Vocabulary().Len(), tok.MaxTokens(), stats.Mean, stats.StdDev)
	_, _ = fmt.Fprintf(w, "padding: %s  truncating: %s  reverse: %t\n",
		tok.Padding(), tok.Truncating(), tok.Reversed())

	for _, row := range rows {
		_, _ = fmt.Fprintln(w, joinIDs(row))
	}
}

// writeFitTensors exports the padded matrix and the unpadded lengths.
func writeFitTensors(path string, tok *tokenizer.TextTokenizer) error {
	ids, err := safetensors.MatrixTensor("input_ids", tok.Padded())
	if err != nil {
		return err
	}

	meta := map[string]string{
		"max_tokens": strconv.Itoa(tok.MaxTokens()),
		"padding":    string(tok.Padding()),
		"truncating": string(tok.Truncating()),
		"reverse":    strconv.FormatBool(tok.Reversed()),
		"vocab_size": strconv.Itoa(tok.Vocabulary().Len()),
	}

	return safetensors.WriteFile(path, []safetensors.Tensor{
		ids,
		safetensors.VectorTensor("lengths", tok.Lengths()),
	}, meta)
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, " ")
}
