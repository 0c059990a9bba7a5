package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/example/go-texttok/internal/tokenizer"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newVocabCmd() *cobra.Command {
	var (
		format  string
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "vocab",
		Short: "Export the fitted vocabulary and tokenizer settings",
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

			if outPath == "" {
				return writeSnapshot(cmd.OutOrStdout(), tok.Snapshot(), format)
			}

			return writeSnapshotFile(outPath, tok.Snapshot(), format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "Output format: json|yaml")
	cmd.Flags().StringVar(&outPath, "out", "", "Write to this file instead of stdout")

	return cmd
}

// writeSnapshotFile writes the snapshot to path and reports a failed close.
func writeSnapshotFile(path string, snap tokenizer.Snapshot, format string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	return writeSnapshot(f, snap, format)
}

func writeSnapshot(w io.Writer, snap tokenizer.Snapshot, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want json|yaml)", format)
	}
}
