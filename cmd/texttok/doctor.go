package main

import (
	"fmt"

	"github.com/example/go-texttok/internal/doctor"
	"github.com/example/go-texttok/internal/text"
	"github.com/example/go-texttok/internal/tokenizer"
	"github.com/spf13/cobra"
)

func newDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that the corpus and optional SentencePiece model are usable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			corpusOpts := text.CorpusOptions{
				KeepBlank: cfg.Corpus.KeepBlank,
				Sentences: cfg.Corpus.Sentences,
			}

			dcfg := doctor.Config{
				CorpusPath: cfg.Paths.Corpus,
				LoadCorpus: func(path string) (int, error) {
					texts, err := text.ReadCorpusFile(path, corpusOpts)
					return len(texts), err
				},
				PiecesModelPath: cfg.Paths.PiecesModel,
				LoadPiecesModel: func(path string) error {
					_, err := tokenizer.NewSentencePieceSplitter(path, cfg.Tokenizer.Lower)
					return err
				},
				ConfigFile: cfgFile,
			}

			out := cmd.OutOrStdout()
			result := doctor.Run(dcfg, out)
			if result.Failed() {
				return fmt.Errorf("doctor found %d problem(s)", len(result.Failures()))
			}

			_, _ = fmt.Fprintln(out, "doctor checks passed")
			return nil
		},
	}

	return cmd
}
