package main

import (
	"fmt"
	"os"

	"github.com/example/go-texttok/internal/model"
	"github.com/example/go-texttok/internal/tokenizer"
	"github.com/spf13/cobra"
)

func newModelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model",
		Short: "SentencePiece model acquisition and verification commands",
	}

	cmd.AddCommand(newModelDownloadCmd())
	cmd.AddCommand(newModelVerifyCmd())
	return cmd
}

func newModelDownloadCmd() *cobra.Command {
	var (
		hfRepo   string
		filename string
		revision string
		sha      string
		outDir   string
		hfToken  string
		baseURL  string
	)

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download a SentencePiece model from Hugging Face",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if hfToken == "" {
				hfToken = os.Getenv("HF_TOKEN")
			}

			paths, err := model.Download(model.DownloadOptions{
				Repo:     hfRepo,
				Filename: filename,
				Revision: revision,
				SHA256:   sha,
				OutDir:   outDir,
				HFToken:  hfToken,
				BaseURL:  baseURL,
				Stdout:   cmd.OutOrStdout(),
			})
			if err != nil {
				return fmt.Errorf("model download failed: %w", err)
			}

			for _, p := range paths {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "use with: --pieces-model %s\n", p)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&hfRepo, "hf-repo", model.DefaultRepo, "Hugging Face model repository")
	cmd.Flags().StringVar(&filename, "file", "", "Model file in the repository (empty = pinned manifest of --hf-repo)")
	cmd.Flags().StringVar(&revision, "revision", "main", "Repository revision used with --file")
	cmd.Flags().StringVar(&sha, "sha256", "", "Expected sha256 used with --file (empty = resolve from hub metadata)")
	cmd.Flags().StringVar(&outDir, "out-dir", "models", "Directory where model files are stored")
	cmd.Flags().StringVar(&hfToken, "hf-token", "", "Hugging Face token (falls back to HF_TOKEN env var)")
	cmd.Flags().StringVar(&baseURL, "hub-url", model.DefaultBaseURL, "Hugging Face hub base URL")

	return cmd
}

func newModelVerifyCmd() *cobra.Command {
	var sha string

	cmd := &cobra.Command{
		Use:   "verify [path]",
		Short: "Check that a SentencePiece model loads (defaults to --pieces-model)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			path := cfg.Paths.PiecesModel
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				return fmt.Errorf("no model given: pass a path or set --pieces-model")
			}

			if sha != "" {
				if err := model.VerifyFile(path, sha); err != nil {
					return err
				}
			}

			sp, err := tokenizer.NewSentencePieceSplitter(path, cfg.Tokenizer.Lower)
			if err != nil {
				return fmt.Errorf("load model: %w", err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "ok: %s (%d pieces for %q)\n",
				path, len(sp.Split("hello world")), "hello world")
			return err
		},
	}

	cmd.Flags().StringVar(&sha, "sha256", "", "Also verify the file checksum")

	return cmd
}
