package model

import (
	"errors"
	"fmt"
)

// DefaultRepo hosts a pinned SentencePiece tokenizer model.
const DefaultRepo = "kyutai/pocket-tts-without-voice-cloning"

type Manifest struct {
	Repo  string      `json:"repo"`
	Files []ModelFile `json:"files"`
}

type ModelFile struct {
	Filename string `json:"filename"`
	Revision string `json:"revision"`
	SHA256   string `json:"sha256"`
}

// PinnedManifest returns the known SentencePiece model files of repo.
func PinnedManifest(repo string) (Manifest, error) {
	switch repo {
	case DefaultRepo:
		return Manifest{
			Repo: repo,
			Files: []ModelFile{
				{
					Filename: "tokenizer.model",
					Revision: "d4fdd22ae8c8e1cb3634e150ebeff1dab2d16df3",
					SHA256:   "d461765ae179566678c93091c5fa6f2984c31bbe990bf1aa62d92c64d91bc3f6",
				},
			},
		}, nil
	default:
		return Manifest{}, fmt.Errorf("no pinned manifest for repo %q; pass a filename", repo)
	}
}

// CustomManifest describes a single model file. An empty revision means
// "main"; an empty checksum is resolved from the hub metadata.
func CustomManifest(repo, filename, revision, sha string) (Manifest, error) {
	if repo == "" || filename == "" {
		return Manifest{}, errors.New("repo and filename are required")
	}
	if revision == "" {
		revision = "main"
	}
	if sha != "" && !isSHA256Hex(sha) {
		return Manifest{}, fmt.Errorf("invalid sha256 %q", sha)
	}
	return Manifest{
		Repo:  repo,
		Files: []ModelFile{{Filename: filename, Revision: revision, SHA256: sha}},
	}, nil
}
