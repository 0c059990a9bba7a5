package config

import (
	"fmt"
	"strings"
)

const (
	PaddingPre  = "pre"
	PaddingPost = "post"
)

func NormalizePadding(raw string) (string, error) {
	padding := strings.ToLower(strings.TrimSpace(raw))
	if padding == "" {
		padding = PaddingPost
	}
	switch padding {
	case PaddingPre, PaddingPost:
		return padding, nil
	default:
		return "", fmt.Errorf(
			"invalid padding %q (expected %s|%s)",
			raw,
			PaddingPre,
			PaddingPost,
		)
	}
}
