// Package sequence provides the fixed-width helpers applied to token id
// sequences: padding, truncation, reversal and the length cutoff derived from
// corpus statistics.
package sequence

import (
	"errors"
	"fmt"
	"strings"
)

// Side selects the end of a sequence that padding or truncation applies to.
type Side string

const (
	// Pre pads or truncates at the front of a sequence.
	Pre Side = "pre"
	// Post pads or truncates at the back of a sequence.
	Post Side = "post"
)

// PadValue is the id written into padded positions.
const PadValue = 0

// ErrInvalidSide is returned when a side is neither "pre" nor "post".
var ErrInvalidSide = errors.New("invalid side")

// ParseSide converts a case-insensitive side name to a Side.
// The empty string maps to Pre, the default of Pad.
func ParseSide(s string) (Side, error) {
	switch Side(strings.ToLower(strings.TrimSpace(s))) {
	case "", Pre:
		return Pre, nil
	case Post:
		return Post, nil
	default:
		return "", fmt.Errorf("%w %q (want %s|%s)", ErrInvalidSide, s, Pre, Post)
	}
}

// Pad returns a rectangular matrix with one row per input sequence and
// exactly maxLen columns. Rows shorter than maxLen are filled with PadValue
// on the padding side; longer rows lose elements from the truncating side.
// Empty input sequences produce rows of PadValue.
func Pad(seqs [][]int, maxLen int, padding, truncating Side) ([][]int, error) {
	if maxLen < 0 {
		return nil, fmt.Errorf("maxLen must be non-negative, got %d", maxLen)
	}

	padding, err := ParseSide(string(padding))
	if err != nil {
		return nil, fmt.Errorf("padding: %w", err)
	}

	truncating, err = ParseSide(string(truncating))
	if err != nil {
		return nil, fmt.Errorf("truncating: %w", err)
	}

	out := make([][]int, len(seqs))
	for i, s := range seqs {
		out[i] = PadOne(s, maxLen, padding, truncating)
	}

	return out, nil
}

// PadOne pads or truncates a single sequence to maxLen. Sides must already be
// valid; use Pad when they come from user input.
func PadOne(seq []int, maxLen int, padding, truncating Side) []int {
	row := make([]int, maxLen)
	if maxLen == 0 || len(seq) == 0 {
		return row
	}

	trunc := seq
	if len(trunc) > maxLen {
		if truncating == Pre {
			trunc = trunc[len(trunc)-maxLen:]
		} else {
			trunc = trunc[:maxLen]
		}
	}

	if padding == Post {
		copy(row, trunc)
	} else {
		copy(row[maxLen-len(trunc):], trunc)
	}

	return row
}

// Reverse returns a reversed copy of seq.
func Reverse(seq []int) []int {
	out := make([]int, len(seq))
	for i, v := range seq {
		out[len(seq)-1-i] = v
	}

	return out
}
