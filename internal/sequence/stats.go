package sequence

import (
	"errors"
	"math"
)

// ErrNoLengths is returned when statistics are requested over zero sequences.
var ErrNoLengths = errors.New("no sequence lengths")

// LengthStats summarizes the length distribution of a set of sequences.
type LengthStats struct {
	Count  int
	Mean   float64
	StdDev float64 // population standard deviation
	Min    int
	Max    int
}

// Cutoff returns floor(mean + 2·stddev), the width used for padding.
func (s LengthStats) Cutoff() int {
	return int(math.Floor(s.Mean + 2*s.StdDev))
}

// Lengths returns the length of every sequence in seqs.
func Lengths(seqs [][]int) []int {
	out := make([]int, len(seqs))
	for i, s := range seqs {
		out[i] = len(s)
	}

	return out
}

// ComputeStats computes mean and population standard deviation over lengths.
func ComputeStats(lengths []int) (LengthStats, error) {
	if len(lengths) == 0 {
		return LengthStats{}, ErrNoLengths
	}

	st := LengthStats{Count: len(lengths), Min: lengths[0], Max: lengths[0]}

	var sum float64
	for _, l := range lengths {
		sum += float64(l)
		st.Min = min(st.Min, l)
		st.Max = max(st.Max, l)
	}
	st.Mean = sum / float64(len(lengths))

	var sq float64
	for _, l := range lengths {
		d := float64(l) - st.Mean
		sq += d * d
	}
	st.StdDev = math.Sqrt(sq / float64(len(lengths)))

	return st, nil
}

// Cutoff computes the padding width for seqs directly.
func Cutoff(seqs [][]int) (int, error) {
	st, err := ComputeStats(Lengths(seqs))
	if err != nil {
		return 0, err
	}

	return st.Cutoff(), nil
}
