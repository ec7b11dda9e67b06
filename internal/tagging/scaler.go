package tagging

import (
	"errors"
	"fmt"
)

// ErrEmptyCorpus is returned when there are no rows to scale
var ErrEmptyCorpus = errors.New("empty corpus")

// Scaled holds a min-max scaled matrix and the column statistics it was
// derived from
type Scaled struct {
	Rows       [][]float64
	Min        []float64
	Max        []float64
	Degenerate []int // columns where min == max
}

// Scale rescales every column of matrix independently into [0,1] using
// (x - min) / (max - min). Columns with zero variance are set to
// degenerate for every row. The input is not modified.
func Scale(matrix [][]float64, degenerate float64) (*Scaled, error) {
	if len(matrix) == 0 {
		return nil, ErrEmptyCorpus
	}

	width := len(matrix[0])
	for i, row := range matrix {
		if len(row) != width {
			return nil, fmt.Errorf("row %d has %d columns, expected %d", i, len(row), width)
		}
	}

	s := &Scaled{
		Rows: make([][]float64, len(matrix)),
		Min:  make([]float64, width),
		Max:  make([]float64, width),
	}

	// First pass: column statistics over the whole corpus
	copy(s.Min, matrix[0])
	copy(s.Max, matrix[0])
	for _, row := range matrix[1:] {
		for c, v := range row {
			if v < s.Min[c] {
				s.Min[c] = v
			}
			if v > s.Max[c] {
				s.Max[c] = v
			}
		}
	}

	for c := 0; c < width; c++ {
		if s.Max[c] == s.Min[c] {
			s.Degenerate = append(s.Degenerate, c)
		}
	}

	// Second pass: rescale
	for r, row := range matrix {
		out := make([]float64, width)
		for c, v := range row {
			span := s.Max[c] - s.Min[c]
			if span == 0 {
				out[c] = degenerate
				continue
			}
			out[c] = (v - s.Min[c]) / span
		}
		s.Rows[r] = out
	}

	return s, nil
}
