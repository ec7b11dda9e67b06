// Package survey turns gated yes/maybe/no answers and identity picks into a
// per-tag interest profile.
package survey

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingAnswer is returned when a source has no answer for a question
	ErrMissingAnswer = errors.New("missing answer")
	// ErrInvalidAnswer is returned for unparsable answers and for Maybe on a
	// binary sub-question
	ErrInvalidAnswer = errors.New("invalid answer")
)

// Answer is a survey response
type Answer int

const (
	No Answer = iota
	Maybe
	Yes
)

func (a Answer) String() string {
	switch a {
	case Yes:
		return "yes"
	case Maybe:
		return "maybe"
	default:
		return "no"
	}
}

// ParseAnswer accepts yes/y, maybe/m and no/n in any case
func ParseAnswer(s string) (Answer, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y":
		return Yes, nil
	case "maybe", "m":
		return Maybe, nil
	case "no", "n":
		return No, nil
	default:
		return No, fmt.Errorf("%w: %q", ErrInvalidAnswer, s)
	}
}
