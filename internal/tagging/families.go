package tagging

import "fmt"

// Family names a group of columns resolved by one rule
type Family string

const (
	FamilyRace      Family = "race"
	FamilyGender    Family = "gender"
	FamilyGreek     Family = "greek"
	FamilyThreshold Family = "threshold"
)

// Outcome is the branch a family rule took for one row
type Outcome string

const (
	OutcomeAll       Outcome = "all"       // every column of the family set to 1
	OutcomeSingle    Outcome = "single"    // exactly one column set to 1
	OutcomeKeyword   Outcome = "keyword"   // description keyword decided
	OutcomeAmbiguous Outcome = "ambiguous" // scores agreed, both set to 1
	OutcomeMatch     Outcome = "match"
	OutcomeNone      Outcome = "none"
)

// Decision records how a family resolved one row
type Decision struct {
	Family  Family
	Outcome Outcome
	Reason  string
}

// family reads only the scaled row and writes only its own columns of out
type family interface {
	columns() []int
	resolve(scaled []float64, tokens []string, out []float64) Decision
}

func clears(score, threshold float64, inclusive bool) bool {
	if inclusive {
		return score >= threshold
	}
	return score > threshold
}

type raceFamily struct {
	cols      []int
	labels    []string
	threshold float64
	inclusive bool
}

func (f *raceFamily) columns() []int { return f.cols }

func (f *raceFamily) resolve(scaled []float64, _ []string, out []float64) Decision {
	for _, c := range f.cols {
		out[c] = 0
	}

	maxIdx := 0
	maxVal := scaled[f.cols[0]]
	minVal := maxVal
	for i, c := range f.cols[1:] {
		v := scaled[c]
		if v > maxVal {
			maxVal = v
			maxIdx = i + 1
		}
		if v < minVal {
			minVal = v
		}
	}

	if clears(minVal, f.threshold, f.inclusive) || !clears(maxVal, f.threshold, f.inclusive) {
		for _, c := range f.cols {
			out[c] = 1
		}
		return Decision{
			Family:  FamilyRace,
			Outcome: OutcomeAll,
			Reason:  fmt.Sprintf("min %.3f, max %.3f, threshold %.3f", minVal, maxVal, f.threshold),
		}
	}

	out[f.cols[maxIdx]] = 1
	return Decision{
		Family:  FamilyRace,
		Outcome: OutcomeSingle,
		Reason:  fmt.Sprintf("%s at %.3f", f.labels[maxIdx], maxVal),
	}
}

type genderFamily struct {
	woman, man int
	threshold  float64
	inclusive  bool
	womanWords KeywordSet
	manWords   KeywordSet
}

func (f *genderFamily) columns() []int { return []int{f.woman, f.man} }

func (f *genderFamily) resolve(scaled []float64, tokens []string, out []float64) Decision {
	if set, word, ok := FirstMatch(tokens, f.womanWords, f.manWords); ok {
		if set == 0 {
			out[f.woman], out[f.man] = 1, 0
		} else {
			out[f.woman], out[f.man] = 0, 1
		}
		return Decision{
			Family:  FamilyGender,
			Outcome: OutcomeKeyword,
			Reason:  fmt.Sprintf("keyword %q", word),
		}
	}

	w, m := scaled[f.woman], scaled[f.man]
	wc, mc := clears(w, f.threshold, f.inclusive), clears(m, f.threshold, f.inclusive)
	if wc == mc {
		out[f.woman], out[f.man] = 1, 1
		return Decision{
			Family:  FamilyGender,
			Outcome: OutcomeAmbiguous,
			Reason:  fmt.Sprintf("woman %.3f, man %.3f, threshold %.3f", w, m, f.threshold),
		}
	}

	if w > m {
		out[f.woman], out[f.man] = 1, 0
	} else {
		out[f.woman], out[f.man] = 0, 1
	}
	return Decision{
		Family:  FamilyGender,
		Outcome: OutcomeSingle,
		Reason:  fmt.Sprintf("woman %.3f, man %.3f", w, m),
	}
}

type keywordFamily struct {
	col   int
	words KeywordSet
}

func (f *keywordFamily) columns() []int { return []int{f.col} }

func (f *keywordFamily) resolve(_ []float64, tokens []string, out []float64) Decision {
	if _, word, ok := FirstMatch(tokens, f.words); ok {
		out[f.col] = 1
		return Decision{Family: FamilyGreek, Outcome: OutcomeMatch, Reason: fmt.Sprintf("keyword %q", word)}
	}
	out[f.col] = 0
	return Decision{Family: FamilyGreek, Outcome: OutcomeNone}
}

type thresholdFamily struct {
	col       int
	label     string
	threshold float64
	inclusive bool
}

func (f *thresholdFamily) columns() []int { return []int{f.col} }

func (f *thresholdFamily) resolve(scaled []float64, _ []string, out []float64) Decision {
	v := scaled[f.col]
	reason := fmt.Sprintf("%s %.3f, threshold %.3f", f.label, v, f.threshold)
	if clears(v, f.threshold, f.inclusive) {
		out[f.col] = 1
		return Decision{Family: FamilyThreshold, Outcome: OutcomeMatch, Reason: reason}
	}
	out[f.col] = 0
	return Decision{Family: FamilyThreshold, Outcome: OutcomeNone, Reason: reason}
}
