package tagging

import (
	"errors"
	"fmt"

	"github.com/clubmatch/clubmatch/internal/config"
	"github.com/clubmatch/clubmatch/internal/taxonomy"
)

// Resolver turns one scaled row into a resolved tag vector. Columns not
// owned by any family pass through unchanged.
type Resolver struct {
	width    int
	families []family
}

// NewResolver binds the configured rules to taxonomy columns. Unknown tag
// labels and columns claimed by two families are rejected.
func NewResolver(tax *taxonomy.Taxonomy, cfg config.TaggingConfig) (*Resolver, error) {
	r := &Resolver{width: tax.Len()}
	owner := make(map[int]string)
	var errs []error

	column := func(label string) (int, bool) {
		tag, ok := tax.Lookup(label)
		if !ok {
			errs = append(errs, fmt.Errorf("unknown tag %q", label))
			return 0, false
		}
		idx, _ := tax.Index(tag.ID)
		return idx, true
	}
	claim := func(name string, cols []int) {
		for _, c := range cols {
			if prev, taken := owner[c]; taken {
				errs = append(errs, fmt.Errorf("column %d is resolved by both %s and %s", c, prev, name))
				continue
			}
			owner[c] = name
		}
	}

	if len(cfg.Race.Tags) > 0 {
		f := &raceFamily{threshold: cfg.Race.Threshold, inclusive: cfg.InclusiveThresholds}
		for _, label := range cfg.Race.Tags {
			if c, ok := column(label); ok {
				f.cols = append(f.cols, c)
				f.labels = append(f.labels, label)
			}
		}
		if len(f.cols) == len(cfg.Race.Tags) {
			claim("race", f.cols)
			r.families = append(r.families, f)
		}
	}

	if cfg.Gender.WomanTag != "" && cfg.Gender.ManTag != "" {
		w, wok := column(cfg.Gender.WomanTag)
		m, mok := column(cfg.Gender.ManTag)
		if wok && mok {
			f := &genderFamily{
				woman:      w,
				man:        m,
				threshold:  cfg.Gender.Threshold,
				inclusive:  cfg.InclusiveThresholds,
				womanWords: NewKeywordSet(cfg.Gender.WomanKeywords),
				manWords:   NewKeywordSet(cfg.Gender.ManKeywords),
			}
			claim("gender", f.columns())
			r.families = append(r.families, f)
		}
	}

	if cfg.Greek.Tag != "" {
		if c, ok := column(cfg.Greek.Tag); ok {
			f := &keywordFamily{col: c, words: NewKeywordSet(cfg.Greek.Keywords)}
			claim("greek", f.columns())
			r.families = append(r.families, f)
		}
	}

	for _, rule := range cfg.Thresholds {
		if c, ok := column(rule.Tag); ok {
			f := &thresholdFamily{col: c, label: rule.Tag, threshold: rule.Threshold, inclusive: cfg.InclusiveThresholds}
			claim("threshold "+rule.Tag, f.columns())
			r.families = append(r.families, f)
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", taxonomy.ErrMalformedTaxonomy, errors.Join(errs...))
	}
	return r, nil
}

// Resolve applies every family to a scaled row. The input is not modified.
func (r *Resolver) Resolve(scaled []float64, description string) ([]float64, []Decision, error) {
	if len(scaled) != r.width {
		return nil, nil, fmt.Errorf("row has %d scores, expected %d", len(scaled), r.width)
	}

	out := make([]float64, len(scaled))
	copy(out, scaled)

	tokens := Tokenize(description)
	decisions := make([]Decision, 0, len(r.families))
	for _, f := range r.families {
		decisions = append(decisions, f.resolve(scaled, tokens, out))
	}
	return out, decisions, nil
}

// Columns returns the set of columns owned by a discrete family
func (r *Resolver) Columns() map[int]Family {
	cols := make(map[int]Family)
	for _, f := range r.families {
		var name Family
		switch f.(type) {
		case *raceFamily:
			name = FamilyRace
		case *genderFamily:
			name = FamilyGender
		case *keywordFamily:
			name = FamilyGreek
		default:
			name = FamilyThreshold
		}
		for _, c := range f.columns() {
			cols[c] = name
		}
	}
	return cols
}
