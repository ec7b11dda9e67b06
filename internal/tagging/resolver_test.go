package tagging

import (
	"errors"
	"testing"

	"github.com/clubmatch/clubmatch/internal/config"
	"github.com/clubmatch/clubmatch/internal/taxonomy"
)

// Column layout of the test taxonomy
const (
	colChess = iota
	colWhite
	colBlack
	colAsian
	colWoman
	colMan
	colGreek
	colLGBTQ
	testWidth
)

func testTaxonomy(t *testing.T) *taxonomy.Taxonomy {
	t.Helper()
	tags := []taxonomy.Tag{
		{ID: 1, Label: "Chess"},
		{ID: 2, Label: "White"},
		{ID: 3, Label: "Black"},
		{ID: 4, Label: "Asian"},
		{ID: 5, Label: "woman"},
		{ID: 6, Label: "man"},
		{ID: 7, Label: "Greek"},
		{ID: 8, Label: "lgbtq"},
	}
	tax, err := taxonomy.New(tags, nil, nil)
	if err != nil {
		t.Fatalf("taxonomy.New() error = %v", err)
	}
	return tax
}

func testTaggingConfig() config.TaggingConfig {
	def := config.Default().Tagging
	return config.TaggingConfig{
		InclusiveThresholds: true,
		Race: config.RaceRule{
			Threshold: 0.6,
			Tags:      []string{"White", "Black", "Asian"},
		},
		Gender: config.GenderRule{
			Threshold:     0.575,
			WomanTag:      "woman",
			ManTag:        "man",
			WomanKeywords: def.Gender.WomanKeywords,
			ManKeywords:   def.Gender.ManKeywords,
		},
		Greek:      config.KeywordRule{Tag: "Greek", Keywords: def.Greek.Keywords},
		Thresholds: []config.ThresholdRule{{Tag: "lgbtq", Threshold: 0.65}},
	}
}

func row(set map[int]float64) []float64 {
	r := make([]float64, testWidth)
	for c, v := range set {
		r[c] = v
	}
	return r
}

func TestResolver_Race(t *testing.T) {
	r, err := NewResolver(testTaxonomy(t), testTaggingConfig())
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}

	tests := []struct {
		name        string
		white       float64
		black       float64
		asian       float64
		want        [3]float64
		wantOutcome Outcome
	}{
		{"single max above threshold", 0.9, 0.3, 0.2, [3]float64{1, 0, 0}, OutcomeSingle},
		{"all above threshold", 0.9, 0.8, 0.7, [3]float64{1, 1, 1}, OutcomeAll},
		{"all below threshold", 0.5, 0.4, 0.1, [3]float64{1, 1, 1}, OutcomeAll},
		{"max exactly at threshold", 0.2, 0.6, 0.1, [3]float64{0, 1, 0}, OutcomeSingle},
		{"tie goes to first in order", 0.1, 0.9, 0.9, [3]float64{0, 1, 0}, OutcomeSingle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, decisions, err := r.Resolve(row(map[int]float64{
				colWhite: tt.white, colBlack: tt.black, colAsian: tt.asian,
			}), "")
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			got := [3]float64{out[colWhite], out[colBlack], out[colAsian]}
			if got != tt.want {
				t.Errorf("race columns = %v, want %v", got, tt.want)
			}

			ones := 0
			for _, v := range got {
				if v == 1 {
					ones++
				}
			}
			if ones != 1 && ones != 3 {
				t.Errorf("race family set %d columns, want 1 or all", ones)
			}

			if decisions[0].Family != FamilyRace || decisions[0].Outcome != tt.wantOutcome {
				t.Errorf("decision = %+v, want race/%s", decisions[0], tt.wantOutcome)
			}
		})
	}
}

func TestResolver_Gender(t *testing.T) {
	r, err := NewResolver(testTaxonomy(t), testTaggingConfig())
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}

	tests := []struct {
		name        string
		woman       float64
		man         float64
		desc        string
		wantWoman   float64
		wantMan     float64
		wantOutcome Outcome
	}{
		{"both above threshold", 0.9, 0.95, "Chess Club", 1, 1, OutcomeAmbiguous},
		{"both below threshold", 0.1, 0.2, "Chess Club", 1, 1, OutcomeAmbiguous},
		{"only man clears", 0.3, 0.9, "Chess Club", 0, 1, OutcomeSingle},
		{"only woman clears", 0.8, 0.2, "", 1, 0, OutcomeSingle},
		{"keyword overrides scores", 0.1, 0.99, "Sigma Sorority for women", 1, 0, OutcomeKeyword},
		{"men keyword", 0.9, 0.1, "A brotherhood of engineers", 0, 1, OutcomeKeyword},
		{"woman at threshold", 0.575, 0.2, "", 1, 0, OutcomeSingle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, decisions, err := r.Resolve(row(map[int]float64{colWoman: tt.woman, colMan: tt.man}), tt.desc)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if out[colWoman] != tt.wantWoman || out[colMan] != tt.wantMan {
				t.Errorf("woman/man = %v/%v, want %v/%v", out[colWoman], out[colMan], tt.wantWoman, tt.wantMan)
			}
			if decisions[1].Family != FamilyGender || decisions[1].Outcome != tt.wantOutcome {
				t.Errorf("decision = %+v, want gender/%s", decisions[1], tt.wantOutcome)
			}
		})
	}
}

func TestResolver_GreekAndThreshold(t *testing.T) {
	r, err := NewResolver(testTaxonomy(t), testTaggingConfig())
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}

	tests := []struct {
		name      string
		desc      string
		greek     float64
		lgbtq     float64
		wantGreek float64
		wantLGBTQ float64
	}{
		{"fraternity name", "Alpha Beta Gamma Fraternity", 0.1, 0.1, 1, 0},
		{"plain club ignores greek score", "Chess Club", 0.99, 0.64, 0, 0},
		{"lgbtq at threshold", "Pride Alliance", 0, 0.65, 0, 1},
		{"lgbtq above threshold", "", 0, 0.9, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := r.Resolve(row(map[int]float64{colGreek: tt.greek, colLGBTQ: tt.lgbtq}), tt.desc)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if out[colGreek] != tt.wantGreek {
				t.Errorf("greek = %v, want %v", out[colGreek], tt.wantGreek)
			}
			if out[colLGBTQ] != tt.wantLGBTQ {
				t.Errorf("lgbtq = %v, want %v", out[colLGBTQ], tt.wantLGBTQ)
			}
		})
	}
}

func TestResolver_ExclusiveThresholds(t *testing.T) {
	cfg := testTaggingConfig()
	cfg.InclusiveThresholds = false
	r, err := NewResolver(testTaxonomy(t), cfg)
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}

	out, _, err := r.Resolve(row(map[int]float64{colLGBTQ: 0.65}), "")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if out[colLGBTQ] != 0 {
		t.Errorf("lgbtq at threshold = %v, want 0 with exclusive thresholds", out[colLGBTQ])
	}
}

func TestResolver_PassThrough(t *testing.T) {
	r, err := NewResolver(testTaxonomy(t), testTaggingConfig())
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}

	in := row(map[int]float64{colChess: 0.37, colWhite: 0.9})
	out, _, err := r.Resolve(in, "Sigma Sorority for women")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if out[colChess] != 0.37 {
		t.Errorf("pass-through column = %v, want 0.37", out[colChess])
	}
	if in[colWhite] != 0.9 || in[colWoman] != 0 {
		t.Errorf("input row was modified: %v", in)
	}

	cols := r.Columns()
	if _, ok := cols[colChess]; ok {
		t.Error("pass-through column should not be owned by a family")
	}
	if cols[colMan] != FamilyGender {
		t.Errorf("Columns()[man] = %q, want gender", cols[colMan])
	}
}

func TestResolver_WidthMismatch(t *testing.T) {
	r, err := NewResolver(testTaxonomy(t), testTaggingConfig())
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}
	if _, _, err := r.Resolve([]float64{1, 2}, ""); err == nil {
		t.Error("Resolve() with short row should fail")
	}
}

func TestNewResolver_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*config.TaggingConfig)
	}{
		{"unknown race tag", func(c *config.TaggingConfig) { c.Race.Tags = append(c.Race.Tags, "Martian") }},
		{"unknown threshold tag", func(c *config.TaggingConfig) {
			c.Thresholds = []config.ThresholdRule{{Tag: "nope", Threshold: 0.5}}
		}},
		{"overlapping families", func(c *config.TaggingConfig) {
			c.Thresholds = append(c.Thresholds, config.ThresholdRule{Tag: "White", Threshold: 0.5})
		}},
		{"gender shares greek column", func(c *config.TaggingConfig) { c.Greek.Tag = "woman" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testTaggingConfig()
			tt.modify(&cfg)
			if _, err := NewResolver(testTaxonomy(t), cfg); !errors.Is(err, taxonomy.ErrMalformedTaxonomy) {
				t.Errorf("NewResolver() error = %v, want ErrMalformedTaxonomy", err)
			}
		})
	}
}

func TestNewResolver_DefaultCatalog(t *testing.T) {
	tax, err := taxonomy.Default()
	if err != nil {
		t.Fatalf("taxonomy.Default() error = %v", err)
	}
	if _, err := NewResolver(tax, config.Default().Tagging); err != nil {
		t.Errorf("default config does not bind to default catalog: %v", err)
	}
}
