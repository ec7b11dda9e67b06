package config

// Config represents the application configuration
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Catalog  CatalogConfig  `toml:"catalog"`
	Logging  LoggingConfig  `toml:"logging"`
	Tagging  TaggingConfig  `toml:"tagging"`
	Survey   SurveyConfig   `toml:"survey"`
	Ranking  RankingConfig  `toml:"ranking"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path string `toml:"path" validate:"required"`
}

// CatalogConfig points at the tag catalogue; empty uses the built-in one
type CatalogConfig struct {
	Path string `toml:"path"`
}

// LoggingConfig contains log settings
type LoggingConfig struct {
	Level string `toml:"level"` // info, debug or trace
}

// TaggingConfig contains the categorical resolution rules
type TaggingConfig struct {
	// Value given to every row of a zero-variance column
	DegenerateValue float64 `toml:"degenerate_value" validate:"gte=0,lte=1"`
	// When true a score equal to a threshold clears it
	InclusiveThresholds bool `toml:"inclusive_thresholds"`

	Race       RaceRule        `toml:"race"`
	Gender     GenderRule      `toml:"gender"`
	Greek      KeywordRule     `toml:"greek"`
	Thresholds []ThresholdRule `toml:"thresholds" validate:"dive"`
}

// RaceRule configures the mutually exclusive race family
type RaceRule struct {
	Threshold float64  `toml:"threshold" validate:"gte=0,lte=1"`
	Tags      []string `toml:"tags"` // order is the tie-break order
}

// GenderRule configures the gender family
type GenderRule struct {
	Threshold     float64  `toml:"threshold" validate:"gte=0,lte=1"`
	WomanTag      string   `toml:"woman_tag" validate:"required_with=ManTag"`
	ManTag        string   `toml:"man_tag" validate:"required_with=WomanTag"`
	WomanKeywords []string `toml:"woman_keywords"`
	ManKeywords   []string `toml:"man_keywords"`
}

// KeywordRule configures a keyword-only tag
type KeywordRule struct {
	Tag      string   `toml:"tag"`
	Keywords []string `toml:"keywords"`
}

// ThresholdRule configures a single-cutoff tag
type ThresholdRule struct {
	Tag       string  `toml:"tag" validate:"required"`
	Threshold float64 `toml:"threshold" validate:"gte=0,lte=1"`
}

// SurveyConfig contains survey scoring settings
type SurveyConfig struct {
	Yes   float64 `toml:"yes"`
	Maybe float64 `toml:"maybe" validate:"gtefield=No,ltefield=Yes"`
	No    float64 `toml:"no"`

	DefaultScore         float64 `toml:"default_score"`
	EscalatedScore       float64 `toml:"escalated_score" validate:"gtefield=Yes"`
	EscalateMinResponses int     `toml:"escalate_min_responses" validate:"min=1"`

	IdentityWeight float64            `toml:"identity_weight" validate:"gte=0"`
	GroupWeights   map[string]float64 `toml:"group_weights" validate:"dive,gte=0"`
}

// RankingConfig contains ranking settings
type RankingConfig struct {
	TopK                  int     `toml:"top_k" validate:"gte=0"` // 0 means all
	MembershipValue       float64 `toml:"membership_value" validate:"gt=0"`
	PartialMatchThreshold float64 `toml:"partial_match_threshold" validate:"gte=0,lte=1"`
	MemberCutoff          float64 `toml:"member_cutoff" validate:"gt=0"`
}

// Default returns a Config with sensible defaults
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "~/.local/share/clubmatch/clubmatch.db",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Tagging: TaggingConfig{
			DegenerateValue:     0.0,
			InclusiveThresholds: true,
			Race: RaceRule{
				Threshold: 0.6,
				Tags: []string{
					"White European Italian",
					"Black African American",
					"Native American",
					"Hispanic",
					"Asian",
					"Native Hawaiian or Other Pacific Islander",
				},
			},
			Gender: GenderRule{
				Threshold: 0.575,
				WomanTag:  "woman women",
				ManTag:    "man men",
				WomanKeywords: []string{
					"woman", "woman's", "women", "women's", "womens",
					"sisterhood", "sister", "sisters", "sorority",
				},
				ManKeywords: []string{
					"man", "man's", "men", "men's", "mens",
					"brotherhood", "brother", "brothers",
				},
			},
			Greek: KeywordRule{
				Tag: "Greek",
				Keywords: []string{
					"greek", "fraternity", "sorority", "brotherhood", "sisterhood", "brothers", "sisters",
					"alpha", "beta", "gamma", "delta", "epsilon", "zeta", "eta", "theta", "iota", "kappa",
					"lambda", "mu", "nu", "xi", "omicron", "pi", "rho", "sigma", "tau", "upsilon",
					"phi", "chi", "psi", "omega",
				},
			},
			Thresholds: []ThresholdRule{
				{Tag: "lgbtq", Threshold: 0.65},
			},
		},
		Survey: SurveyConfig{
			Yes:                  1,
			Maybe:                0.5,
			No:                   0,
			DefaultScore:         0,
			EscalatedScore:       2,
			EscalateMinResponses: 1,
			IdentityWeight:       2,
			GroupWeights: map[string]float64{
				"greek": 1,
			},
		},
		Ranking: RankingConfig{
			TopK:                  10,
			MembershipValue:       1,
			PartialMatchThreshold: 0.1,
			MemberCutoff:          1,
		},
	}
}
