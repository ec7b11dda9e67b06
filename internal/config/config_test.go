package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Tagging.Race.Threshold != 0.6 {
		t.Errorf("expected race threshold=0.6, got %v", cfg.Tagging.Race.Threshold)
	}

	if cfg.Tagging.Gender.Threshold != 0.575 {
		t.Errorf("expected gender threshold=0.575, got %v", cfg.Tagging.Gender.Threshold)
	}

	if len(cfg.Tagging.Race.Tags) != 6 {
		t.Errorf("expected 6 race tags, got %d", len(cfg.Tagging.Race.Tags))
	}

	if cfg.Survey.EscalatedScore != 2 {
		t.Errorf("expected EscalatedScore=2, got %v", cfg.Survey.EscalatedScore)
	}

	if cfg.Ranking.TopK != 10 {
		t.Errorf("expected TopK=10, got %d", cfg.Ranking.TopK)
	}

	if cfg.Ranking.PartialMatchThreshold != 0.1 {
		t.Errorf("expected PartialMatchThreshold=0.1, got %v", cfg.Ranking.PartialMatchThreshold)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "invalid log level",
			modify: func(c *Config) {
				c.Logging.Level = "verbose"
			},
			wantErr: true,
		},
		{
			name: "race threshold out of range",
			modify: func(c *Config) {
				c.Tagging.Race.Threshold = 1.5
			},
			wantErr: true,
		},
		{
			name: "gender missing man tag",
			modify: func(c *Config) {
				c.Tagging.Gender.ManTag = ""
			},
			wantErr: true,
		},
		{
			name: "threshold rule without tag",
			modify: func(c *Config) {
				c.Tagging.Thresholds = append(c.Tagging.Thresholds, ThresholdRule{Threshold: 0.5})
			},
			wantErr: true,
		},
		{
			name: "maybe above yes",
			modify: func(c *Config) {
				c.Survey.Maybe = 2
			},
			wantErr: true,
		},
		{
			name: "escalation below yes",
			modify: func(c *Config) {
				c.Survey.EscalatedScore = 0.5
			},
			wantErr: true,
		},
		{
			name: "negative top k",
			modify: func(c *Config) {
				c.Ranking.TopK = -1
			},
			wantErr: true,
		},
		{
			name: "zero top k means all",
			modify: func(c *Config) {
				c.Ranking.TopK = 0
			},
			wantErr: false,
		},
		{
			name: "zero member cutoff",
			modify: func(c *Config) {
				c.Ranking.MemberCutoff = 0
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_NamesTOMLKeys(t *testing.T) {
	cfg := Default()
	cfg.Tagging.Race.Threshold = 1.5
	cfg.Ranking.MembershipValue = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"tagging.race.threshold", "ranking.membership_value"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	data := `
[database]
path = "/tmp/clubs.db"

[tagging.race]
threshold = 0.7

[[tagging.thresholds]]
tag = "lgbtq"
threshold = 0.5

[ranking]
top_k = 5
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Database.Path != "/tmp/clubs.db" {
		t.Errorf("Database.Path = %q, want /tmp/clubs.db", cfg.Database.Path)
	}
	if cfg.Tagging.Race.Threshold != 0.7 {
		t.Errorf("Race.Threshold = %v, want 0.7", cfg.Tagging.Race.Threshold)
	}
	if cfg.Ranking.TopK != 5 {
		t.Errorf("TopK = %d, want 5", cfg.Ranking.TopK)
	}
	rules := cfg.Tagging.Thresholds
	if len(rules) == 0 || rules[len(rules)-1].Threshold != 0.5 {
		t.Errorf("Thresholds = %+v, want an lgbtq rule at 0.5", rules)
	}
	// untouched sections keep their defaults
	if cfg.Tagging.Gender.Threshold != 0.575 {
		t.Errorf("Gender.Threshold = %v, want default 0.575", cfg.Tagging.Gender.Threshold)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Ranking.TopK != 10 {
		t.Errorf("expected default TopK=10, got %d", cfg.Ranking.TopK)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		input    string
		expected string
	}{
		{"~/test", filepath.Join(home, "test")},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
	}

	for _, tt := range tests {
		result, err := expandPath(tt.input)
		if err != nil {
			t.Errorf("expandPath(%q) error: %v", tt.input, err)
		}
		if result != tt.expected {
			t.Errorf("expandPath(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}
