package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/clubmatch/clubmatch/internal/ranking"
	"github.com/clubmatch/clubmatch/internal/taxonomy"
)

func testTaxonomy(t *testing.T) *taxonomy.Taxonomy {
	t.Helper()
	tax, err := taxonomy.New([]taxonomy.Tag{
		{ID: 1, Label: "Chess"},
		{ID: 2, Label: "Running"},
		{ID: 3, Label: "woman"},
	}, nil, []taxonomy.IdentityGroup{{Name: "gender", Tags: []taxonomy.TagID{3}}})
	if err != nil {
		t.Fatalf("taxonomy.New() error = %v", err)
	}
	return tax
}

func TestOutputTo(t *testing.T) {
	results := []ranking.Result{
		{Name: "Chess Club", Link: "https://example.edu/chess", Score: 0.9731, Rank: 1},
		{Name: "Run Club", Score: 0.5, Rank: 2},
	}

	var table bytes.Buffer
	if err := OutputTo(&table, "table", results); err != nil {
		t.Fatalf("table output error = %v", err)
	}
	if !strings.Contains(table.String(), "Chess Club") || !strings.Contains(table.String(), "97.31%") {
		t.Errorf("table output missing row: %q", table.String())
	}

	var js bytes.Buffer
	if err := OutputTo(&js, "json", results); err != nil {
		t.Fatalf("json output error = %v", err)
	}
	var decoded []map[string]interface{}
	if err := json.Unmarshal(js.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded[0]["name"] != "Chess Club" || decoded[1]["rank"] != float64(2) {
		t.Errorf("decoded = %v", decoded)
	}
	if _, ok := decoded[1]["link"]; ok {
		t.Error("empty link should be omitted")
	}

	if err := OutputTo(&bytes.Buffer{}, "yaml", results); err == nil {
		t.Error("expected error for unknown format")
	}
	if err := OutputTo(&bytes.Buffer{}, "table", 42); err == nil {
		t.Error("expected error for unsupported type")
	}
}

func TestEmptyTables(t *testing.T) {
	var buf bytes.Buffer
	if err := TableTo(&buf, []ranking.Result{}); err != nil {
		t.Fatalf("TableTo error = %v", err)
	}
	if !strings.Contains(buf.String(), "No clubs to rank.") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestViews(t *testing.T) {
	tax := testTaxonomy(t)

	rows := MatchRows(tax, []ranking.MatchResult{{Name: "Chess Club", Matched: 2, Tags: []taxonomy.TagID{3, 1}, Rank: 1}})
	if got := strings.Join(rows[0].Tags, ","); got != "woman,Chess" {
		t.Errorf("MatchRows tags = %q, want woman,Chess", got)
	}

	view := NewProfileView(tax, "p1",
		map[taxonomy.TagID]float64{1: 2, 2: 0, 3: 0},
		[]taxonomy.TagID{1},
		[]taxonomy.TagID{1, 2},
	)
	if len(view.Tags) != 2 {
		t.Fatalf("got %d profile tags, want 2: %+v", len(view.Tags), view.Tags)
	}
	if !view.Tags[0].Yes || !view.Tags[1].Column || view.Tags[1].Yes {
		t.Errorf("profile tags = %+v", view.Tags)
	}

	var buf bytes.Buffer
	if err := TableTo(&buf, view); err != nil {
		t.Fatalf("TableTo(profile) error = %v", err)
	}
	if !strings.Contains(buf.String(), "Profile:     p1") {
		t.Errorf("profile output = %q", buf.String())
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Société Générale Club", 10); got != "Société..." {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
}
