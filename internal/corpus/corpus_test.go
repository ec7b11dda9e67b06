package corpus

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/clubmatch/clubmatch/internal/tagging"
	"github.com/clubmatch/clubmatch/internal/taxonomy"
)

func testTaxonomy(t *testing.T) *taxonomy.Taxonomy {
	t.Helper()
	tax, err := taxonomy.New([]taxonomy.Tag{
		{ID: 3, Label: "Chess"},
		{ID: 7, Label: "Running"},
		{ID: 54, Label: "Greek"},
	}, nil, nil)
	if err != nil {
		t.Fatalf("taxonomy.New() error = %v", err)
	}
	return tax
}

func TestReadScores(t *testing.T) {
	input := "\ufeffname,Description Excerpt,greek,Chess,link,Running\n" +
		"Chess Club,\"Play chess, weekly\",0.1,0.9,https://x.edu/chess,0.2\n" +
		"Broken,oops,abc,0.1,,0.3\n" +
		"Short,too few,0.1\n" +
		"Run Club,Run fast,0.2,0.1,,0.8\n"

	rows, rejected, err := ReadScores(strings.NewReader(input), testTaxonomy(t), DefaultColumns())
	if err != nil {
		t.Fatalf("ReadScores() error = %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	chess := rows[0]
	if chess.Name != "Chess Club" || chess.Link != "https://x.edu/chess" || chess.Description != "Play chess, weekly" {
		t.Errorf("row 0 = %+v", chess)
	}
	// Scores follow taxonomy order, not header order
	if !reflect.DeepEqual(chess.Scores, []float64{0.9, 0.2, 0.1}) {
		t.Errorf("Scores = %v, want [0.9 0.2 0.1]", chess.Scores)
	}
	if chess.Line != 2 {
		t.Errorf("Line = %d, want 2", chess.Line)
	}

	if len(rejected) != 2 {
		t.Fatalf("got %d rejected rows, want 2", len(rejected))
	}
	if rejected[0].Name != "Broken" || rejected[0].Line != 3 {
		t.Errorf("rejected[0] = %+v", rejected[0])
	}
	if rejected[1].Name != "Short" {
		t.Errorf("rejected[1] = %+v", rejected[1])
	}
}

func TestReadScores_MissingColumn(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing tag", "name,Chess,Running\nA,1,2\n"},
		{"missing name", "Chess,Running,Greek\n1,2,3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ReadScores(strings.NewReader(tt.input), testTaxonomy(t), DefaultColumns())
			if !errors.Is(err, ErrMissingColumn) {
				t.Errorf("ReadScores() error = %v, want ErrMissingColumn", err)
			}
		})
	}

	if _, _, err := ReadScores(strings.NewReader(""), testTaxonomy(t), DefaultColumns()); !errors.Is(err, tagging.ErrEmptyCorpus) {
		t.Errorf("ReadScores(empty) error = %v, want ErrEmptyCorpus", err)
	}
}

func TestTaggedRoundTrip(t *testing.T) {
	tax := testTaxonomy(t)
	orgs := []tagging.Tagged{
		{Name: "Chess Club", Link: "https://x.edu/chess", Description: "Play, \"chess\"", Values: []float64{1, 0.25, 0}},
		{Name: "Alpha Beta", Values: []float64{0, 0, 1}},
	}

	var buf bytes.Buffer
	if err := WriteTagged(&buf, tax, orgs); err != nil {
		t.Fatalf("WriteTagged() error = %v", err)
	}

	firstLine := strings.SplitN(buf.String(), "\n", 2)[0]
	if firstLine != "Club Name,links,Chess,Running,Greek,Description" {
		t.Errorf("header = %q", firstLine)
	}

	got, rejected, err := ReadTagged(&buf, tax)
	if err != nil {
		t.Fatalf("ReadTagged() error = %v", err)
	}
	if len(rejected) != 0 {
		t.Errorf("unexpected rejected rows: %v", rejected)
	}
	if len(got) != 2 {
		t.Fatalf("got %d rows, want 2", len(got))
	}
	if got[0].Description != orgs[0].Description || !reflect.DeepEqual(got[0].Values, orgs[0].Values) {
		t.Errorf("row 0 = %+v, want %+v", got[0], orgs[0])
	}
}

func TestWriteTagged_WidthMismatch(t *testing.T) {
	err := WriteTagged(&bytes.Buffer{}, testTaxonomy(t), []tagging.Tagged{{Name: "x", Values: []float64{1}}})
	if err == nil {
		t.Error("WriteTagged() with short vector should fail")
	}
}

func TestReadMembership(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     []Membership
		rejected int
	}{
		{
			name:  "semicolon separated",
			input: "Chess Club,Play chess,\"54;3\"\n",
			want:  []Membership{{Name: "Chess Club", Description: "Play chess", Tags: []taxonomy.TagID{3, 54}}},
		},
		{
			name:  "comma separated with header",
			input: "name,description,tags\nRun Club,Run,\"7, 3, x, 99\"\n",
			want:  []Membership{{Name: "Run Club", Description: "Run", Tags: []taxonomy.TagID{3, 7}}},
		},
		{
			name:     "short row rejected",
			input:    "Lonely,no tags\nChess,Play,3\n",
			want:     []Membership{{Name: "Chess", Description: "Play", Tags: []taxonomy.TagID{3}}},
			rejected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rejected, err := ReadMembership(strings.NewReader(tt.input), testTaxonomy(t))
			if err != nil {
				t.Fatalf("ReadMembership() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ReadMembership() = %+v, want %+v", got, tt.want)
			}
			if len(rejected) != tt.rejected {
				t.Errorf("rejected = %v, want %d rows", rejected, tt.rejected)
			}
		})
	}
}
