// Package corpus reads and writes the CSV tables that flow in and out of
// tagging and ranking.
package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/clubmatch/clubmatch/internal/tagging"
	"github.com/clubmatch/clubmatch/internal/taxonomy"
)

// ErrMissingColumn is returned when a required header column is absent
var ErrMissingColumn = errors.New("missing column")

// Header names written to tagged tables
const (
	NameHeader        = "Club Name"
	LinkHeader        = "links"
	DescriptionHeader = "Description"
)

// Columns lists the accepted header names for each field, matched
// case-insensitively
type Columns struct {
	Name        []string
	Link        []string
	Description []string
}

// DefaultColumns returns the built-in header candidates
func DefaultColumns() Columns {
	return Columns{
		Name:        []string{NameHeader, "name", "club", "organization"},
		Link:        []string{LinkHeader, "link", "url"},
		Description: []string{DescriptionHeader, "Description Excerpt", "New Description", "summary"},
	}
}

func cleanCell(v string) string {
	v = strings.TrimSpace(v)
	return strings.TrimPrefix(v, "\ufeff")
}

func findColumn(header []string, candidates []string) int {
	for _, cand := range candidates {
		for i, col := range header {
			if strings.EqualFold(col, cand) {
				return i
			}
		}
	}
	return -1
}

// layout maps taxonomy columns to CSV columns
type layout struct {
	name, link, desc int
	tags             []int // taxonomy order
}

func resolveLayout(header []string, tax *taxonomy.Taxonomy, cols Columns) (*layout, error) {
	for i := range header {
		header[i] = cleanCell(header[i])
	}

	l := &layout{
		name: findColumn(header, cols.Name),
		link: findColumn(header, cols.Link),
		desc: findColumn(header, cols.Description),
	}

	var missing []string
	if l.name < 0 {
		missing = append(missing, "name")
	}
	for _, label := range tax.Labels() {
		c := findColumn(header, []string{label})
		if c < 0 {
			missing = append(missing, label)
		}
		l.tags = append(l.tags, c)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return l, nil
}

func (l *layout) cell(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func newReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return reader
}

// ReadScores reads a table with a name column and one numeric column per
// taxonomy tag. Both raw similarity matrices and tagged tables have this
// shape. Rows with missing or unparsable scores are returned as rejected.
func ReadScores(r io.Reader, tax *taxonomy.Taxonomy, cols Columns) ([]tagging.Row, []tagging.RowError, error) {
	reader := newReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, tagging.ErrEmptyCorpus
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}

	l, err := resolveLayout(header, tax, cols)
	if err != nil {
		return nil, nil, err
	}

	var rows []tagging.Row
	var rejected []tagging.RowError
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return rows, rejected, fmt.Errorf("failed to read row: %w", err)
		}
		line, _ := reader.FieldPos(0)

		row := tagging.Row{
			Line:        line,
			Name:        l.cell(record, l.name),
			Link:        l.cell(record, l.link),
			Description: l.cell(record, l.desc),
			Scores:      make([]float64, len(l.tags)),
		}
		if row.Name == "" && len(record) <= 1 {
			continue // blank line
		}

		if err := l.parseScores(record, row.Scores); err != nil {
			rejected = append(rejected, tagging.RowError{Line: line, Name: row.Name, Err: err})
			continue
		}
		rows = append(rows, row)
	}

	return rows, rejected, nil
}

func (l *layout) parseScores(record []string, out []float64) error {
	for i, c := range l.tags {
		if c >= len(record) {
			return fmt.Errorf("has %d fields, expected at least %d", len(record), c+1)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(record[c]), 64)
		if err != nil {
			return fmt.Errorf("invalid score in column %d: %w", c+1, err)
		}
		out[i] = v
	}
	return nil
}
