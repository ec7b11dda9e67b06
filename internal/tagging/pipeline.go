package tagging

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/clubmatch/clubmatch/internal/config"
	"github.com/clubmatch/clubmatch/internal/logging"
	"github.com/clubmatch/clubmatch/internal/taxonomy"
)

// Row is one organization's raw similarity scores, one per taxonomy tag
type Row struct {
	Line        int // source line, 0 if unknown
	Name        string
	Link        string
	Description string
	Scores      []float64
}

// Tagged is an organization with its resolved tag vector
type Tagged struct {
	Name        string
	Link        string
	Description string
	Values      []float64 // taxonomy order
	Decisions   []Decision
}

// RowError describes a row that was skipped
type RowError struct {
	Line int
	Name string
	Err  error
}

func (e RowError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d (%s): %v", e.Line, e.Name, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e RowError) Unwrap() error { return e.Err }

// Result is the outcome of tagging a corpus
type Result struct {
	Organizations []Tagged
	Degenerate    []taxonomy.TagID
	Rejected      []RowError
}

// Pipeline scales a whole corpus and then resolves each row
type Pipeline struct {
	tax      *taxonomy.Taxonomy
	cfg      config.TaggingConfig
	resolver *Resolver
	logger   *slog.Logger
}

// NewPipeline builds the resolver for tax. A nil logger discards output.
func NewPipeline(tax *taxonomy.Taxonomy, cfg config.TaggingConfig, logger *slog.Logger) (*Pipeline, error) {
	resolver, err := NewResolver(tax, cfg)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Pipeline{tax: tax, cfg: cfg, resolver: resolver, logger: logger}, nil
}

// Run tags every valid row. Rows with the wrong width or non-finite scores
// are reported in Result.Rejected and left out of scaling.
func (p *Pipeline) Run(rows []Row) (*Result, error) {
	result := &Result{}
	width := p.tax.Len()

	valid := make([]Row, 0, len(rows))
	for _, row := range rows {
		if err := checkRow(row, width); err != nil {
			result.Rejected = append(result.Rejected, RowError{Line: row.Line, Name: row.Name, Err: err})
			p.logger.Warn("skipping row", "line", row.Line, "name", row.Name, "error", err)
			continue
		}
		valid = append(valid, row)
	}
	if len(valid) == 0 {
		return result, ErrEmptyCorpus
	}

	matrix := make([][]float64, len(valid))
	for i, row := range valid {
		matrix[i] = row.Scores
	}
	scaled, err := Scale(matrix, p.cfg.DegenerateValue)
	if err != nil {
		return result, err
	}

	ids := p.tax.IDs()
	for _, c := range scaled.Degenerate {
		result.Degenerate = append(result.Degenerate, ids[c])
		tag, _ := p.tax.Tag(ids[c])
		p.logger.Debug("degenerate column", "tag", tag.Label, "value", scaled.Min[c], "scaled_to", p.cfg.DegenerateValue)
	}

	ctx := context.Background()
	trace := p.logger.Enabled(ctx, logging.LevelTrace)
	for i, row := range valid {
		values, decisions, err := p.resolver.Resolve(scaled.Rows[i], row.Description)
		if err != nil {
			result.Rejected = append(result.Rejected, RowError{Line: row.Line, Name: row.Name, Err: err})
			continue
		}
		if trace {
			for _, d := range decisions {
				p.logger.Log(ctx, logging.LevelTrace, "resolved",
					"club", row.Name, "family", d.Family, "outcome", d.Outcome, "reason", d.Reason)
			}
		}
		result.Organizations = append(result.Organizations, Tagged{
			Name:        row.Name,
			Link:        row.Link,
			Description: row.Description,
			Values:      values,
			Decisions:   decisions,
		})
	}

	p.logger.Info("tagged corpus",
		"organizations", len(result.Organizations),
		"rejected", len(result.Rejected),
		"degenerate", len(result.Degenerate))
	return result, nil
}

func checkRow(row Row, width int) error {
	if len(row.Scores) != width {
		return fmt.Errorf("has %d scores, expected %d", len(row.Scores), width)
	}
	for i, v := range row.Scores {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("score %d is not finite", i+1)
		}
	}
	return nil
}

// Stats summarizes how the families resolved a corpus
type Stats struct {
	Total      int
	Rejected   int
	Degenerate int
	Outcomes   map[Family]map[Outcome]int
}

// GetStats returns statistics about a tagging result
func GetStats(r *Result) Stats {
	stats := Stats{
		Total:      len(r.Organizations),
		Rejected:   len(r.Rejected),
		Degenerate: len(r.Degenerate),
		Outcomes:   make(map[Family]map[Outcome]int),
	}

	for _, org := range r.Organizations {
		for _, d := range org.Decisions {
			if stats.Outcomes[d.Family] == nil {
				stats.Outcomes[d.Family] = make(map[Outcome]int)
			}
			stats.Outcomes[d.Family][d.Outcome]++
		}
	}

	return stats
}
