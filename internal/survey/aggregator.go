package survey

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/clubmatch/clubmatch/internal/config"
	"github.com/clubmatch/clubmatch/internal/logging"
	"github.com/clubmatch/clubmatch/internal/taxonomy"
)

// Profile is a finished survey: a score for every taxonomy tag, the tags
// that got at least one yes, and the columns used for ranking
type Profile struct {
	Scores  map[taxonomy.TagID]float64
	Yes     []taxonomy.TagID // taxonomy order
	Columns []taxonomy.TagID // taxonomy order
}

// Score returns the profile score for a tag
func (p *Profile) Score(id taxonomy.TagID) (float64, bool) {
	v, ok := p.Scores[id]
	return v, ok
}

// Vector returns the scores of Columns in order
func (p *Profile) Vector() []float64 {
	out := make([]float64, len(p.Columns))
	for i, id := range p.Columns {
		out[i] = p.Scores[id]
	}
	return out
}

// Responses collects the raw values recorded against each tag
type Responses struct {
	values map[taxonomy.TagID][]float64
	yes    map[taxonomy.TagID]bool
}

func newResponses() *Responses {
	return &Responses{
		values: make(map[taxonomy.TagID][]float64),
		yes:    make(map[taxonomy.TagID]bool),
	}
}

func (r *Responses) record(tags []taxonomy.TagID, value float64, yes bool) {
	for _, id := range tags {
		r.values[id] = append(r.values[id], value)
		if yes {
			r.yes[id] = true
		}
	}
}

// Values returns the responses recorded against a tag
func (r *Responses) Values(id taxonomy.TagID) []float64 {
	return r.values[id]
}

// Aggregator asks the survey in catalogue order and scores each tag
type Aggregator struct {
	tax    *taxonomy.Taxonomy
	cfg    config.SurveyConfig
	logger *slog.Logger
}

// NewAggregator creates an aggregator. A nil logger discards output.
func NewAggregator(tax *taxonomy.Taxonomy, cfg config.SurveyConfig, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Aggregator{tax: tax, cfg: cfg, logger: logger}
}

// Run asks every category and identity group and returns the profile
func (a *Aggregator) Run(ctx context.Context, src AnswerSource) (*Profile, error) {
	responses, err := a.Collect(ctx, src)
	if err != nil {
		return nil, err
	}
	profile := a.Build(responses)

	selections, err := a.CollectIdentities(ctx, src)
	if err != nil {
		return nil, err
	}
	a.ApplyIdentities(profile, selections)

	a.logger.Info("survey complete",
		"tags", len(profile.Scores),
		"yes", len(profile.Yes),
		"columns", len(profile.Columns))
	return profile, nil
}

// Collect asks each gate and, unless it was answered No, its sub-questions
func (a *Aggregator) Collect(ctx context.Context, src AnswerSource) (*Responses, error) {
	r := newResponses()

	for _, c := range a.tax.Categories() {
		gate, err := src.Ask(ctx, Question{
			ID:       c.GateID(),
			Text:     fmt.Sprintf("Are you interested in %s?", c.Name),
			Category: c.Name,
			Gate:     true,
		})
		if err != nil {
			return nil, fmt.Errorf("category %s: %w", c.ID, err)
		}
		r.record(c.Tags, a.value(gate), gate == Yes)
		a.logger.Debug("gate answered", "category", c.ID, "answer", gate)

		if gate == No {
			continue
		}

		for i, q := range c.Questions {
			id := c.QuestionID(i)
			ans, err := src.Ask(ctx, Question{ID: id, Text: q.Text, Category: c.Name})
			if err != nil {
				return nil, fmt.Errorf("question %s: %w", id, err)
			}
			if ans == Maybe {
				return nil, fmt.Errorf("%w: question %s only accepts yes or no", ErrInvalidAnswer, id)
			}
			r.record(q.Tags, a.value(ans), ans == Yes)
			a.logger.Log(ctx, logging.LevelTrace, "question answered", "question", id, "answer", ans)
		}
	}

	return r, nil
}

// Build scores every taxonomy tag from the collected responses. Columns
// start as the interest tags.
func (a *Aggregator) Build(r *Responses) *Profile {
	p := &Profile{
		Scores:  make(map[taxonomy.TagID]float64, a.tax.Len()),
		Columns: a.tax.InterestTags(),
	}
	for _, id := range a.tax.IDs() {
		p.Scores[id] = a.Resolve(r.values[id])
		if r.yes[id] {
			p.Yes = append(p.Yes, id)
		}
	}
	return p
}

// Resolve turns one tag's responses into a score. No responses gives the
// default score; all-yes with enough responses escalates.
func (a *Aggregator) Resolve(values []float64) float64 {
	if len(values) == 0 {
		return a.cfg.DefaultScore
	}

	var sum float64
	allYes := true
	for _, v := range values {
		sum += v
		if v != a.cfg.Yes {
			allYes = false
		}
	}

	// With No <= Maybe <= Yes the mean equals Yes only when every value does
	if allYes && len(values) >= a.cfg.EscalateMinResponses {
		return a.cfg.EscalatedScore
	}
	return sum / float64(len(values))
}

func (a *Aggregator) value(ans Answer) float64 {
	switch ans {
	case Yes:
		return a.cfg.Yes
	case Maybe:
		return a.cfg.Maybe
	default:
		return a.cfg.No
	}
}
