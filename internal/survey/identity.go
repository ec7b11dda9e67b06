package survey

import (
	"context"
	"fmt"
	"strings"

	"github.com/clubmatch/clubmatch/internal/taxonomy"
)

// Selection is the user's pick for one identity group
type Selection struct {
	Group    string
	Tag      taxonomy.TagID
	Declined bool // answered other; Tag is unset
}

// CollectIdentities asks each identity group in catalogue order
func (a *Aggregator) CollectIdentities(ctx context.Context, src AnswerSource) ([]Selection, error) {
	var out []Selection
	for _, g := range a.tax.IdentityGroups() {
		labels := make([]string, 0, len(g.Tags))
		for _, id := range g.Tags {
			if tag, ok := a.tax.Tag(id); ok {
				labels = append(labels, tag.Label)
			}
		}

		choice, err := src.Choose(ctx, g, labels)
		if err != nil {
			return nil, fmt.Errorf("identity %s: %w", g.Name, err)
		}
		sel, err := a.selection(g, choice)
		if err != nil {
			return nil, err
		}
		a.logger.Debug("identity chosen", "group", g.Name, "choice", choice)
		out = append(out, sel)
	}
	return out, nil
}

func (a *Aggregator) selection(g taxonomy.IdentityGroup, choice string) (Selection, error) {
	if choice == "" || strings.EqualFold(choice, OtherChoice) {
		return Selection{Group: g.Name, Declined: true}, nil
	}

	tag, ok := a.tax.Lookup(choice)
	if !ok || tag.Group != g.Name {
		return Selection{}, fmt.Errorf("%w: %q is not an option for %s", ErrInvalidAnswer, choice, g.Name)
	}
	return Selection{Group: g.Name, Tag: tag.ID}, nil
}

// ApplyIdentities weights the picked tag of each selected group, zeroes
// the rest of that group and adds the group's tags to the ranking columns.
// Declined groups add nothing.
func (a *Aggregator) ApplyIdentities(p *Profile, selections []Selection) {
	columns := append([]taxonomy.TagID(nil), p.Columns...)
	yes := append([]taxonomy.TagID(nil), p.Yes...)

	for _, sel := range selections {
		if sel.Declined {
			continue
		}
		g, ok := a.tax.IdentityGroup(sel.Group)
		if !ok {
			continue
		}

		weight := a.cfg.IdentityWeight
		if w, ok := a.cfg.GroupWeights[g.Name]; ok {
			weight = w
		}
		for _, id := range g.Tags {
			p.Scores[id] = 0
		}
		p.Scores[sel.Tag] = weight
		columns = append(columns, g.Tags...)
		yes = append(yes, sel.Tag)
	}

	p.Columns = a.tax.Order(columns)
	p.Yes = a.tax.Order(yes)
}
