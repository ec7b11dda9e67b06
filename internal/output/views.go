package output

import (
	"time"

	"github.com/clubmatch/clubmatch/internal/database"
	"github.com/clubmatch/clubmatch/internal/ranking"
	"github.com/clubmatch/clubmatch/internal/tagging"
	"github.com/clubmatch/clubmatch/internal/taxonomy"
)

// MatchRow is a count-and-filter result with tag labels
type MatchRow struct {
	Rank    int      `json:"rank"`
	Name    string   `json:"name"`
	Link    string   `json:"link,omitempty"`
	Matched int      `json:"matched"`
	Tags    []string `json:"tags,omitempty"`
}

// MatchRows labels match results
func MatchRows(tax *taxonomy.Taxonomy, results []ranking.MatchResult) []MatchRow {
	rows := make([]MatchRow, len(results))
	for i, r := range results {
		rows[i] = MatchRow{Rank: r.Rank, Name: r.Name, Link: r.Link, Matched: r.Matched, Tags: labels(tax, r.Tags)}
	}
	return rows
}

// TagValue is one labelled score
type TagValue struct {
	ID    taxonomy.TagID `json:"id"`
	Label string         `json:"label"`
	Value float64        `json:"value"`
}

// ClubDetail is a stored organization with labelled tags
type ClubDetail struct {
	Name        string          `json:"name"`
	Link        string          `json:"link,omitempty"`
	Description string          `json:"description,omitempty"`
	Source      database.Source `json:"source"`
	Tags        []TagValue      `json:"tags"`
}

// NewClubDetail labels an organization's non-zero tags in taxonomy order
func NewClubDetail(tax *taxonomy.Taxonomy, o *database.Organization) *ClubDetail {
	d := &ClubDetail{Name: o.Name, Link: o.LinkOrEmpty(), Source: o.Source}
	if o.Description != nil {
		d.Description = *o.Description
	}
	for _, tag := range tax.Tags() {
		if v := o.Tags[tag.ID]; v != 0 {
			d.Tags = append(d.Tags, TagValue{ID: tag.ID, Label: tag.Label, Value: v})
		}
	}
	return d
}

// ProfileTag is one row of a profile view
type ProfileTag struct {
	ID     taxonomy.TagID `json:"id"`
	Label  string         `json:"label"`
	Score  float64        `json:"score"`
	Yes    bool           `json:"yes"`
	Column bool           `json:"column"`
}

// ProfileView is a profile with labelled scores
type ProfileView struct {
	ID        string       `json:"id,omitempty"`
	Label     string       `json:"label,omitempty"`
	CreatedAt *time.Time   `json:"created_at,omitempty"`
	Tags      []ProfileTag `json:"tags"`
}

// NewProfileView labels a profile. Tags with a zero score that are neither
// ranking columns nor yes answers are left out.
func NewProfileView(tax *taxonomy.Taxonomy, id string, scores map[taxonomy.TagID]float64, yes, columns []taxonomy.TagID) *ProfileView {
	isYes := make(map[taxonomy.TagID]bool, len(yes))
	for _, t := range yes {
		isYes[t] = true
	}
	isCol := make(map[taxonomy.TagID]bool, len(columns))
	for _, t := range columns {
		isCol[t] = true
	}

	v := &ProfileView{ID: id}
	for _, tag := range tax.Tags() {
		s := scores[tag.ID]
		if s == 0 && !isYes[tag.ID] && !isCol[tag.ID] {
			continue
		}
		v.Tags = append(v.Tags, ProfileTag{
			ID:     tag.ID,
			Label:  tag.Label,
			Score:  s,
			Yes:    isYes[tag.ID],
			Column: isCol[tag.ID],
		})
	}
	return v
}

// TagReport summarizes a tagging run
type TagReport struct {
	Stats      tagging.Stats `json:"stats"`
	Degenerate []string      `json:"degenerate,omitempty"`
	Rejected   []string      `json:"rejected,omitempty"`
	Output     string        `json:"output,omitempty"`
	Saved      int           `json:"saved"`
}

// NewTagReport labels a tagging result
func NewTagReport(tax *taxonomy.Taxonomy, r *tagging.Result) *TagReport {
	rep := &TagReport{
		Stats:      tagging.GetStats(r),
		Degenerate: labels(tax, r.Degenerate),
	}
	for _, e := range r.Rejected {
		rep.Rejected = append(rep.Rejected, e.Error())
	}
	return rep
}

func labels(tax *taxonomy.Taxonomy, ids []taxonomy.TagID) []string {
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if tag, ok := tax.Tag(id); ok {
			out = append(out, tag.Label)
		}
	}
	return out
}
