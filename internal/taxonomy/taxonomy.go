// Package taxonomy holds the ordered tag catalogue shared by tagging,
// survey scoring and ranking. A Taxonomy is immutable once built.
package taxonomy

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedTaxonomy is returned for duplicate tags or references to
// tags and categories that do not exist.
var ErrMalformedTaxonomy = errors.New("malformed taxonomy")

// TagID identifies a tag
type TagID int

// CategoryID identifies a survey category
type CategoryID string

// Tag is a single label in the catalogue
type Tag struct {
	ID       TagID
	Label    string
	Category CategoryID // empty for tags outside the survey tree
	Group    string     // identity group name, empty for interest tags
}

// IsIdentity reports whether the tag belongs to an identity group
func (t Tag) IsIdentity() bool {
	return t.Group != ""
}

// Question is a sub-question that feeds one or more tags
type Question struct {
	Text string
	Tags []TagID
}

// Category is a gated block of the survey
type Category struct {
	ID        CategoryID
	Name      string
	Tags      []TagID // composite tags that receive the gate answer
	Questions []Question
}

// GateID returns the question id of the category's gate question
func (c Category) GateID() string {
	return string(c.ID)
}

// QuestionID returns the question id of the i-th (0-based) sub-question
func (c Category) QuestionID(i int) string {
	return fmt.Sprintf("%s.%d", c.ID, i+1)
}

// IdentityGroup is a mutually exclusive set of identity tags the user
// picks from (gender, race, major, ...)
type IdentityGroup struct {
	Name     string
	Question string
	Tags     []TagID
}

// Taxonomy is the ordered, validated catalogue
type Taxonomy struct {
	tags       []Tag
	index      map[TagID]int
	byLabel    map[string]int
	categories []Category
	groups     []IdentityGroup
	groupIdx   map[string]int
}

// New validates the inputs and builds a Taxonomy. Tag order is preserved
// and defines the column order of every vector built from it.
func New(tags []Tag, categories []Category, groups []IdentityGroup) (*Taxonomy, error) {
	t := &Taxonomy{
		tags:     make([]Tag, len(tags)),
		index:    make(map[TagID]int, len(tags)),
		byLabel:  make(map[string]int, len(tags)),
		groupIdx: make(map[string]int, len(groups)),
	}
	copy(t.tags, tags)

	var errs []error
	if len(tags) == 0 {
		errs = append(errs, errors.New("no tags defined"))
	}

	for i, tag := range t.tags {
		if _, dup := t.index[tag.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate tag id %d", tag.ID))
			continue
		}
		key := labelKey(tag.Label)
		if key == "" {
			errs = append(errs, fmt.Errorf("tag %d has an empty label", tag.ID))
			continue
		}
		if _, dup := t.byLabel[key]; dup {
			errs = append(errs, fmt.Errorf("duplicate tag label %q", tag.Label))
			continue
		}
		t.index[tag.ID] = i
		t.byLabel[key] = i
	}

	catIDs := make(map[CategoryID]bool, len(categories))
	for _, c := range categories {
		if c.ID == "" {
			errs = append(errs, fmt.Errorf("category %q has no id", c.Name))
			continue
		}
		if catIDs[c.ID] {
			errs = append(errs, fmt.Errorf("duplicate category id %q", c.ID))
			continue
		}
		catIDs[c.ID] = true

		cc := Category{ID: c.ID, Name: c.Name, Tags: cloneIDs(c.Tags)}
		for _, id := range c.Tags {
			if _, ok := t.index[id]; !ok {
				errs = append(errs, fmt.Errorf("category %q references unknown tag %d", c.ID, id))
			}
		}
		for qi, q := range c.Questions {
			if len(q.Tags) == 0 {
				errs = append(errs, fmt.Errorf("question %s maps to no tags", cc.QuestionID(qi)))
			}
			for _, id := range q.Tags {
				if _, ok := t.index[id]; !ok {
					errs = append(errs, fmt.Errorf("question %s references unknown tag %d", cc.QuestionID(qi), id))
				}
			}
			cc.Questions = append(cc.Questions, Question{Text: q.Text, Tags: cloneIDs(q.Tags)})
		}
		t.categories = append(t.categories, cc)
	}

	for _, tag := range t.tags {
		if tag.Category != "" && !catIDs[tag.Category] {
			errs = append(errs, fmt.Errorf("tag %d references unknown category %q", tag.ID, tag.Category))
		}
	}

	member := make(map[TagID]string)
	for _, g := range groups {
		if g.Name == "" {
			errs = append(errs, errors.New("identity group without a name"))
			continue
		}
		if _, dup := t.groupIdx[g.Name]; dup {
			errs = append(errs, fmt.Errorf("duplicate identity group %q", g.Name))
			continue
		}
		for _, id := range g.Tags {
			i, ok := t.index[id]
			if !ok {
				errs = append(errs, fmt.Errorf("identity group %q references unknown tag %d", g.Name, id))
				continue
			}
			if prev, taken := member[id]; taken {
				errs = append(errs, fmt.Errorf("tag %d is in identity groups %q and %q", id, prev, g.Name))
				continue
			}
			member[id] = g.Name
			t.tags[i].Group = g.Name
		}
		t.groupIdx[g.Name] = len(t.groups)
		t.groups = append(t.groups, IdentityGroup{Name: g.Name, Question: g.Question, Tags: cloneIDs(g.Tags)})
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrMalformedTaxonomy, errors.Join(errs...))
	}
	return t, nil
}

// Len returns the number of tags
func (t *Taxonomy) Len() int {
	return len(t.tags)
}

// Tags returns a copy of the tags in catalogue order
func (t *Taxonomy) Tags() []Tag {
	out := make([]Tag, len(t.tags))
	copy(out, t.tags)
	return out
}

// IDs returns every tag id in catalogue order
func (t *Taxonomy) IDs() []TagID {
	out := make([]TagID, len(t.tags))
	for i, tag := range t.tags {
		out[i] = tag.ID
	}
	return out
}

// Labels returns every tag label in catalogue order
func (t *Taxonomy) Labels() []string {
	out := make([]string, len(t.tags))
	for i, tag := range t.tags {
		out[i] = tag.Label
	}
	return out
}

// Tag looks up a tag by id
func (t *Taxonomy) Tag(id TagID) (Tag, bool) {
	i, ok := t.index[id]
	if !ok {
		return Tag{}, false
	}
	return t.tags[i], true
}

// Index returns the column position of a tag
func (t *Taxonomy) Index(id TagID) (int, bool) {
	i, ok := t.index[id]
	return i, ok
}

// Lookup finds a tag by label, ignoring case and surrounding whitespace
func (t *Taxonomy) Lookup(label string) (Tag, bool) {
	i, ok := t.byLabel[labelKey(label)]
	if !ok {
		return Tag{}, false
	}
	return t.tags[i], true
}

// ResolveLabels maps labels to ids, failing on the first unknown label
func (t *Taxonomy) ResolveLabels(labels []string) ([]TagID, error) {
	ids := make([]TagID, 0, len(labels))
	for _, l := range labels {
		tag, ok := t.Lookup(l)
		if !ok {
			return nil, fmt.Errorf("%w: unknown tag label %q", ErrMalformedTaxonomy, l)
		}
		ids = append(ids, tag.ID)
	}
	return ids, nil
}

// Categories returns the survey categories in ask order
func (t *Taxonomy) Categories() []Category {
	out := make([]Category, len(t.categories))
	copy(out, t.categories)
	return out
}

// IdentityGroups returns the identity groups in catalogue order
func (t *Taxonomy) IdentityGroups() []IdentityGroup {
	out := make([]IdentityGroup, len(t.groups))
	copy(out, t.groups)
	return out
}

// IdentityGroup looks up a group by name
func (t *Taxonomy) IdentityGroup(name string) (IdentityGroup, bool) {
	i, ok := t.groupIdx[name]
	if !ok {
		return IdentityGroup{}, false
	}
	return t.groups[i], true
}

// InterestTags returns the ids of all non-identity tags in catalogue order
func (t *Taxonomy) InterestTags() []TagID {
	var out []TagID
	for _, tag := range t.tags {
		if !tag.IsIdentity() {
			out = append(out, tag.ID)
		}
	}
	return out
}

// Order sorts ids into catalogue order and drops duplicates and unknowns
func (t *Taxonomy) Order(ids []TagID) []TagID {
	want := make(map[TagID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := make([]TagID, 0, len(want))
	for _, tag := range t.tags {
		if want[tag.ID] {
			out = append(out, tag.ID)
		}
	}
	return out
}

func labelKey(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

func cloneIDs(ids []TagID) []TagID {
	if ids == nil {
		return nil
	}
	out := make([]TagID, len(ids))
	copy(out, ids)
	return out
}
