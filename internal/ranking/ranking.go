// Package ranking orders organizations against a survey profile, either by
// cosine similarity or by counting shared tags.
package ranking

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/clubmatch/clubmatch/internal/taxonomy"
)

// ErrIncompleteProfile is returned when the profile has no score for a
// ranking column
var ErrIncompleteProfile = errors.New("incomplete profile")

// Profile is the user side of a ranking
type Profile interface {
	Score(id taxonomy.TagID) (float64, bool)
}

// Organization is a club with a score per tag. Tags not in Scores count
// as 0.
type Organization struct {
	Name   string
	Link   string
	Scores map[taxonomy.TagID]float64
}

// FromVector builds an organization from a resolved vector in taxonomy order
func FromVector(name, link string, ids []taxonomy.TagID, values []float64) Organization {
	org := Organization{Name: name, Link: link, Scores: make(map[taxonomy.TagID]float64, len(ids))}
	for i, id := range ids {
		if i < len(values) {
			org.Scores[id] = values[i]
		}
	}
	return org
}

// FromMembership builds an organization whose listed tags all carry value
func FromMembership(name, link string, tags []taxonomy.TagID, value float64) Organization {
	org := Organization{Name: name, Link: link, Scores: make(map[taxonomy.TagID]float64, len(tags))}
	for _, id := range tags {
		org.Scores[id] = value
	}
	return org
}

// Members returns the tags scored at or above cutoff, in ascending id order
func (o Organization) Members(cutoff float64) []taxonomy.TagID {
	var out []taxonomy.TagID
	for id, v := range o.Scores {
		if v >= cutoff {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Result is one ranked organization
type Result struct {
	Name  string  `json:"name"`
	Link  string  `json:"link,omitempty"`
	Score float64 `json:"score"`
	Rank  int     `json:"rank"`
}

// CosineSimilarity returns dot(u,v) / (|u||v|). It is 0 when either
// vector has zero norm or the lengths differ.
func CosineSimilarity(u, v []float64) float64 {
	if len(u) != len(v) || len(u) == 0 {
		return 0
	}

	var dot, nu, nv float64
	for i := range u {
		dot += u[i] * v[i]
		nu += u[i] * u[i]
		nv += v[i] * v[i]
	}
	if nu == 0 || nv == 0 {
		return 0
	}

	s := dot / (math.Sqrt(nu) * math.Sqrt(nv))
	// Rounding can push identical vectors just past 1
	return math.Max(-1, math.Min(1, s))
}

// Ranker scores organizations over a fixed ordered set of columns
type Ranker struct {
	columns []taxonomy.TagID
	topK    int
}

// New creates a ranker. topK <= 0 returns every organization.
func New(columns []taxonomy.TagID, topK int) *Ranker {
	return &Ranker{columns: append([]taxonomy.TagID(nil), columns...), topK: topK}
}

// Vector projects scores onto the ranker's columns
func (r *Ranker) Vector(scores map[taxonomy.TagID]float64) []float64 {
	out := make([]float64, len(r.columns))
	for i, id := range r.columns {
		out[i] = scores[id]
	}
	return out
}

func (r *Ranker) profileVector(p Profile) ([]float64, error) {
	out := make([]float64, len(r.columns))
	var missing []error
	for i, id := range r.columns {
		v, ok := p.Score(id)
		if !ok {
			missing = append(missing, fmt.Errorf("tag %d", id))
			continue
		}
		out[i] = v
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrIncompleteProfile, errors.Join(missing...))
	}
	return out, nil
}

// Rank sorts organizations by cosine similarity to the profile, highest
// first. Equal scores keep input order.
func (r *Ranker) Rank(p Profile, orgs []Organization) ([]Result, error) {
	user, err := r.profileVector(p)
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(orgs))
	for i, org := range orgs {
		results[i] = Result{
			Name:  org.Name,
			Link:  org.Link,
			Score: CosineSimilarity(user, r.Vector(org.Scores)),
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if r.topK > 0 && len(results) > r.topK {
		results = results[:r.topK]
	}
	for i := range results {
		results[i].Rank = i + 1
	}
	return results, nil
}
