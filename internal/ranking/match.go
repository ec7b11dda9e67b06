package ranking

import (
	"sort"

	"github.com/clubmatch/clubmatch/internal/taxonomy"
)

// MatchResult is an organization that shares enough tags with the user
type MatchResult struct {
	Name    string           `json:"name"`
	Link    string           `json:"link,omitempty"`
	Matched int              `json:"matched"`
	Tags    []taxonomy.TagID `json:"tags,omitempty"` // shared tags, in yesTags order
	Rank    int              `json:"rank"`
}

// Matcher is the count-and-filter fallback
type Matcher struct {
	threshold float64 // minimum matched / |yesTags|
	cutoff    float64 // minimum score for an organization to carry a tag
}

// NewMatcher creates a matcher
func NewMatcher(threshold, cutoff float64) *Matcher {
	return &Matcher{threshold: threshold, cutoff: cutoff}
}

// Match counts how many of yesTags each organization carries and keeps those
// at or above the threshold fraction, best first. With no yesTags every
// organization passes in input order.
func (m *Matcher) Match(yesTags []taxonomy.TagID, orgs []Organization) []MatchResult {
	results := make([]MatchResult, 0, len(orgs))

	if len(yesTags) == 0 {
		for _, org := range orgs {
			results = append(results, MatchResult{Name: org.Name, Link: org.Link})
		}
		return rankMatches(results)
	}

	for _, org := range orgs {
		var shared []taxonomy.TagID
		for _, id := range yesTags {
			if org.Scores[id] >= m.cutoff {
				shared = append(shared, id)
			}
		}
		if float64(len(shared))/float64(len(yesTags)) < m.threshold {
			continue
		}
		results = append(results, MatchResult{
			Name:    org.Name,
			Link:    org.Link,
			Matched: len(shared),
			Tags:    shared,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Matched > results[j].Matched
	})
	return rankMatches(results)
}

func rankMatches(results []MatchResult) []MatchResult {
	for i := range results {
		results[i].Rank = i + 1
	}
	return results
}
