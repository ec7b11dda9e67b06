package database

import (
	"database/sql"
	"time"

	"github.com/clubmatch/clubmatch/internal/taxonomy"
)

// Source records how an organization's tags were produced
type Source string

const (
	SourceTagged     Source = "tagged"     // resolved from a similarity matrix
	SourceMembership Source = "membership" // imported tag-id list
)

// Organization is a stored club
type Organization struct {
	ID          string                     `json:"id"`
	Name        string                     `json:"name"`
	Link        *string                    `json:"link,omitempty"`
	Description *string                    `json:"description,omitempty"`
	Source      Source                     `json:"source"`
	Tags        map[taxonomy.TagID]float64 `json:"tags"`
	CreatedAt   time.Time                  `json:"created_at"`
	UpdatedAt   time.Time                  `json:"updated_at"`
}

// LinkOrEmpty returns the link or ""
func (o *Organization) LinkOrEmpty() string {
	if o.Link == nil {
		return ""
	}
	return *o.Link
}

// Profile is a stored survey result
type Profile struct {
	ID        string                     `json:"id"`
	Label     *string                    `json:"label,omitempty"`
	Scores    map[taxonomy.TagID]float64 `json:"scores"`
	Yes       []taxonomy.TagID           `json:"yes"`
	Columns   []taxonomy.TagID           `json:"columns"`
	CreatedAt time.Time                  `json:"created_at"`
}

// Score returns the stored score for a tag
func (p *Profile) Score(id taxonomy.TagID) (float64, bool) {
	v, ok := p.Scores[id]
	return v, ok
}

// ListOptions contains options for listing organizations
type ListOptions struct {
	Tag      *taxonomy.TagID // only organizations carrying this tag
	MinValue float64         // with Tag: minimum value to count as carrying it
	Source   *Source
	Name     *string // case-insensitive substring
	Limit    int
	Offset   int
}

// Stats summarizes the store
type Stats struct {
	Organizations int            `json:"organizations"`
	BySource      map[Source]int `json:"by_source"`
	Profiles      int            `json:"profiles"`
	LatestProfile *time.Time     `json:"latest_profile,omitempty"`
}

// NullString is a helper to convert *string to sql.NullString
func NullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// StringPtr converts sql.NullString to *string
func StringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

// OptionalString returns nil for an empty string
func OptionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
