package taxonomy

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type catalogFile struct {
	Tags []struct {
		ID       int    `yaml:"id"`
		Label    string `yaml:"label"`
		Category string `yaml:"category,omitempty"`
	} `yaml:"tags"`
	Categories []struct {
		ID        string `yaml:"id"`
		Name      string `yaml:"name"`
		Tags      []int  `yaml:"tags"`
		Questions []struct {
			Text string `yaml:"text"`
			Tags []int  `yaml:"tags"`
		} `yaml:"questions"`
	} `yaml:"categories"`
	IdentityGroups []struct {
		Name     string `yaml:"name"`
		Question string `yaml:"question"`
		Tags     []int  `yaml:"tags"`
	} `yaml:"identity_groups"`
}

// Default returns the embedded club catalogue
func Default() (*Taxonomy, error) {
	return Parse(defaultCatalog)
}

// Load reads a YAML catalogue from path; an empty path loads the default
func Load(path string) (*Taxonomy, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalogue and validates it
func Parse(data []byte) (*Taxonomy, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	tags := make([]Tag, 0, len(f.Tags))
	for _, t := range f.Tags {
		tags = append(tags, Tag{ID: TagID(t.ID), Label: t.Label, Category: CategoryID(t.Category)})
	}

	categories := make([]Category, 0, len(f.Categories))
	for _, c := range f.Categories {
		cat := Category{ID: CategoryID(c.ID), Name: c.Name, Tags: toIDs(c.Tags)}
		for _, q := range c.Questions {
			cat.Questions = append(cat.Questions, Question{Text: q.Text, Tags: toIDs(q.Tags)})
		}
		categories = append(categories, cat)
	}

	groups := make([]IdentityGroup, 0, len(f.IdentityGroups))
	for _, g := range f.IdentityGroups {
		groups = append(groups, IdentityGroup{Name: g.Name, Question: g.Question, Tags: toIDs(g.Tags)})
	}

	return New(tags, categories, groups)
}

func toIDs(in []int) []TagID {
	out := make([]TagID, len(in))
	for i, v := range in {
		out[i] = TagID(v)
	}
	return out
}
