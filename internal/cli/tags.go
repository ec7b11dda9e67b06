package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clubmatch/clubmatch/internal/output"
	"github.com/clubmatch/clubmatch/internal/taxonomy"
)

var (
	tagsGroup    string
	tagsCategory string
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List the tag catalogue",
	Long: `List catalogue tags in column order.

Examples:
  clubmatch tags
  clubmatch tags --group race
  clubmatch tags --category community -o json`,
	RunE: runTags,
}

func init() {
	tagsCmd.Flags().StringVar(&tagsGroup, "group", "", "only tags of this identity group")
	tagsCmd.Flags().StringVar(&tagsCategory, "category", "", "only tags fed by this survey category")

	rootCmd.AddCommand(tagsCmd)
}

func runTags(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	tags, err := filterTags(a.tax, tagsGroup, tagsCategory)
	if err != nil {
		return err
	}
	return output.Output(outputFmt, tags)
}

func filterTags(tax *taxonomy.Taxonomy, group, category string) ([]taxonomy.Tag, error) {
	if group != "" {
		if _, ok := tax.IdentityGroup(group); !ok {
			return nil, fmt.Errorf("unknown identity group: %s", group)
		}
	}

	var fed map[taxonomy.TagID]bool
	if category != "" {
		for _, c := range tax.Categories() {
			if string(c.ID) != category {
				continue
			}
			fed = make(map[taxonomy.TagID]bool)
			for _, id := range c.Tags {
				fed[id] = true
			}
			for _, q := range c.Questions {
				for _, id := range q.Tags {
					fed[id] = true
				}
			}
		}
		if fed == nil {
			return nil, fmt.Errorf("unknown category: %s", category)
		}
	}

	var out []taxonomy.Tag
	for _, tag := range tax.Tags() {
		if group != "" && tag.Group != group {
			continue
		}
		if fed != nil && !fed[tag.ID] {
			continue
		}
		out = append(out, tag)
	}
	return out, nil
}
