package cli

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/clubmatch/clubmatch/internal/corpus"
	"github.com/clubmatch/clubmatch/internal/database"
	"github.com/clubmatch/clubmatch/internal/output"
	"github.com/clubmatch/clubmatch/internal/tagging"
	"github.com/clubmatch/clubmatch/internal/taxonomy"
)

var (
	tagOut  string
	tagSave bool
)

var tagCmd = &cobra.Command{
	Use:   "tag <similarity.csv>",
	Short: "Resolve club similarity scores into tags",
	Long: `Read a club-to-tag similarity matrix, scale every tag column to [0, 1]
and apply the race, gender, greek-life and threshold rules.

The CSV needs a club name column, an optional link and description
column, and one column per catalogue tag. Rows that cannot be parsed
are reported and skipped.

Examples:
  clubmatch tag scores.csv --out tagged.csv
  clubmatch tag scores.csv --save
  clubmatch tag scores.csv --out - > tagged.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runTag,
}

func init() {
	tagCmd.Flags().StringVar(&tagOut, "out", "", "write the tagged CSV to this file ('-' for stdout)")
	tagCmd.Flags().BoolVar(&tagSave, "save", false, "save tagged clubs to the store")

	rootCmd.AddCommand(tagCmd)
}

func runTag(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	rows, parseErrs, err := corpus.ReadScores(f, a.tax, corpus.DefaultColumns())
	if err != nil {
		return err
	}
	a.logRejected(parseErrs)

	pipeline, err := tagging.NewPipeline(a.tax, a.cfg.Tagging, a.logger)
	if err != nil {
		return err
	}

	result, err := pipeline.Run(rows)
	if result != nil {
		result.Rejected = append(parseErrs, result.Rejected...)
	}
	if err != nil {
		return err
	}

	report := output.NewTagReport(a.tax, result)

	if tagOut != "" {
		if err := writeTagged(tagOut, a, result.Organizations); err != nil {
			return err
		}
		report.Output = tagOut
	}

	if tagSave {
		saved, err := saveTagged(cmd.Context(), a, result.Organizations)
		if err != nil {
			return err
		}
		report.Saved = saved
	}

	// The CSV owns stdout when streamed there
	if tagOut == "-" {
		NewTerminal(os.Stderr).Notef(ColorGreen, "Tagged %d clubs (%d skipped)",
			report.Stats.Total, report.Stats.Rejected)
		return nil
	}
	return output.Output(outputFmt, report)
}

func writeTagged(path string, a *app, orgs []tagging.Tagged) (err error) {
	if path == "-" {
		return corpus.WriteTagged(os.Stdout, a.tax, orgs)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	return corpus.WriteTagged(f, a.tax, orgs)
}

func saveTagged(ctx context.Context, a *app, orgs []tagging.Tagged) (int, error) {
	db, err := a.openDB()
	if err != nil {
		return 0, err
	}
	defer db.Close()

	ids := a.tax.IDs()
	records := make([]*database.Organization, len(orgs))
	for i, o := range orgs {
		tags := make(map[taxonomy.TagID]float64)
		for j, v := range o.Values {
			if v != 0 {
				tags[ids[j]] = v
			}
		}
		records[i] = &database.Organization{
			Name:        o.Name,
			Link:        database.OptionalString(o.Link),
			Description: database.OptionalString(o.Description),
			Source:      database.SourceTagged,
			Tags:        tags,
		}
	}

	if err := db.SaveOrganizations(ctx, records); err != nil {
		return 0, err
	}
	a.logger.Info("clubs saved", "count", len(records), "path", a.cfg.Database.Path)
	return len(records), nil
}
