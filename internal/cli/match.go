package cli

import (
	"github.com/spf13/cobra"

	"github.com/clubmatch/clubmatch/internal/output"
	"github.com/clubmatch/clubmatch/internal/ranking"
	"github.com/clubmatch/clubmatch/internal/survey"
)

var matchThreshold float64

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "List clubs sharing the most tags with a profile's yes answers",
	Long: `Count, for every club, how many of the profile's yes tags it carries
and keep the clubs that carry at least the threshold share of them.
Clubs are ordered by that count.

This works with membership files where clubs list tag ids instead of
similarity values.

Examples:
  clubmatch match --membership clubs.csv
  clubmatch match --threshold 0.25 -o json`,
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().Float64Var(&matchThreshold, "threshold", -1, "minimum share of yes tags (default: ranking.partial_match_threshold)")
	addSourceFlags(matchCmd)

	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	threshold := a.cfg.Ranking.PartialMatchThreshold
	if matchThreshold >= 0 {
		threshold = matchThreshold
	}
	cutoff := a.cfg.Ranking.MemberCutoff
	if srcMembership != "" && a.cfg.Ranking.MembershipValue < cutoff {
		cutoff = a.cfg.Ranking.MembershipValue
	}

	return a.withInputs(cmd.Context(), func(p *survey.Profile, orgs []ranking.Organization) error {
		results := ranking.NewMatcher(threshold, cutoff).Match(p.Yes, orgs)
		a.logger.Debug("matched", "clubs", len(orgs), "yes", len(p.Yes), "kept", len(results))
		return output.Output(outputFmt, output.MatchRows(a.tax, results))
	})
}
