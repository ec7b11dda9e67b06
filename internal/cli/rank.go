package cli

import (
	"github.com/spf13/cobra"

	"github.com/clubmatch/clubmatch/internal/output"
	"github.com/clubmatch/clubmatch/internal/ranking"
	"github.com/clubmatch/clubmatch/internal/survey"
)

var rankTop int

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank clubs by similarity to a profile",
	Long: `Rank clubs by cosine similarity between the profile and each club's
tag values, over the interest tags plus any identity groups the profile
answered.

Clubs come from the store unless --clubs or --membership is given. The
profile is the latest saved one unless --profile or --answers is given.

Examples:
  clubmatch rank
  clubmatch rank --top 25
  clubmatch rank --clubs tagged.csv --answers answers.toml -o json
  clubmatch rank --membership clubs.csv --profile 4f0c...`,
	RunE: runRank,
}

func init() {
	rankCmd.Flags().IntVarP(&rankTop, "top", "n", -1, "number of clubs to show, 0 for all (default: ranking.top_k)")
	addSourceFlags(rankCmd)

	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	topK := a.cfg.Ranking.TopK
	if rankTop >= 0 {
		topK = rankTop
	}

	return a.withInputs(cmd.Context(), func(p *survey.Profile, orgs []ranking.Organization) error {
		results, err := ranking.New(p.Columns, topK).Rank(p, orgs)
		if err != nil {
			return err
		}
		a.logger.Debug("ranked", "clubs", len(orgs), "columns", len(p.Columns), "shown", len(results))
		return output.Output(outputFmt, results)
	})
}
