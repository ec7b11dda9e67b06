package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/clubmatch/clubmatch/internal/corpus"
	"github.com/clubmatch/clubmatch/internal/database"
	"github.com/clubmatch/clubmatch/internal/output"
	"github.com/clubmatch/clubmatch/internal/taxonomy"
)

var (
	clubsTag    string
	clubsMin    float64
	clubsSource string
	clubsName   string
	clubsLimit  int
	clubsOffset int
)

var clubsCmd = &cobra.Command{
	Use:   "clubs",
	Short: "List clubs in the store",
	Long: `List stored clubs with optional filters.

Examples:
  clubmatch clubs
  clubmatch clubs --tag Greek
  clubmatch clubs --source membership --name chess`,
	RunE: runClubsList,
}

var clubsShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a club and its tags",
	Args:  cobra.ExactArgs(1),
	RunE:  runClubsShow,
}

var clubsImportCmd = &cobra.Command{
	Use:   "import <membership.csv>",
	Short: "Import clubs from a membership file",
	Long: `Import headerless rows of club name, description and tag ids
(separated by ';' or ','). Every listed tag gets ranking.membership_value.`,
	Args: cobra.ExactArgs(1),
	RunE: runClubsImport,
}

var clubsDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a club from the store",
	Args:  cobra.ExactArgs(1),
	RunE:  runClubsDelete,
}

var clubsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show store statistics",
	RunE:  runClubsStats,
}

func init() {
	clubsCmd.Flags().StringVar(&clubsTag, "tag", "", "only clubs carrying this tag label")
	clubsCmd.Flags().Float64Var(&clubsMin, "min", 1, "with --tag: minimum value to count as carrying it")
	clubsCmd.Flags().StringVar(&clubsSource, "source", "", "only clubs from this source (tagged, membership)")
	clubsCmd.Flags().StringVar(&clubsName, "name", "", "only clubs whose name contains this text")
	clubsCmd.Flags().IntVarP(&clubsLimit, "limit", "n", 50, "maximum number of clubs")
	clubsCmd.Flags().IntVar(&clubsOffset, "offset", 0, "skip this many clubs")

	clubsCmd.AddCommand(clubsShowCmd)
	clubsCmd.AddCommand(clubsImportCmd)
	clubsCmd.AddCommand(clubsDeleteCmd)
	clubsCmd.AddCommand(clubsStatsCmd)

	rootCmd.AddCommand(clubsCmd)
}

func runClubsList(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	opts := database.ListOptions{
		MinValue: clubsMin,
		Limit:    clubsLimit,
		Offset:   clubsOffset,
		Name:     database.OptionalString(clubsName),
	}
	if clubsTag != "" {
		tag, ok := a.tax.Lookup(clubsTag)
		if !ok {
			return fmt.Errorf("unknown tag: %s", clubsTag)
		}
		opts.Tag = &tag.ID
	}
	if clubsSource != "" {
		src := database.Source(clubsSource)
		if src != database.SourceTagged && src != database.SourceMembership {
			return fmt.Errorf("invalid source %q: use tagged or membership", clubsSource)
		}
		opts.Source = &src
	}

	db, err := a.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	orgs, err := db.ListOrganizations(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("failed to list clubs: %w", err)
	}
	return output.Output(outputFmt, orgs)
}

func runClubsShow(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	db, err := a.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	org, err := db.GetOrganization(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get club: %w", err)
	}
	if org == nil {
		return fmt.Errorf("club not found: %s", args[0])
	}
	return output.Output(outputFmt, output.NewClubDetail(a.tax, org))
}

func runClubsImport(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	members, rejected, err := corpus.ReadMembership(f, a.tax)
	if err != nil {
		return err
	}
	a.logRejected(rejected)

	records := make([]*database.Organization, len(members))
	for i, m := range members {
		tags := make(map[taxonomy.TagID]float64, len(m.Tags))
		for _, id := range m.Tags {
			tags[id] = a.cfg.Ranking.MembershipValue
		}
		records[i] = &database.Organization{
			Name:        m.Name,
			Description: database.OptionalString(m.Description),
			Source:      database.SourceMembership,
			Tags:        tags,
		}
	}

	db, err := a.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.SaveOrganizations(cmd.Context(), records); err != nil {
		return err
	}

	term := NewTerminal(os.Stdout)
	term.Notef(ColorGreen, "Imported %d clubs", len(records))
	if len(rejected) > 0 {
		term.Notef(ColorYellow, "Skipped %d rows", len(rejected))
	}
	return nil
}

func runClubsDelete(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	db, err := a.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.DeleteOrganization(cmd.Context(), args[0]); err != nil {
		return err
	}
	NewTerminal(os.Stdout).Notef(ColorGray, "Deleted %s", args[0])
	return nil
}

func runClubsStats(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	db, err := a.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	stats, err := db.GetStats(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}
	return output.Output(outputFmt, stats)
}
