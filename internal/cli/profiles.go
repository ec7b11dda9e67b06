package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clubmatch/clubmatch/internal/database"
	"github.com/clubmatch/clubmatch/internal/output"
)

var profilesLimit int

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List saved survey profiles",
	RunE:  runProfilesList,
}

var profilesShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a saved profile (default: the latest)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runProfilesShow,
}

func init() {
	profilesCmd.Flags().IntVarP(&profilesLimit, "limit", "n", 20, "maximum number of profiles")
	profilesCmd.AddCommand(profilesShowCmd)

	rootCmd.AddCommand(profilesCmd)
}

func runProfilesList(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	db, err := a.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	profiles, err := db.ListProfiles(cmd.Context(), profilesLimit)
	if err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}
	return output.Output(outputFmt, profiles)
}

func runProfilesShow(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	db, err := a.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	var p *database.Profile
	if len(args) == 1 {
		p, err = db.GetProfile(cmd.Context(), args[0])
	} else {
		p, err = db.LatestProfile(cmd.Context())
	}
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	if p == nil {
		return fmt.Errorf("profile not found")
	}

	view := output.NewProfileView(a.tax, p.ID, p.Scores, p.Yes, p.Columns)
	if p.Label != nil {
		view.Label = *p.Label
	}
	view.CreatedAt = &p.CreatedAt
	return output.Output(outputFmt, view)
}
