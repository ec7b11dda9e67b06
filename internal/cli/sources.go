package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/clubmatch/clubmatch/internal/corpus"
	"github.com/clubmatch/clubmatch/internal/database"
	"github.com/clubmatch/clubmatch/internal/ranking"
	"github.com/clubmatch/clubmatch/internal/survey"
	"github.com/clubmatch/clubmatch/internal/tagging"
)

// Where rank and match read their inputs from
var (
	srcClubs      string
	srcMembership string
	srcProfileID  string
	srcAnswers    string
)

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&srcClubs, "clubs", "", "tagged clubs CSV (default: the store)")
	cmd.Flags().StringVar(&srcMembership, "membership", "", "membership CSV of club tag ids (default: the store)")
	cmd.Flags().StringVar(&srcProfileID, "profile", "", "stored profile id (default: the latest)")
	cmd.Flags().StringVar(&srcAnswers, "answers", "", "score a survey answers file instead of a stored profile")
	cmd.MarkFlagsMutuallyExclusive("clubs", "membership")
	cmd.MarkFlagsMutuallyExclusive("profile", "answers")
}

// needsStore reports whether any input has to come from the database
func needsStore() bool {
	return (srcClubs == "" && srcMembership == "") || srcAnswers == ""
}

// loadProfile returns the profile to rank against
func (a *app) loadProfile(ctx context.Context, db *database.DB) (*survey.Profile, error) {
	if srcAnswers != "" {
		src, err := survey.LoadScripted(srcAnswers)
		if err != nil {
			return nil, err
		}
		return survey.NewAggregator(a.tax, a.cfg.Survey, a.logger).Run(ctx, src)
	}

	var (
		p   *database.Profile
		err error
	)
	if srcProfileID != "" {
		p, err = db.GetProfile(ctx, srcProfileID)
	} else {
		p, err = db.LatestProfile(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if p == nil {
		if srcProfileID != "" {
			return nil, fmt.Errorf("profile not found: %s", srcProfileID)
		}
		return nil, errors.New("no saved profile; run 'clubmatch survey' or pass --answers")
	}
	a.logger.Debug("profile loaded", "id", p.ID, "columns", len(p.Columns))
	return &survey.Profile{Scores: p.Scores, Yes: p.Yes, Columns: p.Columns}, nil
}

// loadOrganizations returns the clubs to rank
func (a *app) loadOrganizations(ctx context.Context, db *database.DB) ([]ranking.Organization, error) {
	switch {
	case srcClubs != "":
		f, err := os.Open(srcClubs)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		tagged, rejected, err := corpus.ReadTagged(f, a.tax)
		if err != nil {
			return nil, err
		}
		a.logRejected(rejected)
		ids := a.tax.IDs()
		orgs := make([]ranking.Organization, len(tagged))
		for i, t := range tagged {
			orgs[i] = ranking.FromVector(t.Name, t.Link, ids, t.Values)
		}
		return orgs, nil

	case srcMembership != "":
		f, err := os.Open(srcMembership)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		members, rejected, err := corpus.ReadMembership(f, a.tax)
		if err != nil {
			return nil, err
		}
		a.logRejected(rejected)
		orgs := make([]ranking.Organization, len(members))
		for i, m := range members {
			orgs[i] = ranking.FromMembership(m.Name, "", m.Tags, a.cfg.Ranking.MembershipValue)
		}
		return orgs, nil
	}

	stored, err := db.ListOrganizations(ctx, database.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list clubs: %w", err)
	}
	if len(stored) == 0 {
		return nil, errors.New("no clubs in the store; run 'clubmatch tag --save' or pass --clubs")
	}
	orgs := make([]ranking.Organization, len(stored))
	for i, o := range stored {
		orgs[i] = ranking.Organization{Name: o.Name, Link: o.LinkOrEmpty(), Scores: o.Tags}
	}
	return orgs, nil
}

func (a *app) logRejected(rejected []tagging.RowError) {
	for _, e := range rejected {
		a.logger.Warn("row skipped", "line", e.Line, "name", e.Name, "error", e.Err)
	}
}

// withInputs opens the store only when an input needs it
func (a *app) withInputs(ctx context.Context, fn func(*survey.Profile, []ranking.Organization) error) error {
	var db *database.DB
	if needsStore() {
		var err error
		db, err = a.openDB()
		if err != nil {
			return err
		}
		defer db.Close()
	}

	profile, err := a.loadProfile(ctx, db)
	if err != nil {
		return err
	}
	orgs, err := a.loadOrganizations(ctx, db)
	if err != nil {
		return err
	}
	return fn(profile, orgs)
}
