package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/clubmatch/clubmatch/internal/database"
	"github.com/clubmatch/clubmatch/internal/output"
	"github.com/clubmatch/clubmatch/internal/survey"
)

var (
	surveyAnswers string
	surveyLabel   string
	surveyNoSave  bool
)

var surveyCmd = &cobra.Command{
	Use:   "survey",
	Short: "Take the interest survey and save a profile",
	Long: `Ask the gated interest survey and the identity questions, then turn
the answers into a tag profile.

Each category opens with a yes/maybe/no question; sub-questions are only
asked after a yes or maybe. Tags answered yes every time are weighted
above a single yes.

Answers are read from the terminal unless --answers points at a TOML file:

  [answers]
  community = "yes"
  "community.1" = "no"

  [identity]
  gender = "woman women"

Examples:
  clubmatch survey
  clubmatch survey --answers answers.toml --label fall-intake
  clubmatch survey --answers answers.toml --no-save -o json`,
	RunE: runSurvey,
}

func init() {
	surveyCmd.Flags().StringVar(&surveyAnswers, "answers", "", "read answers from a TOML file")
	surveyCmd.Flags().StringVar(&surveyLabel, "label", "", "label stored with the profile")
	surveyCmd.Flags().BoolVar(&surveyNoSave, "no-save", false, "print the profile without saving it")

	rootCmd.AddCommand(surveyCmd)
}

func runSurvey(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	var src survey.AnswerSource
	if surveyAnswers != "" {
		src, err = survey.LoadScripted(surveyAnswers)
		if err != nil {
			return err
		}
	} else {
		// Prompts go to stderr when stdin is piped so stdout stays clean
		prompts := os.Stdout
		if !stdinIsTerminal() {
			prompts = os.Stderr
		}
		src = survey.NewPrompter(os.Stdin, prompts)
	}

	profile, err := survey.NewAggregator(a.tax, a.cfg.Survey, a.logger).Run(cmd.Context(), src)
	if err != nil {
		return err
	}

	view := output.NewProfileView(a.tax, "", profile.Scores, profile.Yes, profile.Columns)
	if surveyNoSave {
		return output.Output(outputFmt, view)
	}

	db, err := a.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	stored := &database.Profile{
		Label:   database.OptionalString(surveyLabel),
		Scores:  profile.Scores,
		Yes:     profile.Yes,
		Columns: profile.Columns,
	}
	if err := db.CreateProfile(cmd.Context(), stored); err != nil {
		return err
	}
	a.logger.Info("profile saved", "id", stored.ID, "yes", len(stored.Yes))

	view.ID = stored.ID
	view.Label = surveyLabel
	view.CreatedAt = &stored.CreatedAt
	return output.Output(outputFmt, view)
}
