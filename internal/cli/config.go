package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	RunE:  runConfigShow,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Dir(configPath)
	dataDir := filepath.Join(home, ".local", "share", "clubmatch")

	// Create directories
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		fmt.Printf("Config file already exists at %s\n", configPath)
		fmt.Println("Use 'clubmatch config show' to view current configuration")
		return nil
	}

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Created config file at %s\n", configPath)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Tag clubs from a similarity matrix:  clubmatch tag scores.csv --save")
	fmt.Println("  2. Take the survey:                     clubmatch survey")
	fmt.Println("  3. See your matches:                    clubmatch rank")

	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("No config file found; built-in defaults are in use.")
			fmt.Println("Run 'clubmatch config init' to create one.")
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}

	fmt.Printf("# Config file: %s\n\n", configPath)
	fmt.Println(string(data))
	return nil
}

const defaultConfig = `# clubmatch configuration

[database]
path = "~/.local/share/clubmatch/clubmatch.db"

[catalog]
# Leave empty to use the built-in tag catalogue
path = ""

[logging]
level = "info"  # info, debug or trace

[tagging]
degenerate_value = 0.0        # value for a column where every club scored the same
inclusive_thresholds = true   # a score equal to a threshold clears it

[tagging.race]
threshold = 0.6
# Order breaks ties for the highest score
tags = [
    "White European Italian",
    "Black African American",
    "Native American",
    "Hispanic",
    "Asian",
    "Native Hawaiian or Other Pacific Islander"
]

[tagging.gender]
threshold = 0.575
woman_tag = "woman women"
man_tag = "man men"
woman_keywords = ["woman", "woman's", "women", "women's", "womens", "sisterhood", "sister", "sisters", "sorority"]
man_keywords = ["man", "man's", "men", "men's", "mens", "brotherhood", "brother", "brothers"]

[tagging.greek]
tag = "Greek"
keywords = [
    "greek", "fraternity", "sorority", "brotherhood", "sisterhood", "brothers", "sisters",
    "alpha", "beta", "gamma", "delta", "epsilon", "zeta", "eta", "theta", "iota", "kappa",
    "lambda", "mu", "nu", "xi", "omicron", "pi", "rho", "sigma", "tau", "upsilon",
    "phi", "chi", "psi", "omega"
]

[[tagging.thresholds]]
tag = "lgbtq"
threshold = 0.65

[survey]
yes = 1.0
maybe = 0.5
no = 0.0
default_score = 0.0         # tags nobody answered for
escalated_score = 2.0       # tags answered yes every time
escalate_min_responses = 1
identity_weight = 2.0

[survey.group_weights]
greek = 1.0

[ranking]
top_k = 10                     # 0 returns every club
membership_value = 1.0         # value of a tag listed in a membership file
partial_match_threshold = 0.1  # count-and-filter: minimum share of yes tags
member_cutoff = 1.0            # count-and-filter: value at which a club carries a tag
`
