package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/clubmatch/clubmatch/internal/database"
	"github.com/clubmatch/clubmatch/internal/ranking"
	"github.com/clubmatch/clubmatch/internal/tagging"
	"github.com/clubmatch/clubmatch/internal/taxonomy"
)

// Table writes data as a formatted table to stdout
func Table(data interface{}) error {
	return TableTo(os.Stdout, data)
}

// TableTo writes data as a formatted table to the given writer
func TableTo(w io.Writer, data interface{}) error {
	switch v := data.(type) {
	case []ranking.Result:
		return rankingTable(w, v)
	case []MatchRow:
		return matchTable(w, v)
	case []taxonomy.Tag:
		return tagsTable(w, v)
	case []database.Organization:
		return clubsTable(w, v)
	case *ClubDetail:
		return clubDetail(w, v)
	case *ProfileView:
		return profileDetail(w, v)
	case []database.Profile:
		return profilesTable(w, v)
	case *TagReport:
		return tagReport(w, v)
	case *database.Stats:
		return statsTable(w, v)
	default:
		return fmt.Errorf("unsupported data type for table output: %T", data)
	}
}

func render(w io.Writer, header []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	cells := make([]any, len(header))
	for i, h := range header {
		cells[i] = h
	}
	table.Header(cells...)
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

func rankingTable(w io.Writer, results []ranking.Result) error {
	if len(results) == 0 {
		fmt.Fprintln(w, "No clubs to rank.")
		return nil
	}

	rows := make([][]string, len(results))
	for i, r := range results {
		rows[i] = []string{
			strconv.Itoa(r.Rank),
			truncate(r.Name, 40),
			fmt.Sprintf("%.2f%%", r.Score*100),
			r.Link,
		}
	}
	return render(w, []string{"#", "Club", "Match", "Link"}, rows)
}

func matchTable(w io.Writer, results []MatchRow) error {
	if len(results) == 0 {
		fmt.Fprintln(w, "No clubs matched.")
		return nil
	}

	rows := make([][]string, len(results))
	for i, r := range results {
		rows[i] = []string{
			strconv.Itoa(r.Rank),
			truncate(r.Name, 40),
			strconv.Itoa(r.Matched),
			truncate(strings.Join(r.Tags, ", "), 50),
		}
	}
	return render(w, []string{"#", "Club", "Matched", "Shared tags"}, rows)
}

func tagsTable(w io.Writer, tags []taxonomy.Tag) error {
	rows := make([][]string, len(tags))
	for i, t := range tags {
		rows[i] = []string{strconv.Itoa(int(t.ID)), t.Label, string(t.Category), t.Group}
	}
	return render(w, []string{"ID", "Label", "Category", "Identity group"}, rows)
}

func clubsTable(w io.Writer, orgs []database.Organization) error {
	if len(orgs) == 0 {
		fmt.Fprintln(w, "No clubs found.")
		return nil
	}

	rows := make([][]string, len(orgs))
	for i, o := range orgs {
		carried := 0
		for _, v := range o.Tags {
			if v >= 1 {
				carried++
			}
		}
		rows[i] = []string{
			truncate(o.Name, 40),
			string(o.Source),
			strconv.Itoa(carried),
			o.UpdatedAt.Format("Jan 02, 2006"),
		}
	}
	return render(w, []string{"Club", "Source", "Tags", "Updated"}, rows)
}

func clubDetail(w io.Writer, d *ClubDetail) error {
	fmt.Fprintf(w, "Club:        %s\n", d.Name)
	if d.Link != "" {
		fmt.Fprintf(w, "Link:        %s\n", d.Link)
	}
	fmt.Fprintf(w, "Source:      %s\n", d.Source)
	if d.Description != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, wordWrap(d.Description, 78))
	}
	fmt.Fprintln(w)

	// Strongest tags first
	tags := append([]TagValue(nil), d.Tags...)
	sort.SliceStable(tags, func(i, j int) bool { return tags[i].Value > tags[j].Value })

	rows := make([][]string, len(tags))
	for i, t := range tags {
		rows[i] = []string{t.Label, formatScore(t.Value)}
	}
	return render(w, []string{"Tag", "Value"}, rows)
}

func profileDetail(w io.Writer, p *ProfileView) error {
	if p.ID != "" {
		fmt.Fprintf(w, "Profile:     %s\n", p.ID)
	}
	if p.Label != "" {
		fmt.Fprintf(w, "Label:       %s\n", p.Label)
	}
	if p.CreatedAt != nil {
		fmt.Fprintf(w, "Created:     %s\n", p.CreatedAt.Format("Jan 02, 2006 3:04 PM"))
	}

	rows := make([][]string, len(p.Tags))
	for i, t := range p.Tags {
		rows[i] = []string{t.Label, formatScore(t.Score), yesNo(t.Yes), yesNo(t.Column)}
	}
	return render(w, []string{"Tag", "Score", "Yes", "Ranked"}, rows)
}

func profilesTable(w io.Writer, profiles []database.Profile) error {
	if len(profiles) == 0 {
		fmt.Fprintln(w, "No profiles saved.")
		return nil
	}

	rows := make([][]string, len(profiles))
	for i, p := range profiles {
		label := ""
		if p.Label != nil {
			label = *p.Label
		}
		rows[i] = []string{p.ID, label, p.CreatedAt.Format("Jan 02, 2006 3:04 PM")}
	}
	return render(w, []string{"ID", "Label", "Created"}, rows)
}

func tagReport(w io.Writer, r *TagReport) error {
	fmt.Fprintln(w, "Tagging Summary")
	fmt.Fprintln(w, strings.Repeat("-", 30))
	fmt.Fprintf(w, "Clubs tagged:           %d\n", r.Stats.Total)
	fmt.Fprintf(w, "Rows skipped:           %d\n", r.Stats.Rejected)
	if r.Output != "" {
		fmt.Fprintf(w, "Written to:             %s\n", r.Output)
	}
	if r.Saved > 0 {
		fmt.Fprintf(w, "Saved to store:         %d\n", r.Saved)
	}
	if len(r.Degenerate) > 0 {
		fmt.Fprintf(w, "Constant columns:       %s\n", strings.Join(r.Degenerate, ", "))
	}
	for _, e := range r.Rejected {
		fmt.Fprintf(w, "  skipped %s\n", e)
	}

	if len(r.Stats.Outcomes) == 0 {
		return nil
	}
	fmt.Fprintln(w)

	families := make([]string, 0, len(r.Stats.Outcomes))
	for f := range r.Stats.Outcomes {
		families = append(families, string(f))
	}
	sort.Strings(families)

	var rows [][]string
	for _, f := range families {
		outcomes := r.Stats.Outcomes[tagging.Family(f)]
		names := make([]string, 0, len(outcomes))
		for o := range outcomes {
			names = append(names, string(o))
		}
		sort.Strings(names)
		for _, o := range names {
			rows = append(rows, []string{f, o, strconv.Itoa(outcomes[tagging.Outcome(o)])})
		}
	}
	return render(w, []string{"Family", "Outcome", "Clubs"}, rows)
}

func statsTable(w io.Writer, s *database.Stats) error {
	fmt.Fprintln(w, "Store Statistics")
	fmt.Fprintln(w, strings.Repeat("-", 30))
	fmt.Fprintf(w, "Clubs:                  %d\n", s.Organizations)
	fmt.Fprintf(w, "  tagged:               %d\n", s.BySource[database.SourceTagged])
	fmt.Fprintf(w, "  membership:           %d\n", s.BySource[database.SourceMembership])
	fmt.Fprintf(w, "Profiles:               %d\n", s.Profiles)
	if s.LatestProfile != nil {
		fmt.Fprintf(w, "Latest profile:         %s\n", s.LatestProfile.Format("Jan 02, 2006"))
	}
	return nil
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return ""
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

// wordWrap wraps text at the specified width
func wordWrap(text string, width int) string {
	var result strings.Builder

	for _, line := range strings.Split(text, "\n") {
		if len(line) <= width {
			result.WriteString(line)
			result.WriteString("\n")
			continue
		}

		words := strings.Fields(line)
		if len(words) == 0 {
			result.WriteString("\n")
			continue
		}

		currentLine := words[0]
		for _, word := range words[1:] {
			if len(currentLine)+1+len(word) <= width {
				currentLine += " " + word
			} else {
				result.WriteString(currentLine)
				result.WriteString("\n")
				currentLine = word
			}
		}
		result.WriteString(currentLine)
		result.WriteString("\n")
	}

	return strings.TrimSuffix(result.String(), "\n")
}
