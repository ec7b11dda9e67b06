package corpus

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/clubmatch/clubmatch/internal/tagging"
	"github.com/clubmatch/clubmatch/internal/taxonomy"
)

// WriteTagged writes the tagged table: name, link, one column per tag in
// taxonomy order, then the description
func WriteTagged(w io.Writer, tax *taxonomy.Taxonomy, orgs []tagging.Tagged) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, tax.Len()+3)
	header = append(header, NameHeader, LinkHeader)
	header = append(header, tax.Labels()...)
	header = append(header, DescriptionHeader)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]string, len(header))
	for _, org := range orgs {
		if len(org.Values) != tax.Len() {
			return fmt.Errorf("%s has %d values, expected %d", org.Name, len(org.Values), tax.Len())
		}
		record[0] = org.Name
		record[1] = org.Link
		for i, v := range org.Values {
			record[i+2] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		record[len(record)-1] = org.Description
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write %s: %w", org.Name, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadTagged reads a table written by WriteTagged
func ReadTagged(r io.Reader, tax *taxonomy.Taxonomy) ([]tagging.Tagged, []tagging.RowError, error) {
	rows, rejected, err := ReadScores(r, tax, DefaultColumns())
	if err != nil {
		return nil, rejected, err
	}

	out := make([]tagging.Tagged, len(rows))
	for i, row := range rows {
		out[i] = tagging.Tagged{
			Name:        row.Name,
			Link:        row.Link,
			Description: row.Description,
			Values:      row.Scores,
		}
	}
	return out, rejected, nil
}
