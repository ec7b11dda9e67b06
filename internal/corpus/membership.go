package corpus

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/clubmatch/clubmatch/internal/tagging"
	"github.com/clubmatch/clubmatch/internal/taxonomy"
)

// Membership is a club described by the tag ids it carries
type Membership struct {
	Name        string
	Description string
	Tags        []taxonomy.TagID // taxonomy order
}

// ReadMembership reads headerless name, description, tag-id rows. Tag ids
// are separated by ';' or ','; tokens that are not numbers and ids the
// taxonomy does not know are ignored.
func ReadMembership(r io.Reader, tax *taxonomy.Taxonomy) ([]Membership, []tagging.RowError, error) {
	reader := newReader(r)

	var out []Membership
	var rejected []tagging.RowError
	first := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return out, rejected, fmt.Errorf("failed to read row: %w", err)
		}
		line, _ := reader.FieldPos(0)

		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		if len(record) < 3 {
			rejected = append(rejected, tagging.RowError{
				Line: line,
				Name: cleanCell(record[0]),
				Err:  fmt.Errorf("has %d fields, expected 3", len(record)),
			})
			continue
		}

		ids, numeric := parseTagIDs(record[2])
		if first && numeric == 0 {
			// Header row
			first = false
			continue
		}
		first = false

		out = append(out, Membership{
			Name:        cleanCell(record[0]),
			Description: strings.TrimSpace(record[1]),
			Tags:        tax.Order(ids),
		})
	}

	return out, rejected, nil
}

func parseTagIDs(s string) ([]taxonomy.TagID, int) {
	sep := ","
	if strings.Contains(s, ";") {
		sep = ";"
	}

	var ids []taxonomy.TagID
	for _, tok := range strings.Split(s, sep) {
		n, err := strconv.Atoi(strings.TrimSpace(tok))
		if err != nil || n < 0 {
			continue
		}
		ids = append(ids, taxonomy.TagID(n))
	}
	return ids, len(ids)
}
