package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clubmatch/clubmatch/internal/taxonomy"
)

// SaveOrganizations upserts organizations by name, replacing their tags, in
// a single transaction
func (db *DB) SaveOrganizations(ctx context.Context, orgs []*Organization) error {
	return db.Transaction(ctx, func(tx *sql.Tx) error {
		for _, o := range orgs {
			if err := upsertOrganization(ctx, tx, o); err != nil {
				return fmt.Errorf("failed to save %s: %w", o.Name, err)
			}
		}
		return nil
	})
}

func upsertOrganization(ctx context.Context, tx *sql.Tx, o *Organization) error {
	now := time.Now()
	if o.Source == "" {
		o.Source = SourceTagged
	}

	var existing string
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM organizations WHERE name = ? COLLATE NOCASE`, o.Name,
	).Scan(&existing)

	switch {
	case err == sql.ErrNoRows:
		if o.ID == "" {
			o.ID = uuid.New().String()
		}
		o.CreatedAt = now
		o.UpdatedAt = now
		_, err = tx.ExecContext(ctx, `
			INSERT INTO organizations (id, name, link, description, source, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, o.ID, o.Name, NullString(o.Link), NullString(o.Description), o.Source, o.CreatedAt, o.UpdatedAt)
	case err != nil:
		return err
	default:
		o.ID = existing
		o.UpdatedAt = now
		_, err = tx.ExecContext(ctx, `
			UPDATE organizations SET name = ?, link = ?, description = ?, source = ?, updated_at = ?
			WHERE id = ?
		`, o.Name, NullString(o.Link), NullString(o.Description), o.Source, o.UpdatedAt, o.ID)
	}
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM organization_tags WHERE organization_id = ?`, o.ID); err != nil {
		return err
	}
	for id, v := range o.Tags {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO organization_tags (organization_id, tag_id, value) VALUES (?, ?, ?)`,
			o.ID, int(id), v,
		); err != nil {
			return err
		}
	}
	return nil
}

// GetOrganization retrieves an organization by name (case-insensitive)
func (db *DB) GetOrganization(ctx context.Context, name string) (*Organization, error) {
	o := &Organization{}
	var link, description sql.NullString

	err := db.QueryRowContext(ctx, `
		SELECT id, name, link, description, source, created_at, updated_at
		FROM organizations WHERE name = ? COLLATE NOCASE
	`, name).Scan(&o.ID, &o.Name, &link, &description, &o.Source, &o.CreatedAt, &o.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	o.Link = StringPtr(link)
	o.Description = StringPtr(description)
	if o.Tags, err = db.organizationTags(ctx, o.ID); err != nil {
		return nil, err
	}
	return o, nil
}

// ListOrganizations retrieves organizations in insertion order
func (db *DB) ListOrganizations(ctx context.Context, opts ListOptions) ([]Organization, error) {
	query := `
		SELECT id, name, link, description, source, created_at, updated_at
		FROM organizations WHERE 1=1
	`
	args := []interface{}{}

	if opts.Tag != nil {
		query += " AND id IN (SELECT organization_id FROM organization_tags WHERE tag_id = ? AND value >= ?)"
		args = append(args, int(*opts.Tag), opts.MinValue)
	}
	if opts.Source != nil {
		query += " AND source = ?"
		args = append(args, *opts.Source)
	}
	if opts.Name != nil {
		query += " AND LOWER(name) LIKE LOWER(?)"
		args = append(args, "%"+*opts.Name+"%")
	}

	query += " ORDER BY rowid"

	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
		if opts.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", opts.Offset)
		}
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	var orgs []Organization
	for rows.Next() {
		o := Organization{}
		var link, description sql.NullString
		if err := rows.Scan(&o.ID, &o.Name, &link, &description, &o.Source, &o.CreatedAt, &o.UpdatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		o.Link = StringPtr(link)
		o.Description = StringPtr(description)
		orgs = append(orgs, o)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	// Single connection: release it before loading tags
	rows.Close()

	for i := range orgs {
		if orgs[i].Tags, err = db.organizationTags(ctx, orgs[i].ID); err != nil {
			return nil, err
		}
	}
	return orgs, nil
}

func (db *DB) organizationTags(ctx context.Context, orgID string) (map[taxonomy.TagID]float64, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT tag_id, value FROM organization_tags WHERE organization_id = ?`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := make(map[taxonomy.TagID]float64)
	for rows.Next() {
		var id int
		var v float64
		if err := rows.Scan(&id, &v); err != nil {
			return nil, err
		}
		tags[taxonomy.TagID(id)] = v
	}
	return tags, rows.Err()
}

// DeleteOrganization removes an organization and its tags
func (db *DB) DeleteOrganization(ctx context.Context, name string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM organizations WHERE name = ? COLLATE NOCASE`, name)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("organization not found: %s", name)
	}
	return nil
}

// CreateProfile stores a finished profile
func (db *DB) CreateProfile(ctx context.Context, p *Profile) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.CreatedAt = time.Now()

	yes := make(map[taxonomy.TagID]bool, len(p.Yes))
	for _, id := range p.Yes {
		yes[id] = true
	}
	pos := make(map[taxonomy.TagID]int, len(p.Columns))
	for i, id := range p.Columns {
		pos[id] = i
	}

	return db.Transaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO profiles (id, label, created_at) VALUES (?, ?, ?)`,
			p.ID, NullString(p.Label), p.CreatedAt,
		); err != nil {
			return err
		}

		for id, score := range p.Scores {
			col := sql.NullInt64{}
			if i, ok := pos[id]; ok {
				col = sql.NullInt64{Int64: int64(i), Valid: true}
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO profile_tags (profile_id, tag_id, score, yes, column_pos)
				VALUES (?, ?, ?, ?, ?)
			`, p.ID, int(id), score, yes[id], col); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetProfile retrieves a profile by id
func (db *DB) GetProfile(ctx context.Context, id string) (*Profile, error) {
	return db.scanProfile(ctx, `SELECT id, label, created_at FROM profiles WHERE id = ?`, id)
}

// LatestProfile retrieves the most recently stored profile
func (db *DB) LatestProfile(ctx context.Context) (*Profile, error) {
	return db.scanProfile(ctx, `SELECT id, label, created_at FROM profiles ORDER BY created_at DESC, rowid DESC LIMIT 1`)
}

func (db *DB) scanProfile(ctx context.Context, query string, args ...interface{}) (*Profile, error) {
	p := &Profile{}
	var label sql.NullString

	err := db.QueryRowContext(ctx, query, args...).Scan(&p.ID, &label, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.Label = StringPtr(label)

	if err := db.loadProfileTags(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (db *DB) loadProfileTags(ctx context.Context, p *Profile) error {
	rows, err := db.QueryContext(ctx, `
		SELECT tag_id, score, yes, column_pos FROM profile_tags
		WHERE profile_id = ?
		ORDER BY column_pos IS NULL, column_pos, tag_id
	`, p.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	p.Scores = make(map[taxonomy.TagID]float64)
	p.Yes = nil
	p.Columns = nil
	for rows.Next() {
		var id int
		var score float64
		var yes bool
		var col sql.NullInt64
		if err := rows.Scan(&id, &score, &yes, &col); err != nil {
			return err
		}
		tag := taxonomy.TagID(id)
		p.Scores[tag] = score
		if yes {
			p.Yes = append(p.Yes, tag)
		}
		if col.Valid {
			p.Columns = append(p.Columns, tag)
		}
	}
	return rows.Err()
}

// ListProfiles returns stored profiles, newest first, without their scores
func (db *DB) ListProfiles(ctx context.Context, limit int) ([]Profile, error) {
	query := `SELECT id, label, created_at FROM profiles ORDER BY created_at DESC, rowid DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []Profile
	for rows.Next() {
		p := Profile{}
		var label sql.NullString
		if err := rows.Scan(&p.ID, &label, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.Label = StringPtr(label)
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// GetStats returns aggregate counts for the store
func (db *DB) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{BySource: make(map[Source]int)}

	rows, err := db.QueryContext(ctx, `SELECT source, COUNT(*) FROM organizations GROUP BY source`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var src Source
		var n int
		if err := rows.Scan(&src, &n); err != nil {
			rows.Close()
			return nil, err
		}
		stats.BySource[src] = n
		stats.Organizations += n
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&stats.Profiles); err != nil {
		return nil, err
	}
	if stats.Profiles > 0 {
		latest, err := db.LatestProfile(ctx)
		if err != nil {
			return nil, err
		}
		if latest != nil {
			stats.LatestProfile = &latest.CreatedAt
		}
	}

	return stats, nil
}
