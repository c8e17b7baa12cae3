package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/gameretriever/internal/models"
)

// PlatformRepository persists [models.Platform] rows.
type PlatformRepository struct {
	db DBTX
}

// NewPlatformRepository creates a new PlatformRepository with the given database handle
func NewPlatformRepository(db DBTX) *PlatformRepository {
	return &PlatformRepository{db: db}
}

// Get retrieves a platform by id. A missing row yields nil without error.
func (r *PlatformRepository) Get(ctx context.Context, id int64) (*models.Platform, error) {
	query := `SELECT id, name, short_name, active FROM platform WHERE id = ?`

	p, err := scanPlatform(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("scan platform", err)
	}
	return p, nil
}

// Upsert inserts the platform or overwrites every column of the existing row.
func (r *PlatformRepository) Upsert(ctx context.Context, p models.Platform) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO platform (id, name, short_name, active)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			short_name = excluded.short_name,
			active = excluded.active
	`

	if _, err := r.db.ExecContext(ctx, query, p.ID, p.Name, nullString(p.ShortName), p.Active); err != nil {
		return storageErr("upsert platform", err)
	}
	return nil
}

// List returns platforms ordered by id, optionally only the active ones.
func (r *PlatformRepository) List(ctx context.Context, activeOnly bool) ([]models.Platform, error) {
	query := `SELECT id, name, short_name, active FROM platform`
	if activeOnly {
		query += " WHERE active = 1"
	}
	query += " ORDER BY id ASC"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, storageErr("query platforms", err)
	}
	defer rows.Close()

	platforms := []models.Platform{}
	for rows.Next() {
		p, err := scanPlatform(rows)
		if err != nil {
			return nil, storageErr("scan platform", err)
		}
		platforms = append(platforms, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate platforms", fmt.Errorf("row iteration error: %w", err))
	}
	return platforms, nil
}

// SetActive marks exactly the platforms in ids as active and every other platform as inactive.
// Unknown ids are ignored.
func (r *PlatformRepository) SetActive(ctx context.Context, ids []int64) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE platform SET active = 0 WHERE active = 1`); err != nil {
		return storageErr("reset active platforms", err)
	}
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	query := fmt.Sprintf(`UPDATE platform SET active = 1 WHERE id IN (%s)`, placeholders)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return storageErr("activate platforms", err)
	}
	return nil
}

// CountActive returns the number of active platforms.
func (r *PlatformRepository) CountActive(ctx context.Context) (int64, error) {
	n, err := count(ctx, r.db, `SELECT COUNT(*) FROM platform WHERE active = 1`)
	if err != nil {
		return 0, storageErr("count active platforms", err)
	}
	return n, nil
}

// GameCounts returns the number of linked games per active platform, ordered by platform id.
func (r *PlatformRepository) GameCounts(ctx context.Context) ([]models.PlatformGameCount, error) {
	query := `
		SELECT p.id, p.name, COUNT(gp.id)
		FROM platform p
		LEFT JOIN game_platform gp ON gp.platform_id = p.id
		WHERE p.active = 1
		GROUP BY p.id, p.name
		ORDER BY p.id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, storageErr("query platform game counts", err)
	}
	defer rows.Close()

	counts := []models.PlatformGameCount{}
	for rows.Next() {
		var c models.PlatformGameCount
		if err := rows.Scan(&c.ID, &c.Name, &c.GameCount); err != nil {
			return nil, storageErr("scan platform game count", err)
		}
		counts = append(counts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate platform game counts", fmt.Errorf("row iteration error: %w", err))
	}
	return counts, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPlatform(s scanner) (*models.Platform, error) {
	var (
		p         models.Platform
		shortName sql.NullString
	)
	if err := s.Scan(&p.ID, &p.Name, &shortName, &p.Active); err != nil {
		return nil, err
	}
	p.ShortName = shortName.String
	return &p, nil
}
