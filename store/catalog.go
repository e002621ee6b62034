// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/danielhkuo/quickly-judge/models"
)

func (s *Store) GetEntry(ctx context.Context, entryID int64) (models.Entry, error) {
	var (
		entry      models.Entry
		classID    sql.NullInt64
		categoryID sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, class_id, category_id, active
		FROM entry
		WHERE id = $1
	`, entryID).Scan(&entry.ID, &entry.Name, &classID, &categoryID, &entry.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Entry{}, fmt.Errorf("%w: entry %d", models.ErrNotFound, entryID)
	}
	if err != nil {
		return models.Entry{}, s.fail("get entry", err, "entry_id", entryID)
	}

	entry.ClassID = nullableInt64(classID)
	entry.CategoryID = nullableInt64(categoryID)
	return entry, nil
}

// ListCriteria returns the criteria that apply to an entry of categoryID:
// the general criteria plus any specific to the category.
func (s *Store) ListCriteria(ctx context.Context, categoryID *int64) ([]models.Criterion, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if categoryID == nil {
		rows, err = s.db.QueryContext(ctx, `
			SELECT id, category_id, name, min_score, max_score
			FROM criterion
			WHERE category_id IS NULL
			ORDER BY id
		`)
	} else {
		rows, err = s.db.QueryContext(ctx, `
			SELECT id, category_id, name, min_score, max_score
			FROM criterion
			WHERE category_id IS NULL OR category_id = $1
			ORDER BY id
		`, *categoryID)
	}
	if err != nil {
		return nil, s.fail("list criteria", err)
	}
	defer rows.Close()

	criteria := []models.Criterion{}
	for rows.Next() {
		var (
			c   models.Criterion
			cat sql.NullInt64
		)
		if err := rows.Scan(&c.ID, &cat, &c.Name, &c.MinScore, &c.MaxScore); err != nil {
			return nil, s.fail("scan criterion", err)
		}
		c.CategoryID = nullableInt64(cat)
		criteria = append(criteria, c)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail("list criteria", err)
	}
	return criteria, nil
}

func (s *Store) GetSpecialtyTrack(ctx context.Context, trackID int64) (models.SpecialtyTrack, error) {
	var track models.SpecialtyTrack
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name FROM specialty_track WHERE id = $1`, trackID,
	).Scan(&track.ID, &track.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return models.SpecialtyTrack{}, fmt.Errorf("%w: specialty track %d", models.ErrNotFound, trackID)
	}
	if err != nil {
		return models.SpecialtyTrack{}, s.fail("get specialty track", err, "track_id", trackID)
	}
	return track, nil
}

func (s *Store) ListSpecialtyTracks(ctx context.Context) ([]models.SpecialtyTrack, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM specialty_track ORDER BY id`)
	if err != nil {
		return nil, s.fail("list specialty tracks", err)
	}
	defer rows.Close()

	tracks := []models.SpecialtyTrack{}
	for rows.Next() {
		var t models.SpecialtyTrack
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, s.fail("scan specialty track", err)
		}
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail("list specialty tracks", err)
	}
	return tracks, nil
}

// ListGroups returns the class ids that have at least one active entry.
func (s *Store) ListGroups(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT class_id
		FROM entry
		WHERE class_id IS NOT NULL AND active = TRUE
		ORDER BY class_id
	`)
	if err != nil {
		return nil, s.fail("list groups", err)
	}
	defer rows.Close()

	groups := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, s.fail("scan group", err)
		}
		groups = append(groups, id)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail("list groups", err)
	}
	return groups, nil
}

func (s *Store) CountActiveEntries(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entry WHERE active = TRUE`).Scan(&n)
	if err != nil {
		return 0, s.fail("count active entries", err)
	}
	return n, nil
}
