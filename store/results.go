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

func (s *Store) PublicationVersion(ctx context.Context, kind models.Track) (int64, error) {
	var version int64
	err := s.db.QueryRowContext(ctx,
		`SELECT version FROM publication WHERE kind = $1`, string(kind),
	).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: publication %s", models.ErrNotFound, kind)
	}
	if err != nil {
		return 0, s.fail("publication version", err, "kind", kind)
	}
	return version, nil
}

// ReplacePublished swaps the published result set of snapshot.Kind. The
// version bump doubles as the compare-and-swap: when another publisher
// committed first no row matches expectedVersion and nothing changes.
func (s *Store) ReplacePublished(ctx context.Context, snapshot models.Snapshot, expectedVersion int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return s.fail("begin replace published", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE publication
		SET version = version + 1, snapshot_id = $1, published_at = $2
		WHERE kind = $3 AND version = $4
	`, snapshot.ID, snapshot.PublishedAt, string(snapshot.Kind), expectedVersion)
	if err != nil {
		return s.fail("bump publication", err, "kind", snapshot.Kind)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return s.fail("bump publication", err, "kind", snapshot.Kind)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s version %d", models.ErrPublishConflict, snapshot.Kind, expectedVersion)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM published_result WHERE kind = $1`, string(snapshot.Kind),
	); err != nil {
		return s.fail("clear published results", err, "kind", snapshot.Kind)
	}

	for _, r := range snapshot.Results {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO published_result (kind, group_id, entry_id, place, score)
			VALUES ($1, $2, $3, $4, $5)
		`, string(snapshot.Kind), r.GroupID, r.EntryID, r.Place, r.Score)
		if err != nil {
			return s.fail("insert published result", err,
				"kind", snapshot.Kind, "group_id", r.GroupID, "place", r.Place)
		}
	}

	if err := tx.Commit(); err != nil {
		return s.fail("commit replace published", err)
	}
	return nil
}

// GetPublished reads the publication row and its results in a single query
// so the snapshot is never a mix of two publishes.
func (s *Store) GetPublished(ctx context.Context, kind models.Track) (models.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.version, p.snapshot_id, p.published_at,
		       r.group_id, r.entry_id, r.place, r.score
		FROM publication p
		LEFT JOIN published_result r ON r.kind = p.kind
		WHERE p.kind = $1
		ORDER BY r.group_id, r.place
	`, string(kind))
	if err != nil {
		return models.Snapshot{}, s.fail("get published", err, "kind", kind)
	}
	defer rows.Close()

	snap := models.Snapshot{Kind: kind, Results: []models.PublishedResult{}}
	found := false
	for rows.Next() {
		var (
			snapshotID  sql.NullString
			publishedAt sql.NullTime
			groupID     sql.NullInt64
			entryID     sql.NullInt64
			place       sql.NullInt64
			score       sql.NullInt64
		)
		if err := rows.Scan(&snap.Version, &snapshotID, &publishedAt,
			&groupID, &entryID, &place, &score); err != nil {
			return models.Snapshot{}, s.fail("scan published", err)
		}
		found = true
		snap.ID = snapshotID.String
		if publishedAt.Valid {
			t := publishedAt.Time
			snap.PublishedAt = &t
		}
		if !entryID.Valid {
			continue
		}
		snap.Results = append(snap.Results, models.PublishedResult{
			Kind:    kind,
			GroupID: groupID.Int64,
			EntryID: entryID.Int64,
			Place:   int(place.Int64),
			Score:   int(score.Int64),
		})
	}
	if err := rows.Err(); err != nil {
		return models.Snapshot{}, s.fail("get published", err)
	}
	if !found {
		return models.Snapshot{}, fmt.Errorf("%w: publication %s", models.ErrNotFound, kind)
	}
	return snap, nil
}
