// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/danielhkuo/quickly-judge/models"
)

// InsertScores writes a judge's scorecard for an entry in one transaction.
// The score_submission primary key rejects a second scorecard, so two
// concurrent submissions cannot both succeed.
func (s *Store) InsertScores(ctx context.Context, submitterID string, entryID int64, scores map[int64]int, at time.Time) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, s.fail("begin insert scores", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO score_submission (submitter_id, entry_id, submitted_at)
		VALUES ($1, $2, $3)
	`, submitterID, entryID, at)
	if isUniqueViolation(err) {
		return 0, fmt.Errorf("%w: entry %d", models.ErrAlreadySubmitted, entryID)
	}
	if err != nil {
		return 0, s.fail("insert score submission", err, "submitter_id", submitterID, "entry_id", entryID)
	}

	n, err := insertScoreRows(ctx, tx, submitterID, entryID, scores)
	if err != nil {
		return 0, s.fail("insert scores", err, "submitter_id", submitterID, "entry_id", entryID)
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: entry %d", models.ErrAlreadySubmitted, entryID)
		}
		return 0, s.fail("commit insert scores", err)
	}
	return n, nil
}

// ReplaceScores removes every scorecard for the entry, from any judge, and
// stores scores as submitterID's scorecard. An empty map only clears.
func (s *Store) ReplaceScores(ctx context.Context, entryID int64, submitterID string, scores map[int64]int, at time.Time) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, s.fail("begin replace scores", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM score WHERE entry_id = $1`, entryID); err != nil {
		return 0, s.fail("clear scores", err, "entry_id", entryID)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM score_submission WHERE entry_id = $1`, entryID); err != nil {
		return 0, s.fail("clear score submissions", err, "entry_id", entryID)
	}

	n := 0
	if len(scores) > 0 {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO score_submission (submitter_id, entry_id, submitted_at)
			VALUES ($1, $2, $3)
		`, submitterID, entryID, at)
		if err != nil {
			return 0, s.fail("insert score submission", err, "submitter_id", submitterID, "entry_id", entryID)
		}
		n, err = insertScoreRows(ctx, tx, submitterID, entryID, scores)
		if err != nil {
			return 0, s.fail("insert scores", err, "submitter_id", submitterID, "entry_id", entryID)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, s.fail("commit replace scores", err)
	}
	return n, nil
}

func insertScoreRows(ctx context.Context, tx *sql.Tx, submitterID string, entryID int64, scores map[int64]int) (int, error) {
	ids := make([]int64, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, criterionID := range ids {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO score (submitter_id, entry_id, criterion_id, value)
			VALUES ($1, $2, $3, $4)
		`, submitterID, entryID, criterionID, scores[criterionID])
		if err != nil {
			return 0, err
		}
	}
	return len(ids), nil
}

func (s *Store) ListScores(ctx context.Context, submitterID string, entryID int64) ([]models.ScoreRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT submitter_id, entry_id, criterion_id, value
		FROM score
		WHERE submitter_id = $1 AND entry_id = $2
		ORDER BY criterion_id
	`, submitterID, entryID)
	if err != nil {
		return nil, s.fail("list scores", err)
	}
	defer rows.Close()

	records := []models.ScoreRecord{}
	for rows.Next() {
		var r models.ScoreRecord
		if err := rows.Scan(&r.SubmitterID, &r.EntryID, &r.CriterionID, &r.Score); err != nil {
			return nil, s.fail("scan score", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail("list scores", err)
	}
	return records, nil
}

// CountSubmissions counts the active entries a judge has scored.
func (s *Store) CountSubmissions(ctx context.Context, submitterID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM score_submission ss
		JOIN entry e ON e.id = ss.entry_id
		WHERE ss.submitter_id = $1 AND e.active = TRUE
	`, submitterID).Scan(&n)
	if err != nil {
		return 0, s.fail("count submissions", err, "submitter_id", submitterID)
	}
	return n, nil
}

// ExpertTotals sums every score of every active entry in a class. Entries
// with no scores are included with zero records.
func (s *Store) ExpertTotals(ctx context.Context, groupID int64) ([]models.EntryTotal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.id, e.name, COALESCE(SUM(sc.value), 0), COUNT(sc.value)
		FROM entry e
		LEFT JOIN score sc ON sc.entry_id = e.id
		WHERE e.class_id = $1 AND e.active = TRUE
		GROUP BY e.id, e.name
		ORDER BY e.id
	`, groupID)
	if err != nil {
		return nil, s.fail("expert totals", err, "group_id", groupID)
	}
	defer rows.Close()

	return s.scanTotals(rows)
}

func (s *Store) scanTotals(rows *sql.Rows) ([]models.EntryTotal, error) {
	totals := []models.EntryTotal{}
	for rows.Next() {
		var t models.EntryTotal
		if err := rows.Scan(&t.EntryID, &t.Name, &t.Total, &t.Records); err != nil {
			return nil, s.fail("scan total", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail("read totals", err)
	}
	return totals, nil
}
