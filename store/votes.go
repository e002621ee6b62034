// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"

	"github.com/danielhkuo/quickly-judge/models"
)

// InsertVote stores a vote. The (track_id, voter_id) unique constraint
// enforces one vote per voter per track.
func (s *Store) InsertVote(ctx context.Context, vote models.VoteRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO specialty_vote (id, track_id, entry_id, voter_id, cast_at)
		VALUES ($1, $2, $3, $4, $5)
	`, vote.ID, vote.TrackID, vote.EntryID, vote.VoterID, vote.CastAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: track %d", models.ErrAlreadyVoted, vote.TrackID)
	}
	if err != nil {
		return s.fail("insert vote", err, "track_id", vote.TrackID, "voter_id", vote.VoterID)
	}
	return nil
}

func (s *Store) DeleteVote(ctx context.Context, voteID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM specialty_vote WHERE id = $1`, voteID)
	if err != nil {
		return s.fail("delete vote", err, "vote_id", voteID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return s.fail("delete vote", err, "vote_id", voteID)
	}
	if n == 0 {
		return fmt.Errorf("%w: vote %s", models.ErrNotFound, voteID)
	}
	return nil
}

func (s *Store) ListVotes(ctx context.Context, trackID int64) ([]models.VoteRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, track_id, entry_id, voter_id, cast_at
		FROM specialty_vote
		WHERE track_id = $1
		ORDER BY cast_at, id
	`, trackID)
	if err != nil {
		return nil, s.fail("list votes", err, "track_id", trackID)
	}
	defer rows.Close()

	votes := []models.VoteRecord{}
	for rows.Next() {
		var v models.VoteRecord
		if err := rows.Scan(&v.ID, &v.TrackID, &v.EntryID, &v.VoterID, &v.CastAt); err != nil {
			return nil, s.fail("scan vote", err)
		}
		votes = append(votes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail("list votes", err)
	}
	return votes, nil
}

// SpecialtyTotals counts the votes each active entry received in a track.
// Entries without votes are omitted.
func (s *Store) SpecialtyTotals(ctx context.Context, trackID int64) ([]models.EntryTotal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.id, e.name, COUNT(v.id), COUNT(v.id)
		FROM specialty_vote v
		JOIN entry e ON e.id = v.entry_id
		WHERE v.track_id = $1 AND e.active = TRUE
		GROUP BY e.id, e.name
		ORDER BY e.id
	`, trackID)
	if err != nil {
		return nil, s.fail("specialty totals", err, "track_id", trackID)
	}
	defer rows.Close()

	return s.scanTotals(rows)
}
