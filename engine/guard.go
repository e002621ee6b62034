// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-judge/models"
)

// SubmitScores records a judge's scorecard for an entry. The scorecard is
// written whole or not at all, and a judge gets exactly one per entry.
func (e *Engine) SubmitScores(ctx context.Context, submitterID string, entryID int64, scores map[int64]int) (inserted int, err error) {
	defer func() { e.recorder.ObserveSubmission(models.TrackExpert, outcome(err)) }()

	if phase := e.phases.GetPhase(models.TrackExpert); phase != models.PhaseOpen {
		return 0, fmt.Errorf("%w: expert judging is %s", models.ErrPhaseClosed, phase)
	}
	if submitterID == "" {
		return 0, fmt.Errorf("%w: submitter id is required", models.ErrValidation)
	}
	if len(scores) == 0 {
		return 0, fmt.Errorf("%w: at least one score is required", models.ErrValidation)
	}

	entry, err := e.repo.GetEntry(ctx, entryID)
	if err != nil {
		return 0, err
	}
	if !entry.Active {
		return 0, fmt.Errorf("%w: entry %d", models.ErrEntryInactive, entryID)
	}
	if err := e.validateScores(ctx, entry, scores); err != nil {
		return 0, err
	}

	inserted, err = e.repo.InsertScores(ctx, submitterID, entryID, scores, e.now())
	if err != nil {
		return 0, err
	}

	e.logger.Info("scores submitted",
		"submitter_id", submitterID, "entry_id", entryID, "scores", inserted)
	return inserted, nil
}

// CastVote records a specialty vote. A voter gets one vote per track.
func (e *Engine) CastVote(ctx context.Context, voterID string, trackID, entryID int64) (vote models.VoteRecord, err error) {
	defer func() { e.recorder.ObserveSubmission(models.TrackSpecialty, outcome(err)) }()

	if phase := e.phases.GetPhase(models.TrackSpecialty); phase != models.PhaseOpen {
		return models.VoteRecord{}, fmt.Errorf("%w: specialty voting is %s", models.ErrPhaseClosed, phase)
	}
	if voterID == "" {
		return models.VoteRecord{}, fmt.Errorf("%w: voter id is required", models.ErrValidation)
	}

	if _, err := e.repo.GetSpecialtyTrack(ctx, trackID); err != nil {
		return models.VoteRecord{}, err
	}
	entry, err := e.repo.GetEntry(ctx, entryID)
	if err != nil {
		return models.VoteRecord{}, err
	}
	if !entry.Active {
		return models.VoteRecord{}, fmt.Errorf("%w: entry %d", models.ErrEntryInactive, entryID)
	}

	vote = models.VoteRecord{
		ID:      uuid.NewString(),
		TrackID: trackID,
		EntryID: entryID,
		VoterID: voterID,
		CastAt:  e.now(),
	}
	if err := e.repo.InsertVote(ctx, vote); err != nil {
		return models.VoteRecord{}, err
	}

	e.logger.Info("vote cast", "voter_id", voterID, "track_id", trackID, "entry_id", entryID)
	return vote, nil
}

// validateScores checks every criterion applies to the entry and every
// value is within the criterion's range.
func (e *Engine) validateScores(ctx context.Context, entry models.Entry, scores map[int64]int) error {
	criteria, err := e.repo.ListCriteria(ctx, entry.CategoryID)
	if err != nil {
		return err
	}
	byID := make(map[int64]models.Criterion, len(criteria))
	for _, c := range criteria {
		byID[c.ID] = c
	}

	ids := make([]int64, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		c, ok := byID[id]
		if !ok {
			return fmt.Errorf("%w: criterion %d does not apply to entry %d", models.ErrValidation, id, entry.ID)
		}
		if v := scores[id]; v < c.MinScore || v > c.MaxScore {
			return fmt.Errorf("%w: score %d for criterion %d is outside %d-%d",
				models.ErrValidation, v, id, c.MinScore, c.MaxScore)
		}
	}
	return nil
}

// ParseScores converts form-style criterion/score pairs. Blank values are
// skipped, not treated as zero.
func ParseScores(raw map[string]string) (map[int64]int, error) {
	scores := make(map[int64]int, len(raw))
	for key, value := range raw {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimSpace(key), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: criterion id %q is not a number", models.ErrValidation, key)
		}
		score, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("%w: score %q for criterion %d is not a number", models.ErrValidation, value, id)
		}
		scores[id] = score
	}
	return scores, nil
}
