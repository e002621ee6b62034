// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"context"
	"fmt"

	"github.com/danielhkuo/quickly-judge/models"
)

// ReplaceScores is the operator override for an entry's scores. It ignores
// the phase and the one-scorecard rule: every scorecard for the entry is
// removed, from every judge, and scores is stored as submitterID's. An
// empty scores map only clears.
func (e *Engine) ReplaceScores(ctx context.Context, entryID int64, submitterID string, scores map[int64]int) (int, error) {
	if submitterID == "" {
		return 0, fmt.Errorf("%w: submitter id is required", models.ErrValidation)
	}

	entry, err := e.repo.GetEntry(ctx, entryID)
	if err != nil {
		return 0, err
	}
	if len(scores) > 0 {
		if err := e.validateScores(ctx, entry, scores); err != nil {
			return 0, err
		}
	}

	n, err := e.repo.ReplaceScores(ctx, entryID, submitterID, scores, e.now())
	if err != nil {
		return 0, err
	}

	e.logger.Info("scores replaced by operator",
		"entry_id", entryID, "submitter_id", submitterID, "scores", n)
	return n, nil
}

// DeleteVote removes a vote from the live tallies. Already published
// results are unaffected until the next publish.
func (e *Engine) DeleteVote(ctx context.Context, voteID string) error {
	if voteID == "" {
		return fmt.Errorf("%w: vote id is required", models.ErrValidation)
	}
	if err := e.repo.DeleteVote(ctx, voteID); err != nil {
		return err
	}
	e.logger.Info("vote deleted by operator", "vote_id", voteID)
	return nil
}

func (e *Engine) ListVotes(ctx context.Context, trackID int64) ([]models.VoteRecord, error) {
	if _, err := e.repo.GetSpecialtyTrack(ctx, trackID); err != nil {
		return nil, err
	}
	return e.repo.ListVotes(ctx, trackID)
}

// MyScores returns the scores a judge submitted for an entry.
func (e *Engine) MyScores(ctx context.Context, submitterID string, entryID int64) ([]models.ScoreRecord, error) {
	if submitterID == "" {
		return nil, fmt.Errorf("%w: submitter id is required", models.ErrValidation)
	}
	return e.repo.ListScores(ctx, submitterID, entryID)
}

func (e *Engine) JudgeProgress(ctx context.Context, submitterID string) (models.JudgeProgress, error) {
	if submitterID == "" {
		return models.JudgeProgress{}, fmt.Errorf("%w: submitter id is required", models.ErrValidation)
	}
	scored, err := e.repo.CountSubmissions(ctx, submitterID)
	if err != nil {
		return models.JudgeProgress{}, err
	}
	active, err := e.repo.CountActiveEntries(ctx)
	if err != nil {
		return models.JudgeProgress{}, err
	}
	return models.JudgeProgress{
		SubmitterID:   submitterID,
		EntriesScored: scored,
		ActiveEntries: active,
	}, nil
}
