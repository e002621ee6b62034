// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"context"
	"sort"

	"github.com/danielhkuo/quickly-judge/models"
)

// RankTotals orders scored entries ahead of unscored ones, then by total
// descending, breaking ties by entry id ascending, and numbers them 1..n.
// Tied entries get distinct ranks.
func RankTotals(totals []models.EntryTotal) []models.Standing {
	standings := make([]models.Standing, len(totals))
	for i, t := range totals {
		standings[i] = models.Standing{
			EntryID: t.EntryID,
			Name:    t.Name,
			Total:   t.Total,
			Records: t.Records,
		}
	}

	sort.SliceStable(standings, func(i, j int) bool {
		if standings[i].Scored() != standings[j].Scored() {
			return standings[i].Scored()
		}
		if standings[i].Total != standings[j].Total {
			return standings[i].Total > standings[j].Total
		}
		return standings[i].EntryID < standings[j].EntryID
	})

	for i := range standings {
		standings[i].Rank = i + 1
	}
	return standings
}

// RankExpert ranks the active entries of a class by the sum of all their
// scores. Entries nobody scored rank last with a total of 0.
func (e *Engine) RankExpert(ctx context.Context, groupID int64) ([]models.Standing, error) {
	totals, err := e.repo.ExpertTotals(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return RankTotals(totals), nil
}

// RankSpecialty ranks the active entries of a specialty track by votes.
func (e *Engine) RankSpecialty(ctx context.Context, trackID int64) ([]models.Standing, error) {
	if _, err := e.repo.GetSpecialtyTrack(ctx, trackID); err != nil {
		return nil, err
	}
	return e.rankSpecialty(ctx, trackID)
}

func (e *Engine) rankSpecialty(ctx context.Context, trackID int64) ([]models.Standing, error) {
	totals, err := e.repo.SpecialtyTotals(ctx, trackID)
	if err != nil {
		return nil, err
	}
	return RankTotals(totals), nil
}
