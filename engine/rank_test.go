// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/quickly-judge/engine"
	"github.com/danielhkuo/quickly-judge/models"
	"github.com/danielhkuo/quickly-judge/testutil"
)

func TestRankTotals(t *testing.T) {
	tests := []struct {
		name      string
		totals    []models.EntryTotal
		wantOrder []int64
	}{
		{
			name:      "empty",
			totals:    nil,
			wantOrder: []int64{},
		},
		{
			name: "descending by total",
			totals: []models.EntryTotal{
				{EntryID: 1, Total: 10}, {EntryID: 2, Total: 30}, {EntryID: 3, Total: 20},
			},
			wantOrder: []int64{2, 3, 1},
		},
		{
			name: "ties broken by entry id",
			totals: []models.EntryTotal{
				{EntryID: 9, Total: 25}, {EntryID: 4, Total: 25}, {EntryID: 7, Total: 25},
			},
			wantOrder: []int64{4, 7, 9},
		},
		{
			name: "unscored entries rank last",
			totals: []models.EntryTotal{
				{EntryID: 1, Total: 0}, {EntryID: 2, Total: 5, Records: 1}, {EntryID: 3, Total: 0},
			},
			wantOrder: []int64{2, 1, 3},
		},
		{
			name: "scored zero ahead of unscored",
			totals: []models.EntryTotal{
				{EntryID: 1, Total: 0}, {EntryID: 2, Total: 0, Records: 1},
			},
			wantOrder: []int64{2, 1},
		},
		{
			name: "negative total ahead of unscored",
			totals: []models.EntryTotal{
				{EntryID: 1, Total: 0}, {EntryID: 3, Total: -4, Records: 2}, {EntryID: 2, Total: 6, Records: 1},
			},
			wantOrder: []int64{2, 3, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			standings := engine.RankTotals(tt.totals)

			order := []int64{}
			for i, s := range standings {
				order = append(order, s.EntryID)
				assert.Equal(t, i+1, s.Rank)
			}
			assert.Equal(t, tt.wantOrder, order)
		})
	}
}

func TestRankTotals_DoesNotModifyInput(t *testing.T) {
	totals := []models.EntryTotal{{EntryID: 1, Total: 1}, {EntryID: 2, Total: 2}}
	engine.RankTotals(totals)
	assert.Equal(t, int64(1), totals[0].EntryID)
}

func TestRankExpert(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.open(t, models.TrackExpert)

	f.score(t, "judge-1", 1, 10)
	f.score(t, "judge-2", 1, 20)
	f.score(t, "judge-1", 2, 25)
	f.score(t, "judge-2", 3, 25)
	f.score(t, "judge-1", 5, 50)

	standings, err := f.engine.RankExpert(ctx, 1)
	require.NoError(t, err)
	require.Len(t, standings, 4)

	assert.Equal(t, models.Standing{EntryID: 1, Name: "A", Total: 30, Records: 2, Rank: 1}, standings[0])
	assert.Equal(t, int64(2), standings[1].EntryID)
	assert.Equal(t, int64(3), standings[2].EntryID)
	// Unscored entries still participate
	assert.Equal(t, models.Standing{EntryID: 4, Name: "D", Total: 0, Records: 0, Rank: 4}, standings[3])

	// Inactive entries drop out of the standings
	testutil.DeactivateTestEntry(t, f.conn, 1)
	standings, err = f.engine.RankExpert(ctx, 1)
	require.NoError(t, err)
	require.Len(t, standings, 3)
	assert.Equal(t, int64(2), standings[0].EntryID)
}

func TestRankSpecialty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.open(t, models.TrackSpecialty)

	f.vote(t, "v1", trackBest, 2)
	f.vote(t, "v2", trackBest, 2)
	f.vote(t, "v3", trackBest, 5)
	f.vote(t, "v1", trackPeople, 5)

	standings, err := f.engine.RankSpecialty(ctx, trackBest)
	require.NoError(t, err)
	require.Len(t, standings, 2)
	assert.Equal(t, models.Standing{EntryID: 2, Name: "B", Total: 2, Records: 2, Rank: 1}, standings[0])
	assert.Equal(t, models.Standing{EntryID: 5, Name: "E", Total: 1, Records: 1, Rank: 2}, standings[1])

	_, err = f.engine.RankSpecialty(ctx, 404)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRankExpert_ZeroScoreBeatsUnscored(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.open(t, models.TrackExpert)

	f.score(t, "judge-1", 2, 0)

	standings, err := f.engine.RankExpert(ctx, 1)
	require.NoError(t, err)
	require.Len(t, standings, 4)
	assert.Equal(t, models.Standing{EntryID: 2, Name: "B", Total: 0, Records: 1, Rank: 1}, standings[0])
	assert.Equal(t, int64(1), standings[1].EntryID)
	assert.False(t, standings[1].Scored())
}
