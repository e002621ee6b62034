// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/quickly-judge/engine"
	"github.com/danielhkuo/quickly-judge/models"
	"github.com/danielhkuo/quickly-judge/testutil"
)

func TestSubmitScores_PhaseGate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	scores := map[int64]int{critGeneral: 10}

	// Closed on startup
	_, err := f.engine.SubmitScores(ctx, "judge-1", 1, scores)
	assert.ErrorIs(t, err, models.ErrPhaseClosed)

	require.NoError(t, f.phases.SetPhase(ctx, models.TrackExpert, models.PhaseLocked))
	_, err = f.engine.SubmitScores(ctx, "judge-1", 1, scores)
	assert.ErrorIs(t, err, models.ErrPhaseClosed)

	// Opening specialty does not open expert
	f.open(t, models.TrackSpecialty)
	_, err = f.engine.SubmitScores(ctx, "judge-1", 1, scores)
	assert.ErrorIs(t, err, models.ErrPhaseClosed)

	records, err := f.engine.MyScores(ctx, "judge-1", 1)
	require.NoError(t, err)
	assert.Empty(t, records)

	f.open(t, models.TrackExpert)
	n, err := f.engine.SubmitScores(ctx, "judge-1", 1, scores)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSubmitScores_Validation(t *testing.T) {
	tests := []struct {
		name      string
		submitter string
		entryID   int64
		scores    map[int64]int
		wantErr   error
	}{
		{"missing submitter", "", 1, map[int64]int{critGeneral: 1}, models.ErrValidation},
		{"no scores", "judge-1", 1, map[int64]int{}, models.ErrValidation},
		{"unknown entry", "judge-1", 99, map[int64]int{critGeneral: 1}, models.ErrNotFound},
		{"inactive entry", "judge-1", 6, map[int64]int{critGeneral: 1}, models.ErrEntryInactive},
		{"unknown criterion", "judge-1", 1, map[int64]int{999: 1}, models.ErrValidation},
		{"criterion of another category", "judge-1", 1, map[int64]int{critCategory: 3}, models.ErrValidation},
		{"above range", "judge-1", 1, map[int64]int{critGeneral: 51}, models.ErrValidation},
		{"below range", "judge-1", 4, map[int64]int{critGeneral: 10, critCategory: 0}, models.ErrValidation},
	}

	f := newFixture(t)
	testutil.DeactivateTestEntry(t, f.conn, 6)
	f.open(t, models.TrackExpert)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.engine.SubmitScores(context.Background(), tt.submitter, tt.entryID, tt.scores)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// A rejected scorecard leaves nothing behind, so the judge can retry
	n, err := f.engine.SubmitScores(context.Background(), "judge-1", 4, map[int64]int{critGeneral: 10, critCategory: 5})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestSubmitScores_AlreadySubmitted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.open(t, models.TrackExpert)

	f.score(t, "judge-1", 1, 20)

	_, err := f.engine.SubmitScores(ctx, "judge-1", 1, map[int64]int{critGeneral: 40})
	assert.ErrorIs(t, err, models.ErrAlreadySubmitted)

	// No merge: the original scorecard is untouched
	records, err := f.engine.MyScores(ctx, "judge-1", 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 20, records[0].Score)
}

func TestSubmitScores_Concurrent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.open(t, models.TrackExpert)

	const attempts = 20
	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
		rejected  atomic.Int32
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(value int) {
			defer wg.Done()
			_, err := f.engine.SubmitScores(ctx, "judge-1", 2, map[int64]int{critGeneral: value})
			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.Is(err, models.ErrAlreadySubmitted):
				rejected.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), succeeded.Load())
	assert.Equal(t, int32(attempts-1), rejected.Load())

	records, err := f.engine.MyScores(ctx, "judge-1", 2)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestCastVote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.CastVote(ctx, "attendee-1", trackBest, 1)
	assert.ErrorIs(t, err, models.ErrPhaseClosed)

	f.open(t, models.TrackSpecialty)

	vote, err := f.engine.CastVote(ctx, "attendee-1", trackBest, 1)
	require.NoError(t, err)
	assert.NotEmpty(t, vote.ID)
	assert.Equal(t, trackBest, vote.TrackID)

	// Second vote in the same track is refused, even for another entry
	_, err = f.engine.CastVote(ctx, "attendee-1", trackBest, 2)
	assert.ErrorIs(t, err, models.ErrAlreadyVoted)

	// Other tracks are independent
	_, err = f.engine.CastVote(ctx, "attendee-1", trackPeople, 2)
	require.NoError(t, err)

	_, err = f.engine.CastVote(ctx, "attendee-2", 404, 1)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = f.engine.CastVote(ctx, "", trackBest, 1)
	assert.ErrorIs(t, err, models.ErrValidation)

	votes, err := f.engine.ListVotes(ctx, trackBest)
	require.NoError(t, err)
	assert.Len(t, votes, 1)
}

func TestCastVote_Concurrent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.open(t, models.TrackSpecialty)

	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(entryID int64) {
			defer wg.Done()
			if _, err := f.engine.CastVote(ctx, "attendee-1", trackBest, entryID); err == nil {
				succeeded.Add(1)
			} else if !errors.Is(err, models.ErrAlreadyVoted) {
				t.Errorf("unexpected error: %v", err)
			}
		}(int64(i%4 + 1))
	}
	wg.Wait()

	assert.Equal(t, int32(1), succeeded.Load())
}

func TestParseScores(t *testing.T) {
	tests := []struct {
		name    string
		raw     map[string]string
		want    map[int64]int
		wantErr bool
	}{
		{"values", map[string]string{"100": "7", "101": " 3 "}, map[int64]int{100: 7, 101: 3}, false},
		{"blank values skipped", map[string]string{"100": "7", "101": "", "102": "  "}, map[int64]int{100: 7}, false},
		{"all blank", map[string]string{"100": ""}, map[int64]int{}, false},
		{"non-numeric value", map[string]string{"100": "seven"}, nil, true},
		{"non-numeric key", map[string]string{"style": "7"}, nil, true},
		{"decimal value", map[string]string{"100": "7.5"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.ParseScores(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, models.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
