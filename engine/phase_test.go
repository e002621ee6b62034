// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/quickly-judge/engine"
	"github.com/danielhkuo/quickly-judge/models"
	"github.com/danielhkuo/quickly-judge/notify"
)

// memPhaseRepo is an in-memory PhaseRepository that can be told to fail.
type memPhaseRepo struct {
	mu     sync.Mutex
	states []models.PhaseState
	fail   bool
}

func (r *memPhaseRepo) LoadPhases(ctx context.Context) ([]models.PhaseState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.PhaseState(nil), r.states...), nil
}

func (r *memPhaseRepo) SavePhase(ctx context.Context, state models.PhaseState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("disk full")
	}
	r.states = append(r.states, state)
	return nil
}

func TestNewPhases_Defaults(t *testing.T) {
	repo := &memPhaseRepo{states: []models.PhaseState{
		{Track: models.TrackSpecialty, Phase: models.PhaseOpen, ChangedAt: time.Now()},
	}}
	phases, err := engine.NewPhases(context.Background(), repo, notify.NewHub(4, nil), nil)
	require.NoError(t, err)

	assert.Equal(t, models.PhaseClosed, phases.GetPhase(models.TrackExpert))
	assert.Equal(t, models.PhaseOpen, phases.GetPhase(models.TrackSpecialty))
}

func TestSetPhase_AnyTransition(t *testing.T) {
	repo := &memPhaseRepo{}
	phases, err := engine.NewPhases(context.Background(), repo, notify.NewHub(4, nil), nil)
	require.NoError(t, err)
	ctx := context.Background()

	sequence := []models.Phase{
		models.PhaseOpen, models.PhaseLocked, models.PhaseOpen,
		models.PhaseOpen, models.PhaseClosed, models.PhaseLocked,
	}
	for _, phase := range sequence {
		require.NoError(t, phases.SetPhase(ctx, models.TrackExpert, phase))
		assert.Equal(t, phase, phases.GetPhase(models.TrackExpert))
	}
	assert.Len(t, repo.states, len(sequence))
	assert.Equal(t, models.PhaseClosed, phases.GetPhase(models.TrackSpecialty))
}

func TestSetPhase_Invalid(t *testing.T) {
	phases, err := engine.NewPhases(context.Background(), &memPhaseRepo{}, notify.NewHub(4, nil), nil)
	require.NoError(t, err)

	err = phases.SetPhase(context.Background(), models.Track("finals"), models.PhaseOpen)
	assert.ErrorIs(t, err, models.ErrValidation)

	err = phases.SetPhase(context.Background(), models.TrackExpert, models.Phase("paused"))
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestSetPhase_PersistFailureKeepsPhase(t *testing.T) {
	repo := &memPhaseRepo{}
	hub := notify.NewHub(4, nil)
	judge := hub.Subscribe(models.RoleJudge)
	defer judge.Close()

	phases, err := engine.NewPhases(context.Background(), repo, hub, nil)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, phases.SetPhase(ctx, models.TrackExpert, models.PhaseOpen))
	receive(t, judge)

	repo.fail = true
	err = phases.SetPhase(ctx, models.TrackExpert, models.PhaseLocked)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrStorage)

	assert.Equal(t, models.PhaseOpen, phases.GetPhase(models.TrackExpert))
	select {
	case msg := <-judge.Events():
		t.Fatalf("unexpected notification after failed change: %+v", msg)
	default:
	}
}

func TestSetPhase_Notifies(t *testing.T) {
	hub := notify.NewHub(4, nil)
	judge := hub.Subscribe(models.RoleJudge)
	defer judge.Close()
	attendee := hub.Subscribe(models.RoleAttendee)
	defer attendee.Close()

	phases, err := engine.NewPhases(context.Background(), &memPhaseRepo{}, hub, nil)
	require.NoError(t, err)
	ctx := context.Background()

	// Expert announcements go to judges only
	require.NoError(t, phases.SetPhase(ctx, models.TrackExpert, models.PhaseOpen))
	msg := receive(t, judge)
	assert.Equal(t, notify.KindPhase, msg.Kind)
	assert.Equal(t, models.TrackExpert, msg.Track)
	assert.Equal(t, models.PhaseOpen, msg.Phase)
	assert.Equal(t, "Expert judging is now open", msg.Text)
	assert.NotEmpty(t, msg.Icon)
	assert.Empty(t, attendee.Events())

	// Specialty announcements reach everyone
	require.NoError(t, phases.SetPhase(ctx, models.TrackSpecialty, models.PhaseClosed))
	assert.Equal(t, "Specialty voting is now closed", receive(t, judge).Text)
	assert.Equal(t, "Specialty voting is now closed", receive(t, attendee).Text)
}

func TestSetPhase_NoSubscribers(t *testing.T) {
	phases, err := engine.NewPhases(context.Background(), &memPhaseRepo{}, notify.NewHub(4, nil), nil)
	require.NoError(t, err)

	require.NoError(t, phases.SetPhase(context.Background(), models.TrackSpecialty, models.PhaseOpen))
}

func TestPhases_ConcurrentReaders(t *testing.T) {
	phases, err := engine.NewPhases(context.Background(), &memPhaseRepo{}, notify.NewHub(4, nil), nil)
	require.NoError(t, err)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = phases.GetPhase(models.TrackExpert)
			}
		}()
		go func(i int) {
			defer wg.Done()
			phase := models.PhaseOpen
			if i%2 == 0 {
				phase = models.PhaseClosed
			}
			assert.NoError(t, phases.SetPhase(ctx, models.TrackExpert, phase))
		}(i)
	}
	wg.Wait()

	got := phases.GetPhase(models.TrackExpert)
	assert.Contains(t, []models.Phase{models.PhaseOpen, models.PhaseClosed}, got)
}
