// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/danielhkuo/quickly-judge/models"
	"github.com/danielhkuo/quickly-judge/notify"
)

// PhaseStore holds the current phase of each track.
type PhaseStore interface {
	GetPhase(track models.Track) models.Phase
	Status(track models.Track) models.PhaseState
	SetPhase(ctx context.Context, track models.Track, phase models.Phase) error
}

// Phases is the PhaseStore backed by a PhaseRepository. Every change is
// persisted before it becomes visible and is then announced.
type Phases struct {
	mu       sync.RWMutex
	states   map[models.Track]models.PhaseState
	repo     PhaseRepository
	notifier Broadcaster
	recorder Recorder
	logger   *slog.Logger
	now      func() time.Time
}

// NewPhases loads the persisted phases. Tracks without a record start Closed.
func NewPhases(ctx context.Context, repo PhaseRepository, notifier Broadcaster, logger *slog.Logger) (*Phases, error) {
	if repo == nil {
		return nil, errors.New("phases: repository is required")
	}
	if notifier == nil {
		return nil, errors.New("phases: notifier is required")
	}

	p := &Phases{
		states:   make(map[models.Track]models.PhaseState, len(models.Tracks)),
		repo:     repo,
		notifier: notifier,
		recorder: nopRecorder{},
		logger:   resolveLogger(logger),
		now:      time.Now,
	}
	for _, track := range models.Tracks {
		p.states[track] = models.PhaseState{Track: track, Phase: models.PhaseClosed}
	}

	stored, err := repo.LoadPhases(ctx)
	if err != nil {
		return nil, fmt.Errorf("load phases: %w", err)
	}
	for _, state := range stored {
		p.states[state.Track] = state
	}

	for _, track := range models.Tracks {
		p.logger.Info("phase loaded", "track", track, "phase", p.states[track].Phase)
	}
	return p, nil
}

// SetRecorder installs r; call before the store is shared.
func (p *Phases) SetRecorder(r Recorder) {
	if r != nil {
		p.recorder = r
	}
}

func (p *Phases) GetPhase(track models.Track) models.Phase {
	return p.Status(track).Phase
}

func (p *Phases) Status(track models.Track) models.PhaseState {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if state, ok := p.states[track]; ok {
		return state
	}
	return models.PhaseState{Track: track, Phase: models.PhaseClosed}
}

// SetPhase moves track to phase. Any transition is allowed, including
// re-entering the current phase. If the record cannot be persisted the
// in-memory phase stays as it was and nothing is announced.
func (p *Phases) SetPhase(ctx context.Context, track models.Track, phase models.Phase) error {
	if _, err := models.ParseTrack(string(track)); err != nil {
		return err
	}
	if _, err := models.ParsePhase(string(phase)); err != nil {
		return err
	}

	p.mu.Lock()
	prev := p.states[track]
	next := models.PhaseState{Track: track, Phase: phase, ChangedAt: p.now()}
	if err := p.repo.SavePhase(ctx, next); err != nil {
		p.mu.Unlock()
		p.logger.Error("phase change not persisted",
			"track", track, "from", prev.Phase, "to", phase, "error", err)
		if !errors.Is(err, models.ErrStorage) {
			err = fmt.Errorf("%w: %w", models.ErrStorage, err)
		}
		return fmt.Errorf("set %s phase: %w", track, err)
	}
	p.states[track] = next
	p.mu.Unlock()

	p.logger.Info("phase changed", "track", track, "from", prev.Phase, "to", phase)
	p.recorder.ObservePhase(track, phase)

	msg := phaseMessage(track, phase)
	msg.SentAt = next.ChangedAt
	p.notifier.Broadcast(ctx, audience(track), msg)
	return nil
}

// audience is the role notified about a track.
func audience(track models.Track) string {
	if track == models.TrackExpert {
		return models.RoleJudge
	}
	return models.RoleAll
}

var phaseIcons = map[models.Phase]string{
	models.PhaseOpen:   "🟢",
	models.PhaseClosed: "⛔",
	models.PhaseLocked: "🏁",
}

const publishedIcon = "🏆"

func trackTitle(track models.Track) string {
	if track == models.TrackExpert {
		return "Expert judging"
	}
	return "Specialty voting"
}

func phaseMessage(track models.Track, phase models.Phase) notify.Message {
	var text string
	switch phase {
	case models.PhaseOpen:
		text = fmt.Sprintf("%s is now open", trackTitle(track))
	case models.PhaseClosed:
		text = fmt.Sprintf("%s is now closed", trackTitle(track))
	case models.PhaseLocked:
		text = fmt.Sprintf("%s is locked and results are final", trackTitle(track))
	}
	return notify.Message{
		Kind:  notify.KindPhase,
		Track: track,
		Phase: phase,
		Text:  text,
		Icon:  phaseIcons[phase],
	}
}
