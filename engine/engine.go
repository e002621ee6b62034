// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/danielhkuo/quickly-judge/models"
)

const (
	DefaultPublishAttempts = 5
	DefaultRankConcurrency = 4
)

// Config wires an Engine to its collaborators. Repo, Phases and Notifier
// are required.
type Config struct {
	Repo     Repository
	Phases   PhaseStore
	Notifier Broadcaster
	Recorder Recorder
	Logger   *slog.Logger

	// PublishAttempts bounds the retries after a lost publish race.
	PublishAttempts int
	// RankConcurrency bounds how many classes are ranked at once on publish.
	RankConcurrency int
	// Now defaults to time.Now.
	Now func() time.Time
}

// Engine runs submissions, rankings and publication for one event.
// It is safe for concurrent use.
type Engine struct {
	repo            Repository
	phases          PhaseStore
	notifier        Broadcaster
	recorder        Recorder
	logger          *slog.Logger
	publishAttempts int
	rankConcurrency int
	now             func() time.Time

	// one lock per result kind; expert and specialty publish independently
	publishMu map[models.Track]*sync.Mutex
}

func New(cfg Config) (*Engine, error) {
	if cfg.Repo == nil {
		return nil, errors.New("engine: repository is required")
	}
	if cfg.Phases == nil {
		return nil, errors.New("engine: phase store is required")
	}
	if cfg.Notifier == nil {
		return nil, errors.New("engine: notifier is required")
	}

	e := &Engine{
		repo:            cfg.Repo,
		phases:          cfg.Phases,
		notifier:        cfg.Notifier,
		recorder:        cfg.Recorder,
		logger:          resolveLogger(cfg.Logger),
		publishAttempts: cfg.PublishAttempts,
		rankConcurrency: cfg.RankConcurrency,
		now:             cfg.Now,
		publishMu:       make(map[models.Track]*sync.Mutex, len(models.Tracks)),
	}
	if e.recorder == nil {
		e.recorder = nopRecorder{}
	}
	if e.publishAttempts <= 0 {
		e.publishAttempts = DefaultPublishAttempts
	}
	if e.rankConcurrency <= 0 {
		e.rankConcurrency = DefaultRankConcurrency
	}
	if e.now == nil {
		e.now = time.Now
	}
	for _, track := range models.Tracks {
		e.publishMu[track] = &sync.Mutex{}
	}
	return e, nil
}

// Phases returns the current phase record of every track.
func (e *Engine) Phases() []models.PhaseState {
	states := make([]models.PhaseState, 0, len(models.Tracks))
	for _, track := range models.Tracks {
		states = append(states, e.phases.Status(track))
	}
	return states
}

// PhaseStore exposes the phase store the engine gates submissions on.
func (e *Engine) PhaseStore() PhaseStore {
	return e.phases
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}

// outcome is the metrics label for a submission result.
func outcome(err error) string {
	if err == nil {
		return "accepted"
	}
	return models.ReasonCode(err)
}
