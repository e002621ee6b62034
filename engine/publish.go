// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize/english"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/quickly-judge/models"
	"github.com/danielhkuo/quickly-judge/notify"
)

// ExpertPlaces is how many scored entries per class are published.
const ExpertPlaces = 3

// Publish computes the official results of kind and replaces the published
// set in one step. Publishing expert results also locks the expert track.
// Publishing the same inputs twice yields the same results.
func (e *Engine) Publish(ctx context.Context, kind models.Track) (models.Snapshot, error) {
	if _, err := models.ParseTrack(string(kind)); err != nil {
		return models.Snapshot{}, err
	}

	mu := e.publishMu[kind]
	mu.Lock()
	defer mu.Unlock()

	start := time.Now()
	var (
		snap     models.Snapshot
		groups   int
		attempts int
	)
	for attempts = 1; ; attempts++ {
		version, err := e.repo.PublicationVersion(ctx, kind)
		if err != nil {
			return models.Snapshot{}, err
		}

		var results []models.PublishedResult
		results, groups, err = e.computeResults(ctx, kind)
		if err != nil {
			return models.Snapshot{}, err
		}

		publishedAt := e.now()
		snap = models.Snapshot{
			ID:          uuid.NewString(),
			Kind:        kind,
			Version:     version + 1,
			PublishedAt: &publishedAt,
			Results:     results,
		}

		err = e.repo.ReplacePublished(ctx, snap, version)
		if err == nil {
			break
		}
		if !errors.Is(err, models.ErrPublishConflict) || attempts >= e.publishAttempts {
			return models.Snapshot{}, err
		}
		e.logger.Warn("publish lost a race, recomputing",
			"kind", kind, "attempt", attempts, "version", version)
	}

	e.recorder.ObservePublish(kind, len(snap.Results), attempts, time.Since(start))
	e.logger.Info("results published",
		"kind", kind, "version", snap.Version, "results", len(snap.Results), "attempts", attempts)

	if kind == models.TrackExpert {
		if err := e.phases.SetPhase(ctx, models.TrackExpert, models.PhaseLocked); err != nil {
			return snap, fmt.Errorf("results published but expert track not locked: %w", err)
		}
	}

	e.notifier.Broadcast(ctx, audience(kind), publishedMessage(kind, groups))
	return snap, nil
}

// computeResults returns the result rows for kind and the number of groups
// that received at least one placing.
func (e *Engine) computeResults(ctx context.Context, kind models.Track) ([]models.PublishedResult, int, error) {
	if kind == models.TrackExpert {
		return e.expertResults(ctx)
	}
	return e.specialtyResults(ctx)
}

func (e *Engine) expertResults(ctx context.Context) ([]models.PublishedResult, int, error) {
	groups, err := e.repo.ListGroups(ctx)
	if err != nil {
		return nil, 0, err
	}

	perGroup := make([][]models.PublishedResult, len(groups))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.rankConcurrency)
	for i, groupID := range groups {
		g.Go(func() error {
			standings, err := e.RankExpert(gctx, groupID)
			if err != nil {
				return fmt.Errorf("rank class %d: %w", groupID, err)
			}
			perGroup[i] = topPlaces(models.TrackExpert, groupID, standings, ExpertPlaces)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	results := []models.PublishedResult{}
	placed := 0
	for _, rows := range perGroup {
		if len(rows) > 0 {
			placed++
		}
		results = append(results, rows...)
	}
	return results, placed, nil
}

func (e *Engine) specialtyResults(ctx context.Context) ([]models.PublishedResult, int, error) {
	tracks, err := e.repo.ListSpecialtyTracks(ctx)
	if err != nil {
		return nil, 0, err
	}

	results := []models.PublishedResult{}
	for _, track := range tracks {
		standings, err := e.rankSpecialty(ctx, track.ID)
		if err != nil {
			return nil, 0, fmt.Errorf("rank track %d: %w", track.ID, err)
		}
		results = append(results, topPlaces(models.TrackSpecialty, track.ID, standings, 1)...)
	}
	return results, len(results), nil
}

// topPlaces takes the first limit standings that received any score or
// vote. Places are numbered from 1 in standing order.
func topPlaces(kind models.Track, groupID int64, standings []models.Standing, limit int) []models.PublishedResult {
	var rows []models.PublishedResult
	for _, s := range standings {
		if len(rows) == limit {
			break
		}
		if !s.Scored() {
			continue
		}
		rows = append(rows, models.PublishedResult{
			Kind:    kind,
			GroupID: groupID,
			EntryID: s.EntryID,
			Place:   len(rows) + 1,
			Score:   s.Total,
		})
	}
	return rows
}

func publishedMessage(kind models.Track, groups int) notify.Message {
	text := fmt.Sprintf("Judging results are published: %s placed", english.Plural(groups, "class", "classes"))
	if kind == models.TrackSpecialty {
		text = fmt.Sprintf("Specialty awards are published: %s awarded", english.Plural(groups, "track", ""))
	}
	return notify.Message{
		Kind:  notify.KindPublished,
		Track: kind,
		Text:  text,
		Icon:  publishedIcon,
	}
}

// PublishedResults returns the published results of kind once its track is
// locked. Before that the results are sealed.
func (e *Engine) PublishedResults(ctx context.Context, kind models.Track) (models.Snapshot, error) {
	if _, err := models.ParseTrack(string(kind)); err != nil {
		return models.Snapshot{}, err
	}
	if phase := e.phases.GetPhase(kind); phase != models.PhaseLocked {
		return models.Snapshot{}, fmt.Errorf("%w: %s track is %s", models.ErrResultsSealed, kind, phase)
	}
	return e.repo.GetPublished(ctx, kind)
}

// PublishedSnapshot returns the published results of kind regardless of phase.
func (e *Engine) PublishedSnapshot(ctx context.Context, kind models.Track) (models.Snapshot, error) {
	if _, err := models.ParseTrack(string(kind)); err != nil {
		return models.Snapshot{}, err
	}
	return e.repo.GetPublished(ctx, kind)
}
