// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"context"
	"time"

	"github.com/danielhkuo/quickly-judge/models"
	"github.com/danielhkuo/quickly-judge/notify"
)

// PhaseRepository persists the phase record of each track.
type PhaseRepository interface {
	LoadPhases(ctx context.Context) ([]models.PhaseState, error)
	SavePhase(ctx context.Context, state models.PhaseState) error
}

// CatalogReader reads entries, criteria and specialty tracks. The catalog
// is owned elsewhere; the engine never writes it.
type CatalogReader interface {
	GetEntry(ctx context.Context, entryID int64) (models.Entry, error)
	ListCriteria(ctx context.Context, categoryID *int64) ([]models.Criterion, error)
	GetSpecialtyTrack(ctx context.Context, trackID int64) (models.SpecialtyTrack, error)
	ListSpecialtyTracks(ctx context.Context) ([]models.SpecialtyTrack, error)
	ListGroups(ctx context.Context) ([]int64, error)
	CountActiveEntries(ctx context.Context) (int, error)
}

// ScoreRepository stores scorecards. InsertScores must be atomic and return
// models.ErrAlreadySubmitted when the judge already has a scorecard for the
// entry. ReplaceScores clears every scorecard for the entry first.
type ScoreRepository interface {
	InsertScores(ctx context.Context, submitterID string, entryID int64, scores map[int64]int, at time.Time) (int, error)
	ReplaceScores(ctx context.Context, entryID int64, submitterID string, scores map[int64]int, at time.Time) (int, error)
	ListScores(ctx context.Context, submitterID string, entryID int64) ([]models.ScoreRecord, error)
	CountSubmissions(ctx context.Context, submitterID string) (int, error)
	ExpertTotals(ctx context.Context, groupID int64) ([]models.EntryTotal, error)
}

// VoteRepository stores specialty votes. InsertVote returns
// models.ErrAlreadyVoted on a (track, voter) conflict.
type VoteRepository interface {
	InsertVote(ctx context.Context, vote models.VoteRecord) error
	DeleteVote(ctx context.Context, voteID string) error
	ListVotes(ctx context.Context, trackID int64) ([]models.VoteRecord, error)
	SpecialtyTotals(ctx context.Context, trackID int64) ([]models.EntryTotal, error)
}

// ResultsRepository owns the published snapshot. ReplacePublished swaps the
// whole result set of snapshot.Kind in one transaction, and returns
// models.ErrPublishConflict if the stored version is no longer expectedVersion.
type ResultsRepository interface {
	PublicationVersion(ctx context.Context, kind models.Track) (int64, error)
	ReplacePublished(ctx context.Context, snapshot models.Snapshot, expectedVersion int64) error
	GetPublished(ctx context.Context, kind models.Track) (models.Snapshot, error)
}

type Repository interface {
	CatalogReader
	ScoreRepository
	VoteRepository
	ResultsRepository
}

// Broadcaster delivers a notification to every connected subscriber of
// role. Delivery is best-effort and at-most-once: there is no retry, no
// persistence, and clients that are not connected miss the message.
// Implementations must not block on slow subscribers. The return value is
// the number of local recipients, which is zero for relaying transports.
type Broadcaster interface {
	Broadcast(ctx context.Context, role string, msg notify.Message) int
}

// Recorder receives engine outcomes for metrics.
type Recorder interface {
	ObserveSubmission(track models.Track, reason string)
	ObservePublish(kind models.Track, results int, attempts int, elapsed time.Duration)
	ObservePhase(track models.Track, phase models.Phase)
}

type nopRecorder struct{}

func (nopRecorder) ObserveSubmission(models.Track, string) {}
func (nopRecorder) ObservePublish(models.Track, int, int, time.Duration) {}
func (nopRecorder) ObservePhase(models.Track, models.Phase) {}
