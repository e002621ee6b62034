// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"fmt"
	"time"
)

// Track identifies one of the two independent voting processes.
type Track string

const (
	TrackExpert    Track = "expert"
	TrackSpecialty Track = "specialty"
)

// Tracks lists every track in a stable order.
var Tracks = []Track{TrackExpert, TrackSpecialty}

// ParseTrack validates a track name from a request path or config value.
func ParseTrack(s string) (Track, error) {
	switch Track(s) {
	case TrackExpert, TrackSpecialty:
		return Track(s), nil
	}
	return "", fmt.Errorf("%w: unknown track %q", ErrValidation, s)
}

// Phase is the lifecycle state of a track.
type Phase string

const (
	PhaseClosed Phase = "closed"
	PhaseOpen   Phase = "open"
	PhaseLocked Phase = "locked"
)

// ParsePhase validates a phase name.
func ParsePhase(s string) (Phase, error) {
	switch Phase(s) {
	case PhaseClosed, PhaseOpen, PhaseLocked:
		return Phase(s), nil
	}
	return "", fmt.Errorf("%w: unknown phase %q", ErrValidation, s)
}

// Roles a connected client may declare. RoleAll is reserved as a
// broadcast filter and reaches every subscriber.
const (
	RoleJudge    = "judge"
	RoleAttendee = "attendee"
	RoleVendor   = "vendor"
	RoleAdmin    = "admin"
	RoleAll      = "*"
)

// IsValidRole reports whether a client may subscribe with role.
func IsValidRole(role string) bool {
	switch role {
	case RoleJudge, RoleAttendee, RoleVendor, RoleAdmin:
		return true
	}
	return false
}

// Catalog types (owned by the catalog service, read-only here)

type Entry struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	ClassID    *int64 `json:"class_id,omitempty"`
	CategoryID *int64 `json:"category_id,omitempty"`
	Active     bool   `json:"active"`
}

// Criterion is a single scoring dimension. A nil CategoryID applies the
// criterion to every entry.
type Criterion struct {
	ID         int64  `json:"id"`
	CategoryID *int64 `json:"category_id,omitempty"`
	Name       string `json:"name"`
	MinScore   int    `json:"min_score"`
	MaxScore   int    `json:"max_score"`
}

type SpecialtyTrack struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Submission records

type ScoreRecord struct {
	SubmitterID string `json:"submitter_id"`
	EntryID     int64  `json:"entry_id"`
	CriterionID int64  `json:"criterion_id"`
	Score       int    `json:"score"`
}

type VoteRecord struct {
	ID      string    `json:"id"`
	TrackID int64     `json:"track_id"`
	EntryID int64     `json:"entry_id"`
	VoterID string    `json:"voter_id"`
	CastAt  time.Time `json:"cast_at"`
}

// Aggregation

// EntryTotal is the raw per-entry aggregate read from storage before ranking.
// Records is the number of score rows (expert) or votes (specialty).
type EntryTotal struct {
	EntryID int64
	Name    string
	Total   int
	Records int
}

type Standing struct {
	EntryID int64  `json:"entry_id"`
	Name    string `json:"name"`
	Total   int    `json:"total"`
	Records int    `json:"records"`
	Rank    int    `json:"rank"` // 1-indexed
}

// Scored reports whether any score or vote counted towards the standing.
func (s Standing) Scored() bool {
	return s.Records > 0
}

// Published results

type PublishedResult struct {
	Kind    Track `json:"kind"`
	GroupID int64 `json:"group_id"`
	EntryID int64 `json:"entry_id"`
	Place   int   `json:"place"`
	Score   int   `json:"score"`
}

// Snapshot is the full published result set for one kind. Version increases
// on every publish and is the compare-and-swap token for concurrent publishers.
type Snapshot struct {
	ID          string            `json:"id"`
	Kind        Track             `json:"kind"`
	Version     int64             `json:"version"`
	PublishedAt *time.Time        `json:"published_at,omitempty"`
	Results     []PublishedResult `json:"results"`
}

type PhaseState struct {
	Track     Track     `json:"track"`
	Phase     Phase     `json:"phase"`
	ChangedAt time.Time `json:"changed_at"`
}

type JudgeProgress struct {
	SubmitterID   string `json:"submitter_id"`
	EntriesScored int    `json:"entries_scored"`
	ActiveEntries int    `json:"active_entries"`
}
