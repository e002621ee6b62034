// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Request types

// criterion_id -> score, as submitted by a scoring form. Blank values are
// skipped rather than stored as zero.
type SubmitScoresRequest struct {
	Scores map[string]string `json:"scores"`
}

type ReplaceScoresRequest struct {
	SubmitterID string            `json:"submitter_id"`
	Scores      map[string]string `json:"scores"`
}

type SetPhaseRequest struct {
	Phase string `json:"phase"`
}

type CastVoteRequest struct {
	EntryID int64 `json:"entry_id"`
}

// Response types

type PhaseResponse struct {
	Track      Track     `json:"track"`
	Phase      Phase     `json:"phase"`
	ChangedAt  time.Time `json:"changed_at"`
	ChangedAgo string    `json:"changed_ago"`
}

type SubmitScoresResponse struct {
	EntryID  int64  `json:"entry_id"`
	Inserted int    `json:"inserted"`
	Message  string `json:"message"`
}

type CastVoteResponse struct {
	VoteID  string `json:"vote_id"`
	Message string `json:"message"`
}

type StandingsResponse struct {
	Track     Track      `json:"track"`
	GroupID   int64      `json:"group_id"`
	Standings []Standing `json:"standings"`
}

type PlacedResult struct {
	PublishedResult
	PlaceLabel string `json:"place_label"`
}

type ResultsResponse struct {
	Kind        Track          `json:"kind"`
	SnapshotID  string         `json:"snapshot_id"`
	Version     int64          `json:"version"`
	PublishedAt *time.Time     `json:"published_at,omitempty"`
	Results     []PlacedResult `json:"results"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type MyScoresResponse struct {
	EntryID int64         `json:"entry_id"`
	Scores  []ScoreRecord `json:"scores"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}
