// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines domain types, request/response types, and the
error taxonomy shared by the engine, the store, and the HTTP handlers.

# Tracks and Phases

Two independent voting tracks exist:

  - TrackExpert: judges score entries per criterion
  - TrackSpecialty: attendees cast one vote per specialty track

Each track is Closed, Open, or Locked. Any transition is legal.

# Domain Types

  - Entry, Criterion, SpecialtyTrack: catalog rows (read-only here)
  - ScoreRecord: one judge's score for one criterion of one entry
  - VoteRecord: one attendee's vote in one specialty track
  - Standing: a live ranking row
  - PublishedResult, Snapshot: the official published placings

# Errors

Engine failures wrap one of the sentinel errors (ErrPhaseClosed,
ErrAlreadySubmitted, ErrAlreadyVoted, ErrValidation, ErrNotFound,
ErrStorage, ErrPublishConflict, ErrResultsSealed). ReasonCode maps an
error to the stable code returned in ErrorResponse.Reason.
*/
package models
