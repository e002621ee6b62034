// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"errors"
	"fmt"
)

var (
	ErrPhaseClosed      = errors.New("track is not open for submissions")
	ErrAlreadySubmitted = errors.New("scores already submitted for this entry")
	ErrAlreadyVoted     = errors.New("vote already cast in this track")
	ErrValidation       = errors.New("invalid input")
	ErrEntryInactive    = fmt.Errorf("%w: entry is not active", ErrValidation)
	ErrNotFound         = errors.New("not found")
	ErrStorage          = errors.New("storage failure")
	ErrPublishConflict  = errors.New("concurrent publish detected")
	ErrResultsSealed    = errors.New("results are hidden until the track is locked")
)

// Reason codes returned to callers alongside failures.
const (
	ReasonPhaseClosed      = "phase_closed"
	ReasonAlreadySubmitted = "already_submitted"
	ReasonAlreadyVoted     = "already_voted"
	ReasonValidation       = "validation_error"
	ReasonNotFound         = "not_found"
	ReasonStorage          = "storage_error"
	ReasonPublishConflict  = "publish_conflict"
	ReasonResultsSealed    = "results_sealed"
	ReasonInternal         = "internal_error"
)

// ReasonCode maps an engine error to its stable reason code.
func ReasonCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrPhaseClosed):
		return ReasonPhaseClosed
	case errors.Is(err, ErrAlreadySubmitted):
		return ReasonAlreadySubmitted
	case errors.Is(err, ErrAlreadyVoted):
		return ReasonAlreadyVoted
	case errors.Is(err, ErrValidation):
		return ReasonValidation
	case errors.Is(err, ErrNotFound):
		return ReasonNotFound
	case errors.Is(err, ErrPublishConflict):
		return ReasonPublishConflict
	case errors.Is(err, ErrResultsSealed):
		return ReasonResultsSealed
	case errors.Is(err, ErrStorage):
		return ReasonStorage
	}
	return ReasonInternal
}
