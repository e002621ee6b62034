// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/danielhkuo/quickly-judge/auth"
	"github.com/danielhkuo/quickly-judge/cliparse"
	"github.com/danielhkuo/quickly-judge/middleware"
)

// Identity headers set by the login service
const (
	HeaderParticipantID   = "X-Participant-ID"
	HeaderParticipantRole = "X-Participant-Role"
	HeaderParticipantKey  = "X-Participant-Key"
	HeaderAdminKey        = "X-Admin-Key"
)

// Participant is a caller whose identity headers have been verified
type Participant struct {
	ID   string
	Role string
}

// requireParticipant verifies the identity headers and writes a 401 when
// they are missing or forged. ok is false if a response was written.
func requireParticipant(w http.ResponseWriter, r *http.Request, cfg cliparse.Config) (p Participant, ok bool) {
	p = Participant{
		ID:   r.Header.Get(HeaderParticipantID),
		Role: r.Header.Get(HeaderParticipantRole),
	}
	key := r.Header.Get(HeaderParticipantKey)
	if p.ID == "" || key == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Participant headers required")
		return p, false
	}
	if err := auth.ValidateParticipantKey(p.ID, p.Role, key, cfg.ParticipantSalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid participant key")
		return p, false
	}
	return p, true
}

// requireAdmin checks the X-Admin-Key header against the event's key
func requireAdmin(w http.ResponseWriter, r *http.Request, cfg cliparse.Config) bool {
	adminKey := r.Header.Get(HeaderAdminKey)
	if err := auth.ValidateAdminKey(cfg.EventName, adminKey, cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return false
	}
	return true
}

// pathID parses a positive integer path value
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}
