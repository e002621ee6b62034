// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"
)

var (
	ErrInvalidAdminKey       = errors.New("invalid admin key")
	ErrInvalidParticipantKey = errors.New("invalid participant key")
)

// sign returns the URL-safe, unpadded HMAC-SHA256 of parts joined by NUL.
func sign(salt string, parts ...string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(strings.Join(parts, "\x00")))
	sum := h.Sum(nil)
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// GenerateAdminKey creates the operator key for an event.
// This is deterministic and verifiable
func GenerateAdminKey(eventName, salt string) string {
	return sign(salt, "admin", eventName)
}

// ValidateAdminKey checks if the provided admin key is valid for the event
func ValidateAdminKey(eventName, adminKey, salt string) error {
	expected := GenerateAdminKey(eventName, salt)
	if !hmac.Equal([]byte(adminKey), []byte(expected)) {
		return ErrInvalidAdminKey
	}
	return nil
}

// GenerateParticipantKey creates the key the login service hands to a
// participant. It binds the participant id to the role it was issued for.
func GenerateParticipantKey(participantID, role, salt string) string {
	return sign(salt, "participant", participantID, role)
}

// ValidateParticipantKey checks a participant's key against their id and role
func ValidateParticipantKey(participantID, role, key, salt string) error {
	if participantID == "" || role == "" {
		return ErrInvalidParticipantKey
	}
	expected := GenerateParticipantKey(participantID, role, salt)
	if !hmac.Equal([]byte(key), []byte(expected)) {
		return ErrInvalidParticipantKey
	}
	return nil
}
