// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth verifies the keys that accompany requests.

# Admin Keys

Admin keys use HMAC-SHA256 to create deterministic, verifiable keys:

	adminKey := auth.GenerateAdminKey(eventName, salt)
	err := auth.ValidateAdminKey(eventName, adminKey, salt)

The key is URL-safe base64 encoded without padding. Since it's deterministic,
the same event name and salt always produce the same key. This allows
validation without storing the key in the database.

# Participant Keys

Judges and attendees are identified by the login service, which issues a key
bound to the participant id and role:

	key := auth.GenerateParticipantKey(participantID, role, salt)
	err := auth.ValidateParticipantKey(participantID, role, key, salt)

A key issued for one role does not validate for another.
*/
package auth
