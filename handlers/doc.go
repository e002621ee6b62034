// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Judge API.

# Handler Types

Each handler is a struct holding its engine dependency and the Config:

  - PhaseHandler: Track phase status and operator phase changes
  - ScoringHandler: Judge scorecards and judging progress
  - VotingHandler: Specialty track votes
  - ResultsHandler: Live standings, publishing and published results
  - AdminHandler: Score overrides and vote moderation
  - WSHandler: Live announcements over WebSocket

Handlers are created via constructor functions:

	scoringHandler := handlers.NewScoringHandler(eng, cfg)

Engine failures are rendered with middleware.EngineError, which maps each
reason code to an HTTP status.

# Identity

Participants are signed in by an external login service, which forwards
three headers:

	X-Participant-ID, X-Participant-Role, X-Participant-Key

The key is an HMAC over the id and role (see auth.GenerateParticipantKey).
Operator routes require X-Admin-Key instead.

# Phases

Each track is closed, open or locked. Any transition is allowed:

	GET /phases              → ListPhases
	GET /phases/{track}      → GetPhase
	PUT /phases/{track}      → SetPhase (admin)

# Submissions

	POST /entries/{id}/scores     → SubmitScores (judges, once per entry)
	GET  /entries/{id}/my-scores  → GetMyScores
	GET  /judges/me/progress      → GetProgress
	POST /specialty/{track}/votes → CastVote (once per track)

# Results

	GET  /standings/expert/{group}    → GetExpertStandings (admin)
	GET  /standings/specialty/{track} → GetSpecialtyStandings (admin)
	POST /publish/{kind}              → Publish (admin)
	GET  /results/{kind}              → GetResults (403 until locked)
	GET  /admin/results/{kind}        → GetAdminResults (admin)

# Live Announcements

	GET /ws?role=judge&id=...&key=...

Browsers cannot set headers on a WebSocket handshake, so credentials may
be passed as query parameters. Admin clients pass the admin key as key.
Delivery is best-effort; nothing is replayed after a reconnect.
*/
package handlers
