// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Judge API server.

Quickly Judge runs the judging side of a live competition: an expert track
where judges score entries against criteria, and specialty tracks where
attendees vote for a favourite. Operators open, close and lock each track,
publish official results, and connected clients hear about every change
over a WebSocket.

# Starting the Server

The server reads CLI flags, then a .env file, then the environment:

	DATABASE_URL=judge.db ADMIN_KEY_SALT=... PARTICIPANT_KEY_SALT=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..."

# Configuration

Required settings:

  - DATABASE_URL (-d): Database path or connection string
  - ADMIN_KEY_SALT (-admin-salt): Secret for the operator key HMAC
  - PARTICIPANT_KEY_SALT (-participant-salt): Secret shared with the login service

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite, postgres or pgx (default: sqlite)
  - EVENT_NAME (-event): Event the admin key is issued for
  - REDIS_URL (-redis): Enables cross-instance announcements
  - ALLOWED_ORIGINS (-origins): Comma separated CORS origins
  - SUBSCRIBER_BUFFER (-buffer): Per-client announcement buffer

# Architecture

  - engine: Phase store, submission guards, ranking and publishing
  - store: database/sql repository for scores, votes, phases and results
  - notify: In-process hub and redis relay for live announcements
  - handlers: HTTP request handlers
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - metrics: Prometheus collectors
  - models: Domain, request and response types
  - auth: Admin and participant key signing
  - db: Connection and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
