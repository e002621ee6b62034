// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: database connection string (required)
  - DatabaseType: sqlite, postgres or pgx (default: sqlite)
  - AdminKeySalt: Secret for admin key HMAC (required)
  - ParticipantSalt: Secret for participant key HMAC (required)
  - EventName: names the event and its notification channel (default: quickly-judge)
  - RedisURL: enables cross-instance notifications when set
  - AllowedOrigins: CORS origins
  - SubscriberBuffer: per-subscriber notification buffer (default: 16)

# CLI Flags

	-p                 Server port
	-d                 Database URL
	-t                 Database type
	-redis             Redis URL
	-origins           Comma-separated CORS origins
	-event             Event name
	-buffer            Subscriber buffer
	-env               .env file to load (default: .env)
	-admin-salt        Admin key salt
	-participant-salt  Participant key salt

# Environment Variables

Flags fall back to environment variables, which may come from the .env file:

	PORT                 → -p
	DATABASE_URL         → -d
	DATABASE_TYPE        → -t
	REDIS_URL            → -redis
	ALLOWED_ORIGINS      → -origins
	EVENT_NAME           → -event
	SUBSCRIBER_BUFFER    → -buffer
	ADMIN_KEY_SALT       → -admin-salt
	PARTICIPANT_KEY_SALT → -participant-salt

CLI flags take precedence over environment variables, and variables already
set in the environment take precedence over the .env file.
*/
package cliparse
