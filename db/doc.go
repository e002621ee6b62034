// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens database connections and creates the schema.

# Drivers

Open selects a database/sql driver by type:

  - postgres: github.com/lib/pq
  - pgx: github.com/jackc/pgx/v5/stdlib
  - sqlite: modernc.org/sqlite (default, also used by tests)

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - app_config: key/value settings, including the phase of each track
  - entry_class, entry, criterion, specialty_track: catalog (read-only here)
  - score_submission: one scorecard per (judge, entry)
  - score: criterion scores, keyed by (judge, entry, criterion)
  - specialty_vote: one vote per (track, voter)
  - publication: version and snapshot metadata per result kind
  - published_result: official placings per result kind

# Relationships

	entry_class 1──* entry
	entry 1──* score_submission 1──* score
	criterion 1──* score
	specialty_track 1──* specialty_vote *──1 entry
	publication 1──* published_result

The score_submission primary key is what guarantees a judge can submit
only one scorecard per entry, even under concurrent requests.
*/
package db
