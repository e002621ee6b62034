// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The DDL is accepted by both PostgreSQL and SQLite.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Application configuration (phase records live under phase.<track>)
CREATE TABLE IF NOT EXISTS app_config (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Catalog (written by the catalog service)
CREATE TABLE IF NOT EXISTS entry_class (
    id BIGINT PRIMARY KEY,
    name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS entry (
    id BIGINT PRIMARY KEY,
    name TEXT NOT NULL,
    class_id BIGINT REFERENCES entry_class(id) ON DELETE SET NULL,
    category_id BIGINT,
    active BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE INDEX IF NOT EXISTS idx_entry_class_id ON entry(class_id);

CREATE TABLE IF NOT EXISTS criterion (
    id BIGINT PRIMARY KEY,
    category_id BIGINT,
    name TEXT NOT NULL,
    min_score INTEGER NOT NULL DEFAULT 0,
    max_score INTEGER NOT NULL DEFAULT 10,
    CHECK (min_score <= max_score)
);

CREATE TABLE IF NOT EXISTS specialty_track (
    id BIGINT PRIMARY KEY,
    name TEXT NOT NULL
);

-- Scorecards: one per (judge, entry)
CREATE TABLE IF NOT EXISTS score_submission (
    submitter_id TEXT NOT NULL,
    entry_id BIGINT NOT NULL REFERENCES entry(id) ON DELETE CASCADE,
    submitted_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (submitter_id, entry_id)
);

CREATE INDEX IF NOT EXISTS idx_score_submission_entry_id ON score_submission(entry_id);

-- Scores
CREATE TABLE IF NOT EXISTS score (
    submitter_id TEXT NOT NULL,
    entry_id BIGINT NOT NULL,
    criterion_id BIGINT NOT NULL REFERENCES criterion(id) ON DELETE CASCADE,
    value INTEGER NOT NULL,
    PRIMARY KEY (submitter_id, entry_id, criterion_id),
    FOREIGN KEY (submitter_id, entry_id)
        REFERENCES score_submission(submitter_id, entry_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_score_entry_id ON score(entry_id);

-- Specialty votes: one per (track, voter)
CREATE TABLE IF NOT EXISTS specialty_vote (
    id TEXT PRIMARY KEY,
    track_id BIGINT NOT NULL REFERENCES specialty_track(id) ON DELETE CASCADE,
    entry_id BIGINT NOT NULL REFERENCES entry(id) ON DELETE CASCADE,
    voter_id TEXT NOT NULL,
    cast_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (track_id, voter_id)
);

CREATE INDEX IF NOT EXISTS idx_specialty_vote_track_id ON specialty_vote(track_id);

-- Publications: one row per result kind, version is bumped on every publish
CREATE TABLE IF NOT EXISTS publication (
    kind TEXT PRIMARY KEY CHECK (kind IN ('expert', 'specialty')),
    version BIGINT NOT NULL DEFAULT 0,
    snapshot_id TEXT,
    published_at TIMESTAMP
);

INSERT INTO publication (kind) VALUES ('expert'), ('specialty')
ON CONFLICT (kind) DO NOTHING;

-- Published results
CREATE TABLE IF NOT EXISTS published_result (
    kind TEXT NOT NULL REFERENCES publication(kind),
    group_id BIGINT NOT NULL,
    entry_id BIGINT NOT NULL,
    place INTEGER NOT NULL CHECK (place BETWEEN 1 AND 3),
    score INTEGER NOT NULL,
    PRIMARY KEY (kind, group_id, place)
);
`
