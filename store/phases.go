// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-judge/models"
)

const phaseKeyPrefix = "phase."

func phaseKey(track models.Track) string {
	return phaseKeyPrefix + string(track)
}

// LoadPhases returns every persisted phase record. Records for unknown
// tracks or phases are skipped with a warning.
func (s *Store) LoadPhases(ctx context.Context) ([]models.PhaseState, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT key, value, updated_at
		FROM app_config
		WHERE key LIKE 'phase.%'
		ORDER BY key
	`)
	if err != nil {
		return nil, s.fail("load phases", err)
	}
	defer rows.Close()

	states := []models.PhaseState{}
	for rows.Next() {
		var (
			key, value string
			changedAt  time.Time
		)
		if err := rows.Scan(&key, &value, &changedAt); err != nil {
			return nil, s.fail("scan phase", err)
		}

		track, err := models.ParseTrack(strings.TrimPrefix(key, phaseKeyPrefix))
		if err != nil {
			s.logger.Warn("ignoring unknown phase record", "key", key)
			continue
		}
		phase, err := models.ParsePhase(value)
		if err != nil {
			s.logger.Warn("ignoring invalid phase value", "key", key, "value", value)
			continue
		}
		states = append(states, models.PhaseState{Track: track, Phase: phase, ChangedAt: changedAt})
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail("load phases", err)
	}
	return states, nil
}

func (s *Store) SavePhase(ctx context.Context, state models.PhaseState) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO app_config (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE
		SET value = excluded.value, updated_at = excluded.updated_at
	`, phaseKey(state.Track), string(state.Phase), state.ChangedAt)
	if err != nil {
		return s.fail("save phase", err, "track", state.Track, "phase", state.Phase)
	}
	return nil
}
