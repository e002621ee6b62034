// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/danielhkuo/quickly-judge/auth"
	"github.com/danielhkuo/quickly-judge/cliparse"
	"github.com/danielhkuo/quickly-judge/db"
)

// TestDBURLEnv names the variable that points tests at a PostgreSQL
// database instead of a throwaway SQLite file.
const TestDBURLEnv = "TEST_DATABASE_URL"

// Request headers carrying the caller's identity
const (
	HeaderParticipantID   = "X-Participant-ID"
	HeaderParticipantRole = "X-Participant-Role"
	HeaderParticipantKey  = "X-Participant-Key"
	HeaderAdminKey        = "X-Admin-Key"
)

// SetupTestDB creates a fresh test database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	var (
		conn *sql.DB
		err  error
	)
	if url := os.Getenv(TestDBURLEnv); url != "" {
		conn, err = db.Open(db.TypePostgres, url)
		if err != nil {
			t.Fatalf("Failed to open test database: %v", err)
		}

		// Clean up tables before each test
		_, err = conn.Exec(`
			DROP TABLE IF EXISTS published_result CASCADE;
			DROP TABLE IF EXISTS publication CASCADE;
			DROP TABLE IF EXISTS specialty_vote CASCADE;
			DROP TABLE IF EXISTS score CASCADE;
			DROP TABLE IF EXISTS score_submission CASCADE;
			DROP TABLE IF EXISTS specialty_track CASCADE;
			DROP TABLE IF EXISTS criterion CASCADE;
			DROP TABLE IF EXISTS entry CASCADE;
			DROP TABLE IF EXISTS entry_class CASCADE;
			DROP TABLE IF EXISTS app_config CASCADE;
		`)
		if err != nil {
			t.Fatalf("Failed to clean database: %v", err)
		}
	} else {
		conn, err = db.Open(db.TypeSQLite, filepath.Join(t.TempDir(), "test.db"))
		if err != nil {
			t.Fatalf("Failed to open test database: %v", err)
		}
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:             3318,
		DatabaseType:     db.TypeSQLite,
		AdminKeySalt:     "test-admin-salt",
		ParticipantSalt:  "test-participant-salt",
		EventName:        "test-event",
		SubscriberBuffer: cliparse.DefaultSubscriberBuffer,
	}
}

// AddTestClass creates an entry class
func AddTestClass(t *testing.T, conn *sql.DB, classID int64, name string) {
	t.Helper()

	_, err := conn.Exec(`INSERT INTO entry_class (id, name) VALUES ($1, $2)`, classID, name)
	if err != nil {
		t.Fatalf("Failed to create test class: %v", err)
	}
}

// AddTestEntry creates an active entry. classID and categoryID may be nil.
func AddTestEntry(t *testing.T, conn *sql.DB, entryID int64, name string, classID, categoryID *int64) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO entry (id, name, class_id, category_id, active)
		VALUES ($1, $2, $3, $4, $5)
	`, entryID, name, classID, categoryID, true)
	if err != nil {
		t.Fatalf("Failed to create test entry: %v", err)
	}
}

// DeactivateTestEntry marks an entry inactive
func DeactivateTestEntry(t *testing.T, conn *sql.DB, entryID int64) {
	t.Helper()

	_, err := conn.Exec(`UPDATE entry SET active = $1 WHERE id = $2`, false, entryID)
	if err != nil {
		t.Fatalf("Failed to deactivate test entry: %v", err)
	}
}

// AddTestCriterion creates a criterion scored between minScore and maxScore.
// A nil categoryID makes it apply to every entry.
func AddTestCriterion(t *testing.T, conn *sql.DB, criterionID int64, categoryID *int64, minScore, maxScore int) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO criterion (id, category_id, name, min_score, max_score)
		VALUES ($1, $2, $3, $4, $5)
	`, criterionID, categoryID, "Criterion", minScore, maxScore)
	if err != nil {
		t.Fatalf("Failed to create test criterion: %v", err)
	}
}

// AddTestTrack creates a specialty track
func AddTestTrack(t *testing.T, conn *sql.DB, trackID int64, name string) {
	t.Helper()

	_, err := conn.Exec(`INSERT INTO specialty_track (id, name) VALUES ($1, $2)`, trackID, name)
	if err != nil {
		t.Fatalf("Failed to create test track: %v", err)
	}
}

// Int64 returns a pointer to v
func Int64(v int64) *int64 {
	return &v
}

// ParticipantHeaders returns signed identity headers for a participant
func ParticipantHeaders(cfg cliparse.Config, participantID, role string) map[string]string {
	return map[string]string{
		HeaderParticipantID:   participantID,
		HeaderParticipantRole: role,
		HeaderParticipantKey:  auth.GenerateParticipantKey(participantID, role, cfg.ParticipantSalt),
	}
}

// AdminHeaders returns headers carrying a valid admin key
func AdminHeaders(cfg cliparse.Config) map[string]string {
	return map[string]string{
		HeaderAdminKey: auth.GenerateAdminKey(cfg.EventName, cfg.AdminKeySalt),
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
