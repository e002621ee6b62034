// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/quickly-judge/cliparse"
	"github.com/danielhkuo/quickly-judge/engine"
	"github.com/danielhkuo/quickly-judge/models"
	"github.com/danielhkuo/quickly-judge/notify"
	"github.com/danielhkuo/quickly-judge/store"
	"github.com/danielhkuo/quickly-judge/testutil"
)

// Seeded catalog:
//
//	class 1: entries 1, 2, 3 (entry 3 is in category 9)
//	class 2: entry 4
//	criterion 100: 0-50 for every entry, criterion 101: 1-5 for category 9
//	specialty track 7
const (
	critGeneral  = "100"
	critCategory = "101"
	trackBest    = "7"
)

type testEnv struct {
	db     *sql.DB
	cfg    cliparse.Config
	hub    *notify.Hub
	phases *engine.Phases
	engine *engine.Engine
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	conn := testutil.SetupTestDB(t)
	testutil.AddTestClass(t, conn, 1, "Pro")
	testutil.AddTestClass(t, conn, 2, "Amateur")
	testutil.AddTestEntry(t, conn, 1, "Blue Kiln", testutil.Int64(1), nil)
	testutil.AddTestEntry(t, conn, 2, "Red Kiln", testutil.Int64(1), nil)
	testutil.AddTestEntry(t, conn, 3, "Green Kiln", testutil.Int64(1), testutil.Int64(9))
	testutil.AddTestEntry(t, conn, 4, "Smoke Shack", testutil.Int64(2), nil)
	testutil.AddTestCriterion(t, conn, 100, nil, 0, 50)
	testutil.AddTestCriterion(t, conn, 101, testutil.Int64(9), 1, 5)
	testutil.AddTestTrack(t, conn, 7, "Best in Show")

	st := store.New(conn, nil)
	hub := notify.NewHub(16, nil)
	phases, err := engine.NewPhases(context.Background(), st, hub, nil)
	if err != nil {
		t.Fatalf("Failed to load phases: %v", err)
	}
	eng, err := engine.New(engine.Config{Repo: st, Phases: phases, Notifier: hub})
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	return &testEnv{db: conn, cfg: testutil.GetTestConfig(), hub: hub, phases: phases, engine: eng}
}

func (e *testEnv) setPhase(t *testing.T, track models.Track, phase models.Phase) {
	t.Helper()
	if err := e.phases.SetPhase(context.Background(), track, phase); err != nil {
		t.Fatalf("Failed to set phase: %v", err)
	}
}

// serve runs a single request through h with the given path values set
func serve(h http.HandlerFunc, req *http.Request, pathValues map[string]string) *httptest.ResponseRecorder {
	for k, v := range pathValues {
		req.SetPathValue(k, v)
	}
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func judgeHeaders(cfg cliparse.Config, id string) map[string]string {
	return testutil.ParticipantHeaders(cfg, id, models.RoleJudge)
}

func assertReason(t *testing.T, w *httptest.ResponseRecorder, reason string) {
	t.Helper()
	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Reason != reason {
		t.Errorf("Expected reason %q, got %q (%s)", reason, resp.Reason, resp.Message)
	}
}
