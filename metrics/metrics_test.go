// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/quickly-judge/models"
)

func TestObserveSubmission(t *testing.T) {
	m := New()

	m.ObserveSubmission(models.TrackExpert, "accepted")
	m.ObserveSubmission(models.TrackExpert, "accepted")
	m.ObserveSubmission(models.TrackExpert, models.ReasonAlreadySubmitted)
	m.ObserveSubmission(models.TrackSpecialty, models.ReasonPhaseClosed)

	assert.Equal(t, 2.0, promtest.ToFloat64(m.submissions.WithLabelValues("expert", "accepted")))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.submissions.WithLabelValues("expert", "already_submitted")))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.submissions.WithLabelValues("specialty", "phase_closed")))
}

func TestObservePublish(t *testing.T) {
	m := New()

	m.ObservePublish(models.TrackExpert, 9, 1, 20*time.Millisecond)
	m.ObservePublish(models.TrackExpert, 6, 2, 30*time.Millisecond)

	assert.Equal(t, 2.0, promtest.ToFloat64(m.publishes.WithLabelValues("expert")))
	assert.Equal(t, 6.0, promtest.ToFloat64(m.publishedRows.WithLabelValues("expert")))
	assert.Equal(t, 1, promtest.CollectAndCount(m.publishAttempts))
}

func TestObservePhase(t *testing.T) {
	m := New()

	m.ObservePhase(models.TrackExpert, models.PhaseOpen)
	m.ObservePhase(models.TrackExpert, models.PhaseLocked)

	assert.Equal(t, 0.0, promtest.ToFloat64(m.phase.WithLabelValues("expert", "open")))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.phase.WithLabelValues("expert", "locked")))
	assert.Equal(t, 0.0, promtest.ToFloat64(m.phase.WithLabelValues("expert", "closed")))
}

func TestObserveBroadcast(t *testing.T) {
	m := New()

	m.ObserveBroadcast(models.RoleJudge, 3, 1)
	m.ObserveBroadcast(models.RoleJudge, 0, 0)

	assert.Equal(t, 3.0, promtest.ToFloat64(m.delivered.WithLabelValues("judge")))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.dropped.WithLabelValues("judge")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveSubmission(models.TrackExpert, "accepted")

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `quickly_judge_submissions_total{outcome="accepted",track="expert"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
