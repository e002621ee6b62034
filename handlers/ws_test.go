// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/danielhkuo/quickly-judge/auth"
	"github.com/danielhkuo/quickly-judge/models"
	"github.com/danielhkuo/quickly-judge/notify"
	"github.com/danielhkuo/quickly-judge/testutil"
)

func dialWS(t *testing.T, server *httptest.Server, params url.Values) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws?" + params.Encode()
	return websocket.DefaultDialer.Dial(wsURL, nil)
}

// waitForSubscribers polls until the hub has n subscribers for role
func waitForSubscribers(t *testing.T, hub *notify.Hub, role string, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.Count(role) != n {
		if time.Now().After(deadline) {
			t.Fatalf("Expected %d %s subscribers, got %d", n, role, hub.Count(role))
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestWSSubscribe_ReceivesRoleMessages(t *testing.T) {
	env := setupEnv(t)
	handler := NewWSHandler(env.hub, env.cfg)
	server := httptest.NewServer(http.HandlerFunc(handler.Subscribe))
	defer server.Close()

	params := url.Values{
		"role": {models.RoleJudge},
		"id":   {"judge-1"},
		"key":  {auth.GenerateParticipantKey("judge-1", models.RoleJudge, env.cfg.ParticipantSalt)},
	}
	conn, _, err := dialWS(t, server, params)
	if err != nil {
		t.Fatalf("Failed to dial: %v", err)
	}
	defer conn.Close()

	waitForSubscribers(t, env.hub, models.RoleJudge, 1)

	// Opening expert judging is announced to judges
	env.setPhase(t, models.TrackExpert, models.PhaseOpen)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg notify.Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("Failed to read message: %v", err)
	}
	if msg.Kind != notify.KindPhase || msg.Phase != models.PhaseOpen {
		t.Errorf("Expected phase open notification, got %+v", msg)
	}
	if msg.Text != "Expert judging is now open" {
		t.Errorf("Unexpected text %q", msg.Text)
	}

	// Disconnecting unregisters the subscriber
	conn.Close()
	waitForSubscribers(t, env.hub, models.RoleJudge, 0)
}

func TestWSSubscribe_Admin(t *testing.T) {
	env := setupEnv(t)
	handler := NewWSHandler(env.hub, env.cfg)
	server := httptest.NewServer(http.HandlerFunc(handler.Subscribe))
	defer server.Close()

	params := url.Values{
		"role": {models.RoleAdmin},
		"key":  {testutil.AdminHeaders(env.cfg)[testutil.HeaderAdminKey]},
	}
	conn, _, err := dialWS(t, server, params)
	if err != nil {
		t.Fatalf("Failed to dial: %v", err)
	}
	defer conn.Close()

	waitForSubscribers(t, env.hub, models.RoleAdmin, 1)
	if n := env.hub.Broadcast(context.Background(), models.RoleAll, notify.Message{Kind: notify.KindPhase, Text: "hello"}); n != 1 {
		t.Errorf("Expected 1 delivery, got %d", n)
	}
}

func TestWSSubscribe_Rejected(t *testing.T) {
	env := setupEnv(t)
	handler := NewWSHandler(env.hub, env.cfg)
	server := httptest.NewServer(http.HandlerFunc(handler.Subscribe))
	defer server.Close()

	tests := []struct {
		name           string
		params         url.Values
		expectedStatus int
	}{
		{
			name:           "unknown role",
			params:         url.Values{"role": {"spectator"}, "id": {"x"}, "key": {"x"}},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "reserved broadcast role",
			params:         url.Values{"role": {models.RoleAll}},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad participant key",
			params:         url.Values{"role": {models.RoleJudge}, "id": {"judge-1"}, "key": {"forged"}},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "key issued for another role",
			params: url.Values{
				"role": {models.RoleJudge},
				"id":   {"guest-1"},
				"key":  {auth.GenerateParticipantKey("guest-1", models.RoleAttendee, env.cfg.ParticipantSalt)},
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "admin without key",
			params:         url.Values{"role": {models.RoleAdmin}},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, resp, err := dialWS(t, server, tt.params)
			if err == nil {
				t.Fatal("Expected dial to fail")
			}
			if resp == nil {
				t.Fatalf("Expected an HTTP response, got error %v", err)
			}
			if resp.StatusCode != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, resp.StatusCode)
			}
		})
	}

	if n := env.hub.Count(models.RoleAll); n != 0 {
		t.Errorf("Expected no subscribers, got %d", n)
	}
}

func TestWSCheckOrigin(t *testing.T) {
	cfg := testutil.GetTestConfig()
	cfg.AllowedOrigins = []string{"https://judging.example.com"}
	handler := NewWSHandler(notify.NewHub(1, nil), cfg)

	tests := []struct {
		origin string
		want   bool
	}{
		{"", true},
		{"https://judging.example.com", true},
		{"https://evil.example.com", false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest("GET", "/ws", nil)
		if tt.origin != "" {
			req.Header.Set("Origin", tt.origin)
		}
		if got := handler.checkOrigin(req); got != tt.want {
			t.Errorf("checkOrigin(%q) = %v, want %v", tt.origin, got, tt.want)
		}
	}
}
