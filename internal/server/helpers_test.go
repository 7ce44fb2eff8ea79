// Package server_test contains unit and integration tests for the Signald
// relay. This file provides shared helpers for starting test servers, dialing
// WebSocket clients into rooms, and asserting on relayed messages.
package server_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/peerbeam/signald/internal/server"
)

const testOrigin = "http://localhost:8080"

// configureForTest applies a test-friendly configuration and restores the
// defaults when the test finishes.
func configureForTest(t *testing.T) {
	t.Helper()
	server.SetConfig(&server.Config{
		AllowedOrigins: []string{testOrigin},
		MaxMessageSize: 4096,
		RateLimit: server.RateLimitConfig{
			Burst:          1000,
			RefillInterval: time.Second,
		},
	})
	t.Cleanup(func() { server.SetConfig(nil) })
}

// startRelayServer starts an httptest server backed by a fresh registry.
func startRelayServer(t *testing.T) (*httptest.Server, *server.Registry) {
	t.Helper()
	configureForTest(t)

	registry := server.NewRegistry()
	ts := httptest.NewServer(server.SetupRoutes(registry))
	t.Cleanup(ts.Close)
	return ts, registry
}

// buildWebSocketURL converts the test server URL into a ws:// URL for the
// given room. An empty room omits the query parameter entirely.
func buildWebSocketURL(t *testing.T, serverURL, room string) string {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(serverURL, "http") + "/ws"
	if room != "" {
		wsURL += "?room=" + room
	}
	return wsURL
}

// dialRoom connects a WebSocket client into room and registers cleanup.
func dialRoom(t *testing.T, serverURL, room string) *websocket.Conn {
	t.Helper()

	header := http.Header{"Origin": []string{testOrigin}}
	conn, resp, err := websocket.DefaultDialer.Dial(buildWebSocketURL(t, serverURL, room), header)
	if err != nil {
		t.Fatalf("Failed to dial room %q: %v", room, err)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })

	// Give the server a moment to register the join before peers broadcast.
	time.Sleep(50 * time.Millisecond)
	return conn
}

// expectMessage fails the test unless conn receives exactly want within timeout.
func expectMessage(t *testing.T, conn *websocket.Conn, want string, timeout time.Duration) {
	t.Helper()

	if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		t.Fatalf("Failed to set read deadline: %v", err)
	}
	_, message, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Expected message %q but read failed: %v", want, err)
	}
	if string(message) != want {
		t.Errorf("Expected message %q, got %q", want, string(message))
	}
}

// expectNoMessage fails the test if conn receives anything within timeout.
func expectNoMessage(t *testing.T, conn *websocket.Conn, timeout time.Duration) {
	t.Helper()

	if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		t.Fatalf("Failed to set read deadline: %v", err)
	}
	_, message, err := conn.ReadMessage()
	if err == nil {
		t.Errorf("Expected no message, got %q", string(message))
	}
}

// sendText writes a text payload and fails the test on error.
func sendText(t *testing.T, conn *websocket.Conn, payload string) {
	t.Helper()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(payload)); err != nil {
		t.Fatalf("Failed to send %q: %v", payload, err)
	}
}
