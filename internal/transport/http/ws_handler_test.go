package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"hotspot-quiz-service/internal/app"
	"hotspot-quiz-service/internal/domain"

	"github.com/gorilla/websocket"
)

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func dialQuiz(t *testing.T, serverURL string) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(serverURL, "http") + "/quiz/fortress/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	found := false
	for _, c := range resp.Cookies() {
		if c.Name == sessionCookieName {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected session cookie on upgrade")
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil skips messages until one of the wanted type arrives.
func readUntil(t *testing.T, conn *websocket.Conn, want string) wsMessage {
	t.Helper()
	for i := 0; i < 10; i++ {
		var msg wsMessage
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read %s: %v", want, err)
		}
		if msg.Type == want {
			return msg
		}
	}
	t.Fatalf("no %s message received", want)
	return wsMessage{}
}

func TestWebSocketClickFlow(t *testing.T) {
	server := newTestServer(t)
	conn := dialQuiz(t, server.URL)

	var view domain.View
	if err := json.Unmarshal(readUntil(t, conn, "view").Payload, &view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if view.Phase != domain.PhasePrompting || view.CurrentItem == nil || view.CurrentItem.ID != 1 {
		t.Fatalf("expected prompt for item 1, got %+v", view)
	}

	if err := conn.WriteJSON(map[string]any{"type": "click", "payload": map[string]any{"id": 1}}); err != nil {
		t.Fatalf("write click: %v", err)
	}
	var result clickResult
	if err := json.Unmarshal(readUntil(t, conn, "clickResult").Payload, &result); err != nil {
		t.Fatalf("decode click result: %v", err)
	}
	if result.Outcome != app.OutcomeCorrect || result.View.Phase != domain.PhaseFeedbackCorrect {
		t.Fatalf("expected correct feedback, got %+v", result)
	}
	if len(result.View.SolvedIDs) != 1 || result.View.SolvedIDs[0] != 1 {
		t.Fatalf("expected item 1 solved, got %v", result.View.SolvedIDs)
	}

	if err := conn.WriteJSON(map[string]any{"type": "reset"}); err != nil {
		t.Fatalf("write reset: %v", err)
	}
	// stale feedback views may still be queued ahead of the reset
	for i := 0; i < 5; i++ {
		view = domain.View{}
		if err := json.Unmarshal(readUntil(t, conn, "view").Payload, &view); err != nil {
			t.Fatalf("decode view: %v", err)
		}
		if view.Phase == domain.PhasePrompting {
			break
		}
	}
	if view.Phase != domain.PhasePrompting || len(view.SolvedIDs) != 0 {
		t.Fatalf("expected fresh round after reset, got %+v", view)
	}
}

func TestWebSocketRejectsUnknownMessages(t *testing.T) {
	server := newTestServer(t)
	conn := dialQuiz(t, server.URL)
	readUntil(t, conn, "view")

	if err := conn.WriteJSON(map[string]any{"type": "answer"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var payload errorPayload
	if err := json.Unmarshal(readUntil(t, conn, "error").Payload, &payload); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if payload.Message != "unsupported message type" {
		t.Fatalf("unexpected error %q", payload.Message)
	}
}

func TestWebSocketUnknownCatalog(t *testing.T) {
	server := newTestServer(t)
	u := "ws" + strings.TrimPrefix(server.URL, "http") + "/quiz/atlantis/ws"
	_, resp, err := websocket.DefaultDialer.Dial(u, nil)
	if err == nil {
		t.Fatalf("expected dial to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 response, got %+v", resp)
	}
}
