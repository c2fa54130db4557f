package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quizbank-service/internal/app"
	"quizbank-service/internal/domain"
	"quizbank-service/internal/infra/memory"
	"github.com/gorilla/websocket"
)

func TestWebSocketQuizFlow(t *testing.T) {
	sessions := memory.NewSessionStore()
	snapshots := memory.NewSnapshotStore()
	banks := memory.NewBankRepository(memory.NewStaticBankLoader(sampleBanks()), time.Minute)
	service := app.NewQuizService(sessions, snapshots, banks)
	wsHandler := NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	server := httptest.NewServer(mux)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws?sessionId=s1&bankId=bank-1"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Initial state after attach.
	state := readNext(conn, t, "state")
	if state["phase"] != string(domain.PhaseMainMenu) {
		t.Fatalf("expected main menu, got %v", state["phase"])
	}

	writeMsg(conn, t, "selectNode", map[string]any{"nodeId": "a"})
	state = readNext(conn, t, "state")
	if state["phase"] != string(domain.PhaseConfigure) {
		t.Fatalf("expected configure, got %v", state["phase"])
	}

	writeMsg(conn, t, "setOptions", map[string]any{"questionLimit": 1})
	readNext(conn, t, "state")

	writeMsg(conn, t, "start", nil)
	state = readNext(conn, t, "state")
	if state["phase"] != string(domain.PhaseProgress) {
		t.Fatalf("expected progress, got %v", state["phase"])
	}

	writeMsg(conn, t, "answer", map[string]any{
		"finalAnswer": map[string]any{"kind": "selected", "answerId": "yes"},
	})
	readNext(conn, t, "state")

	writeMsg(conn, t, "next", nil)
	state = readNext(conn, t, "state")
	if state["phase"] != string(domain.PhaseEnded) {
		t.Fatalf("expected ended, got %v", state["phase"])
	}

	writeMsg(conn, t, "results", nil)
	results := readNext(conn, t, "results")
	if results["correct"] != float64(1) || results["total"] != float64(1) {
		t.Fatalf("expected 1/1, got %v", results)
	}
}

func TestWebSocketErrorsOnUnknownNode(t *testing.T) {
	sessions := memory.NewSessionStore()
	snapshots := memory.NewSnapshotStore()
	banks := memory.NewBankRepository(memory.NewStaticBankLoader(sampleBanks()), time.Minute)
	service := app.NewQuizService(sessions, snapshots, banks)
	wsHandler := NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	server := httptest.NewServer(mux)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws?sessionId=s2&bankId=bank-1"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	readNext(conn, t, "state")

	writeMsg(conn, t, "selectNode", map[string]any{"nodeId": "does-not-exist"})
	errPayload := readNext(conn, t, "error")
	if errPayload["message"] == "" {
		t.Fatalf("expected error message")
	}
}

func writeMsg(conn *websocket.Conn, t *testing.T, msgType string, payload map[string]any) {
	t.Helper()
	msg := map[string]any{"type": msgType}
	if payload != nil {
		msg["payload"] = payload
	}
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write %s: %v", msgType, err)
	}
}

func readNext(conn *websocket.Conn, t *testing.T, expect string) map[string]any {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s (%v)", expect, msg.Type, msg.Payload)
	}
	return msg.Payload
}

func sampleBanks() map[string]domain.QuestionBank {
	return map[string]domain.QuestionBank{
		"bank-1": {
			Children: []*domain.Node{
				{
					Name: "A",
					Questions: []domain.Question{
						{
							Text: "Is the sky blue?",
							Answers: []domain.Answer{
								{InternalID: "yes", Text: "Yes", Correct: true},
								{InternalID: "no", Text: "No"},
							},
						},
					},
				},
			},
		},
	}
}
