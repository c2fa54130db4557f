package http

import (
	"encoding/json"
	"log"
	"net/http"

	"quizbank-service/internal/app"
	"quizbank-service/internal/domain"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type selectNodePayload struct {
	NodeID string `json:"nodeId"`
}

type answerPayload struct {
	QuestionIdx *int                `json:"questionIdx,omitempty"`
	FinalAnswer *domain.FinalAnswer `json:"finalAnswer"`
}

type resultsPayload struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and wires them into the quiz
// session state machine. One socket is one logical caller: transitions are
// applied in arrival order, and the post-transition state is echoed back
// after every operation.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	bankID := r.URL.Query().Get("bankId")
	if sessionID == "" || bankID == "" {
		http.Error(w, "missing sessionId or bankId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	snap, err := h.service.Attach(r.Context(), sessionID, bankID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer h.service.Detach(r.Context(), sessionID)

	send := make(chan outboundMessage[any], 16)
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "state", Payload: snap}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		h.dispatch(r, send, sessionID, inbound)
	}

	close(send)
	<-writerDone
}

func (h *WSHandler) dispatch(r *http.Request, send chan<- outboundMessage[any], sessionID string, inbound inboundMessage) {
	ctx := r.Context()

	var (
		snap domain.SessionSnapshot
		err  error
	)
	switch inbound.Type {
	case "selectNode":
		var payload selectNodePayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			send <- errorMessage("invalid selectNode payload")
			return
		}
		snap, err = h.service.SelectNode(ctx, sessionID, payload.NodeID)
	case "setOptions":
		var options domain.Options
		if err := json.Unmarshal(inbound.Payload, &options); err != nil {
			send <- errorMessage("invalid setOptions payload")
			return
		}
		snap, err = h.service.SetOptions(ctx, sessionID, options)
	case "resetOptions":
		snap, err = h.service.ResetOptions(ctx, sessionID)
	case "start":
		snap, err = h.service.Start(ctx, sessionID)
	case "answer":
		var payload answerPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			send <- errorMessage("invalid answer payload")
			return
		}
		snap, err = h.service.Answer(ctx, sessionID, payload.QuestionIdx, payload.FinalAnswer)
	case "next":
		snap, err = h.service.Next(ctx, sessionID)
	case "prev":
		snap, err = h.service.Prev(ctx, sessionID)
	case "restart":
		snap, err = h.service.Restart(ctx, sessionID)
	case "quit":
		snap, err = h.service.Quit(ctx, sessionID)
	case "results":
		correct, rerr := h.service.Results(ctx, sessionID)
		if rerr != nil {
			send <- errorMessage(rerr.Error())
			return
		}
		session, ok := h.service.Session(sessionID)
		if !ok {
			send <- errorMessage(domain.ErrSessionNotFound.Error())
			return
		}
		total := len(session.Snapshot().QuestionIDs)
		send <- outboundMessage[any]{Type: "results", Payload: resultsPayload{Correct: correct, Total: total}}
		return
	default:
		send <- errorMessage("unsupported message type")
		return
	}

	if err != nil {
		send <- errorMessage(err.Error())
		return
	}
	send <- outboundMessage[any]{Type: "state", Payload: snap}
}

func errorMessage(message string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: message}}
}
