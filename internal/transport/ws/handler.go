package ws

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"surveyhub/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for dev
	},
}

// Handler handles the live results WebSocket endpoint
type Handler struct {
	hub          *Hub
	authSvc      *service.AuthService
	surveySvc    *service.SurveyService
	collectorSvc *service.CollectorService
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, authSvc *service.AuthService, surveySvc *service.SurveyService, collectorSvc *service.CollectorService) *Handler {
	return &Handler{
		hub:          hub,
		authSvc:      authSvc,
		surveySvc:    surveySvc,
		collectorSvc: collectorSvc,
	}
}

// ResultsWS handles GET /v1/ws/surveys/{surveyId}/results. The session
// token rides in the token query param since browsers cannot set headers
// on WebSocket upgrades; only the survey owner may subscribe.
func (h *Handler) ResultsWS(w http.ResponseWriter, r *http.Request) {
	surveyID := mux.Vars(r)["surveyId"]
	token := r.URL.Query().Get("token")

	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.authSvc.ValidateToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	// Ownership check rides on the same path the REST reads use
	if _, _, err := h.surveySvc.Get(r.Context(), claims.UserID, surveyID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			http.Error(w, "survey not found", http.StatusNotFound)
			return
		}
		http.Error(w, "not your survey", http.StatusForbidden)
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	conn := &Connection{
		SurveyID: surveyID,
		UserID:   claims.UserID,
		Send:     make(chan []byte, 256),
		Hub:      h.hub,
	}

	h.hub.Register(conn)
	h.sendCountSnapshot(r, conn)

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

// sendCountSnapshot queues the current response total so a fresh
// subscriber starts from the right number.
func (h *Handler) sendCountSnapshot(r *http.Request, conn *Connection) {
	count, err := h.collectorSvc.ResponseCount(r.Context(), conn.SurveyID)
	if err != nil {
		log.Printf("response count snapshot for %s: %v", conn.SurveyID, err)
		return
	}
	payload, _ := json.Marshal(map[string]interface{}{
		"surveyId": conn.SurveyID,
		"count":    count,
	})
	data, _ := json.Marshal(&Message{Type: MsgResponseCount, Payload: payload})
	select {
	case conn.Send <- data:
	default:
	}
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection) {
	defer func() {
		h.hub.Unregister(conn)
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, _, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
		// Incoming messages are ignored; the feed is one-way
	}
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := wsConn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
