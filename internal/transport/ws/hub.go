package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MsgResponseReceived MessageType = "response_received"
	MsgResponseCount    MessageType = "response_count"
	MsgSurveyClosed     MessageType = "survey_closed"
	MsgError            MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages the live results connections. Owners subscribe per survey;
// several tabs of the same owner may watch one survey at once.
type Hub struct {
	// surveyID -> open connections
	watchers map[string]map[*Connection]bool

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
}

// Connection represents one owner's WebSocket subscription to a survey
type Connection struct {
	SurveyID string
	UserID   string
	Send     chan []byte
	Hub      *Hub
}

// BroadcastMessage is a message for every watcher of one survey
type BroadcastMessage struct {
	SurveyID string
	Message  *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		watchers:   make(map[string]map[*Connection]bool),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.watchers[conn.SurveyID] == nil {
				h.watchers[conn.SurveyID] = make(map[*Connection]bool)
			}
			h.watchers[conn.SurveyID][conn] = true
			h.mu.Unlock()
			log.Printf("owner %s watching survey %s", conn.UserID, conn.SurveyID)

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.watchers[conn.SurveyID]; ok && conns[conn] {
				delete(conns, conn)
				close(conn.Send)
				if len(conns) == 0 {
					delete(h.watchers, conn.SurveyID)
				}
				log.Printf("owner %s stopped watching survey %s", conn.UserID, conn.SurveyID)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)
			for conn := range h.watchers[msg.SurveyID] {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// BroadcastToOwners sends a message to every watcher of the survey
// (implements service.Broadcaster)
func (h *Hub) BroadcastToOwners(surveyID string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		SurveyID: surveyID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}
