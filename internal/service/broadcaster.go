package service

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	BroadcastToOwners(surveyID string, msgType string, payload interface{})
}
