package ws

import (
	"time"

	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/pkg/cognitive"
)

// MessageType discriminates WebSocket messages.
type MessageType string

const (
	MessageAlertCreated MessageType = "alert.created"
	MessageAlertRead    MessageType = "alert.read"
	MessageAlertAction  MessageType = "alert.action"
)

// Message is the envelope for all WebSocket messages.
type Message struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      AlertData   `json:"data"`
}

// AlertData is the payload of every alert.* message.
type AlertData struct {
	Alert   cognitive.Alert `json:"alert"`
	ActorID string          `json:"actor_id,omitempty"`
}
