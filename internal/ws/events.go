package ws

import (
	"encoding/json"
	"time"

	"github.com/gofiber/websocket/v2"
)

type EventType string

const (
	EventLocaleSet     EventType = "locale.set"
	EventImageRendered EventType = "image.rendered"
	EventRenderFailed  EventType = "render.failed"
)

type Event struct {
	Type      EventType `json:"type"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// Message is one outbound frame
type Message struct {
	Type int
	Data []byte
}

// TextEvent encodes an event as a JSON text frame
func TextEvent(eventType EventType, data any) Message {
	payload, err := json.Marshal(Event{Type: eventType, Data: data, Timestamp: time.Now().UTC()})
	if err != nil {
		payload, _ = json.Marshal(Event{Type: EventRenderFailed, Data: map[string]string{"message": err.Error()}, Timestamp: time.Now().UTC()})
	}
	return Message{Type: websocket.TextMessage, Data: payload}
}

// Binary wraps raw bytes in a binary frame
func Binary(data []byte) Message {
	return Message{Type: websocket.BinaryMessage, Data: data}
}
