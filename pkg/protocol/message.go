// Package protocol defines the JSON messages exchanged with devices
// and viewers over websocket. Every message is an envelope carrying a
// type tag, a server timestamp and a type-specific payload.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"
)

// MessageType identifies the payload carried by a Message.
type MessageType string

// Inbound (device to server) message types.
const (
	TypeSensorData       MessageType = "sensor_data"
	TypeCalibrate        MessageType = "calibrate"
	TypeResetCalibration MessageType = "reset_calibration"
	TypePing             MessageType = "ping"
)

// Outbound (server to device or viewer) message types.
const (
	TypeConnected         MessageType = "connected"
	TypeStateUpdate       MessageType = "state_update"
	TypeCalibrationResult MessageType = "calibration_result"
	TypePong              MessageType = "pong"
	TypeError             MessageType = "error"
)

// Message is the wire envelope.
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp int64           `json:"ts"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// NewMessage builds an envelope around data, stamping the current time
// in milliseconds. A nil data leaves the payload empty.
func NewMessage(msgType MessageType, data interface{}) (Message, error) {
	msg := Message{
		Type:      msgType,
		Timestamp: time.Now().UnixMilli(),
	}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return Message{}, fmt.Errorf("encoding %s payload: %w", msgType, err)
		}
		msg.Data = raw
	}
	return msg, nil
}

// ParseMessage decodes an envelope from raw bytes.
func ParseMessage(raw []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return Message{}, fmt.Errorf("decoding message: %w", err)
	}
	if msg.Type == "" {
		return Message{}, fmt.Errorf("message has no type")
	}
	return msg, nil
}

// ParseData decodes the payload into out.
func (m Message) ParseData(out interface{}) error {
	if len(m.Data) == 0 {
		return fmt.Errorf("%s message has no payload", m.Type)
	}
	if err := json.Unmarshal(m.Data, out); err != nil {
		return fmt.Errorf("decoding %s payload: %w", m.Type, err)
	}
	return nil
}
