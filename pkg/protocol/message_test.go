package protocol

import (
	"encoding/json"
	"testing"
)

func TestNewMessageRoundTrip(t *testing.T) {
	msg, err := NewMessage(TypeSensorData, SensorData{Alpha: 90, Beta: 10, Gamma: 5, Timestamp: 1000})
	if err != nil {
		t.Fatal(err)
	}
	if msg.Timestamp == 0 {
		t.Error("expected timestamp to be stamped")
	}

	raw, err := json.Marshal(msg)
	if err != nil {
		t.Fatal(err)
	}

	parsed, err := ParseMessage(raw)
	if err != nil {
		t.Fatal(err)
	}
	if parsed.Type != TypeSensorData {
		t.Errorf("type = %q", parsed.Type)
	}

	var data SensorData
	if err := parsed.ParseData(&data); err != nil {
		t.Fatal(err)
	}
	if data.Alpha != 90 || data.Timestamp != 1000 {
		t.Errorf("payload = %+v", data)
	}
}

func TestParseMessage_Rejects(t *testing.T) {
	if _, err := ParseMessage([]byte("not json")); err == nil {
		t.Error("expected error for malformed JSON")
	}
	if _, err := ParseMessage([]byte(`{"ts": 1}`)); err == nil {
		t.Error("expected error for missing type")
	}
}

func TestParseData_EmptyPayload(t *testing.T) {
	msg, err := NewMessage(TypePing, nil)
	if err != nil {
		t.Fatal(err)
	}
	var data SensorData
	if err := msg.ParseData(&data); err == nil {
		t.Error("expected error for empty payload")
	}
}

func TestTypedConstructors(t *testing.T) {
	cases := []struct {
		build func() (Message, error)
		want  MessageType
	}{
		{func() (Message, error) { return NewSensorDataMessage(SensorData{Alpha: 1}) }, TypeSensorData},
		{func() (Message, error) { return NewCalibrateMessage(CalibrateData{}) }, TypeCalibrate},
		{func() (Message, error) { return NewConnectedMessage("s1") }, TypeConnected},
		{func() (Message, error) { return NewStateUpdateMessage(StateUpdate{}) }, TypeStateUpdate},
		{func() (Message, error) { return NewCalibrationResultMessage(true, "") }, TypeCalibrationResult},
		{func() (Message, error) { return NewPongMessage() }, TypePong},
		{func() (Message, error) { return NewErrorMessage("bad") }, TypeError},
	}
	for _, c := range cases {
		msg, err := c.build()
		if err != nil {
			t.Fatalf("%s constructor: %v", c.want, err)
		}
		if msg.Type != c.want {
			t.Errorf("type = %q, want %q", msg.Type, c.want)
		}
	}

	msg, err := NewConnectedMessage("s1")
	if err != nil {
		t.Fatal(err)
	}
	var data Connected
	if err := msg.ParseData(&data); err != nil {
		t.Fatal(err)
	}
	if data.StreamID != "s1" {
		t.Errorf("stream_id = %q", data.StreamID)
	}
}

func TestStateUpdate_OmitsMissedIntersection(t *testing.T) {
	raw, err := json.Marshal(StateUpdate{StreamID: "s1", Pointer: Pointer{Direction: Point{Y: 1}}})
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatal(err)
	}
	pointer := decoded["pointer"].(map[string]interface{})
	if _, ok := pointer["intersection"]; ok {
		t.Error("intersection should be omitted on a miss")
	}
}
