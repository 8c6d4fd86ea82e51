package protocol

// Point mirrors a 3D position for wire encoding.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// SensorData carries one device orientation reading. Timestamp is the
// device's event time in milliseconds.
type SensorData struct {
	Alpha     float64 `json:"alpha"`
	Beta      float64 `json:"beta"`
	Gamma     float64 `json:"gamma"`
	Timestamp float64 `json:"timestamp"`
}

// CalibrateData is the reading captured while the device points at the
// reference target.
type CalibrateData struct {
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
	Gamma float64 `json:"gamma"`
}

// CalibrationResult reports the outcome of a calibrate or reset request.
type CalibrationResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Connected is sent once when a device stream is accepted.
type Connected struct {
	StreamID string `json:"stream_id"`
}

// Pointer is the computed ray and its venue intersection, if any.
type Pointer struct {
	Direction    Point  `json:"direction"`
	Intersection *Point `json:"intersection,omitempty"`
}

// FixtureAim is one fixture's pan/tilt for the current target.
type FixtureAim struct {
	FixtureID string  `json:"fixture_id"`
	Pan       float64 `json:"pan"`
	Tilt      float64 `json:"tilt"`
}

// StateUpdate is the per-frame broadcast to viewers.
type StateUpdate struct {
	StreamID   string       `json:"stream_id"`
	Sensor     SensorData   `json:"sensor"`
	Pointer    Pointer      `json:"pointer"`
	Fixtures   []FixtureAim `json:"fixtures"`
	Calibrated bool         `json:"calibrated"`
}

// ErrorData carries a rejection back to the sender.
type ErrorData struct {
	Message string `json:"message"`
}
