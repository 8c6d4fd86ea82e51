package protocol

// Typed constructors for the outbound and simulator-side messages, so
// callers never pair a type tag with the wrong payload.

func NewSensorDataMessage(data SensorData) (Message, error) {
	return NewMessage(TypeSensorData, data)
}

func NewCalibrateMessage(data CalibrateData) (Message, error) {
	return NewMessage(TypeCalibrate, data)
}

func NewConnectedMessage(streamID string) (Message, error) {
	return NewMessage(TypeConnected, Connected{StreamID: streamID})
}

func NewStateUpdateMessage(update StateUpdate) (Message, error) {
	return NewMessage(TypeStateUpdate, update)
}

func NewCalibrationResultMessage(success bool, message string) (Message, error) {
	return NewMessage(TypeCalibrationResult, CalibrationResult{Success: success, Message: message})
}

func NewPongMessage() (Message, error) {
	return NewMessage(TypePong, nil)
}

func NewErrorMessage(message string) (Message, error) {
	return NewMessage(TypeError, ErrorData{Message: message})
}
