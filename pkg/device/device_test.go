package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venuelab/gyrobeam/pkg/engine"
	"github.com/venuelab/gyrobeam/pkg/fixture"
	"github.com/venuelab/gyrobeam/pkg/protocol"
	"github.com/venuelab/gyrobeam/pkg/venue"
)

type fakeConn struct {
	sent []protocol.Message
}

func (f *fakeConn) WriteJSON(v interface{}) error {
	f.sent = append(f.sent, v.(protocol.Message))
	return nil
}

func (f *fakeConn) last(t *testing.T) protocol.Message {
	t.Helper()
	require.NotEmpty(t, f.sent)
	return f.sent[len(f.sent)-1]
}

func newHub(onFrame FrameFunc) *Hub {
	eng := engine.New(venue.Default(), fixture.NewRegistry(), 0)
	return NewHub(eng, onFrame)
}

func mustMessage(t *testing.T, msgType protocol.MessageType, data interface{}) protocol.Message {
	t.Helper()
	msg, err := protocol.NewMessage(msgType, data)
	require.NoError(t, err)
	return msg
}

func TestDispatch_SensorDataEmitsFrame(t *testing.T) {
	var frames []engine.Frame
	h := newHub(func(f engine.Frame) { frames = append(frames, f) })
	conn := &fakeConn{}

	msg := mustMessage(t, protocol.TypeSensorData, protocol.SensorData{Alpha: 0, Timestamp: 1000})
	h.dispatch(conn, "s1", msg)

	require.Len(t, frames, 1)
	assert.Equal(t, "s1", frames[0].StreamID)
	require.NotNil(t, frames[0].Hit)
	assert.Equal(t, int64(1), h.Stats().Samples)
}

func TestDispatch_InvalidSampleRejected(t *testing.T) {
	h := newHub(nil)
	conn := &fakeConn{}

	msg := mustMessage(t, protocol.TypeSensorData, protocol.SensorData{Alpha: 999, Timestamp: 1000})
	h.dispatch(conn, "s1", msg)

	assert.Equal(t, protocol.TypeError, conn.last(t).Type)
	assert.Equal(t, int64(1), h.Stats().Dropped)
	assert.Equal(t, int64(0), h.Stats().Samples)
}

func TestDispatch_CalibrateFlow(t *testing.T) {
	h := newHub(nil)
	conn := &fakeConn{}

	msg := mustMessage(t, protocol.TypeCalibrate, protocol.CalibrateData{Alpha: 200, Beta: 0, Gamma: 0})
	h.dispatch(conn, "s1", msg)

	reply := conn.last(t)
	assert.Equal(t, protocol.TypeCalibrationResult, reply.Type)
	var result protocol.CalibrationResult
	require.NoError(t, reply.ParseData(&result))
	assert.True(t, result.Success)
	assert.True(t, h.engine.IsCalibrated())

	h.dispatch(conn, "s1", mustMessage(t, protocol.TypeResetCalibration, nil))
	assert.False(t, h.engine.IsCalibrated())
}

func TestDispatch_Ping(t *testing.T) {
	h := newHub(nil)
	conn := &fakeConn{}

	h.dispatch(conn, "s1", mustMessage(t, protocol.TypePing, nil))
	assert.Equal(t, protocol.TypePong, conn.last(t).Type)
}

func TestDispatch_UnknownTypeCounted(t *testing.T) {
	h := newHub(nil)
	conn := &fakeConn{}

	h.dispatch(conn, "s1", protocol.Message{Type: "mystery"})
	assert.Empty(t, conn.sent)
	assert.Equal(t, int64(1), h.Stats().Dropped)
}
