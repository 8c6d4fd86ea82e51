// Package device accepts orientation streams from handheld devices
// over websocket, feeds them through the engine and emits computed
// frames through a callback.
package device

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/venuelab/gyrobeam/internal/log"
	"github.com/venuelab/gyrobeam/pkg/engine"
	"github.com/venuelab/gyrobeam/pkg/protocol"
	"github.com/venuelab/gyrobeam/pkg/sensor"
)

// FrameFunc receives every frame computed from an accepted sample.
type FrameFunc func(engine.Frame)

// Info is a point-in-time snapshot of ingest activity. LastSeen is
// zero until the first accepted sample.
type Info struct {
	Connected int   `json:"connected"`
	Samples   int64 `json:"samples"`
	Dropped   int64 `json:"dropped"`
	LastSeen  int64 `json:"last_seen,omitempty"`
}

// Hub terminates device websocket connections. One goroutine per
// connection; all cross-connection state lives in the engine.
type Hub struct {
	engine  *engine.Engine
	onFrame FrameFunc

	mu        sync.Mutex
	connected int
	samples   atomic.Int64
	dropped   atomic.Int64
	lastSeen  atomic.Int64
}

// NewHub wires a hub to the engine. onFrame may be nil.
func NewHub(eng *engine.Engine, onFrame FrameFunc) *Hub {
	return &Hub{engine: eng, onFrame: onFrame}
}

// RegisterRoutes mounts the device websocket endpoints on app.
func (h *Hub) RegisterRoutes(app *fiber.App) {
	upgrade := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	app.Use("/ws/device", upgrade)
	app.Get("/ws/device", websocket.New(h.handleDevice))
	app.Get("/ws/device/:id", websocket.New(h.handleDevice))
}

// Stats reports current ingest counters.
func (h *Hub) Stats() Info {
	h.mu.Lock()
	connected := h.connected
	h.mu.Unlock()
	return Info{
		Connected: connected,
		Samples:   h.samples.Load(),
		Dropped:   h.dropped.Load(),
		LastSeen:  h.lastSeen.Load(),
	}
}

func (h *Hub) handleDevice(conn *websocket.Conn) {
	streamID := conn.Params("id")
	if streamID == "" {
		streamID = uuid.New().String()
	}

	h.mu.Lock()
	h.connected++
	h.mu.Unlock()

	log.Info("device connected", "stream", streamID)
	defer func() {
		h.engine.DropStream(streamID)
		h.mu.Lock()
		h.connected--
		h.mu.Unlock()
		log.Info("device disconnected", "stream", streamID)
		conn.Close()
	}()

	h.send(conn, protocol.TypeConnected, protocol.Connected{StreamID: streamID})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		msg, err := protocol.ParseMessage(raw)
		if err != nil {
			h.dropped.Add(1)
			log.Debug("unparseable device message", "stream", streamID, "error", err)
			continue
		}
		h.dispatch(conn, streamID, msg)
	}
}

// sender is the slice of the websocket connection dispatch needs.
type sender interface {
	WriteJSON(v interface{}) error
}

func (h *Hub) dispatch(conn sender, streamID string, msg protocol.Message) {
	switch msg.Type {
	case protocol.TypeSensorData:
		var data protocol.SensorData
		if err := msg.ParseData(&data); err != nil {
			h.dropped.Add(1)
			return
		}
		sample := sensor.Sample{
			Alpha:     data.Alpha,
			Beta:      data.Beta,
			Gamma:     data.Gamma,
			Timestamp: data.Timestamp,
		}
		if err := h.engine.OnSample(streamID, sample); err != nil {
			h.dropped.Add(1)
			h.send(conn, protocol.TypeError, protocol.ErrorData{Message: err.Error()})
			return
		}
		h.samples.Add(1)
		h.lastSeen.Store(time.Now().UnixMilli())
		h.emitFrame(streamID)

	case protocol.TypeCalibrate:
		var data protocol.CalibrateData
		if err := msg.ParseData(&data); err != nil {
			h.send(conn, protocol.TypeCalibrationResult, protocol.CalibrationResult{
				Success: false, Message: err.Error(),
			})
			return
		}
		sample := sensor.Sample{
			Alpha:     data.Alpha,
			Beta:      data.Beta,
			Gamma:     data.Gamma,
			Timestamp: nowMillis(),
		}
		result := protocol.CalibrationResult{Success: true}
		if err := h.engine.OnCalibrate(streamID, sample); err != nil {
			result = protocol.CalibrationResult{Success: false, Message: err.Error()}
		}
		h.send(conn, protocol.TypeCalibrationResult, result)
		h.emitFrame(streamID)

	case protocol.TypeResetCalibration:
		h.engine.OnResetCalibration()
		h.send(conn, protocol.TypeCalibrationResult, protocol.CalibrationResult{Success: true})
		h.emitFrame(streamID)

	case protocol.TypePing:
		h.send(conn, protocol.TypePong, nil)

	default:
		h.dropped.Add(1)
		log.Debug("unknown message type", "stream", streamID, "type", msg.Type)
	}
}

// emitFrame recomputes the stream's frame at the current time and
// hands it to the callback.
func (h *Hub) emitFrame(streamID string) {
	if h.onFrame == nil {
		return
	}
	frame, ok := h.engine.ComputeFrame(streamID, nowMillis())
	if !ok {
		return
	}
	h.onFrame(frame)
}

func (h *Hub) send(conn sender, msgType protocol.MessageType, data interface{}) {
	msg, err := protocol.NewMessage(msgType, data)
	if err != nil {
		log.Error("encoding outbound message", "type", msgType, "error", err)
		return
	}
	if err := conn.WriteJSON(msg); err != nil {
		log.Debug("device write failed", "error", err)
	}
}

func nowMillis() float64 {
	return float64(time.Now().UnixMilli())
}
