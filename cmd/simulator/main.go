// Command simulator streams a scripted orientation sweep to a running
// server, standing in for a phone during development.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/gorilla/websocket"

	"github.com/venuelab/gyrobeam/internal/log"
	"github.com/venuelab/gyrobeam/pkg/protocol"
)

func main() {
	server := flag.String("server", "ws://localhost:8080", "server websocket base URL")
	stream := flag.String("stream", "sim", "stream ID to connect as")
	rate := flag.Duration("rate", 50*time.Millisecond, "interval between samples")
	sweep := flag.Float64("sweep", 90, "heading sweep amplitude in degrees")
	calibrate := flag.Bool("calibrate", true, "calibrate before streaming")
	duration := flag.Duration("duration", 30*time.Second, "how long to stream")
	flag.Parse()

	log.Init("info")

	url := fmt.Sprintf("%s/ws/device/%s", *server, *stream)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		log.Error("connect failed", "url", url, "error", err)
		os.Exit(1)
	}
	defer conn.Close()
	log.Info("connected", "url", url)

	// Drain server replies so the read buffer never backs up.
	go func() {
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				return
			}
			msg, err := protocol.ParseMessage(raw)
			if err != nil {
				continue
			}
			if msg.Type == protocol.TypeCalibrationResult || msg.Type == protocol.TypeConnected {
				log.Info("server reply", "type", msg.Type, "data", string(msg.Data))
			}
		}
	}()

	if *calibrate {
		// Pretend the device is pointed dead ahead at the back wall.
		msg, err := protocol.NewCalibrateMessage(protocol.CalibrateData{Alpha: 0})
		if err == nil {
			err = conn.WriteJSON(msg)
		}
		if err != nil {
			log.Error("calibrate send failed", "error", err)
			os.Exit(1)
		}
	}

	start := time.Now()
	ticker := time.NewTicker(*rate)
	defer ticker.Stop()

	for now := range ticker.C {
		elapsed := now.Sub(start)
		if elapsed > *duration {
			return
		}

		// Triangle wave across the sweep, with a gentle nod in beta.
		phase := elapsed.Seconds() / 10
		alpha := triangle(phase) * *sweep
		if alpha < 0 {
			alpha += 360
		}
		beta := 10 * triangle(phase*3)

		// A couple of milliseconds of timestamp jitter approximates a
		// real device's uneven delivery.
		jitter := rand.Float64()*4 - 2
		data := protocol.SensorData{
			Alpha:     alpha,
			Beta:      beta,
			Timestamp: float64(now.UnixMilli()) + jitter,
		}
		msg, err := protocol.NewSensorDataMessage(data)
		if err == nil {
			err = conn.WriteJSON(msg)
		}
		if err != nil {
			log.Error("send failed", "error", err)
			return
		}
	}
}

// triangle maps phase in [0,1) cycles to [-1,1] and back.
func triangle(phase float64) float64 {
	phase = phase - float64(int(phase))
	switch {
	case phase < 0.25:
		return phase * 4
	case phase < 0.75:
		return 2 - phase*4
	default:
		return phase*4 - 4
	}
}
