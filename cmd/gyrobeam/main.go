// Command gyrobeam runs the orientation-to-fixture server: it ingests
// device orientation streams, projects them into the venue and serves
// the control UI, viewer broadcasts and MQTT aims.
package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/venuelab/gyrobeam/internal/config"
	"github.com/venuelab/gyrobeam/internal/log"
	"github.com/venuelab/gyrobeam/pkg/bridge"
	"github.com/venuelab/gyrobeam/pkg/engine"
	"github.com/venuelab/gyrobeam/pkg/fixture"
	"github.com/venuelab/gyrobeam/pkg/scene"
	"github.com/venuelab/gyrobeam/pkg/venue"
	"github.com/venuelab/gyrobeam/pkg/web"
)

func main() {
	cfg := config.FromEnv()
	flag.StringVar(&cfg.Port, "port", cfg.Port, "HTTP listen port")
	flag.StringVar(&cfg.StaticDir, "static", cfg.StaticDir, "static asset directory")
	flag.StringVar(&cfg.SceneDir, "scenes", cfg.SceneDir, "scene storage directory")
	flag.StringVar(&cfg.MQTTBroker, "mqtt", cfg.MQTTBroker, "MQTT broker URL (empty disables the bridge)")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	noQR := flag.Bool("no-qr", false, "skip the startup QR code")
	flag.Parse()

	log.Init(cfg.LogLevel)

	store, err := scene.NewStore(cfg.SceneDir)
	if err != nil {
		log.Error("scene store init failed", "error", err)
		os.Exit(1)
	}

	publisher, err := bridge.New(cfg.MQTTBroker, cfg.MQTTClient)
	if err != nil {
		log.Error("mqtt bridge init failed", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	eng := engine.New(venue.Default(), fixture.NewRegistry(), cfg.BufferSize)
	server := web.NewServer(web.Options{
		Engine:    eng,
		Scenes:    store,
		Publisher: publisher,
		StaticDir: cfg.StaticDir,
	})

	addr := ":" + cfg.Port
	deviceURL := fmt.Sprintf("http://%s:%s/", lanIP(), cfg.Port)
	fmt.Printf("gyrobeam ready\n  local:   http://localhost:%s/\n  network: %s\n", cfg.Port, deviceURL)
	if !*noQR {
		printQR(deviceURL)
	}

	go func() {
		if err := server.Start(addr); err != nil {
			log.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info("shutting down")
	if err := server.Shutdown(); err != nil {
		log.Error("shutdown error", "error", err)
	}
}

// lanIP finds the interface address a phone on the same network would
// reach us at. The dial never sends a packet.
func lanIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "localhost"
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String()
}

// printQR renders the device URL as a terminal QR code so the phone
// can join without typing an address.
func printQR(url string) {
	qr, err := qrcode.New(url, qrcode.Low)
	if err != nil {
		log.Warn("qr code generation failed", "error", err)
		return
	}
	fmt.Println(qr.ToSmallString(false))
}
