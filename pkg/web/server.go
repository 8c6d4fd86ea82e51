// Package web serves the browser UI, the REST control surface and the
// viewer websocket, and glues device frames to the broadcast hub.
package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	fiberws "github.com/gofiber/websocket/v2"

	"github.com/venuelab/gyrobeam/internal/log"
	"github.com/venuelab/gyrobeam/pkg/bridge"
	"github.com/venuelab/gyrobeam/pkg/device"
	"github.com/venuelab/gyrobeam/pkg/engine"
	"github.com/venuelab/gyrobeam/pkg/hub"
	"github.com/venuelab/gyrobeam/pkg/protocol"
	"github.com/venuelab/gyrobeam/pkg/scene"
)

// Server ties the HTTP surface to the engine, scene store and bridge.
type Server struct {
	app       *fiber.App
	engine    *engine.Engine
	devices   *device.Hub
	stateHub  *hub.Hub
	scenes    *scene.Store
	publisher *bridge.Publisher
	staticDir string
}

// Options carries the server's collaborators.
type Options struct {
	Engine    *engine.Engine
	Scenes    *scene.Store
	Publisher *bridge.Publisher
	StaticDir string
}

// NewServer builds the fiber app and mounts every route.
func NewServer(opts Options) *Server {
	s := &Server{
		engine:    opts.Engine,
		stateHub:  hub.New(),
		scenes:    opts.Scenes,
		publisher: opts.Publisher,
		staticDir: opts.StaticDir,
	}
	s.devices = device.NewHub(opts.Engine, s.broadcastFrame)

	s.app = fiber.New(fiber.Config{
		AppName:               "gyrobeam",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})
	s.app.Use(recover.New())
	s.app.Use(cors.New())

	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/venue", s.handleGetVenue)
	api.Post("/venue", s.handleSetVenue)

	api.Get("/fixtures", s.handleListFixtures)
	api.Post("/fixtures", s.handleAddFixture)
	api.Get("/fixtures/:id", s.handleGetFixture)
	api.Put("/fixtures/:id", s.handleUpdateFixture)
	api.Delete("/fixtures/:id", s.handleRemoveFixture)

	api.Post("/calibrate", s.handleCalibrate)
	api.Post("/reset-calibration", s.handleResetCalibration)

	api.Get("/scenes", s.handleListScenes)
	api.Post("/scenes/:name/save", s.handleSaveScene)
	api.Post("/scenes/:name/load", s.handleLoadScene)
	api.Delete("/scenes/:name", s.handleDeleteScene)

	s.devices.RegisterRoutes(s.app)

	s.app.Use("/ws/state", func(c *fiber.Ctx) error {
		if fiberws.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	s.app.Get("/ws/state", fiberws.New(s.stateHub.Serve))

	if s.staticDir != "" {
		s.app.Static("/", s.staticDir)
	}
}

// Start runs the broadcast hub and listens on addr. It blocks until
// the listener fails or Shutdown is called.
func (s *Server) Start(addr string) error {
	go s.stateHub.Run()
	log.Info("listening", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown stops the listener and disconnects all viewers.
func (s *Server) Shutdown() error {
	s.stateHub.Stop()
	return s.app.Shutdown()
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// broadcastFrame is the device hub's frame callback: each computed
// frame becomes a state_update to every viewer and, when the bridge is
// configured, a set of MQTT publishes.
func (s *Server) broadcastFrame(frame engine.Frame) {
	msg, err := protocol.NewStateUpdateMessage(frame.StateUpdate())
	if err != nil {
		log.Error("encoding state update", "error", err)
		return
	}
	if err := s.stateHub.BroadcastJSON(msg); err != nil {
		log.Error("broadcasting state update", "error", err)
	}
	s.publisher.PublishFrame(frame)
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{"status": "error", "message": err.Error()})
}
