package web

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/venuelab/gyrobeam/pkg/fixture"
	"github.com/venuelab/gyrobeam/pkg/scene"
	"github.com/venuelab/gyrobeam/pkg/sensor"
	"github.com/venuelab/gyrobeam/pkg/venue"
)

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"status":  "error",
		"message": err.Error(),
	})
}

func notFound(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"status":  "error",
		"message": message,
	})
}

func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":     "ok",
		"venue":      s.engine.Venue(),
		"calibrated": s.engine.IsCalibrated(),
		"streams":    s.engine.StreamCount(),
		"fixtures":   s.engine.Fixtures().Count(),
		"devices":    s.devices.Stats(),
	})
}

func (s *Server) handleGetVenue(c *fiber.Ctx) error {
	return c.JSON(s.engine.Venue())
}

func (s *Server) handleSetVenue(c *fiber.Ctx) error {
	var v venue.Venue
	if err := c.BodyParser(&v); err != nil {
		return badRequest(c, err)
	}
	if err := s.engine.SetVenue(v); err != nil {
		return badRequest(c, err)
	}
	return c.JSON(s.engine.Venue())
}

func (s *Server) handleListFixtures(c *fiber.Ctx) error {
	return c.JSON(s.engine.Fixtures().List())
}

func (s *Server) handleAddFixture(c *fiber.Ctx) error {
	var spec fixture.Spec
	if err := c.BodyParser(&spec); err != nil {
		return badRequest(c, err)
	}
	applyRangeDefaults(&spec)
	stored, err := s.engine.Fixtures().Add(spec)
	if err != nil {
		return badRequest(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(stored)
}

func (s *Server) handleGetFixture(c *fiber.Ctx) error {
	spec, err := s.engine.Fixtures().Get(c.Params("id"))
	if errors.Is(err, fixture.ErrNotFound) {
		return notFound(c, "fixture not found")
	}
	if err != nil {
		return badRequest(c, err)
	}
	return c.JSON(spec)
}

func (s *Server) handleUpdateFixture(c *fiber.Ctx) error {
	var spec fixture.Spec
	if err := c.BodyParser(&spec); err != nil {
		return badRequest(c, err)
	}
	spec.ID = c.Params("id")
	err := s.engine.Fixtures().Update(spec)
	if errors.Is(err, fixture.ErrNotFound) {
		return notFound(c, "fixture not found")
	}
	if err != nil {
		return badRequest(c, err)
	}
	return c.JSON(spec)
}

func (s *Server) handleRemoveFixture(c *fiber.Ctx) error {
	err := s.engine.Fixtures().Remove(c.Params("id"))
	if errors.Is(err, fixture.ErrNotFound) {
		return notFound(c, "fixture not found")
	}
	if err != nil {
		return badRequest(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) handleCalibrate(c *fiber.Ctx) error {
	var body struct {
		Alpha float64 `json:"alpha"`
		Beta  float64 `json:"beta"`
		Gamma float64 `json:"gamma"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, err)
	}
	sample := sensor.Sample{
		Alpha:     body.Alpha,
		Beta:      body.Beta,
		Gamma:     body.Gamma,
		Timestamp: float64(time.Now().UnixMilli()),
	}
	if err := s.engine.OnCalibrate("rest", sample); err != nil {
		return badRequest(c, err)
	}
	rec, _ := s.engine.Calibration()
	return c.JSON(fiber.Map{"status": "ok", "alpha_offset": rec.AlphaOffset})
}

func (s *Server) handleResetCalibration(c *fiber.Ctx) error {
	s.engine.OnResetCalibration()
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) handleListScenes(c *fiber.Ctx) error {
	names, err := s.scenes.List()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"scenes": names})
}

func (s *Server) handleSaveScene(c *fiber.Ctx) error {
	sc := scene.Scene{
		Name:     c.Params("name"),
		Venue:    s.engine.Venue(),
		Fixtures: s.engine.Fixtures().List(),
	}
	if err := s.scenes.Save(sc); err != nil {
		return badRequest(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok", "name": sc.Name})
}

func (s *Server) handleLoadScene(c *fiber.Ctx) error {
	sc, err := s.scenes.Load(c.Params("name"))
	if errors.Is(err, scene.ErrSceneNotFound) {
		return notFound(c, "scene not found")
	}
	if err != nil {
		return badRequest(c, err)
	}
	if err := s.engine.SetVenue(sc.Venue); err != nil {
		return badRequest(c, err)
	}
	if err := s.engine.Fixtures().ReplaceAll(sc.Fixtures); err != nil {
		return badRequest(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok", "name": sc.Name, "fixtures": len(sc.Fixtures)})
}

func (s *Server) handleDeleteScene(c *fiber.Ctx) error {
	err := s.scenes.Delete(c.Params("name"))
	if errors.Is(err, scene.ErrSceneNotFound) {
		return notFound(c, "scene not found")
	}
	if err != nil {
		return badRequest(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// applyRangeDefaults fills zero-valued ranges on a new fixture so
// clients can post just a position and mounting.
func applyRangeDefaults(spec *fixture.Spec) {
	if spec.PanRange == (fixture.Range{}) {
		spec.PanRange = fixture.DefaultPanRange
	}
	if spec.TiltRange == (fixture.Range{}) {
		spec.TiltRange = fixture.DefaultTiltRange
	}
}
