// Package web serves the monitor's HTTP API and the realtime telemetry
// websocket.
package web

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/vigilanceai/go-vigilance/internal/log"
	"github.com/vigilanceai/go-vigilance/pkg/behavior"
	"github.com/vigilanceai/go-vigilance/pkg/driver"
	"github.com/vigilanceai/go-vigilance/pkg/hub"
	"github.com/vigilanceai/go-vigilance/pkg/protocol"
	"github.com/vigilanceai/go-vigilance/pkg/safety"
)

// Sources supplies the server's read paths. Each func returns a value
// snapshot; nil funcs disable the matching fields.
type Sources struct {
	DriverState func() driver.State
	Behavior    func() behavior.Snapshot
	Safety      func() safety.Snapshot

	// Override is invoked by POST /api/override.
	Override func()
}

// Server is the monitor's web server.
type Server struct {
	app  *fiber.App
	port string

	sources Sources

	telemetryHub *hub.Hub

	startedAt time.Time
}

// NewServer creates a web server on the given port.
func NewServer(port string, sources Sources) *Server {
	s := &Server{
		port:         port,
		sources:      sources,
		telemetryHub: hub.New("telemetry"),
		startedAt:    time.Now(),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Vigilance Monitor",
		DisableStartupMessage: true,
	})

	// CORS for local dashboard development
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/snapshot", s.handleSnapshot)
	api.Get("/safety", s.handleSafety)
	api.Post("/override", s.handleOverride)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/telemetry", websocket.New(s.handleTelemetryWS))

	s.app = app
	return s
}

// TelemetryHub exposes the websocket hub so the broadcaster can fan out
// through it.
func (s *Server) TelemetryHub() *hub.Hub { return s.telemetryHub }

// Publish implements MessageSink over the telemetry hub.
func (s *Server) Publish(msg *protocol.Message) {
	data, err := msg.Bytes()
	if err != nil {
		log.Error("encode telemetry message", "error", err)
		return
	}
	s.telemetryHub.Broadcast(hub.NewJSONMessage(data))
}

// Start runs the hub and listens. Blocks until Shutdown.
func (s *Server) Start() error {
	go s.telemetryHub.Run()
	log.Info("web server listening", "port", s.port)
	return s.app.Listen(":" + s.port)
}

// Shutdown gracefully stops the web server
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) handleStatus(c *fiber.Ctx) error {
	status := fiber.Map{
		"uptime_seconds": int(time.Since(s.startedAt).Seconds()),
		"ws_clients":     s.telemetryHub.ClientCount(),
	}
	if s.sources.DriverState != nil {
		state := s.sources.DriverState()
		status["driver"] = fiber.Map{
			"drowsiness": state.DrowsinessLabel,
			"fatigue":    state.FatigueLabel,
			"attention":  state.AttentionLabel,
			"frame":      state.FrameIndex,
		}
	}
	if s.sources.Safety != nil {
		status["safety"] = s.sources.Safety().StateLabel
	}
	return c.JSON(status)
}

func (s *Server) handleSnapshot(c *fiber.Ctx) error {
	if s.sources.Behavior == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no behavior source"})
	}
	return c.JSON(s.sources.Behavior())
}

func (s *Server) handleSafety(c *fiber.Ctx) error {
	if s.sources.Safety == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no safety source"})
	}
	return c.JSON(s.sources.Safety())
}

func (s *Server) handleOverride(c *fiber.Ctx) error {
	if s.sources.Override == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no safety machine"})
	}
	s.sources.Override()
	log.Info("manual override requested via API")
	resp := fiber.Map{"status": "ok"}
	if s.sources.Safety != nil {
		resp["safety"] = s.sources.Safety()
	}
	return c.JSON(resp)
}

func (s *Server) handleTelemetryWS(c *websocket.Conn) {
	client := hub.NewClient(s.telemetryHub, c)
	client.Run()
}
