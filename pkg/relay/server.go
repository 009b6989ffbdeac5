// Package relay implements the chat relay the assistant talks to. It
// accepts OpenAI-shaped completion requests, forwards them to OpenRouter
// with either the server's key or a caller-supplied one, and returns the
// completion in the same shape.
package relay

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// WireMessage is one chat message on the wire.
type WireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the POST /api/chat body.
type ChatRequest struct {
	Model        string        `json:"model"`
	Messages     []WireMessage `json:"messages"`
	CustomAPIKey string        `json:"customApiKey"`
}

// Server is the relay HTTP server.
type Server struct {
	app        *fiber.App
	upstream   Upstream
	defaultKey string
	logger     *slog.Logger
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithServerLogger sets the structured logger.
func WithServerLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) { s.logger = logger }
}

// NewServer builds the relay around an upstream. defaultKey is used when
// a request carries no custom key.
func NewServer(upstream Upstream, defaultKey string, opts ...ServerOption) *Server {
	s := &Server{
		upstream:   upstream,
		defaultKey: defaultKey,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "relay")

	app := fiber.New(fiber.Config{
		AppName:               "Pooja Relay",
		DisableStartupMessage: true,
	})

	app.Use(cors.New())

	app.Get("/health", s.handleHealth)
	app.Post("/api/chat", s.handleChat)

	s.app = app
	return s
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	s.logger.Info("relay listening", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) handleChat(c *fiber.Ctx) error {
	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.Model == "" {
		return errorJSON(c, fiber.StatusBadRequest, "model is required")
	}
	if len(req.Messages) == 0 {
		return errorJSON(c, fiber.StatusBadRequest, "messages are required")
	}

	key := req.CustomAPIKey
	custom := key != ""
	if !custom {
		key = s.defaultKey
	}

	content, err := s.upstream.Complete(c.Context(), key, req.Model, req.Messages)
	if err != nil {
		s.logger.Warn("upstream failed", "model", req.Model, "custom_key", custom, "error", err)
		return errorJSON(c, fiber.StatusBadGateway, "upstream completion failed")
	}

	s.logger.Debug("completion served", "model", req.Model, "custom_key", custom, "chars", len(content))
	return c.JSON(fiber.Map{
		"choices": []fiber.Map{
			{
				"message": fiber.Map{
					"role":    "assistant",
					"content": content,
				},
			},
		},
	})
}

// errorJSON writes an OpenAI-style error body.
func errorJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{"message": message},
	})
}
