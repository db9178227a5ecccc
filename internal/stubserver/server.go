package stubserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/fitmate/admin-console/internal/config"
	"github.com/fitmate/admin-console/internal/logging"
)

// Server is the stub FitMate backend.
type Server struct {
	app    *fiber.App
	store  *Store
	cfg    config.StubConfig
	logger zerolog.Logger
}

// New creates the stub server, ensuring the admin account exists.
func New(cfg config.StubConfig, store *Store) (*Server, error) {
	s := &Server{
		store:  store,
		cfg:    cfg,
		logger: logging.Component("stub-server"),
	}

	if err := s.ensureAdminAccount(context.Background()); err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(recover.New())
	app.Use(logger.New())
	s.app = app
	s.registerRoutes()
	return s, nil
}

// App exposes the fiber app, used by tests via app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves until shutdown.
func (s *Server) Listen() error {
	s.logger.Info().Str("addr", s.cfg.Addr).Msg("stub backend listening")
	return s.app.Listen(s.cfg.Addr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) registerRoutes() {
	api := s.app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/login", s.handleLogin)

	v1 := api.Group("/v1", authRequired(s.cfg.JWTSecret))

	msgs := v1.Group("/messages")
	msgs.Get("/inbox", s.handleInbox)
	msgs.Get("/outbox", s.handleOutbox)
	msgs.Post("", s.handleSendMessage)
	msgs.Patch("/:id/read", s.handleMarkRead)

	v1.Get("/users", s.handleListUsers)
	v1.Get("/dashboard", s.handleDashboard)
	v1.Get("/equipment", s.handleListEquipment)
	v1.Get("/schedule", s.handleListSchedule)
	v1.Get("/settings", s.handleGetSettings)
	v1.Put("/settings", s.handleUpdateSettings)
}

// ensureAdminAccount creates the configured admin login when missing.
func (s *Server) ensureAdminAccount(ctx context.Context) error {
	_, _, err := s.store.AccountByEmail(ctx, s.cfg.AdminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	if _, err := s.store.CreateAccount(ctx, s.cfg.AdminEmail, string(hash)); err != nil {
		return err
	}
	s.logger.Info().Str("email", s.cfg.AdminEmail).Msg("admin account created")
	return nil
}
