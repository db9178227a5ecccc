package stubserver

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/fitmate/admin-console/internal/models"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sendMessageRequest struct {
	RecipientID string `json:"recipient_id"`
	Body        string `json:"body"`
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	accountID, hash, err := s.store.AccountByEmail(c.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
		}
		return internalError(c, err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
	}

	token, err := generateToken(accountID, s.cfg.JWTSecret, s.cfg.TokenTTL, time.Now())
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(fiber.Map{"token": token})
}

func (s *Server) handleInbox(c *fiber.Ctx) error {
	messages, err := s.store.Inbox(c.Context(), accountID(c))
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(fiber.Map{"messages": messages})
}

func (s *Server) handleOutbox(c *fiber.Ctx) error {
	messages, err := s.store.Outbox(c.Context(), accountID(c))
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(fiber.Map{"messages": messages})
}

func (s *Server) handleSendMessage(c *fiber.Ctx) error {
	var req sendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Body) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "message body is required"})
	}
	if req.RecipientID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "recipient_id is required"})
	}

	msg := models.Message{
		Sender: models.Sender{
			ID:   accountID(c),
			Name: "Admin",
			Role: models.RoleTrainer,
		},
		Body: req.Body,
	}
	if err := s.store.InsertMessage(c.Context(), &msg, req.RecipientID); err != nil {
		return internalError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": msg})
}

func (s *Server) handleMarkRead(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := s.store.MarkMessageRead(c.Context(), id, accountID(c)); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "message not found"})
		}
		return internalError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleListUsers(c *fiber.Ctx) error {
	users, err := s.store.ListUsers(c.Context())
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(fiber.Map{"users": users})
}

func (s *Server) handleDashboard(c *fiber.Ctx) error {
	snapshot, err := s.store.BuildDashboard(c.Context())
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(fiber.Map{"dashboard": snapshot})
}

func (s *Server) handleListEquipment(c *fiber.Ctx) error {
	items, err := s.store.ListEquipment(c.Context())
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(fiber.Map{"equipment": items})
}

func (s *Server) handleListSchedule(c *fiber.Ctx) error {
	entries, err := s.store.ListSchedule(c.Context())
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(fiber.Map{"schedule": entries})
}

func (s *Server) handleGetSettings(c *fiber.Ctx) error {
	settings, err := s.store.Settings(c.Context())
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(fiber.Map{"settings": settings})
}

func (s *Server) handleUpdateSettings(c *fiber.Ctx) error {
	var settings models.Settings
	if err := c.BodyParser(&settings); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := settings.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := s.store.UpdateSettings(c.Context(), &settings); err != nil {
		return internalError(c, err)
	}
	return c.JSON(fiber.Map{"settings": settings})
}

// accountID reads the account set by the auth middleware.
func accountID(c *fiber.Ctx) string {
	id, _ := c.Locals("account_id").(string)
	return id
}

func internalError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
