// Package models defines the wire-level data types shared between the
// FitMate admin console and the backend API.
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Role identifies the kind of gym member a user is.
type Role string

const (
	RoleTrainer Role = "trainer"
	RoleTrainee Role = "trainee"
)

// ValidRoles lists all accepted roles.
var ValidRoles = []Role{RoleTrainer, RoleTrainee}

// ValidateRole checks that a role is one of the known values.
func ValidateRole(role Role) error {
	for _, r := range ValidRoles {
		if role == r {
			return nil
		}
	}
	return fmt.Errorf("invalid role: %q", role)
}

// Sender is the embedded sender reference carried on each message.
type Sender struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// Message is a single inbox or outbox message for the admin session.
//
// ReadAt is non-nil if and only if IsRead is true.
type Message struct {
	ID        string     `json:"id"`
	Sender    Sender     `json:"sender"`
	Body      string     `json:"body"`
	CreatedAt time.Time  `json:"created_at"`
	IsRead    bool       `json:"is_read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
}

// Validate checks message invariants.
func (m *Message) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return errors.New("message id required")
	}
	if strings.TrimSpace(m.Body) == "" {
		return errors.New("message body required")
	}
	if err := ValidateRole(m.Sender.Role); err != nil {
		return fmt.Errorf("message sender: %w", err)
	}
	if m.IsRead && m.ReadAt == nil {
		return errors.New("read message missing read timestamp")
	}
	if !m.IsRead && m.ReadAt != nil {
		return errors.New("unread message carries read timestamp")
	}
	return nil
}
