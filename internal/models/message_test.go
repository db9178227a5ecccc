package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMessageValidateReadTimestampInvariant(t *testing.T) {
	now := time.Now().UTC()

	msg := Message{
		ID:        "msg-1",
		Sender:    Sender{ID: "u-1", Name: "Dana", Role: RoleTrainer},
		Body:      "session moved to 6pm",
		CreatedAt: now,
	}
	require.NoError(t, msg.Validate())

	msg.IsRead = true
	require.Error(t, msg.Validate())

	msg.ReadAt = &now
	require.NoError(t, msg.Validate())

	msg.IsRead = false
	require.Error(t, msg.Validate())
}

func TestMessageValidateRejectsUnknownRole(t *testing.T) {
	msg := Message{
		ID:     "msg-2",
		Sender: Sender{ID: "u-2", Name: "Sam", Role: "janitor"},
		Body:   "hi",
	}
	require.Error(t, msg.Validate())
}

func TestSettingsValidate(t *testing.T) {
	s := Settings{GymName: "FitMate Downtown", Currency: "USD"}
	require.NoError(t, s.Validate())

	s.Currency = "dollars"
	require.Error(t, s.Validate())

	s = Settings{Currency: "EUR"}
	require.Error(t, s.Validate())
}
