package models

import (
	"errors"
	"strings"
)

// Settings holds the gym-wide configuration editable from the admin console.
type Settings struct {
	GymName            string `json:"gym_name"`
	Currency           string `json:"currency"`
	OpeningHours       string `json:"opening_hours"`
	NotifyOnNewMember  bool   `json:"notify_on_new_member"`
	NotifyOnPaymentDue bool   `json:"notify_on_payment_due"`
}

// Validate checks settings before they are sent to the backend.
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.GymName) == "" {
		return errors.New("gym name required")
	}
	if len(strings.TrimSpace(s.Currency)) != 3 {
		return errors.New("currency must be a 3-letter code")
	}
	return nil
}
