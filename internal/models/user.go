package models

import "time"

// User is a gym member (trainer or trainee) visible to the admin.
type User struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Role     Role      `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
	Active   bool      `json:"active"`
}
