package models

import "time"

// ScheduleEntry is a scheduled class or training session.
type ScheduleEntry struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	TrainerID string    `json:"trainer_id"`
	Room      string    `json:"room"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	Capacity  int       `json:"capacity"`
	Booked    int       `json:"booked"`
}

// Full reports whether the session has no free slots left.
func (e *ScheduleEntry) Full() bool {
	return e.Capacity > 0 && e.Booked >= e.Capacity
}
