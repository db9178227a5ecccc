package models

import "time"

// Notification is a short admin-facing notice included in the dashboard
// snapshot (payments due, new sign-ups, equipment alerts).
type Notification struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Suggestion is a backend-generated improvement hint shown on the dashboard.
type Suggestion struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// DashboardSnapshot carries the aggregate counters rendered on the admin
// dashboard. Each poll replaces the previous snapshot wholesale; there are
// no merge semantics.
type DashboardSnapshot struct {
	TotalMembers       int `json:"total_members"`
	ActiveMembers      int `json:"active_members"`
	TotalTrainers      int `json:"total_trainers"`
	TotalTrainees      int `json:"total_trainees"`
	EquipmentInService int `json:"equipment_in_service"`
	EquipmentInRepair  int `json:"equipment_in_repair"`

	// Revenue figures are integral cents to avoid float drift in sums.
	MonthlyRevenueCents    int64 `json:"monthly_revenue_cents"`
	OutstandingCents       int64 `json:"outstanding_cents"`
	PaymentsDueThisWeek    int   `json:"payments_due_this_week"`
	NewMembersThisMonth    int   `json:"new_members_this_month"`
	SessionsScheduledToday int   `json:"sessions_scheduled_today"`

	Notifications []Notification `json:"notifications"`
	Suggestions   []Suggestion   `json:"suggestions"`

	GeneratedAt time.Time `json:"generated_at"`
}
