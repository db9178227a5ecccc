// Package stats computes client-side derived views over lists fetched
// from the backend: filtering, sorting, and small aggregate figures for
// the admin panels. Everything here is pure.
package stats

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fitmate/admin-console/internal/models"
)

// UserFilter narrows a member list.
type UserFilter struct {
	// Query matches case-insensitively against name and email.
	Query string
	// Role keeps only members with this role when set.
	Role models.Role
	// ActiveOnly drops inactive members.
	ActiveOnly bool
}

// FilterUsers returns the members matching the filter, preserving order.
func FilterUsers(users []models.User, filter UserFilter) []models.User {
	query := strings.ToLower(strings.TrimSpace(filter.Query))
	out := make([]models.User, 0, len(users))
	for _, user := range users {
		if filter.Role != "" && user.Role != filter.Role {
			continue
		}
		if filter.ActiveOnly && !user.Active {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(user.Name), query) &&
			!strings.Contains(strings.ToLower(user.Email), query) {
			continue
		}
		out = append(out, user)
	}
	return out
}

// UserSort selects a member ordering.
type UserSort int

const (
	SortByName UserSort = iota
	SortByJoinDate
)

// SortUsers returns a sorted copy of the member list.
func SortUsers(users []models.User, by UserSort) []models.User {
	out := append([]models.User(nil), users...)
	switch by {
	case SortByJoinDate:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].JoinedAt.After(out[j].JoinedAt)
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
		})
	}
	return out
}

// SortMessagesNewestFirst returns a copy ordered by creation time,
// newest first.
func SortMessagesNewestFirst(msgs []models.Message) []models.Message {
	out := append([]models.Message(nil), msgs...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// MemberTally is the derived stats footer for the members panel.
type MemberTally struct {
	Total    int
	Trainers int
	Trainees int
	Active   int
}

// TallyMembers computes member counts.
func TallyMembers(users []models.User) MemberTally {
	tally := MemberTally{Total: len(users)}
	for _, user := range users {
		switch user.Role {
		case models.RoleTrainer:
			tally.Trainers++
		case models.RoleTrainee:
			tally.Trainees++
		}
		if user.Active {
			tally.Active++
		}
	}
	return tally
}

// EquipmentTally counts equipment per service status.
type EquipmentTally struct {
	InService int
	InRepair  int
	Retired   int
}

// TallyEquipment computes equipment status counts.
func TallyEquipment(items []models.Equipment) EquipmentTally {
	var tally EquipmentTally
	for _, item := range items {
		switch item.Status {
		case models.EquipmentInService:
			tally.InService++
		case models.EquipmentInRepair:
			tally.InRepair++
		case models.EquipmentRetired:
			tally.Retired++
		}
	}
	return tally
}

// Occupancy is the booked/capacity ratio across schedule entries, in
// [0,1]. Entries without capacity are ignored.
func Occupancy(entries []models.ScheduleEntry) float64 {
	capacity, booked := 0, 0
	for _, entry := range entries {
		if entry.Capacity <= 0 {
			continue
		}
		capacity += entry.Capacity
		booked += entry.Booked
	}
	if capacity == 0 {
		return 0
	}
	return float64(booked) / float64(capacity)
}

// UpcomingEntries keeps entries starting at or after now, soonest first.
func UpcomingEntries(entries []models.ScheduleEntry, now time.Time) []models.ScheduleEntry {
	out := make([]models.ScheduleEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.StartsAt.Before(now) {
			continue
		}
		out = append(out, entry)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartsAt.Before(out[j].StartsAt)
	})
	return out
}

// FormatCents renders integral cents as a currency string, e.g.
// FormatCents(123456, "USD") == "USD 1234.56".
func FormatCents(cents int64, currency string) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s %s%d.%02d", currency, sign, cents/100, cents%100)
}
