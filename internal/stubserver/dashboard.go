package stubserver

import (
	"context"
	"fmt"
	"time"

	"github.com/fitmate/admin-console/internal/models"
)

// BuildDashboard assembles the aggregate snapshot from current state. The
// snapshot is computed fresh on every request; the client replaces its
// copy wholesale.
func (s *Store) BuildDashboard(ctx context.Context) (*models.DashboardSnapshot, error) {
	now := s.now()
	snapshot := &models.DashboardSnapshot{GeneratedAt: now}

	users, err := s.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	snapshot.TotalMembers = len(users)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	for _, user := range users {
		if user.Active {
			snapshot.ActiveMembers++
		}
		switch user.Role {
		case models.RoleTrainer:
			snapshot.TotalTrainers++
		case models.RoleTrainee:
			snapshot.TotalTrainees++
		}
		if !user.JoinedAt.Before(monthStart) {
			snapshot.NewMembersThisMonth++
		}
	}

	equipment, err := s.ListEquipment(ctx)
	if err != nil {
		return nil, err
	}
	for _, item := range equipment {
		switch item.Status {
		case models.EquipmentInService:
			snapshot.EquipmentInService++
		case models.EquipmentInRepair:
			snapshot.EquipmentInRepair++
		}
	}

	entries, err := s.ListSchedule(ctx)
	if err != nil {
		return nil, err
	}
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)
	for _, entry := range entries {
		if !entry.StartsAt.Before(dayStart) && entry.StartsAt.Before(dayEnd) {
			snapshot.SessionsScheduledToday++
		}
	}

	if err := s.fillBilling(ctx, snapshot, monthStart, now); err != nil {
		return nil, err
	}

	snapshot.Notifications = s.buildNotifications(snapshot, now)
	snapshot.Suggestions = buildSuggestions(snapshot)
	return snapshot, nil
}

func (s *Store) fillBilling(ctx context.Context, snapshot *models.DashboardSnapshot, monthStart, now time.Time) error {
	row := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM payments WHERE paid_at IS NOT NULL AND paid_at >= ?`,
		monthStart.Format(time.RFC3339))
	if err := row.Scan(&snapshot.MonthlyRevenueCents); err != nil {
		return fmt.Errorf("sum revenue: %w", err)
	}

	row = s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM payments WHERE paid_at IS NULL`)
	if err := row.Scan(&snapshot.OutstandingCents); err != nil {
		return fmt.Errorf("sum outstanding: %w", err)
	}

	weekEnd := now.Add(7 * 24 * time.Hour)
	row = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM payments WHERE paid_at IS NULL AND due_at <= ?`,
		weekEnd.Format(time.RFC3339))
	if err := row.Scan(&snapshot.PaymentsDueThisWeek); err != nil {
		return fmt.Errorf("count due payments: %w", err)
	}
	return nil
}

func (s *Store) buildNotifications(snapshot *models.DashboardSnapshot, now time.Time) []models.Notification {
	var notifications []models.Notification
	if snapshot.PaymentsDueThisWeek > 0 {
		notifications = append(notifications, models.Notification{
			ID:        "payments-due",
			Kind:      "billing",
			Text:      fmt.Sprintf("%d payments due within a week", snapshot.PaymentsDueThisWeek),
			CreatedAt: now,
		})
	}
	if snapshot.NewMembersThisMonth > 0 {
		notifications = append(notifications, models.Notification{
			ID:        "new-members",
			Kind:      "membership",
			Text:      fmt.Sprintf("%d new members this month", snapshot.NewMembersThisMonth),
			CreatedAt: now,
		})
	}
	if snapshot.EquipmentInRepair > 0 {
		notifications = append(notifications, models.Notification{
			ID:        "equipment-repair",
			Kind:      "equipment",
			Text:      fmt.Sprintf("%d machines in repair", snapshot.EquipmentInRepair),
			CreatedAt: now,
		})
	}
	return notifications
}

func buildSuggestions(snapshot *models.DashboardSnapshot) []models.Suggestion {
	var suggestions []models.Suggestion
	if snapshot.TotalTrainees > 0 && snapshot.TotalTrainers > 0 &&
		snapshot.TotalTrainees/snapshot.TotalTrainers > 15 {
		suggestions = append(suggestions, models.Suggestion{
			ID:   "hire-trainer",
			Text: "Trainee-to-trainer ratio is high; consider onboarding another trainer.",
		})
	}
	if snapshot.OutstandingCents > snapshot.MonthlyRevenueCents {
		suggestions = append(suggestions, models.Suggestion{
			ID:   "chase-payments",
			Text: "Outstanding balances exceed this month's revenue; send payment reminders.",
		})
	}
	return suggestions
}
