package stubserver

import (
	"context"
	"fmt"
	"time"

	"github.com/fitmate/admin-console/internal/models"
)

// Seed fills an empty store with demo data so the console has something to
// show against a fresh stub backend. It is safe to skip on a reused database.
func (s *Server) Seed(ctx context.Context) error {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return err
	}
	if len(users) > 0 {
		return nil
	}

	adminID, _, err := s.store.AccountByEmail(ctx, s.cfg.AdminEmail)
	if err != nil {
		return err
	}

	now := time.Now().UTC()

	members := []models.User{
		{Name: "Mia Karlsen", Email: "mia@fitmate.local", Role: models.RoleTrainer, JoinedAt: now.AddDate(-2, 0, 0), Active: true},
		{Name: "Jonas Berg", Email: "jonas@fitmate.local", Role: models.RoleTrainer, JoinedAt: now.AddDate(-1, -3, 0), Active: true},
		{Name: "Sara Holm", Email: "sara@fitmate.local", Role: models.RoleTrainee, JoinedAt: now.AddDate(0, -6, 0), Active: true},
		{Name: "Erik Dahl", Email: "erik@fitmate.local", Role: models.RoleTrainee, JoinedAt: now.AddDate(0, -2, 0), Active: true},
		{Name: "Nora Lie", Email: "nora@fitmate.local", Role: models.RoleTrainee, JoinedAt: now.AddDate(0, 0, -12), Active: true},
		{Name: "Olav Strand", Email: "olav@fitmate.local", Role: models.RoleTrainee, JoinedAt: now.AddDate(0, -10, 0), Active: false},
	}
	for i := range members {
		if err := s.store.CreateUser(ctx, &members[i]); err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
	}

	messages := []models.Message{
		{
			Sender:    models.Sender{ID: members[2].ID, Name: members[2].Name, Role: members[2].Role},
			Body:      "Can I move my Thursday session to Friday morning?",
			CreatedAt: now.Add(-2 * time.Hour),
		},
		{
			Sender:    models.Sender{ID: members[0].ID, Name: members[0].Name, Role: members[0].Role},
			Body:      "The spin room projector is flickering again, please get it looked at.",
			CreatedAt: now.Add(-26 * time.Hour),
		},
		{
			Sender:    models.Sender{ID: members[3].ID, Name: members[3].Name, Role: members[3].Role},
			Body:      "Thanks for the onboarding tour last week!",
			CreatedAt: now.Add(-72 * time.Hour),
			IsRead:    true,
		},
	}
	for i := range messages {
		if messages[i].IsRead {
			readAt := messages[i].CreatedAt.Add(30 * time.Minute)
			messages[i].ReadAt = &readAt
		}
		if err := s.store.InsertMessage(ctx, &messages[i], adminID); err != nil {
			return fmt.Errorf("seed messages: %w", err)
		}
	}

	serviced := now.AddDate(0, -1, 0)
	equipment := []models.Equipment{
		{Name: "Treadmill A1", Category: "cardio", Status: models.EquipmentInService, PurchasedAt: now.AddDate(-3, 0, 0), LastServicedAt: &serviced},
		{Name: "Treadmill A2", Category: "cardio", Status: models.EquipmentInRepair, PurchasedAt: now.AddDate(-3, 0, 0)},
		{Name: "Squat Rack B1", Category: "strength", Status: models.EquipmentInService, PurchasedAt: now.AddDate(-1, 0, 0)},
		{Name: "Rowing Machine C1", Category: "cardio", Status: models.EquipmentRetired, PurchasedAt: now.AddDate(-8, 0, 0)},
	}
	for i := range equipment {
		if err := s.store.InsertEquipment(ctx, &equipment[i]); err != nil {
			return fmt.Errorf("seed equipment: %w", err)
		}
	}

	classes := []models.ScheduleEntry{
		{Title: "Morning Spin", TrainerID: members[0].ID, Room: "Studio 1", StartsAt: now.Add(18 * time.Hour), EndsAt: now.Add(19 * time.Hour), Capacity: 20, Booked: 17},
		{Title: "Strength Basics", TrainerID: members[1].ID, Room: "Studio 2", StartsAt: now.Add(26 * time.Hour), EndsAt: now.Add(27 * time.Hour), Capacity: 12, Booked: 12},
		{Title: "Mobility Flow", TrainerID: members[0].ID, Room: "Studio 1", StartsAt: now.Add(50 * time.Hour), EndsAt: now.Add(51 * time.Hour), Capacity: 15, Booked: 6},
	}
	for i := range classes {
		if err := s.store.InsertScheduleEntry(ctx, &classes[i]); err != nil {
			return fmt.Errorf("seed schedule: %w", err)
		}
	}

	paid := now.AddDate(0, 0, -3)
	payments := []struct {
		userID string
		cents  int64
		dueAt  time.Time
		paidAt *time.Time
	}{
		{members[2].ID, 49900, now.AddDate(0, 0, -5), &paid},
		{members[3].ID, 49900, now.AddDate(0, 0, 2), nil},
		{members[4].ID, 29900, now.AddDate(0, 0, 20), nil},
	}
	for _, p := range payments {
		if err := s.store.InsertPayment(ctx, p.userID, p.cents, p.dueAt, p.paidAt); err != nil {
			return fmt.Errorf("seed payments: %w", err)
		}
	}

	s.logger.Info().Int("users", len(members)).Int("messages", len(messages)).Msg("seeded demo data")
	return nil
}
