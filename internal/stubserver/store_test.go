package stubserver

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fitmate/admin-console/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	fixed := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	store, err := OpenStore(":memory:", WithNow(func() time.Time { return fixed }))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestMessageRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	msg := models.Message{
		Sender: models.Sender{ID: "u-1", Name: "Mia", Role: models.RoleTrainer},
		Body:   "hello",
	}
	require.NoError(t, store.InsertMessage(ctx, &msg, "admin-1"))
	require.NotEmpty(t, msg.ID)

	inbox, err := store.Inbox(ctx, "admin-1")
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	require.Equal(t, "hello", inbox[0].Body)
	require.Equal(t, models.RoleTrainer, inbox[0].Sender.Role)
	require.False(t, inbox[0].IsRead)
	require.Nil(t, inbox[0].ReadAt)

	outbox, err := store.Outbox(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, outbox, 1)
}

func TestMarkMessageReadIdempotent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	msg := models.Message{
		Sender: models.Sender{ID: "u-1", Name: "Mia", Role: models.RoleTrainer},
		Body:   "hello",
	}
	require.NoError(t, store.InsertMessage(ctx, &msg, "admin-1"))

	require.NoError(t, store.MarkMessageRead(ctx, msg.ID, "admin-1"))

	inbox, err := store.Inbox(ctx, "admin-1")
	require.NoError(t, err)
	require.True(t, inbox[0].IsRead)
	require.NotNil(t, inbox[0].ReadAt)
	first := *inbox[0].ReadAt

	// Marking again must not move the timestamp.
	require.NoError(t, store.MarkMessageRead(ctx, msg.ID, "admin-1"))
	inbox, err = store.Inbox(ctx, "admin-1")
	require.NoError(t, err)
	require.True(t, first.Equal(*inbox[0].ReadAt))
}

func TestMarkMessageReadUnknown(t *testing.T) {
	store := openTestStore(t)

	err := store.MarkMessageRead(context.Background(), "missing", "admin-1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMarkMessageReadWrongRecipient(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	msg := models.Message{
		Sender: models.Sender{ID: "u-1", Name: "Mia", Role: models.RoleTrainer},
		Body:   "hello",
	}
	require.NoError(t, store.InsertMessage(ctx, &msg, "admin-1"))

	err := store.MarkMessageRead(ctx, msg.ID, "someone-else")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSettingsDefaultsAndUpdate(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	settings, err := store.Settings(ctx)
	require.NoError(t, err)
	require.Equal(t, "FitMate", settings.GymName)
	require.Equal(t, "USD", settings.Currency)

	settings.GymName = "FitMate Oslo"
	settings.Currency = "NOK"
	require.NoError(t, store.UpdateSettings(ctx, settings))

	reloaded, err := store.Settings(ctx)
	require.NoError(t, err)
	require.Equal(t, "FitMate Oslo", reloaded.GymName)
	require.Equal(t, "NOK", reloaded.Currency)
}

func TestUpdateSettingsRejectsInvalid(t *testing.T) {
	store := openTestStore(t)

	err := store.UpdateSettings(context.Background(), &models.Settings{Currency: "USD"})
	require.Error(t, err)
}

func TestBuildDashboardCounts(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	users := []models.User{
		{Name: "Mia", Email: "mia@x", Role: models.RoleTrainer, Active: true},
		{Name: "Sara", Email: "sara@x", Role: models.RoleTrainee, Active: true},
		{Name: "Olav", Email: "olav@x", Role: models.RoleTrainee, Active: false},
	}
	for i := range users {
		require.NoError(t, store.CreateUser(ctx, &users[i]))
	}

	require.NoError(t, store.InsertEquipment(ctx, &models.Equipment{
		Name: "Treadmill", Category: "cardio", Status: models.EquipmentInRepair,
		PurchasedAt: time.Now(),
	}))

	now := store.now()
	paid := now.Add(-24 * time.Hour)
	require.NoError(t, store.InsertPayment(ctx, users[1].ID, 10000, now.Add(-48*time.Hour), &paid))
	require.NoError(t, store.InsertPayment(ctx, users[2].ID, 5000, now.Add(72*time.Hour), nil))

	snapshot, err := store.BuildDashboard(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, snapshot.TotalMembers)
	require.Equal(t, 2, snapshot.ActiveMembers)
	require.Equal(t, 1, snapshot.TotalTrainers)
	require.Equal(t, 2, snapshot.TotalTrainees)
	require.Equal(t, 1, snapshot.EquipmentInRepair)
	require.Equal(t, int64(10000), snapshot.MonthlyRevenueCents)
	require.Equal(t, int64(5000), snapshot.OutstandingCents)
	require.Equal(t, 1, snapshot.PaymentsDueThisWeek)
	require.False(t, snapshot.GeneratedAt.IsZero())
}
