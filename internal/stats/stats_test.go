package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fitmate/admin-console/internal/models"
)

func sampleUsers() []models.User {
	return []models.User{
		{ID: "u-1", Name: "Dana Reyes", Email: "dana@fitmate.test", Role: models.RoleTrainer, Active: true, JoinedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "u-2", Name: "Sam Ortiz", Email: "sam@fitmate.test", Role: models.RoleTrainee, Active: true, JoinedAt: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)},
		{ID: "u-3", Name: "Alex Kim", Email: "alex@fitmate.test", Role: models.RoleTrainee, Active: false, JoinedAt: time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)},
	}
}

func TestFilterUsersByQueryRoleAndActive(t *testing.T) {
	users := sampleUsers()

	byQuery := FilterUsers(users, UserFilter{Query: "dana"})
	require.Len(t, byQuery, 1)
	require.Equal(t, "u-1", byQuery[0].ID)

	byEmail := FilterUsers(users, UserFilter{Query: "ALEX@"})
	require.Len(t, byEmail, 1)
	require.Equal(t, "u-3", byEmail[0].ID)

	byRole := FilterUsers(users, UserFilter{Role: models.RoleTrainee})
	require.Len(t, byRole, 2)

	activeTrainees := FilterUsers(users, UserFilter{Role: models.RoleTrainee, ActiveOnly: true})
	require.Len(t, activeTrainees, 1)
	require.Equal(t, "u-2", activeTrainees[0].ID)
}

func TestSortUsers(t *testing.T) {
	users := sampleUsers()

	byName := SortUsers(users, SortByName)
	require.Equal(t, []string{"u-3", "u-1", "u-2"}, ids(byName))

	byJoin := SortUsers(users, SortByJoinDate)
	require.Equal(t, []string{"u-2", "u-3", "u-1"}, ids(byJoin))

	// Input order untouched.
	require.Equal(t, "u-1", users[0].ID)
}

func ids(users []models.User) []string {
	out := make([]string, len(users))
	for i, u := range users {
		out[i] = u.ID
	}
	return out
}

func TestSortMessagesNewestFirst(t *testing.T) {
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	msgs := []models.Message{
		{ID: "old", CreatedAt: base},
		{ID: "new", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "mid", CreatedAt: base.Add(time.Hour)},
	}
	sorted := SortMessagesNewestFirst(msgs)
	require.Equal(t, "new", sorted[0].ID)
	require.Equal(t, "mid", sorted[1].ID)
	require.Equal(t, "old", sorted[2].ID)
}

func TestTallyMembers(t *testing.T) {
	tally := TallyMembers(sampleUsers())
	require.Equal(t, MemberTally{Total: 3, Trainers: 1, Trainees: 2, Active: 2}, tally)
}

func TestTallyEquipment(t *testing.T) {
	items := []models.Equipment{
		{Status: models.EquipmentInService},
		{Status: models.EquipmentInService},
		{Status: models.EquipmentInRepair},
		{Status: models.EquipmentRetired},
	}
	require.Equal(t, EquipmentTally{InService: 2, InRepair: 1, Retired: 1}, TallyEquipment(items))
}

func TestOccupancy(t *testing.T) {
	entries := []models.ScheduleEntry{
		{Capacity: 10, Booked: 5},
		{Capacity: 10, Booked: 10},
		{Capacity: 0, Booked: 3}, // open floor, ignored
	}
	require.InDelta(t, 0.75, Occupancy(entries), 1e-9)
	require.Zero(t, Occupancy(nil))
}

func TestUpcomingEntries(t *testing.T) {
	now := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	entries := []models.ScheduleEntry{
		{ID: "past", StartsAt: now.Add(-time.Hour)},
		{ID: "later", StartsAt: now.Add(3 * time.Hour)},
		{ID: "soon", StartsAt: now.Add(time.Hour)},
	}
	upcoming := UpcomingEntries(entries, now)
	require.Len(t, upcoming, 2)
	require.Equal(t, "soon", upcoming[0].ID)
	require.Equal(t, "later", upcoming[1].ID)
}

func TestFormatCents(t *testing.T) {
	require.Equal(t, "USD 1234.56", FormatCents(123456, "USD"))
	require.Equal(t, "EUR 0.05", FormatCents(5, "EUR"))
	require.Equal(t, "USD -7.00", FormatCents(-700, "USD"))
}
