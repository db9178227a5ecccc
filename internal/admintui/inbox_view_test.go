package admintui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/fitmate/admin-console/internal/admintui/styles"
	"github.com/fitmate/admin-console/internal/messages"
	"github.com/fitmate/admin-console/internal/models"
	"github.com/fitmate/admin-console/internal/visibility"
)

type fakeBackend struct {
	mu      sync.Mutex
	inbox   []models.Message
	outbox  []models.Message
	users   []models.User
	markErr error
	marked  []string
}

func (f *fakeBackend) FetchInbox(ctx context.Context) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Message(nil), f.inbox...), nil
}

func (f *fakeBackend) FetchOutbox(ctx context.Context) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Message(nil), f.outbox...), nil
}

func (f *fakeBackend) FetchUsers(ctx context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.User(nil), f.users...), nil
}

func (f *fakeBackend) MarkMessageRead(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.marked = append(f.marked, id)
	return f.markErr
}

func (f *fakeBackend) SendMessage(ctx context.Context, recipientID, body string) (*models.Message, error) {
	return &models.Message{
		ID:        "sent-1",
		Sender:    models.Sender{ID: "admin", Name: "Admin", Role: models.RoleTrainer},
		Body:      body,
		CreatedAt: time.Now(),
	}, nil
}

type manualTimer struct {
	f       func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	t.stopped = true
	return true
}

type manualTimers struct {
	mu      sync.Mutex
	created []*manualTimer
}

func (m *manualTimers) factory(d time.Duration, f func()) visibility.Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	timer := &manualTimer{f: f}
	m.created = append(m.created, timer)
	return timer
}

func (m *manualTimers) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.created)
}

func (m *manualTimers) fireAll() {
	m.mu.Lock()
	pending := append([]*manualTimer(nil), m.created...)
	m.mu.Unlock()
	for _, timer := range pending {
		if !timer.stopped {
			timer.f()
		}
	}
}

func unreadMessage(id, senderName string, at time.Time) models.Message {
	return models.Message{
		ID:        id,
		Sender:    models.Sender{ID: "u-" + id, Name: senderName, Role: models.RoleTrainee},
		Body:      "hello from " + senderName,
		CreatedAt: at,
	}
}

func newTestInbox(t *testing.T, backend *fakeBackend, timers *manualTimers) *inboxView {
	t.Helper()
	store := messages.NewStore(backend)
	require.NoError(t, store.Load(context.Background(), false))
	reconciler := messages.NewReconciler(store, backend)
	view := newInboxView(store, reconciler, backend, visibility.WithTimerFactory(timers.factory))
	t.Cleanup(view.Close)
	return view
}

func TestInboxMarksMessageReadAfterDwell(t *testing.T) {
	now := time.Now()
	backend := &fakeBackend{inbox: []models.Message{
		unreadMessage("m1", "Mia", now),
		unreadMessage("m2", "Sara", now.Add(-time.Hour)),
	}}
	timers := &manualTimers{}
	view := newTestInbox(t, backend, timers)

	// Both rows fit on screen, so both unread rows get dwell timers.
	view.View(80, 10, styles.DefaultTheme)
	require.Equal(t, 2, timers.count())

	timers.fireAll()

	for i := 0; i < 2; i++ {
		msg := view.listenSeenCmd()()
		seen, ok := msg.(seenMsg)
		require.True(t, ok)

		done := view.markReadCmd(seen.id)()
		require.NoError(t, done.(markReadDoneMsg).err)
	}

	for _, msg := range view.store.Inbox() {
		require.True(t, msg.IsRead)
		require.NotNil(t, msg.ReadAt)
	}
	require.ElementsMatch(t, []string{"m1", "m2"}, backend.marked)
}

func TestInboxOffscreenRowsGetNoTimer(t *testing.T) {
	now := time.Now()
	backend := &fakeBackend{inbox: []models.Message{
		unreadMessage("m1", "Mia", now),
		unreadMessage("m2", "Sara", now.Add(-time.Hour)),
	}}
	timers := &manualTimers{}
	view := newTestInbox(t, backend, timers)

	// Two lines of height fit exactly one row.
	view.View(80, 2, styles.DefaultTheme)
	require.Equal(t, 1, timers.count())

	timers.fireAll()
	msg := view.listenSeenCmd()()
	require.Equal(t, "m1", msg.(seenMsg).id)
}

func TestInboxReadRowsNotObserved(t *testing.T) {
	now := time.Now()
	readAt := now.Add(-time.Minute)
	read := unreadMessage("m1", "Mia", now)
	read.IsRead = true
	read.ReadAt = &readAt

	backend := &fakeBackend{inbox: []models.Message{
		read,
		unreadMessage("m2", "Sara", now.Add(-time.Hour)),
	}}
	timers := &manualTimers{}
	view := newTestInbox(t, backend, timers)

	view.View(80, 10, styles.DefaultTheme)
	require.Equal(t, 1, timers.count())
}

func TestInboxScrollCancelsTimer(t *testing.T) {
	now := time.Now()
	var inbox []models.Message
	for _, id := range []string{"m1", "m2", "m3", "m4"} {
		inbox = append(inbox, unreadMessage(id, "Sender "+id, now))
		now = now.Add(-time.Hour)
	}
	backend := &fakeBackend{inbox: inbox}
	timers := &manualTimers{}
	view := newTestInbox(t, backend, timers)

	view.View(80, 2, styles.DefaultTheme)
	require.Equal(t, 1, timers.count())
	first := timers.created[0]

	// Scroll the first row out before its dwell elapses.
	view.Update(runeKey('j'))
	view.Update(runeKey('j'))
	view.View(80, 2, styles.DefaultTheme)
	require.True(t, first.stopped)
}

func TestInboxReloadRestartsObservation(t *testing.T) {
	now := time.Now()
	backend := &fakeBackend{
		inbox:   []models.Message{unreadMessage("m1", "Mia", now)},
		markErr: errors.New("backend down"),
	}
	timers := &manualTimers{}
	view := newTestInbox(t, backend, timers)

	view.View(80, 10, styles.DefaultTheme)
	require.Equal(t, 1, timers.count())
	timers.fireAll()

	msg := view.listenSeenCmd()()
	done := view.markReadCmd(msg.(seenMsg).id)()
	require.Error(t, done.(markReadDoneMsg).err)
	require.False(t, view.store.Inbox()[0].IsRead)

	// A reload starts a fresh observation lifetime, so the still-unread
	// message can be retried.
	view.Update(storeLoadedMsg{})
	view.View(80, 10, styles.DefaultTheme)
	require.Equal(t, 2, timers.count())
}

func TestInboxReplyFlow(t *testing.T) {
	now := time.Now()
	backend := &fakeBackend{inbox: []models.Message{
		unreadMessage("m1", "Mia", now),
	}}
	timers := &manualTimers{}
	view := newTestInbox(t, backend, timers)

	cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, view.capturingInput())
	require.Equal(t, "u-m1", view.compose.recipientID)

	// Opening the reply marks the message read explicitly.
	require.NotNil(t, cmd)
	done := cmd()
	require.NoError(t, done.(markReadDoneMsg).err)
	require.True(t, view.store.Inbox()[0].IsRead)

	view.Update(runeKey('h'))
	view.Update(runeKey('i'))
	sendCmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, sendCmd)
	sent := sendCmd()

	toast := view.Update(sent)
	require.NotNil(t, toast)
	require.False(t, view.capturingInput())
	require.Len(t, view.store.Outbox(), 1)
	require.Equal(t, "hi", view.store.Outbox()[0].Body)
}

func TestInboxEmptyBodyNotSent(t *testing.T) {
	backend := &fakeBackend{inbox: []models.Message{
		unreadMessage("m1", "Mia", time.Now()),
	}}
	timers := &manualTimers{}
	view := newTestInbox(t, backend, timers)

	view.openCompose("u-1", "Mia")
	cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Nil(t, cmd)
	require.True(t, view.capturingInput())
}
