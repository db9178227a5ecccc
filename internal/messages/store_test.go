package messages

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fitmate/admin-console/internal/models"
)

// fakeAPI implements Fetcher and ReadMarker with controllable behavior.
type fakeAPI struct {
	mu sync.Mutex

	inbox  []models.Message
	outbox []models.Message
	users  []models.User

	inboxErr  error
	outboxErr error
	usersErr  error

	inboxCalls  int
	outboxCalls int
	usersCalls  int

	markCalls []string
	markErr   error

	// markStarted receives once per MarkMessageRead call when non-nil.
	markStarted chan struct{}
	// markGate blocks MarkMessageRead until it receives when non-nil.
	markGate chan struct{}
}

func (f *fakeAPI) FetchInbox(context.Context) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inboxCalls++
	if f.inboxErr != nil {
		return nil, f.inboxErr
	}
	return append([]models.Message(nil), f.inbox...), nil
}

func (f *fakeAPI) FetchOutbox(context.Context) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outboxCalls++
	if f.outboxErr != nil {
		return nil, f.outboxErr
	}
	return append([]models.Message(nil), f.outbox...), nil
}

func (f *fakeAPI) FetchUsers(context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.usersCalls++
	if f.usersErr != nil {
		return nil, f.usersErr
	}
	return append([]models.User(nil), f.users...), nil
}

func (f *fakeAPI) MarkMessageRead(_ context.Context, id string) error {
	f.mu.Lock()
	f.markCalls = append(f.markCalls, id)
	started := f.markStarted
	gate := f.markGate
	err := f.markErr
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if gate != nil {
		<-gate
	}
	return err
}

func (f *fakeAPI) markCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.markCalls)
}

func unreadMessage(id string) models.Message {
	return models.Message{
		ID:        id,
		Sender:    models.Sender{ID: "u-1", Name: "Dana", Role: models.RoleTrainer},
		Body:      "body of " + id,
		CreatedAt: time.Date(2026, 8, 10, 8, 0, 0, 0, time.UTC),
	}
}

func TestLoadIsIdempotentUntilForced(t *testing.T) {
	api := &fakeAPI{inbox: []models.Message{unreadMessage("msg-1")}}
	store := NewStore(api)
	ctx := context.Background()

	require.NoError(t, store.Load(ctx, false))
	require.NoError(t, store.Load(ctx, false))
	require.Equal(t, 1, api.inboxCalls)
	require.Equal(t, 1, api.outboxCalls)
	require.Equal(t, 1, api.usersCalls)

	require.NoError(t, store.Load(ctx, true))
	require.Equal(t, 2, api.inboxCalls)
}

func TestLoadFailureLeavesPriorStateUntouched(t *testing.T) {
	api := &fakeAPI{inbox: []models.Message{unreadMessage("msg-1")}}
	store := NewStore(api)
	ctx := context.Background()

	require.NoError(t, store.Load(ctx, false))
	require.Len(t, store.Inbox(), 1)

	api.mu.Lock()
	api.inbox = []models.Message{unreadMessage("msg-1"), unreadMessage("msg-2")}
	api.outboxErr = errors.New("backend down")
	api.mu.Unlock()

	err := store.Load(ctx, true)
	require.Error(t, err)
	require.Len(t, store.Inbox(), 1, "failed reload must not commit partial results")
	require.True(t, store.Loaded())
}

func TestUnreadCount(t *testing.T) {
	read := unreadMessage("msg-2")
	at := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	read.IsRead = true
	read.ReadAt = &at

	api := &fakeAPI{inbox: []models.Message{unreadMessage("msg-1"), read, unreadMessage("msg-3")}}
	store := NewStore(api)
	require.NoError(t, store.Load(context.Background(), false))
	require.Equal(t, 2, store.UnreadCount())
}

func TestInboxReturnsCopies(t *testing.T) {
	api := &fakeAPI{inbox: []models.Message{unreadMessage("msg-1")}}
	store := NewStore(api)
	require.NoError(t, store.Load(context.Background(), false))

	first := store.Inbox()
	first[0].IsRead = true
	first[0].Body = "mutated"

	second := store.Inbox()
	require.False(t, second[0].IsRead)
	require.Equal(t, "body of msg-1", second[0].Body)
}

func TestAppendOutbox(t *testing.T) {
	api := &fakeAPI{}
	store := NewStore(api)
	require.NoError(t, store.Load(context.Background(), false))

	store.AppendOutbox(unreadMessage("sent-1"))
	require.Len(t, store.Outbox(), 1)
}
