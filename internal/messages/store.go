// Package messages holds the admin session's message state: the fetched
// inbox/outbox collections and the read-state reconciliation against the
// backend.
package messages

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/fitmate/admin-console/internal/logging"
	"github.com/fitmate/admin-console/internal/models"
)

// Fetcher is the slice of the backend API the store needs.
type Fetcher interface {
	FetchInbox(ctx context.Context) ([]models.Message, error)
	FetchOutbox(ctx context.Context) ([]models.Message, error)
	FetchUsers(ctx context.Context) ([]models.User, error)
}

// Store owns the session's message collections and the set of message IDs
// with an in-flight mark-read request. All access goes through its own
// methods; callers receive copies.
type Store struct {
	api    Fetcher
	logger zerolog.Logger

	mu     sync.Mutex
	loaded bool
	inbox  []models.Message
	outbox []models.Message
	users  []models.User

	// pending tracks message IDs with an in-flight mark-read request.
	// It is reset on every successful reload so stale in-flight markers
	// never outlive the collections they guard.
	pending map[string]struct{}
}

// NewStore creates an empty store backed by the given API.
func NewStore(api Fetcher) *Store {
	return &Store{
		api:     api,
		logger:  logging.Component("message-store"),
		pending: make(map[string]struct{}),
	}
}

// Load fetches inbox, outbox and users from the backend. When the store is
// already loaded and force is false it is a no-op. The three fetches run
// concurrently and commit as one unit: on any failure the prior state is
// left untouched and a single error is returned.
func (s *Store) Load(ctx context.Context, force bool) error {
	s.mu.Lock()
	if s.loaded && !force {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	var (
		wg     sync.WaitGroup
		inbox  []models.Message
		outbox []models.Message
		users  []models.User

		inboxErr  error
		outboxErr error
		usersErr  error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		inbox, inboxErr = s.api.FetchInbox(ctx)
	}()
	go func() {
		defer wg.Done()
		outbox, outboxErr = s.api.FetchOutbox(ctx)
	}()
	go func() {
		defer wg.Done()
		users, usersErr = s.api.FetchUsers(ctx)
	}()
	wg.Wait()

	for _, err := range []error{inboxErr, outboxErr, usersErr} {
		if err != nil {
			s.logger.Warn().Err(err).Msg("message reload failed; keeping previous state")
			return fmt.Errorf("load messages: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inbox = inbox
	s.outbox = outbox
	s.users = users
	s.loaded = true
	s.pending = make(map[string]struct{})

	s.logger.Debug().
		Int("inbox", len(inbox)).
		Int("outbox", len(outbox)).
		Int("users", len(users)).
		Msg("message collections replaced")
	return nil
}

// Loaded reports whether an initial load has completed.
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Inbox returns a copy of the inbox collection.
func (s *Store) Inbox() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneMessages(s.inbox)
}

// Outbox returns a copy of the outbox collection. Outbox messages are
// never mutated locally.
func (s *Store) Outbox() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneMessages(s.outbox)
}

// Users returns a copy of the member list.
func (s *Store) Users() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.User, len(s.users))
	copy(out, s.users)
	return out
}

// UnreadCount returns the number of unread inbox messages.
func (s *Store) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for i := range s.inbox {
		if !s.inbox[i].IsRead {
			count++
		}
	}
	return count
}

// AppendOutbox records a message the admin just sent. The backend copy is
// authoritative; this only keeps the local view current until the next
// reload.
func (s *Store) AppendOutbox(msg models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outbox = append(s.outbox, msg)
}

// beginMarkRead atomically runs the guard steps of the mark-read
// transition: it refuses IDs that are already in flight, unknown, or
// already read, and otherwise records the in-flight marker. The message's
// read flag is deliberately not touched here; it only flips after the
// backend confirms.
func (s *Store) beginMarkRead(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, inFlight := s.pending[id]; inFlight {
		return false
	}
	msg := s.findInbox(id)
	if msg == nil || msg.IsRead {
		return false
	}
	s.pending[id] = struct{}{}
	return true
}

// confirmRead applies backend confirmation: the read flag flips, the read
// timestamp is set, and the in-flight marker is dropped.
func (s *Store) confirmRead(id string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.pending, id)
	if msg := s.findInbox(id); msg != nil && !msg.IsRead {
		msg.IsRead = true
		msg.ReadAt = &at
	}
}

// abortMarkRead drops the in-flight marker after a failed request, leaving
// the message unread and retry-eligible.
func (s *Store) abortMarkRead(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, id)
}

// markPending reports whether id has an in-flight mark-read request.
func (s *Store) markPending(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[id]
	return ok
}

// findInbox returns a pointer into the inbox slice. Callers must hold mu.
func (s *Store) findInbox(id string) *models.Message {
	for i := range s.inbox {
		if s.inbox[i].ID == id {
			return &s.inbox[i]
		}
	}
	return nil
}

func cloneMessages(in []models.Message) []models.Message {
	out := make([]models.Message, len(in))
	for i := range in {
		out[i] = in[i]
		if in[i].ReadAt != nil {
			at := *in[i].ReadAt
			out[i].ReadAt = &at
		}
	}
	return out
}
