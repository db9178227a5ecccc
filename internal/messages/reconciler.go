package messages

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/fitmate/admin-console/internal/logging"
)

// ReadMarker is the slice of the backend API the reconciler needs.
type ReadMarker interface {
	MarkMessageRead(ctx context.Context, id string) error
}

// Reconciler drives the unread-to-read transition for inbox messages,
// keeping local state consistent with backend confirmation. For any given
// message ID at most one mark-read request is in flight at a time.
type Reconciler struct {
	store  *Store
	api    ReadMarker
	logger zerolog.Logger
	now    func() time.Time
}

// ReconcilerOption customizes a Reconciler.
type ReconcilerOption func(*Reconciler)

// WithNow overrides the clock, for tests.
func WithNow(now func() time.Time) ReconcilerOption {
	return func(r *Reconciler) {
		if now != nil {
			r.now = now
		}
	}
}

// NewReconciler creates a reconciler over the given store and API.
func NewReconciler(store *Store, api ReadMarker, opts ...ReconcilerOption) *Reconciler {
	r := &Reconciler{
		store:  store,
		api:    api,
		logger: logging.Component("read-reconciler"),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// MarkAsRead transitions one inbox message to read.
//
// Duplicate concurrent triggers for the same ID, unknown IDs, and
// already-read messages are silent no-ops that issue no request. The
// message's read flag only flips after the backend confirms; on failure
// the in-flight marker is dropped so a later trigger can retry.
//
// The classified error is returned so explicit user actions can surface
// it; background triggers are expected to ignore it (the failure is
// already logged here).
func (r *Reconciler) MarkAsRead(ctx context.Context, id string) error {
	if !r.store.beginMarkRead(id) {
		return nil
	}

	if err := r.api.MarkMessageRead(ctx, id); err != nil {
		r.store.abortMarkRead(id)
		r.logger.Warn().Err(err).Str("message_id", id).Msg("mark-read failed; message stays unread")
		return err
	}

	r.store.confirmRead(id, r.now())
	r.logger.Debug().Str("message_id", id).Msg("message marked read")
	return nil
}
