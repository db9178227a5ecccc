package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fitmate/admin-console/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(Config{BaseURL: server.URL, Token: "test-token"})
	require.NoError(t, err)
	return client
}

func TestFetchInboxDecodesMessages(t *testing.T) {
	readAt := time.Date(2026, 8, 1, 9, 30, 0, 0, time.UTC)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/v1/messages/inbox", r.URL.Path)
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode(map[string]any{
			"messages": []models.Message{
				{
					ID:        "msg-1",
					Sender:    models.Sender{ID: "u-1", Name: "Dana", Role: models.RoleTrainer},
					Body:      "new program uploaded",
					CreatedAt: readAt.Add(-time.Hour),
					IsRead:    true,
					ReadAt:    &readAt,
				},
				{
					ID:     "msg-2",
					Sender: models.Sender{ID: "u-2", Name: "Sam", Role: models.RoleTrainee},
					Body:   "can I move my session?",
				},
			},
		})
	})

	messages, err := client.FetchInbox(context.Background())
	require.NoError(t, err)
	require.Len(t, messages, 2)
	require.True(t, messages[0].IsRead)
	require.NotNil(t, messages[0].ReadAt)
	require.False(t, messages[1].IsRead)
	require.Nil(t, messages[1].ReadAt)
}

func TestMarkMessageReadTreatsAny2xxAsSuccess(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/api/v1/messages/msg-7/read", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.MarkMessageRead(context.Background(), "msg-7"))
}

func TestUnauthorizedClassifiesAsSessionExpired(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid or expired token"})
	})

	_, err := client.FetchDashboard(context.Background())
	require.Error(t, err)
	require.True(t, IsSessionExpired(err))
	require.False(t, IsTimeout(err))
}

func TestTimeoutClassifiesAsTimeout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})
	client.http = &http.Client{Timeout: 20 * time.Millisecond}

	_, err := client.FetchUsers(context.Background())
	require.Error(t, err)
	require.True(t, IsTimeout(err))
	require.False(t, IsSessionExpired(err))
}

func TestGenericFailureCarriesStatusAndDetail(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "database unavailable"})
	})

	err := client.MarkMessageRead(context.Background(), "msg-1")
	require.Error(t, err)
	require.False(t, IsSessionExpired(err))
	require.False(t, IsTimeout(err))

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusInternalServerError, apiErr.Status)
	require.Equal(t, "database unavailable", apiErr.Detail)
}

func TestLoginStoresToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/login", r.URL.Path)
		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		require.Equal(t, "admin@fitmate.test", creds["email"])
		json.NewEncoder(w).Encode(map[string]string{"token": "fresh-token"})
	})

	token, err := client.Login(context.Background(), "admin@fitmate.test", "hunter2")
	require.NoError(t, err)
	require.Equal(t, "fresh-token", token)
	require.Equal(t, "fresh-token", client.token)
}

func TestNewRejectsEmptyBaseURL(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
}
