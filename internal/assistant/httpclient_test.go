package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/slotdesk/slotdesk/internal/appointments"
)

func TestHTTPBookerCreate(t *testing.T) {
	id := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/appointments", r.URL.Path)

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Equal(t, "John", payload["name"])
		require.Equal(t, "10:00", payload["time"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": id, "name": "John", "date": payload["date"],
			"time": "10:00", "status": "pending", "createdAt": time.Now().UTC(),
		})
	}))
	defer srv.Close()

	booker := NewHTTPBooker(srv.URL)
	date := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	a, err := booker.Create(context.Background(), "John", "", date, 10, 0)
	require.NoError(t, err)
	require.Equal(t, id, a.ID)
	require.Equal(t, appointments.StatusPending, a.Status)
	require.Equal(t, 10, a.Hour)
	require.True(t, a.Date.Equal(date))
}

func TestHTTPBookerValidationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"error": "That time slot is already taken.", "reason": "slot_taken",
		})
	}))
	defer srv.Close()

	booker := NewHTTPBooker(srv.URL)
	_, err := booker.Create(context.Background(), "Alex", "", time.Now(), 10, 0)
	ve, ok := appointments.AsValidationError(err)
	require.True(t, ok)
	require.Equal(t, appointments.ReasonSlotTaken, ve.Reason)
}

func TestHTTPBookerServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	booker := NewHTTPBooker(srv.URL)
	_, err := booker.Create(context.Background(), "Alex", "", time.Now(), 10, 0)
	require.Error(t, err)
	_, isValidation := appointments.AsValidationError(err)
	require.False(t, isValidation)
}

func TestHTTPBookerUnreachable(t *testing.T) {
	booker := NewHTTPBooker("http://127.0.0.1:1")
	_, err := booker.Create(context.Background(), "Alex", "", time.Now(), 10, 0)
	require.Error(t, err)
}
