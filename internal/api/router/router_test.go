package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/require"

	"github.com/slotdesk/slotdesk/internal/appointments"
)

type emptyStore struct{}

func (emptyStore) Insert(context.Context, *appointments.Appointment) error { return nil }
func (emptyStore) Get(context.Context, uuid.UUID) (*appointments.Appointment, error) {
	return nil, appointments.ErrNotFound
}
func (emptyStore) List(context.Context, appointments.Status) ([]appointments.Appointment, error) {
	return []appointments.Appointment{}, nil
}
func (emptyStore) ListActiveOnDate(context.Context, time.Time) ([]appointments.Appointment, error) {
	return nil, nil
}
func (emptyStore) UpdateStatus(context.Context, uuid.UUID, appointments.Status) (*appointments.Appointment, error) {
	return nil, appointments.ErrNotFound
}

func newRouter(t *testing.T, adminSecret string) http.Handler {
	t.Helper()
	svc := appointments.NewService(emptyStore{}, appointments.DefaultSchedule(), nil, nil, appointments.ServiceOptions{})
	reg := prometheus.NewRegistry()
	return New(&Config{
		Appointments:    appointments.NewHandler(svc, nil),
		MetricsHandler:  promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		AdminAuthSecret: adminSecret,
	})
}

func TestHealthEndpoint(t *testing.T) {
	r := newRouter(t, "")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "ok")
}

func TestReadyEndpoint(t *testing.T) {
	svc := appointments.NewService(emptyStore{}, appointments.DefaultSchedule(), nil, nil, appointments.ServiceOptions{})
	readyErr := error(nil)
	r := New(&Config{
		Appointments: appointments.NewHandler(svc, nil),
		ReadyCheck:   func(context.Context) error { return readyErr },
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	readyErr = appointments.ErrNotFound
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	r := newRouter(t, "")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestListRouteWired(t *testing.T) {
	r := newRouter(t, "")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/appointments", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "appointments")
}

func TestDecisionRoutesRequireAdminToken(t *testing.T) {
	r := newRouter(t, "s3cret")

	url := "/appointments/" + uuid.NewString() + "/approve"
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, url, nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Reads stay public.
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/appointments", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestDecisionRoutesOpenWithoutSecret(t *testing.T) {
	r := newRouter(t, "")

	url := "/appointments/" + uuid.NewString() + "/reject"
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, url, nil))
	// No auth layer configured; unknown id falls through to 404.
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateRouteUsesLimiter(t *testing.T) {
	svc := appointments.NewService(emptyStore{}, appointments.DefaultSchedule(), nil, nil, appointments.ServiceOptions{})
	blocked := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
		})
	}
	r := New(&Config{
		Appointments:  appointments.NewHandler(svc, nil),
		CreateLimiter: blocked,
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader("{}"))
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
}
