package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/citasmx/citas-api/internal/api"
	"github.com/citasmx/citas-api/internal/config"
	"github.com/citasmx/citas-api/internal/domain"
	"github.com/citasmx/citas-api/internal/mocks"
	"github.com/citasmx/citas-api/internal/platform/metrics"
	"github.com/citasmx/citas-api/internal/service/auth"
	"github.com/citasmx/citas-api/internal/service/availability"
	"github.com/citasmx/citas-api/internal/service/notification"
	"github.com/citasmx/citas-api/internal/store"
	"github.com/citasmx/citas-api/internal/task"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "citasctl-test-key-0123456789"

type fakeAvailability struct{}

func (fakeAvailability) Days(_ context.Context, oficinaID, servicioID int64) (*availability.Days, error) {
	return &availability.Days{OficinaID: oficinaID, ServicioID: servicioID, Dias: []domain.Date{}}, nil
}

func (fakeAvailability) Hours(_ context.Context, oficinaID, servicioID int64, fecha domain.Date) (*availability.Hours, error) {
	return &availability.Hours{OficinaID: oficinaID, ServicioID: servicioID, Fecha: fecha}, nil
}

func (fakeAvailability) Location() *time.Location { return time.UTC }

type fakeResender struct{ calls []domain.PendingKind }

func (f *fakeResender) ResendPending(_ context.Context, kind domain.PendingKind) (notification.ResendResult, error) {
	f.calls = append(f.calls, kind)
	return notification.ResendResult{Tipo: kind, Queued: 1}, nil
}

type emptyTaskReader struct{}

func (emptyTaskReader) List(context.Context, store.TaskFilter, store.Page) (store.Result[task.Record], error) {
	return store.Result[task.Record]{}, nil
}

func (emptyTaskReader) GetByID(context.Context, uuid.UUID) (*task.Record, error) {
	return nil, store.ErrTaskNotFound
}

// newTestApplication builds an application on mocks; the bearer token
// "catalogos-token" belongs to user 7, whose role grants Catalogos only.
func newTestApplication(t *testing.T) (*application, *fakeResender) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	users := &mocks.MockUserStore{}
	users.Rows = map[int64]*domain.User{
		7: {ID: 7, Email: "operador@citas.gob.mx", RolID: 2, Estatus: domain.StatusActive},
	}
	roles := &mocks.MockRoleStore{Rows: map[int64]*domain.Role{
		2: {ID: 2, Nombre: "Operador", Permisos: domain.PermCatalogos, Estatus: domain.StatusActive},
	}}
	jwt := &mocks.MockJWTService{
		ValidateTokenFn: func(_ context.Context, token string) (*auth.Claims, error) {
			if token != "catalogos-token" {
				return nil, auth.ErrInvalidToken
			}
			return &auth.Claims{UserID: 7, TokenType: "access"}, nil
		},
	}
	authCfg := config.AuthConfig{
		JWTSecret:                   strings.Repeat("s", 32),
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 120,
		APIKey:                      testAPIKey,
	}
	authSvc, err := auth.NewService(authCfg, jwt, &mocks.MockPasswordVerifier{}, users, roles, logger)
	require.NoError(t, err)

	resender := &fakeResender{}
	app := &application{
		config:  &config.Config{Auth: authCfg},
		logger:  logger,
		metrics: metrics.New(),
		resources: api.Resources{
			Districts: &mocks.MockDistrictStore{Items: []domain.District{
				{ID: 1, Nombre: "Centro", Estatus: domain.StatusActive},
			}},
			Offices:       &mocks.MockOfficeStore{},
			Services:      &mocks.MockServiceStore{},
			Schedules:     &mocks.MockScheduleStore{},
			Holidays:      &mocks.MockHolidayStore{},
			Clients:       &mocks.MockClientStore{},
			Appointments:  &mocks.MockAppointmentStore{},
			Surveys:       &mocks.MockSurveyStore{},
			Payments:      &mocks.MockPaymentStore{},
			Permissions:   &mocks.MockPermissionStore{},
			Roles:         roles,
			Users:         users,
			Registrations: &mocks.MockPendingStore{PendingKind: domain.PendingRegistration},
			Recoveries:    &mocks.MockPendingStore{PendingKind: domain.PendingRecovery},
		},
		auth:         authSvc,
		availability: fakeAvailability{},
		resender:     resender,
		tasks:        emptyTaskReader{},
	}
	return app, resender
}

func serve(t *testing.T, h http.Handler, method, target string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSetupRouter_Access(t *testing.T) {
	t.Parallel()

	app, _ := newTestApplication(t)
	router, err := app.setupRouter()
	require.NoError(t, err)

	apiKey := http.Header{"X-Api-Key": []string{testAPIKey}}
	bearer := http.Header{"Authorization": []string{"Bearer catalogos-token"}}

	tests := []struct {
		name   string
		method string
		target string
		header http.Header
		status int
	}{
		{"health is public", http.MethodGet, "/health", nil, http.StatusOK},
		{"metrics are public", http.MethodGet, "/metrics", nil, http.StatusOK},
		{"no credentials", http.MethodGet, "/v2/distritos", nil, http.StatusUnauthorized},
		{"wrong api key", http.MethodGet, "/v2/distritos", http.Header{"X-Api-Key": []string{"nope"}}, http.StatusUnauthorized},
		{"unknown bearer token", http.MethodGet, "/v2/distritos", http.Header{"Authorization": []string{"Bearer other"}}, http.StatusUnauthorized},
		{"api key lists", http.MethodGet, "/v2/distritos", apiKey, http.StatusOK},
		{"user with permission", http.MethodGet, "/v2/distritos", bearer, http.StatusOK},
		{"user without permission", http.MethodGet, "/v2/tareas", bearer, http.StatusForbidden},
		{"user without citas", http.MethodGet, "/v2/citas/dias-disponibles?oficina_id=1&servicio_id=1", bearer, http.StatusForbidden},
		{"me", http.MethodGet, "/v2/me", bearer, http.StatusOK},
		{"api key reads tasks", http.MethodGet, "/v2/tareas", apiKey, http.StatusOK},
		{"unknown route", http.MethodGet, "/v2/nada", apiKey, http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(t, router, tc.method, tc.target, tc.header)
			assert.Equal(t, tc.status, rec.Code, rec.Body.String())
			if tc.target != "/health" && tc.target != "/metrics" {
				assert.NotEmpty(t, rec.Header().Get("X-Trace-ID"))
			}
		})
	}
}

func TestSetupRouter_AvailabilityRoutesBeforeID(t *testing.T) {
	t.Parallel()

	app, _ := newTestApplication(t)
	router, err := app.setupRouter()
	require.NoError(t, err)
	apiKey := http.Header{"X-Api-Key": []string{testAPIKey}}

	rec := serve(t, router, http.MethodGet, "/v2/citas/dias-disponibles?oficina_id=3&servicio_id=4", apiKey)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"oficina_id":3,"servicio_id":4,"dias":[]}`, rec.Body.String())

	rec = serve(t, router, http.MethodGet, "/v2/citas/horas-disponibles?oficina_id=3&servicio_id=4&fecha=2025-03-04", apiKey)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"fecha":"2025-03-04"`)

	rec = serve(t, router, http.MethodGet, "/v2/citas/abc", apiKey)
	assert.Equal(t, http.StatusNotAcceptable, rec.Code)
}

func TestSetupRouter_Resend(t *testing.T) {
	t.Parallel()

	app, resender := newTestApplication(t)
	router, err := app.setupRouter()
	require.NoError(t, err)
	apiKey := http.Header{"X-Api-Key": []string{testAPIKey}}

	rec := serve(t, router, http.MethodPost, "/v2/registros/reenviar", apiKey)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = serve(t, router, http.MethodPost, "/v2/recuperaciones/reenviar", apiKey)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = serve(t, router, http.MethodGet, "/v2/registros/reenviar", apiKey)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	assert.Equal(t, []domain.PendingKind{domain.PendingRegistration, domain.PendingRecovery}, resender.calls)
}

func TestSetupRouter_MetricsCountRoutes(t *testing.T) {
	t.Parallel()

	app, _ := newTestApplication(t)
	router, err := app.setupRouter()
	require.NoError(t, err)

	serve(t, router, http.MethodGet, "/v2/distritos", http.Header{"X-Api-Key": []string{testAPIKey}})

	rec := serve(t, router, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `citas_http_requests_total{code="200",method="GET",route="/v2/distritos"} 1`)
}
