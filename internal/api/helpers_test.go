package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/citasmx/citas-api/internal/api/middleware"
	"github.com/citasmx/citas-api/internal/api/shared"
	"github.com/citasmx/citas-api/internal/domain"
	"github.com/citasmx/citas-api/internal/mocks"
	"github.com/citasmx/citas-api/internal/service/auth"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

// testStores holds the mocks behind a Resources value.
type testStores struct {
	districts     *mocks.MockDistrictStore
	offices       *mocks.MockOfficeStore
	services      *mocks.MockServiceStore
	schedules     *mocks.MockScheduleStore
	holidays      *mocks.MockHolidayStore
	clients       *mocks.MockClientStore
	appointments  *mocks.MockAppointmentStore
	surveys       *mocks.MockSurveyStore
	payments      *mocks.MockPaymentStore
	permissions   *mocks.MockPermissionStore
	roles         *mocks.MockRoleStore
	users         *mocks.MockUserStore
	registrations *mocks.MockPendingStore
	recoveries    *mocks.MockPendingStore
}

func newTestStores() *testStores {
	return &testStores{
		districts:     &mocks.MockDistrictStore{},
		offices:       &mocks.MockOfficeStore{},
		services:      &mocks.MockServiceStore{},
		schedules:     &mocks.MockScheduleStore{},
		holidays:      &mocks.MockHolidayStore{},
		clients:       &mocks.MockClientStore{},
		appointments:  &mocks.MockAppointmentStore{},
		surveys:       &mocks.MockSurveyStore{},
		payments:      &mocks.MockPaymentStore{},
		permissions:   &mocks.MockPermissionStore{},
		roles:         &mocks.MockRoleStore{},
		users:         &mocks.MockUserStore{},
		registrations: &mocks.MockPendingStore{PendingKind: domain.PendingRegistration},
		recoveries:    &mocks.MockPendingStore{PendingKind: domain.PendingRecovery},
	}
}

func (s *testStores) resources() Resources {
	return Resources{
		Districts:     s.districts,
		Offices:       s.offices,
		Services:      s.services,
		Schedules:     s.schedules,
		Holidays:      s.holidays,
		Clients:       s.clients,
		Appointments:  s.appointments,
		Surveys:       s.surveys,
		Payments:      s.payments,
		Permissions:   s.permissions,
		Roles:         s.roles,
		Users:         s.users,
		Registrations: s.registrations,
		Recoveries:    s.recoveries,
	}
}

// withPrincipal injects p into every request, standing in for Authenticate.
func withPrincipal(p *auth.Principal) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p != nil {
				r = r.WithContext(auth.WithPrincipal(r.Context(), p))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// newTestRouter mounts mount under /v2 for a caller holding perms.
func newTestRouter(perms domain.Permission, mount func(r chi.Router)) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.NewTraceMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil))))
	r.Use(withPrincipal(&auth.Principal{Kind: auth.KindUser, UserID: 1, Permissions: perms}))
	r.Route("/v2", mount)
	return r
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()
	var body shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func decodePage[T any](t *testing.T, rec *httptest.ResponseRecorder) shared.PageResponse[T] {
	t.Helper()
	var page shared.PageResponse[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	return page
}

func ptr[T any](v T) *T { return &v }
