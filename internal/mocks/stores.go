package mocks

import (
	"context"
	"sync"

	"github.com/citasmx/citas-api/internal/domain"
	"github.com/citasmx/citas-api/internal/store"
)

// Plain resource stores need nothing beyond the Lister surface.
type (
	MockDistrictStore   = MockLister[domain.District, store.DistrictFilter]
	MockOfficeStore     = MockLister[domain.Office, store.OfficeFilter]
	MockServiceStore    = MockLister[domain.Service, store.ServiceFilter]
	MockClientStore     = MockLister[domain.Client, store.ClientFilter]
	MockSurveyStore     = MockLister[domain.Survey, store.SurveyFilter]
	MockPaymentStore    = MockLister[domain.Payment, store.PaymentFilter]
	MockPermissionStore = MockLister[domain.PermissionRow, store.PermissionFilter]
	MockRoleStore       = MockLister[domain.Role, store.RoleFilter]
)

var (
	_ store.DistrictStore    = (*MockDistrictStore)(nil)
	_ store.OfficeStore      = (*MockOfficeStore)(nil)
	_ store.ServiceStore     = (*MockServiceStore)(nil)
	_ store.ClientStore      = (*MockClientStore)(nil)
	_ store.SurveyStore      = (*MockSurveyStore)(nil)
	_ store.PaymentStore     = (*MockPaymentStore)(nil)
	_ store.PermissionStore  = (*MockPermissionStore)(nil)
	_ store.RoleStore        = (*MockRoleStore)(nil)
	_ store.UserStore        = (*MockUserStore)(nil)
	_ store.ScheduleStore    = (*MockScheduleStore)(nil)
	_ store.HolidayStore     = (*MockHolidayStore)(nil)
	_ store.AppointmentStore = (*MockAppointmentStore)(nil)
	_ store.PendingStore     = (*MockPendingStore)(nil)
)

// MockUserStore implements store.UserStore for testing
type MockUserStore struct {
	MockLister[domain.User, store.UserFilter]

	GetByEmailFn func(ctx context.Context, email string) (*domain.User, error)
	ByEmail      map[string]*domain.User
}

// GetByEmail implements store.UserStore.
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	if user, ok := m.ByEmail[email]; ok {
		return user, nil
	}
	return nil, store.ErrUserNotFound
}

// MockScheduleStore implements store.ScheduleStore for testing
type MockScheduleStore struct {
	MockLister[domain.Schedule, store.ScheduleFilter]

	ListForOfficeFn func(ctx context.Context, oficinaID, servicioID int64) ([]domain.Schedule, error)
	Windows         []domain.Schedule
}

// ListForOffice implements store.ScheduleStore.
func (m *MockScheduleStore) ListForOffice(ctx context.Context, oficinaID, servicioID int64) ([]domain.Schedule, error) {
	if m.ListForOfficeFn != nil {
		return m.ListForOfficeFn(ctx, oficinaID, servicioID)
	}
	return m.Windows, nil
}

// MockHolidayStore implements store.HolidayStore for testing
type MockHolidayStore struct {
	MockLister[domain.Holiday, store.HolidayFilter]

	ListBetweenFn func(ctx context.Context, oficinaID int64, from, to domain.Date) ([]domain.Holiday, error)
	Holidays      []domain.Holiday
}

// ListBetween implements store.HolidayStore.
func (m *MockHolidayStore) ListBetween(
	ctx context.Context,
	oficinaID int64,
	from, to domain.Date,
) ([]domain.Holiday, error) {
	if m.ListBetweenFn != nil {
		return m.ListBetweenFn(ctx, oficinaID, from, to)
	}
	return m.Holidays, nil
}

// MockAppointmentStore implements store.AppointmentStore for testing
type MockAppointmentStore struct {
	MockLister[domain.Appointment, store.AppointmentFilter]

	CountBookedFn func(ctx context.Context, oficinaID, servicioID int64, fecha domain.Date) (map[domain.Clock]int, error)
	Booked        map[domain.Clock]int
}

// CountBooked implements store.AppointmentStore.
func (m *MockAppointmentStore) CountBooked(
	ctx context.Context,
	oficinaID, servicioID int64,
	fecha domain.Date,
) (map[domain.Clock]int, error) {
	if m.CountBookedFn != nil {
		return m.CountBookedFn(ctx, oficinaID, servicioID, fecha)
	}
	return m.Booked, nil
}

// MockPendingStore implements store.PendingStore for testing
type MockPendingStore struct {
	MockLister[domain.Pending, store.PendingFilter]

	PendingKind   domain.PendingKind
	ListPendingFn func(ctx context.Context) ([]domain.Pending, error)
	DeactivateFn  func(ctx context.Context, id int64) error
	Pending       []domain.Pending

	deactivateMu sync.Mutex
	Deactivated  []int64
}

// Kind implements store.PendingStore.
func (m *MockPendingStore) Kind() domain.PendingKind {
	if m.PendingKind == "" {
		return domain.PendingRegistration
	}
	return m.PendingKind
}

// ListPending implements store.PendingStore.
func (m *MockPendingStore) ListPending(ctx context.Context) ([]domain.Pending, error) {
	if m.ListPendingFn != nil {
		return m.ListPendingFn(ctx)
	}
	return m.Pending, nil
}

// Deactivate implements store.PendingStore.
func (m *MockPendingStore) Deactivate(ctx context.Context, id int64) error {
	m.deactivateMu.Lock()
	m.Deactivated = append(m.Deactivated, id)
	m.deactivateMu.Unlock()

	if m.DeactivateFn != nil {
		return m.DeactivateFn(ctx, id)
	}
	return nil
}
