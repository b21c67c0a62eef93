package catalog_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/citasmx/citas-api/internal/domain"
	"github.com/citasmx/citas-api/internal/mocks"
	"github.com/citasmx/citas-api/internal/service/catalog"
	"github.com/citasmx/citas-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func officeStore() *mocks.MockOfficeStore {
	return &mocks.MockOfficeStore{
		Rows: map[int64]*domain.Office{
			1: {ID: 1, Nombre: "Centro", Estatus: domain.StatusActive},
			2: {ID: 2, Nombre: "Norte", Estatus: domain.StatusDeleted},
		},
		NotFoundErr: store.ErrOfficeNotFound,
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		id      int64
		wantErr error
	}{
		{name: "active row", id: 1},
		{name: "deleted row", id: 2, wantErr: catalog.ErrDeleted},
		{name: "missing row", id: 3, wantErr: store.ErrNotFound},
		{name: "zero id", id: 0, wantErr: domain.ErrInvalidID},
		{name: "negative id", id: -4, wantErr: domain.ErrInvalidID},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var offices store.OfficeStore = officeStore()
			office, err := catalog.Get[domain.Office, *domain.Office, store.OfficeFilter](context.Background(), offices, tt.id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, office)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.id, office.ID)
		})
	}
}

func TestLookup_ReturnsDeletedRows(t *testing.T) {
	t.Parallel()

	office, err := catalog.Lookup[domain.Office, *domain.Office, store.OfficeFilter](context.Background(), officeStore(), 2)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDeleted, office.Estatus)
}

func TestList(t *testing.T) {
	t.Parallel()

	t.Run("empty result encodes as empty slice", func(t *testing.T) {
		t.Parallel()
		res, err := catalog.List[domain.Office, store.OfficeFilter](
			context.Background(), officeStore(), store.OfficeFilter{}, store.DefaultPageRequest())
		require.NoError(t, err)
		assert.NotNil(t, res.Items)
		assert.Empty(t, res.Items)
	})

	t.Run("filter validation runs before the store", func(t *testing.T) {
		t.Parallel()
		appointments := &mocks.MockAppointmentStore{}
		from := domain.NewDate(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
		to := domain.NewDate(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
		_, err := catalog.List[domain.Appointment, store.AppointmentFilter](
			context.Background(), appointments,
			store.AppointmentFilter{FechaDesde: &from, FechaHasta: &to},
			store.DefaultPageRequest())
		assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
		assert.Zero(t, appointments.ListCallCount())
	})

	t.Run("store errors propagate", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		_, err := catalog.List[domain.Office, store.OfficeFilter](
			context.Background(), &mocks.MockOfficeStore{Err: boom}, store.OfficeFilter{}, store.DefaultPageRequest())
		assert.ErrorIs(t, err, boom)
	})
}

func TestCheckStatus(t *testing.T) {
	t.Parallel()

	assert.NoError(t, catalog.CheckStatus(&domain.Service{Estatus: domain.StatusActive}))
	assert.ErrorIs(t, catalog.CheckStatus(&domain.Service{Estatus: domain.StatusDeleted}), catalog.ErrDeleted)
}
