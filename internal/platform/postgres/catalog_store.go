package postgres

import (
	"context"
	"log/slog"

	"github.com/citasmx/citas-api/internal/domain"
	"github.com/citasmx/citas-api/internal/store"
)

var districtTable = table[domain.District]{
	name:     "distritos",
	columns:  "id, nombre, clave, estatus, creado_en",
	notFound: store.ErrDistrictNotFound,
	scan: func(r rowScanner) (domain.District, error) {
		var d domain.District
		err := r.Scan(&d.ID, &d.Nombre, &d.Clave, &d.Estatus, &d.CreatedAt)
		return d, err
	},
}

var officeTable = table[domain.Office]{
	name:     "oficinas",
	columns:  "id, nombre, direccion, telefono, email, distrito_id, estatus, creado_en",
	notFound: store.ErrOfficeNotFound,
	scan: func(r rowScanner) (domain.Office, error) {
		var o domain.Office
		err := r.Scan(&o.ID, &o.Nombre, &o.Direccion, &o.Telefono, &o.Email, &o.DistritoID, &o.Estatus, &o.CreatedAt)
		return o, err
	},
}

var serviceTable = table[domain.Service]{
	name: "servicios",
	columns: "id, nombre, descripcion, oficina_id, duracion_minutos, requiere_pago, costo, " +
		"estatus, creado_en",
	notFound: store.ErrServiceNotFound,
	scan: func(r rowScanner) (domain.Service, error) {
		var s domain.Service
		err := r.Scan(&s.ID, &s.Nombre, &s.Descripcion, &s.OficinaID, &s.DuracionMinutos,
			&s.RequierePago, &s.Costo, &s.Estatus, &s.CreatedAt)
		return s, err
	},
}

// PostgresDistrictStore implements store.DistrictStore.
type PostgresDistrictStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDistrictStore creates a distritos store.
func NewPostgresDistrictStore(db store.DBTX, logger *slog.Logger) *PostgresDistrictStore {
	return &PostgresDistrictStore{db: db, logger: componentLogger(logger, "district_store")}
}

var _ store.DistrictStore = (*PostgresDistrictStore)(nil)

// List implements store.DistrictStore.
func (s *PostgresDistrictStore) List(
	ctx context.Context,
	f store.DistrictFilter,
	page store.Page,
) (store.Result[domain.District], error) {
	c := newConditions()
	c.status("estatus", f.Status)
	c.contains("nombre", f.Nombre)
	c.text("clave", f.Clave)
	return districtTable.list(ctx, s.db, s.logger, c, page)
}

// GetByID implements store.DistrictStore.
func (s *PostgresDistrictStore) GetByID(ctx context.Context, id int64) (*domain.District, error) {
	return districtTable.get(ctx, s.db, s.logger, id)
}

// PostgresOfficeStore implements store.OfficeStore.
type PostgresOfficeStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresOfficeStore creates an oficinas store.
func NewPostgresOfficeStore(db store.DBTX, logger *slog.Logger) *PostgresOfficeStore {
	return &PostgresOfficeStore{db: db, logger: componentLogger(logger, "office_store")}
}

var _ store.OfficeStore = (*PostgresOfficeStore)(nil)

// List implements store.OfficeStore.
func (s *PostgresOfficeStore) List(
	ctx context.Context,
	f store.OfficeFilter,
	page store.Page,
) (store.Result[domain.Office], error) {
	c := newConditions()
	c.status("estatus", f.Status)
	c.contains("nombre", f.Nombre)
	c.id("distrito_id", f.DistritoID)
	return officeTable.list(ctx, s.db, s.logger, c, page)
}

// GetByID implements store.OfficeStore.
func (s *PostgresOfficeStore) GetByID(ctx context.Context, id int64) (*domain.Office, error) {
	return officeTable.get(ctx, s.db, s.logger, id)
}

// PostgresServiceStore implements store.ServiceStore.
type PostgresServiceStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresServiceStore creates a servicios store.
func NewPostgresServiceStore(db store.DBTX, logger *slog.Logger) *PostgresServiceStore {
	return &PostgresServiceStore{db: db, logger: componentLogger(logger, "service_store")}
}

var _ store.ServiceStore = (*PostgresServiceStore)(nil)

// List implements store.ServiceStore.
func (s *PostgresServiceStore) List(
	ctx context.Context,
	f store.ServiceFilter,
	page store.Page,
) (store.Result[domain.Service], error) {
	c := newConditions()
	c.status("estatus", f.Status)
	c.contains("nombre", f.Nombre)
	c.id("oficina_id", f.OficinaID)
	c.flag("requiere_pago", f.RequierePago)
	return serviceTable.list(ctx, s.db, s.logger, c, page)
}

// GetByID implements store.ServiceStore.
func (s *PostgresServiceStore) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	return serviceTable.get(ctx, s.db, s.logger, id)
}

// componentLogger tags a store logger, falling back to the default logger.
func componentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With(slog.String("component", component))
}
