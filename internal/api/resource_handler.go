package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/citasmx/citas-api/internal/api/shared"
	"github.com/citasmx/citas-api/internal/domain"
	"github.com/citasmx/citas-api/internal/service/catalog"
	"github.com/citasmx/citas-api/internal/store"
	"github.com/go-chi/chi/v5"
)

// Guard wraps handlers with a permission check.
type Guard func(required domain.Permission) func(http.Handler) http.Handler

// entity constrains PT to a pointer to T carrying estatus.
type entity[T any] interface {
	*T
	catalog.Entity
}

// listHandler serves a paged, filtered list of one resource.
func listHandler[T any, F any](lister store.Lister[T, F], parse func(q *shared.Query) F) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := shared.NewQuery(r)
		filter := parse(q)
		page := q.Page()
		if err := q.Err(); err != nil {
			HandleAPIError(w, r, err, "")
			return
		}

		res, err := catalog.List(r.Context(), lister, filter, page)
		if err != nil {
			HandleAPIError(w, r, err, "Failed to list resources")
			return
		}
		shared.RespondWithJSON(w, r, http.StatusOK, shared.NewPageResponse(res, page))
	}
}

// getHandler serves one active row by its {id}.
func getHandler[T any, PT entity[T], F any](lister store.Lister[T, F]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := getPathID(r, "id")
		if err != nil {
			HandleAPIError(w, r, err, "")
			return
		}

		row, err := catalog.Get[T, PT, F](r.Context(), lister, id)
		if err != nil {
			HandleAPIError(w, r, err, "Failed to get resource")
			return
		}
		shared.RespondWithJSON(w, r, http.StatusOK, row)
	}
}

// Resources are the stores behind the read-only resource endpoints.
type Resources struct {
	Districts     store.DistrictStore
	Offices       store.OfficeStore
	Services      store.ServiceStore
	Schedules     store.ScheduleStore
	Holidays      store.HolidayStore
	Clients       store.ClientStore
	Appointments  store.AppointmentStore
	Surveys       store.SurveyStore
	Payments      store.PaymentStore
	Permissions   store.PermissionStore
	Roles         store.RoleStore
	Users         store.UserStore
	Registrations store.PendingStore
	Recoveries    store.PendingStore
}

func (res Resources) validate() error {
	for name, s := range map[string]any{
		"districts": res.Districts, "offices": res.Offices, "services": res.Services,
		"schedules": res.Schedules, "holidays": res.Holidays, "clients": res.Clients,
		"appointments": res.Appointments, "surveys": res.Surveys, "payments": res.Payments,
		"permissions": res.Permissions, "roles": res.Roles, "users": res.Users,
		"registrations": res.Registrations, "recoveries": res.Recoveries,
	} {
		if s == nil {
			return fmt.Errorf("%s store cannot be nil", name)
		}
	}
	return nil
}

// ResourceHandler serves the list and get endpoints of every resource.
type ResourceHandler struct {
	res      Resources
	location *time.Location
}

// NewResourceHandler creates the handler. Date filters are parsed in loc.
func NewResourceHandler(res Resources, loc *time.Location) (*ResourceHandler, error) {
	if err := res.validate(); err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.UTC
	}
	return &ResourceHandler{res: res, location: loc}, nil
}

// Mount registers the resource routes on r, each group behind guard.
func (h *ResourceHandler) Mount(r chi.Router, guard Guard) {
	loc := h.location

	r.Group(func(r chi.Router) {
		r.Use(guard(domain.PermCatalogos))

		r.Get("/distritos", listHandler[domain.District, store.DistrictFilter](h.res.Districts, func(q *shared.Query) store.DistrictFilter {
			return store.DistrictFilter{Status: q.Status(), Nombre: q.String("nombre"), Clave: q.String("clave")}
		}))
		r.Get("/distritos/{id}", getHandler[domain.District, *domain.District, store.DistrictFilter](h.res.Districts))

		r.Get("/oficinas", listHandler[domain.Office, store.OfficeFilter](h.res.Offices, func(q *shared.Query) store.OfficeFilter {
			return store.OfficeFilter{Status: q.Status(), Nombre: q.String("nombre"), DistritoID: q.ID("distrito_id")}
		}))
		r.Get("/oficinas/{id}", getHandler[domain.Office, *domain.Office, store.OfficeFilter](h.res.Offices))

		r.Get("/servicios", listHandler[domain.Service, store.ServiceFilter](h.res.Services, func(q *shared.Query) store.ServiceFilter {
			return store.ServiceFilter{
				Status:       q.Status(),
				Nombre:       q.String("nombre"),
				OficinaID:    q.ID("oficina_id"),
				RequierePago: q.Bool("requiere_pago"),
			}
		}))
		r.Get("/servicios/{id}", getHandler[domain.Service, *domain.Service, store.ServiceFilter](h.res.Services))

		r.Get("/horarios", listHandler[domain.Schedule, store.ScheduleFilter](h.res.Schedules, func(q *shared.Query) store.ScheduleFilter {
			return store.ScheduleFilter{
				Status:     q.Status(),
				OficinaID:  q.ID("oficina_id"),
				ServicioID: q.ID("servicio_id"),
				DiaSemana:  q.Int("dia_semana"),
			}
		}))
		r.Get("/horarios/{id}", getHandler[domain.Schedule, *domain.Schedule, store.ScheduleFilter](h.res.Schedules))

		r.Get("/dias-inhabiles", listHandler[domain.Holiday, store.HolidayFilter](h.res.Holidays, func(q *shared.Query) store.HolidayFilter {
			return store.HolidayFilter{
				Status:    q.Status(),
				OficinaID: q.ID("oficina_id"),
				Desde:     q.Date("desde", loc),
				Hasta:     q.Date("hasta", loc),
			}
		}))
		r.Get("/dias-inhabiles/{id}", getHandler[domain.Holiday, *domain.Holiday, store.HolidayFilter](h.res.Holidays))
	})

	r.Group(func(r chi.Router) {
		r.Use(guard(domain.PermClientes))

		r.Get("/clientes", listHandler[domain.Client, store.ClientFilter](h.res.Clients, func(q *shared.Query) store.ClientFilter {
			return store.ClientFilter{
				Status: q.Status(),
				CURP:   q.CURP("curp"),
				Email:  q.String("email"),
				Nombre: q.String("nombre"),
			}
		}))
		r.Get("/clientes/{id}", getHandler[domain.Client, *domain.Client, store.ClientFilter](h.res.Clients))
	})

	r.Group(func(r chi.Router) {
		r.Use(guard(domain.PermCitas))

		r.Get("/citas", listHandler[domain.Appointment, store.AppointmentFilter](h.res.Appointments, func(q *shared.Query) store.AppointmentFilter {
			return store.AppointmentFilter{
				Status:     q.Status(),
				Folio:      q.String("folio"),
				ClienteID:  q.ID("cliente_id"),
				OficinaID:  q.ID("oficina_id"),
				ServicioID: q.ID("servicio_id"),
				FechaDesde: q.Date("fecha_desde", loc),
				FechaHasta: q.Date("fecha_hasta", loc),
				Asistio:    q.Bool("asistio"),
			}
		}))
		r.Get("/citas/{id}", getHandler[domain.Appointment, *domain.Appointment, store.AppointmentFilter](h.res.Appointments))
	})

	r.Group(func(r chi.Router) {
		r.Use(guard(domain.PermEncuestas))

		r.Get("/encuestas", listHandler[domain.Survey, store.SurveyFilter](h.res.Surveys, func(q *shared.Query) store.SurveyFilter {
			return store.SurveyFilter{
				Status:          q.Status(),
				CitaID:          q.ID("cita_id"),
				CalificacionMin: q.Int("calificacion_min"),
				CalificacionMax: q.Int("calificacion_max"),
			}
		}))
		r.Get("/encuestas/{id}", getHandler[domain.Survey, *domain.Survey, store.SurveyFilter](h.res.Surveys))
	})

	r.Group(func(r chi.Router) {
		r.Use(guard(domain.PermPagos))

		r.Get("/pagos", listHandler[domain.Payment, store.PaymentFilter](h.res.Payments, func(q *shared.Query) store.PaymentFilter {
			return store.PaymentFilter{
				Status:     q.Status(),
				CitaID:     q.ID("cita_id"),
				Referencia: q.String("referencia"),
				Pagado:     q.Bool("pagado"),
				MontoMin:   q.Decimal("monto_min"),
				MontoMax:   q.Decimal("monto_max"),
			}
		}))
		r.Get("/pagos/{id}", getHandler[domain.Payment, *domain.Payment, store.PaymentFilter](h.res.Payments))
	})

	r.Group(func(r chi.Router) {
		r.Use(guard(domain.PermRoles))

		r.Get("/permisos", listHandler[domain.PermissionRow, store.PermissionFilter](h.res.Permissions, func(q *shared.Query) store.PermissionFilter {
			return store.PermissionFilter{Status: q.Status(), Clave: q.String("clave")}
		}))
		r.Get("/permisos/{id}", getHandler[domain.PermissionRow, *domain.PermissionRow, store.PermissionFilter](h.res.Permissions))

		r.Get("/roles", listHandler[domain.Role, store.RoleFilter](h.res.Roles, func(q *shared.Query) store.RoleFilter {
			return store.RoleFilter{Status: q.Status(), Nombre: q.String("nombre")}
		}))
		r.Get("/roles/{id}", getHandler[domain.Role, *domain.Role, store.RoleFilter](h.res.Roles))
	})

	r.Group(func(r chi.Router) {
		r.Use(guard(domain.PermUsuarios))

		r.Get("/usuarios", listHandler[domain.User, store.UserFilter](h.res.Users, func(q *shared.Query) store.UserFilter {
			return store.UserFilter{
				Status:    q.Status(),
				Email:     q.String("email"),
				RolID:     q.ID("rol_id"),
				OficinaID: q.ID("oficina_id"),
			}
		}))
		r.Get("/usuarios/{id}", getHandler[domain.User, *domain.User, store.UserFilter](h.res.Users))
	})

	r.Group(func(r chi.Router) {
		r.Use(guard(domain.PermNotificaciones))

		pending := func(q *shared.Query) store.PendingFilter {
			return store.PendingFilter{Status: q.Status(), Email: q.String("email")}
		}
		r.Get("/registros", listHandler[domain.Pending, store.PendingFilter](h.res.Registrations, pending))
		r.Get("/recuperaciones", listHandler[domain.Pending, store.PendingFilter](h.res.Recoveries, pending))
	})
}
