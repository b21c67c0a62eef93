package main

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/citasmx/citas-api/internal/apiclient"
	"github.com/citasmx/citas-api/internal/domain"
	"github.com/spf13/cobra"
)

// filterFlag maps a command line flag to a list query parameter.
type filterFlag struct {
	flag  string
	param string
	usage string
}

// column renders one table column of a row.
type column[T any] struct {
	header string
	value  func(T) string
}

var commonFilters = []filterFlag{
	{"estatus", "estatus", "A (default), B or todos"},
	{"page", "page", "page number, starting at 1"},
	{"size", "size", "rows per page, at most 100"},
}

func listCmd[T any](c *cli, resource string, filters []filterFlag, columns []column[T]) *cobra.Command {
	values := make(map[string]*string, len(filters)+len(commonFilters))
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List " + resource,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			for param, v := range values {
				if *v != "" {
					q.Set(param, *v)
				}
			}
			page, err := apiclient.List[T](cmd.Context(), c.client, resource, q)
			if err != nil {
				return err
			}
			if c.asJSON {
				return c.printJSON(page)
			}

			header := make([]string, len(columns))
			for i, col := range columns {
				header[i] = col.header
			}
			rows := make([][]string, 0, len(page.Items))
			for _, item := range page.Items {
				row := make([]string, len(columns))
				for i, col := range columns {
					row[i] = col.value(item)
				}
				rows = append(rows, row)
			}
			if err := c.printTable(header, rows); err != nil {
				return err
			}
			_, err = fmt.Fprintf(c.out, "\npage %d of %d, %d rows\n", page.Page, page.Pages, page.Total)
			return err
		},
	}
	for _, f := range append(append([]filterFlag{}, filters...), commonFilters...) {
		v := new(string)
		values[f.param] = v
		cmd.Flags().StringVar(v, f.flag, "", f.usage)
	}
	return cmd
}

func id(v int64) string { return strconv.FormatInt(v, 10) }

func optionalID(v *int64) string {
	if v == nil {
		return "-"
	}
	return id(*v)
}

func yesNo(v bool) string {
	if v {
		return "si"
	}
	return "no"
}

var (
	districtFilters = []filterFlag{
		{"nombre", "nombre", "name contains"},
		{"clave", "clave", "district key"},
	}
	districtColumns = []column[domain.District]{
		{"ID", func(d domain.District) string { return id(d.ID) }},
		{"CLAVE", func(d domain.District) string { return d.Clave }},
		{"NOMBRE", func(d domain.District) string { return d.Nombre }},
		{"ESTATUS", func(d domain.District) string { return string(d.Estatus) }},
	}

	officeFilters = []filterFlag{
		{"nombre", "nombre", "name contains"},
		{"distrito", "distrito_id", "district id"},
	}
	officeColumns = []column[domain.Office]{
		{"ID", func(o domain.Office) string { return id(o.ID) }},
		{"NOMBRE", func(o domain.Office) string { return o.Nombre }},
		{"DISTRITO", func(o domain.Office) string { return id(o.DistritoID) }},
		{"DIRECCION", func(o domain.Office) string { return o.Direccion }},
		{"ESTATUS", func(o domain.Office) string { return string(o.Estatus) }},
	}

	serviceFilters = []filterFlag{
		{"nombre", "nombre", "name contains"},
		{"oficina", "oficina_id", "office id"},
		{"requiere-pago", "requiere_pago", "true or false"},
	}
	serviceColumns = []column[domain.Service]{
		{"ID", func(s domain.Service) string { return id(s.ID) }},
		{"NOMBRE", func(s domain.Service) string { return s.Nombre }},
		{"OFICINA", func(s domain.Service) string { return id(s.OficinaID) }},
		{"MINUTOS", func(s domain.Service) string { return strconv.Itoa(s.DuracionMinutos) }},
		{"PAGO", func(s domain.Service) string { return yesNo(s.RequierePago) }},
		{"COSTO", func(s domain.Service) string { return s.Costo.StringFixed(2) }},
	}

	userFilters = []filterFlag{
		{"email", "email", "e-mail"},
		{"rol", "rol_id", "role id"},
		{"oficina", "oficina_id", "office id"},
	}
	userColumns = []column[domain.User]{
		{"ID", func(u domain.User) string { return id(u.ID) }},
		{"EMAIL", func(u domain.User) string { return u.Email }},
		{"NOMBRE", func(u domain.User) string { return u.Nombre }},
		{"ROL", func(u domain.User) string { return id(u.RolID) }},
		{"OFICINA", func(u domain.User) string { return optionalID(u.OficinaID) }},
		{"ESTATUS", func(u domain.User) string { return string(u.Estatus) }},
	}

	appointmentFilters = []filterFlag{
		{"folio", "folio", "appointment folio"},
		{"cliente", "cliente_id", "client id"},
		{"oficina", "oficina_id", "office id"},
		{"servicio", "servicio_id", "service id"},
		{"desde", "fecha_desde", "first date, YYYY-MM-DD"},
		{"hasta", "fecha_hasta", "last date, YYYY-MM-DD"},
		{"asistio", "asistio", "true or false"},
	}
	appointmentColumns = []column[domain.Appointment]{
		{"ID", func(a domain.Appointment) string { return id(a.ID) }},
		{"FOLIO", func(a domain.Appointment) string { return a.Folio }},
		{"FECHA", func(a domain.Appointment) string { return a.Fecha.String() }},
		{"HORA", func(a domain.Appointment) string { return a.Hora.String() }},
		{"CLIENTE", func(a domain.Appointment) string { return id(a.ClienteID) }},
		{"OFICINA", func(a domain.Appointment) string { return id(a.OficinaID) }},
		{"SERVICIO", func(a domain.Appointment) string { return id(a.ServicioID) }},
		{"ASISTIO", func(a domain.Appointment) string { return yesNo(a.Asistio) }},
	}

	paymentFilters = []filterFlag{
		{"cita", "cita_id", "appointment id"},
		{"referencia", "referencia", "payment reference"},
		{"pagado", "pagado", "true or false"},
		{"monto-min", "monto_min", "minimum amount"},
		{"monto-max", "monto_max", "maximum amount"},
	}
	paymentColumns = []column[domain.Payment]{
		{"ID", func(p domain.Payment) string { return id(p.ID) }},
		{"CITA", func(p domain.Payment) string { return id(p.CitaID) }},
		{"REFERENCIA", func(p domain.Payment) string { return p.Referencia }},
		{"MONTO", func(p domain.Payment) string { return p.Monto.StringFixed(2) }},
		{"PAGADO", func(p domain.Payment) string { return yesNo(p.Pagado) }},
	}
)
