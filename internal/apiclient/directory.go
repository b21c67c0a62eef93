package apiclient

import (
	"context"
	"net/url"
	"strconv"

	"github.com/citasmx/citas-api/internal/domain"
)

// EachAppointment walks the active appointments booked on fecha. A non-nil
// attended restricts them to the asistio value.
func (c *Client) EachAppointment(ctx context.Context, fecha domain.Date, attended *bool, fn func(domain.Appointment) error) error {
	q := url.Values{
		"fecha_desde": {fecha.String()},
		"fecha_hasta": {fecha.String()},
	}
	if attended != nil {
		q.Set("asistio", strconv.FormatBool(*attended))
	}
	return Each(ctx, c, "citas", q, fn)
}

// GetClient calls GET /v2/clientes/{id}.
func (c *Client) GetClient(ctx context.Context, id int64) (*domain.Client, error) {
	return Get[domain.Client](ctx, c, "clientes", id)
}

// GetOffice calls GET /v2/oficinas/{id}.
func (c *Client) GetOffice(ctx context.Context, id int64) (*domain.Office, error) {
	return Get[domain.Office](ctx, c, "oficinas", id)
}

// GetService calls GET /v2/servicios/{id}.
func (c *Client) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	return Get[domain.Service](ctx, c, "servicios", id)
}
