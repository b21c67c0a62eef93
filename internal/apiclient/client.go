// Package apiclient is a typed HTTP client for the Citas administrative API.
// It authenticates with the service API key and decodes the API's page
// envelope and error responses.
package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/citasmx/citas-api/internal/api/middleware"
	"github.com/citasmx/citas-api/internal/api/shared"
	"github.com/citasmx/citas-api/internal/config"
	"github.com/citasmx/citas-api/internal/domain"
	"github.com/citasmx/citas-api/internal/service/availability"
	"github.com/citasmx/citas-api/internal/service/notification"
	"github.com/citasmx/citas-api/internal/store"
)

// Sentinel errors matched by APIError.Is on the response status. A 403 also
// matches store.ErrNotFound, which is how the API reports missing rows.
var (
	ErrUnauthorized  = errors.New("api: unauthorized")
	ErrNotAvailable  = errors.New("api: resource not available")
	ErrInvalidParams = errors.New("api: invalid parameters")
)

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
	TraceID    string
}

func (e *APIError) Error() string {
	if e.TraceID != "" {
		return fmt.Sprintf("api responded %d: %s (trace %s)", e.StatusCode, e.Message, e.TraceID)
	}
	return fmt.Sprintf("api responded %d: %s", e.StatusCode, e.Message)
}

// Is maps the status code to the package sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrNotAvailable, store.ErrNotFound:
		return e.StatusCode == http.StatusForbidden
	case ErrInvalidParams:
		return e.StatusCode == http.StatusNotAcceptable || e.StatusCode == http.StatusBadRequest
	}
	return false
}

// Client calls the API with the service API key.
type Client struct {
	baseURL    *url.URL
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client, e.g. in tests.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// New creates a client from the citasctl configuration.
func New(cfg config.ClientConfig, logger *slog.Logger, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", cfg.BaseURL)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &Client{
		baseURL:    base,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With("component", "apiclient"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// do sends one request to /v2/<path> and decodes a 2xx body into out.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, out any) error {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/v2/" + strings.TrimLeft(path, "/")
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set(middleware.APIKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", method, u.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.DebugContext(ctx, "api call",
		"method", method,
		"path", u.Path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds())

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("failed to read response of %s: %w", u.Path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, TraceID: resp.Header.Get(shared.TraceIDHeader)}
		var er shared.ErrorResponse
		if json.Unmarshal(body, &er) == nil && er.Error != "" {
			apiErr.Message = er.Error
			if er.TraceID != "" {
				apiErr.TraceID = er.TraceID
			}
		} else {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response of %s: %w", u.Path, err)
	}
	return nil
}

// List fetches one page of a resource collection.
func List[T any](ctx context.Context, c *Client, resource string, params url.Values) (*shared.PageResponse[T], error) {
	var page shared.PageResponse[T]
	if err := c.do(ctx, http.MethodGet, resource, params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Get fetches one row of a resource by id.
func Get[T any](ctx context.Context, c *Client, resource string, id int64) (*T, error) {
	var row T
	if err := c.do(ctx, http.MethodGet, resource+"/"+strconv.FormatInt(id, 10), nil, &row); err != nil {
		return nil, err
	}
	return &row, nil
}

// Each walks every page of a collection, calling fn for each row in order.
// It stops at the first error fn returns.
func Each[T any](ctx context.Context, c *Client, resource string, params url.Values, fn func(T) error) error {
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("size", strconv.Itoa(100))

	for number := 1; ; number++ {
		q.Set("page", strconv.Itoa(number))
		page, err := List[T](ctx, c, resource, q)
		if err != nil {
			return err
		}
		for _, item := range page.Items {
			if err := fn(item); err != nil {
				return err
			}
		}
		if number >= page.Pages || len(page.Items) == 0 {
			return nil
		}
	}
}

// AvailableDays calls GET /v2/citas/dias-disponibles.
func (c *Client) AvailableDays(ctx context.Context, oficinaID, servicioID int64) (*availability.Days, error) {
	var days availability.Days
	q := url.Values{
		"oficina_id":  {strconv.FormatInt(oficinaID, 10)},
		"servicio_id": {strconv.FormatInt(servicioID, 10)},
	}
	if err := c.do(ctx, http.MethodGet, "citas/dias-disponibles", q, &days); err != nil {
		return nil, err
	}
	return &days, nil
}

// AvailableHours calls GET /v2/citas/horas-disponibles.
func (c *Client) AvailableHours(ctx context.Context, oficinaID, servicioID int64, fecha domain.Date) (*availability.Hours, error) {
	var hours availability.Hours
	q := url.Values{
		"oficina_id":  {strconv.FormatInt(oficinaID, 10)},
		"servicio_id": {strconv.FormatInt(servicioID, 10)},
		"fecha":       {fecha.String()},
	}
	if err := c.do(ctx, http.MethodGet, "citas/horas-disponibles", q, &hours); err != nil {
		return nil, err
	}
	return &hours, nil
}

var resendPaths = map[domain.PendingKind]string{
	domain.PendingRegistration: "registros/reenviar",
	domain.PendingRecovery:     "recuperaciones/reenviar",
}

// Resend runs the resend loop for kind on the server.
func (c *Client) Resend(ctx context.Context, kind domain.PendingKind) (*notification.ResendResult, error) {
	path, ok := resendPaths[kind]
	if !ok {
		return nil, fmt.Errorf("unknown pending kind %q", kind)
	}
	var res notification.ResendResult
	if err := c.do(ctx, http.MethodPost, path, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
