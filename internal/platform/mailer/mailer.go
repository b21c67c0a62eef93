// Package mailer renders the transactional e-mails of the platform and
// delivers them through the mail provider's HTTP API.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/citasmx/citas-api/internal/config"
	"github.com/citasmx/citas-api/internal/platform/logger"
	"github.com/citasmx/citas-api/internal/redact"
)

// ErrProvider is returned when the provider rejects a message.
var ErrProvider = errors.New("mail provider rejected message")

// Address is an e-mail recipient or sender.
type Address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Message is a rendered e-mail ready to send.
type Message struct {
	Template TemplateName
	To       Address
	Subject  string
	HTML     string
	Text     string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Observer is notified of every delivery attempt.
type Observer interface {
	ObserveMail(template string, err error)
}

// Client sends mail through a SendGrid v3 compatible mail/send endpoint.
type Client struct {
	endpoint   string
	apiKey     string
	from       Address
	httpClient *http.Client
	observer   Observer
	logger     *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// WithObserver reports every attempt to o.
func WithObserver(o Observer) Option {
	return func(cl *Client) { cl.observer = o }
}

// NewClient creates a provider client from the mail settings.
func NewClient(cfg config.MailConfig, logger *slog.Logger, opts ...Option) (*Client, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("mail is not configured: api_url, api_key and from_address are required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		endpoint:   strings.TrimRight(cfg.APIURL, "/") + "/v3/mail/send",
		apiKey:     cfg.APIKey,
		from:       Address{Email: cfg.FromAddress, Name: cfg.FromName},
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger.With("component", "mailer"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type sendRequest struct {
	Personalizations []personalization `json:"personalizations"`
	From             Address           `json:"from"`
	Subject          string            `json:"subject"`
	Content          []content         `json:"content"`
	Categories       []string          `json:"categories,omitempty"`
}

type personalization struct {
	To []Address `json:"to"`
}

type content struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type errorResponse struct {
	Errors []struct {
		Message string `json:"message"`
		Field   string `json:"field"`
	} `json:"errors"`
}

// Send posts msg to the provider. Any 2xx status is success.
func (c *Client) Send(ctx context.Context, msg Message) error {
	err := c.send(ctx, msg)
	if c.observer != nil {
		c.observer.ObserveMail(string(msg.Template), err)
	}
	return err
}

func (c *Client) send(ctx context.Context, msg Message) error {
	log := logger.FromContextOrDefault(ctx, c.logger)

	if msg.To.Email == "" {
		return fmt.Errorf("message has no recipient")
	}

	req := sendRequest{
		Personalizations: []personalization{{To: []Address{msg.To}}},
		From:             c.from,
		Subject:          msg.Subject,
		Content: []content{
			{Type: "text/plain", Value: msg.Text},
			{Type: "text/html", Value: msg.HTML},
		},
	}
	if msg.Template != "" {
		req.Categories = []string{string(msg.Template)}
	}
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to encode mail request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create mail request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send mail request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		log.Debug("mail accepted",
			"template", msg.Template,
			"to", redact.String(msg.To.Email),
			"status", resp.StatusCode)
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var parsed errorResponse
	detail := strings.TrimSpace(string(raw))
	if json.Unmarshal(raw, &parsed) == nil && len(parsed.Errors) > 0 {
		parts := make([]string, 0, len(parsed.Errors))
		for _, e := range parsed.Errors {
			parts = append(parts, e.Message)
		}
		detail = strings.Join(parts, "; ")
	}
	log.Warn("mail rejected",
		"template", msg.Template,
		"status", resp.StatusCode,
		"detail", redact.String(detail))
	return fmt.Errorf("%w: status %d: %s", ErrProvider, resp.StatusCode, detail)
}

// LogSender writes messages to the log instead of sending them. It stands in
// for the provider when mail is not configured and backs dry runs.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a LogSender.
func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger.With("component", "mailer", "mode", "log")}
}

// Send logs the message subject and redacted recipient.
func (s *LogSender) Send(ctx context.Context, msg Message) error {
	logger.FromContextOrDefault(ctx, s.logger).Info("mail not sent",
		"template", msg.Template,
		"to", redact.String(msg.To.Email),
		"subject", msg.Subject)
	return nil
}

// NewSender returns a provider client when mail is configured and a
// LogSender otherwise.
func NewSender(cfg config.MailConfig, logger *slog.Logger, opts ...Option) (Sender, error) {
	if !cfg.Enabled() {
		return NewLogSender(logger), nil
	}
	return NewClient(cfg, logger, opts...)
}
