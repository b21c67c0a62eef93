package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/citasmx/citas-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	templates []string
	errs      []error
}

func (o *recordingObserver) ObserveMail(template string, err error) {
	o.templates = append(o.templates, template)
	o.errs = append(o.errs, err)
}

func testMailConfig(url string) config.MailConfig {
	return config.MailConfig{
		APIURL:      url,
		APIKey:      "SG.test-key",
		FromAddress: "no-responder@citas.gob.mx",
		FromName:    "Citas",
	}
}

func testMessage() Message {
	return Message{
		Template: TemplateRegistro,
		To:       Address{Email: "ana@example.com", Name: "Ana"},
		Subject:  "Confirme su registro",
		HTML:     "<p>Hola</p>",
		Text:     "Hola",
	}
}

func TestClient_Send(t *testing.T) {
	t.Parallel()

	var got sendRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v3/mail/send", r.URL.Path)
		assert.Equal(t, "Bearer SG.test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	observer := &recordingObserver{}
	client, err := NewClient(testMailConfig(server.URL+"/"), nil, WithObserver(observer))
	require.NoError(t, err)

	require.NoError(t, client.Send(context.Background(), testMessage()))

	require.Len(t, got.Personalizations, 1)
	assert.Equal(t, []Address{{Email: "ana@example.com", Name: "Ana"}}, got.Personalizations[0].To)
	assert.Equal(t, Address{Email: "no-responder@citas.gob.mx", Name: "Citas"}, got.From)
	assert.Equal(t, "Confirme su registro", got.Subject)
	assert.Equal(t, []content{{Type: "text/plain", Value: "Hola"}, {Type: "text/html", Value: "<p>Hola</p>"}}, got.Content)
	assert.Equal(t, []string{"registro"}, got.Categories)
	assert.Equal(t, []string{"registro"}, observer.templates)
	assert.Nil(t, observer.errs[0])
}

func TestClient_SendRejected(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errors":[{"message":"The from address does not match a verified Sender Identity.","field":"from"}]}`))
	}))
	defer server.Close()

	observer := &recordingObserver{}
	client, err := NewClient(testMailConfig(server.URL), nil, WithObserver(observer))
	require.NoError(t, err)

	err = client.Send(context.Background(), testMessage())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrProvider))
	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), "verified Sender Identity")
	assert.Error(t, observer.errs[0])
}

func TestClient_SendWithoutRecipient(t *testing.T) {
	t.Parallel()

	client, err := NewClient(testMailConfig("http://127.0.0.1:1"), nil)
	require.NoError(t, err)

	msg := testMessage()
	msg.To = Address{}
	assert.Error(t, client.Send(context.Background(), msg))
}

func TestNewClient_RequiresConfig(t *testing.T) {
	t.Parallel()

	_, err := NewClient(config.MailConfig{APIURL: "https://api.sendgrid.com"}, nil)
	assert.Error(t, err)
}

func TestNewSender(t *testing.T) {
	t.Parallel()

	sender, err := NewSender(config.MailConfig{}, nil)
	require.NoError(t, err)
	assert.IsType(t, &LogSender{}, sender)

	sender, err = NewSender(testMailConfig("https://api.sendgrid.com"), nil)
	require.NoError(t, err)
	assert.IsType(t, &Client{}, sender)
}

func TestLogSender_RedactsRecipient(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	sender := NewLogSender(slog.New(slog.NewJSONHandler(&buf, nil)))

	require.NoError(t, sender.Send(context.Background(), testMessage()))
	assert.Contains(t, buf.String(), "Confirme su registro")
	assert.NotContains(t, buf.String(), "ana@example.com")
	assert.Contains(t, buf.String(), "[REDACTED_EMAIL]")
}
