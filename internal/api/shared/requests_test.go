package shared

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tokenBody struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid json", body: `{"email":"a@b.mx","password":"x"}`},
		{name: "trailing comma", body: `{"email":"a@b.mx",}`, wantErr: true},
		{name: "unknown field", body: `{"email":"a@b.mx","admin":true}`, wantErr: true},
		{name: "two objects", body: `{"email":"a@b.mx"} {"email":"c@d.mx"}`, wantErr: true},
		{name: "empty body", body: ``, wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			var v tokenBody
			err := DecodeJSON(req, &v)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrMalformedBody)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "a@b.mx", v.Email)
		})
	}
}

type selfValidating struct{ ok bool }

func (s selfValidating) Validate() error {
	if !s.ok {
		return assert.AnError
	}
	return nil
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateRequest(tokenBody{Email: "a@b.mx", Password: "x"}))
	assert.Error(t, ValidateRequest(tokenBody{Email: "no-es-correo", Password: "x"}))
	assert.Error(t, ValidateRequest(tokenBody{Email: "a@b.mx"}))

	assert.NoError(t, ValidateRequest(selfValidating{ok: true}))
	assert.ErrorIs(t, ValidateRequest(selfValidating{}), assert.AnError)
}
