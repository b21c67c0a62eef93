package domain

import (
	"regexp"
	"strings"
	"time"
)

// curpPattern follows the RENAPO layout: four letters, birth date, sex,
// state, three consonants, a homoclave character and a check digit.
var curpPattern = regexp.MustCompile(`^[A-Z][AEIOUX][A-Z]{2}\d{2}(0[1-9]|1[0-2])(0[1-9]|[12]\d|3[01])[HMX](AS|BC|BS|CC|CL|CM|CS|CH|DF|DG|GT|GR|HG|JC|MC|MN|MS|NT|NL|OC|PL|QT|QR|SP|SL|SR|TC|TS|TL|VZ|YN|ZS|NE)[B-DF-HJ-NP-TV-Z]{3}[A-Z\d]\d$`)

// Client is a citizen who books appointments.
type Client struct {
	ID              int64     `json:"id"`
	CURP            string    `json:"curp"`
	Nombre          string    `json:"nombre"`
	ApellidoPaterno string    `json:"apellido_paterno"`
	ApellidoMaterno string    `json:"apellido_materno"`
	Email           string    `json:"email"`
	Telefono        string    `json:"telefono"`
	Estatus         Status    `json:"estatus"`
	CreatedAt       time.Time `json:"creado_en"`
}

// EntityStatus returns the soft-delete flag.
func (c *Client) EntityStatus() Status { return c.Estatus }

// FullName joins the name parts, skipping empty ones.
func (c *Client) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{c.Nombre, c.ApellidoPaterno, c.ApellidoMaterno} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// NormalizeCURP upper-cases and validates a CURP.
func NormalizeCURP(raw string) (string, error) {
	curp := strings.ToUpper(strings.TrimSpace(raw))
	if !curpPattern.MatchString(curp) {
		return "", NewValidationError("curp", "has invalid format", ErrInvalidCURP)
	}
	return curp, nil
}
