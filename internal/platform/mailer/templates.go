package mailer

import (
	"bytes"
	"embed"
	"fmt"
	"html"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

//go:embed templates/*.html
var templateFS embed.FS

// TemplateName identifies one of the embedded e-mail templates.
type TemplateName string

// Available templates.
const (
	TemplateRegistro     TemplateName = "registro"
	TemplateRecuperacion TemplateName = "recuperacion"
	TemplateRecordatorio TemplateName = "recordatorio"
	TemplateEncuesta     TemplateName = "encuesta"
)

var templateNames = []TemplateName{
	TemplateRegistro,
	TemplateRecuperacion,
	TemplateRecordatorio,
	TemplateEncuesta,
}

// LinkData feeds the registro and recuperacion templates.
type LinkData struct {
	Nombre   string
	Enlace   string
	ExpiraEn string
}

// ReminderData feeds the recordatorio template.
type ReminderData struct {
	Nombre    string
	Folio     string
	Servicio  string
	Fecha     string
	Hora      string
	Oficina   string
	Direccion string
}

// SurveyData feeds the encuesta template.
type SurveyData struct {
	Nombre string
	Folio  string
	Enlace string
}

// Renderer renders the embedded templates into messages.
type Renderer struct {
	templates map[TemplateName]*template.Template
	text      *bluemonday.Policy
}

// NewRenderer parses every embedded template.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{
		templates: make(map[TemplateName]*template.Template, len(templateNames)),
		text:      bluemonday.StrictPolicy(),
	}
	for _, name := range templateNames {
		tmpl, err := template.New(string(name)).ParseFS(templateFS,
			"templates/layout.html", "templates/"+string(name)+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		r.templates[name] = tmpl
	}
	return r, nil
}

// Compose renders a template for one recipient.
func (r *Renderer) Compose(name TemplateName, to Address, data any) (Message, error) {
	tmpl, ok := r.templates[name]
	if !ok {
		return Message{}, fmt.Errorf("unknown template %q", name)
	}

	var subject bytes.Buffer
	if err := tmpl.ExecuteTemplate(&subject, "subject", data); err != nil {
		return Message{}, fmt.Errorf("failed to render subject of %s: %w", name, err)
	}
	var body bytes.Buffer
	if err := tmpl.ExecuteTemplate(&body, "layout", data); err != nil {
		return Message{}, fmt.Errorf("failed to render body of %s: %w", name, err)
	}

	return Message{
		Template: name,
		To:       to,
		Subject:  html.UnescapeString(strings.TrimSpace(subject.String())),
		HTML:     body.String(),
		Text:     r.plainText(body.String()),
	}, nil
}

// plainText strips every tag and collapses blank lines.
func (r *Renderer) plainText(htmlBody string) string {
	// the title repeats the subject
	if start := strings.Index(htmlBody, "<title>"); start >= 0 {
		if end := strings.Index(htmlBody, "</title>"); end > start {
			htmlBody = htmlBody[:start] + htmlBody[end+len("</title>"):]
		}
	}
	stripped := html.UnescapeString(r.text.Sanitize(htmlBody))
	lines := strings.Split(stripped, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
