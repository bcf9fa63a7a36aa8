// Package email renders dispatch jobs into deliverable messages.
package email

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"github.com/jsamuelsen/daily-stoic/internal/domain"
)

// SubjectPrefix starts every subject line; the author follows.
const SubjectPrefix = "Daily Stoic — "

//go:embed templates/*.tmpl
var templateFS embed.FS

// Renderer implements ports.MessageRenderer with embedded HTML and plain
// text templates. It is safe for concurrent use.
type Renderer struct {
	html *htmltemplate.Template
	text *texttemplate.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	html, err := htmltemplate.ParseFS(templateFS, "templates/quote.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing html template: %w", err)
	}

	text, err := texttemplate.ParseFS(templateFS, "templates/quote.txt.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing text template: %w", err)
	}

	return &Renderer{html: html, text: text}, nil
}

// MustNewRenderer is NewRenderer for wiring code; the templates are
// compiled into the binary, so failure is a build defect.
func MustNewRenderer() *Renderer {
	r, err := NewRenderer()
	if err != nil {
		panic(err)
	}

	return r
}

// Render validates job and produces the message. Quote and author are
// HTML-escaped in the HTML body.
func (r *Renderer) Render(job domain.DispatchJob) (domain.EmailMessage, error) {
	if err := job.Validate(); err != nil {
		return domain.EmailMessage{}, err
	}

	var html, text bytes.Buffer

	if err := r.html.Execute(&html, job); err != nil {
		return domain.EmailMessage{}, fmt.Errorf("rendering html body: %w", err)
	}

	if err := r.text.Execute(&text, job); err != nil {
		return domain.EmailMessage{}, fmt.Errorf("rendering text body: %w", err)
	}

	return domain.EmailMessage{
		To:       strings.TrimSpace(job.To),
		Subject:  SubjectPrefix + job.Author,
		HTMLBody: html.String(),
		TextBody: strings.TrimSpace(text.String()),
	}, nil
}
