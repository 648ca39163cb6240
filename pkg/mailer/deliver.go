package mailer

import (
	"context"

	"github.com/oksasatya/devconnector-api/pkg/mailer/templates"
)

// RenderError marks a job that can never be sent as queued: it is invalid
// or its template fails to render. Retrying it is pointless.
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string { return "email job: " + e.Err.Error() }
func (e *RenderError) Unwrap() error { return e.Err }

// Deliver renders job (when it names a template) and sends it.
func Deliver(ctx context.Context, s Sender, job EmailJob) error {
	job.Normalize()
	if err := job.Validate(); err != nil {
		return &RenderError{Err: err}
	}
	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		var err error
		subject, text, html, err = templates.Render(job.Template, job.Data)
		if err != nil {
			return &RenderError{Err: err}
		}
	}
	return s.Send(ctx, job.To, subject, text, html)
}
