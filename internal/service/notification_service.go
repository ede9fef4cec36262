package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/cdc-ai/personaproxy/internal/config"
	"github.com/cdc-ai/personaproxy/internal/domain"
	"github.com/cdc-ai/personaproxy/internal/mail"
)

var issueReportTmpl = template.Must(template.New("issue").Parse(`
<div style="font-family: sans-serif; padding: 1rem;">
  <h2 style="color: #D21F3C;">CDC AI Persona Report</h2>
  <p><strong>Persona:</strong> {{.Persona}}</p>
  <p><strong>Submitted by:</strong> {{.Email}}</p>
  <p><strong>User Prompt:</strong><br><code>{{.Prompt}}</code></p>
  <p><strong>AI Response:</strong></p>
  <div style="border-left:4px solid #D21F3C; background:#f9f9f9; padding: .5rem;">
    <pre style="white-space: pre-wrap;">{{.Response}}</pre>
  </div>
  <p><strong>Comments:</strong><br>{{.Comment}}</p>
  <hr />
  <p style="font-size:.8rem; color:#666;">Sent at: {{.SentAt}}</p>
</div>
`))

var transcriptTmpl = template.Must(template.New("transcript").Parse(`
<div style="font-family: sans-serif; padding: 1rem;">
  <h2 style="color: #D21F3C;">CDC AI Interaction Transcript</h2>
  <p><strong>Persona:</strong> {{.Persona}}</p>
  <p><strong>Submitted by:</strong> {{.Email}}</p>
  <hr />
  <div style="white-space: pre-wrap;">{{.Transcript}}</div>
  <hr />
  <p style="font-size:.8rem; color:#666;">Sent automatically by CDC AI</p>
</div>
`))

// NotificationService renders and sends transactional email
type NotificationService struct {
	cfg    config.MailConfig
	sender mail.Sender
	now    func() time.Time
}

// NewNotificationService creates a new notification service
func NewNotificationService(cfg config.MailConfig, sender mail.Sender) *NotificationService {
	return &NotificationService{
		cfg:    cfg,
		sender: sender,
		now:    time.Now,
	}
}

// ReportIssue emails an issue report to the maintainer
func (s *NotificationService) ReportIssue(ctx context.Context, req *domain.ReportIssueRequest) error {
	comment := "None"
	if req.Comment != nil && *req.Comment != "" {
		comment = *req.Comment
	}

	html, err := render(issueReportTmpl, map[string]string{
		"Persona":  req.Persona,
		"Email":    req.Email,
		"Prompt":   req.Prompt,
		"Response": req.Response,
		"Comment":  comment,
		"SentAt":   s.now().Format("2006-01-02 15:04:05"),
	})
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("AI Issue Report – %s – %s", req.Persona, req.Email)
	if err := s.sender.Send(ctx, s.cfg.Maintainer, subject, html); err != nil {
		return fmt.Errorf("%w: report issue: %v", domain.ErrUpstream, err)
	}
	return nil
}

// SendTranscript emails a transcript to the requesting user
func (s *NotificationService) SendTranscript(ctx context.Context, req *domain.SendTranscriptRequest) error {
	html, err := render(transcriptTmpl, map[string]string{
		"Persona":    req.Persona,
		"Email":      req.Email,
		"Transcript": req.Transcript,
	})
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("CDC AI Transcript – %s – %s", req.Persona, req.Email)
	if err := s.sender.Send(ctx, req.Email, subject, html); err != nil {
		return fmt.Errorf("%w: send transcript: %v", domain.ErrUpstream, err)
	}
	return nil
}

func render(tmpl *template.Template, data map[string]string) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: render %s: %v", domain.ErrUpstream, tmpl.Name(), err)
	}
	return buf.String(), nil
}
