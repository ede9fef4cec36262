package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cdc-ai/personaproxy/internal/config"
	"github.com/cdc-ai/personaproxy/internal/domain"
)

type sentMail struct {
	to, subject, html string
}

type fakeSender struct {
	sent []sentMail
	err  error
}

func (f *fakeSender) Send(ctx context.Context, to, subject, html string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, html: html})
	return nil
}

func newNotificationService(sender *fakeSender) *NotificationService {
	svc := NewNotificationService(config.MailConfig{Maintainer: "maintainer@example.com"}, sender)
	svc.now = func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestReportIssue(t *testing.T) {
	sender := &fakeSender{}
	svc := newNotificationService(sender)

	err := svc.ReportIssue(context.Background(), &domain.ReportIssueRequest{
		Email:    "a@b.com",
		Persona:  "Helper",
		Prompt:   "what is <b>2+2</b>?",
		Response: "4",
	})
	if err != nil {
		t.Fatalf("ReportIssue() error = %v", err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("sent = %d, want 1", len(sender.sent))
	}
	msg := sender.sent[0]

	if msg.to != "maintainer@example.com" {
		t.Errorf("to = %q", msg.to)
	}
	if msg.subject != "AI Issue Report – Helper – a@b.com" {
		t.Errorf("subject = %q", msg.subject)
	}
	if strings.Contains(msg.html, "<b>2+2</b>") {
		t.Error("caller markup must be escaped")
	}
	if !strings.Contains(msg.html, "&lt;b&gt;2&#43;2&lt;/b&gt;") {
		t.Errorf("escaped prompt missing from body:\n%s", msg.html)
	}
	if !strings.Contains(msg.html, "<br>None</p>") {
		t.Error("missing comment should render as None")
	}
	if !strings.Contains(msg.html, "Sent at: 2026-10-19 12:00:00") {
		t.Error("body should carry the send time")
	}
}

func TestReportIssueWithComment(t *testing.T) {
	sender := &fakeSender{}
	svc := newNotificationService(sender)
	comment := "wrong answer"

	err := svc.ReportIssue(context.Background(), &domain.ReportIssueRequest{
		Email: "a@b.com", Persona: "Helper", Prompt: "p", Response: "r", Comment: &comment,
	})
	if err != nil {
		t.Fatalf("ReportIssue() error = %v", err)
	}
	if !strings.Contains(sender.sent[0].html, "wrong answer") {
		t.Error("comment missing from body")
	}
}

func TestSendTranscript(t *testing.T) {
	sender := &fakeSender{}
	svc := newNotificationService(sender)

	err := svc.SendTranscript(context.Background(), &domain.SendTranscriptRequest{
		Email:      "a@b.com",
		Persona:    "Helper",
		Transcript: "<script>alert(1)</script>",
	})
	if err != nil {
		t.Fatalf("SendTranscript() error = %v", err)
	}

	msg := sender.sent[0]
	if msg.to != "a@b.com" {
		t.Errorf("to = %q, want the caller", msg.to)
	}
	if msg.subject != "CDC AI Transcript – Helper – a@b.com" {
		t.Errorf("subject = %q", msg.subject)
	}
	if strings.Contains(msg.html, "<script>") {
		t.Error("transcript markup must be escaped")
	}
}

func TestNotificationSendFailure(t *testing.T) {
	sender := &fakeSender{err: domain.ErrMailNotConfigured}
	svc := newNotificationService(sender)

	err := svc.SendTranscript(context.Background(), &domain.SendTranscriptRequest{Email: "a@b.com", Persona: "P", Transcript: "t"})
	if !errors.Is(err, domain.ErrUpstream) {
		t.Errorf("SendTranscript() error = %v, want ErrUpstream", err)
	}

	err = svc.ReportIssue(context.Background(), &domain.ReportIssueRequest{Email: "a@b.com", Persona: "P", Prompt: "p", Response: "r"})
	if !errors.Is(err, domain.ErrUpstream) {
		t.Errorf("ReportIssue() error = %v, want ErrUpstream", err)
	}
}
