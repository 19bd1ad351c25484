package main

import (
	"bytes"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestContactSubmission(t *testing.T) {
	app := newTestApp(t)

	w := app.form(http.MethodPost, "/contact", kv(
		"fullName", "Alice Doe",
		"email", "alice@example.com",
		"message", "Hello there",
	))
	expectStatus(t, w, http.StatusOK)
	if !strings.Contains(w.Body.String(), "Thank you for your message!") {
		t.Fatalf("expected success fragment:\n%s", w.Body.String())
	}

	want := []ContactMessage{{Name: "Alice Doe", Email: "alice@example.com", Message: "Hello there"}}
	if diff := cmp.Diff(want, app.mailer.sent); diff != "" {
		t.Fatalf("sent mismatch (-want +got):\n%s", diff)
	}
}

func TestContactSubmissionRejectsBadInput(t *testing.T) {
	app := newTestApp(t)

	for _, values := range []map[string]string{
		{"fullName": "", "email": "alice@example.com", "message": "hi"},
		{"fullName": "Alice", "email": "not-an-email", "message": "hi"},
		{"fullName": "Alice", "email": "alice@example.com", "message": ""},
	} {
		w := app.form(http.MethodPost, "/contact", kv(
			"fullName", values["fullName"],
			"email", values["email"],
			"message", values["message"],
		))
		expectStatus(t, w, http.StatusOK)
		if !strings.Contains(w.Body.String(), `class="error"`) {
			t.Fatalf("%v: expected error fragment", values)
		}
	}
	if len(app.mailer.sent) != 0 {
		t.Fatalf("invalid submissions were mailed: %v", app.mailer.sent)
	}
}

func TestContactSubmissionMailFailure(t *testing.T) {
	app := newTestApp(t)
	app.mailer.err = errors.New("smtp down")

	w := app.form(http.MethodPost, "/contact", kv(
		"fullName", "Alice", "email", "alice@example.com", "message", "hi",
	))
	if !strings.Contains(w.Body.String(), "Please try again later.") {
		t.Fatalf("expected failure fragment:\n%s", w.Body.String())
	}
}

func TestMailServiceRequiresCredentials(t *testing.T) {
	m := NewMailService(SMTPConfig{Host: "smtp.example.com", Port: 587})
	err := m.SendContact(ContactMessage{Name: "A", Email: "a@example.com", Message: "hi"})
	if !errors.Is(err, errSMTPNotConfigured) {
		t.Fatalf("err = %v, want errSMTPNotConfigured", err)
	}
}

func TestMailServiceComposeStripsMarkup(t *testing.T) {
	m := NewMailService(SMTPConfig{Host: "smtp.example.com", Port: 587, User: "site@example.com", Pass: "x", To: "me@example.com"})
	msg := m.compose(ContactMessage{
		Name:    "<b>Mallory</b>",
		Email:   "mallory@example.com",
		Message: "Hi <script>alert(1)</script>there & welcome",
	})

	if diff := cmp.Diff([]string{"Portfolio Contact: Mallory"}, msg.GetHeader("Subject")); diff != "" {
		t.Fatalf("subject mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"mallory@example.com"}, msg.GetHeader("Reply-To")); diff != "" {
		t.Fatalf("reply-to mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"me@example.com"}, msg.GetHeader("To")); diff != "" {
		t.Fatalf("to mismatch (-want +got):\n%s", diff)
	}

	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		t.Fatalf("write message: %v", err)
	}
	body := buf.String()
	if strings.Contains(body, "<script") || strings.Contains(body, "<b>") {
		t.Fatalf("markup leaked into mail:\n%s", body)
	}
	if !strings.Contains(body, "Name: Mallory") {
		t.Fatalf("body missing name:\n%s", body)
	}
}
