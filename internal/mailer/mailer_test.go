package mailer

import (
	"fmt"
	"net/textproto"
	"strings"
	"testing"

	"github.com/webasthetic/leadmailer-backend/internal/config"
	appErrors "github.com/webasthetic/leadmailer-backend/internal/errors"
)

func TestNewSMTPMailerRequiresCredentials(t *testing.T) {
	_, err := NewSMTPMailer(config.SMTP{Host: "smtp.hostinger.com", Port: 465})
	if err != appErrors.ErrMissingCredentials {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
}

func TestNewSMTPMailerSSLOnPort465(t *testing.T) {
	m, err := NewSMTPMailer(config.SMTP{
		Host: "smtp.hostinger.com", Port: 465,
		Email: "sales@webasthetic.in", Password: "secret",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !m.dialer.SSL {
		t.Error("port 465 must use implicit TLS")
	}

	m, err = NewSMTPMailer(config.SMTP{
		Host: "smtp.hostinger.com", Port: 587,
		Email: "sales@webasthetic.in", Password: "secret",
	})
	if err != nil {
		t.Fatal(err)
	}
	if m.dialer.SSL {
		t.Error("port 587 must not use implicit TLS")
	}
}

func TestIsAuthReply(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{&textproto.Error{Code: 535, Msg: "authentication failed"}, true},
		{&textproto.Error{Code: 534, Msg: "auth mechanism too weak"}, true},
		{&textproto.Error{Code: 530, Msg: "auth required"}, true},
		{&textproto.Error{Code: 550, Msg: "mailbox unavailable"}, false},
		{&textproto.Error{Code: 421, Msg: "too many connections"}, false},
		{fmt.Errorf("dial tcp: connection refused"), false},
		{fmt.Errorf("send: %w", &textproto.Error{Code: 535, Msg: "bad credentials"}), true},
		{nil, false},
	}
	for _, c := range cases {
		if got := isAuthReply(c.err); got != c.want {
			t.Errorf("isAuthReply(%v) = %v, want %v", c.err, got, c.want)
		}
	}
}

func TestRenderHTMLEmbedsAndEscapesBody(t *testing.T) {
	body := "Hi there,\n\nSaw your site & had an idea: <more leads>"
	html, err := RenderHTML(body)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(html, "Saw your site &amp; had an idea: &lt;more leads&gt;") {
		t.Error("body must be HTML-escaped in the layout")
	}
	if !strings.Contains(html, "WebAsthetic Solutions") {
		t.Error("layout branding missing")
	}
}

func TestBuildMessageHeaders(t *testing.T) {
	m, err := NewSMTPMailer(config.SMTP{
		Host: "smtp.hostinger.com", Port: 465,
		Email: "sales@webasthetic.in", Password: "secret",
		FromName: "WebAsthetic Solutions", CC: "webasthetic@gmail.com",
	})
	if err != nil {
		t.Fatal(err)
	}

	msg := m.build("lead@example.com", "Quick question", "Hi there")
	if got := msg.GetHeader("To"); len(got) != 1 || got[0] != "lead@example.com" {
		t.Errorf("unexpected To header: %v", got)
	}
	if got := msg.GetHeader("Cc"); len(got) != 1 || got[0] != "webasthetic@gmail.com" {
		t.Errorf("unexpected Cc header: %v", got)
	}
	if got := msg.GetHeader("Subject"); len(got) != 1 || got[0] != "Quick question" {
		t.Errorf("unexpected Subject header: %v", got)
	}
	if got := msg.GetHeader("From"); len(got) != 1 || !strings.Contains(got[0], "sales@webasthetic.in") {
		t.Errorf("unexpected From header: %v", got)
	}
}
