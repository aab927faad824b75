package mailer

import (
    "errors"
    "fmt"
    "log"
    "net/textproto"
    "time"

    "gopkg.in/gomail.v2"

    "github.com/webasthetic/leadmailer-backend/internal/config"
    appErrors "github.com/webasthetic/leadmailer-backend/internal/errors"
)

// Transport is the SMTP port used by the dispatcher. Open dials and
// authenticates once; the connection is held for one batch and released
// with Close on every exit path.
type Transport interface {
    Open() error
    Send(to, subject, body string) error
    Close() error
}

// SMTPMailer sends one recipient per call over a gomail dialer.
type SMTPMailer struct {
    dialer *gomail.Dialer
    cfg    config.SMTP
    sc     gomail.SendCloser

    // Sleep is swapped out in tests
    Sleep func(time.Duration)
}

func NewSMTPMailer(cfg config.SMTP) (*SMTPMailer, error) {
    if cfg.Email == "" || cfg.Password == "" {
        return nil, appErrors.ErrMissingCredentials
    }

    d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Email, cfg.Password)
    // Port 465 is implicit TLS (Hostinger), everything else negotiates STARTTLS.
    d.SSL = cfg.Port == 465

    return &SMTPMailer{
        dialer: d,
        cfg:    cfg,
        Sleep:  time.Sleep,
    }, nil
}

// Open dials and authenticates. An authentication rejection is wrapped so
// the caller can abort the whole run.
func (m *SMTPMailer) Open() error {
    log.Printf("🔗 Connecting to %s:%d as %s...", m.cfg.Host, m.cfg.Port, m.cfg.Email)
    sc, err := m.dialer.Dial()
    if err != nil {
        if isAuthReply(err) {
            return appErrors.NewSMTPAuth(err)
        }
        return fmt.Errorf("connect to %s:%d: %w", m.cfg.Host, m.cfg.Port, err)
    }
    m.sc = sc
    return nil
}

// Send delivers one message, retrying transient failures with exponential
// backoff. Permanent server rejections (5xx) and auth failures are returned
// without retry.
func (m *SMTPMailer) Send(to, subject, body string) error {
    msg := m.build(to, subject, body)

    backoff := m.cfg.RetryBackoff
    var lastErr error

    for attempt := 0; attempt <= m.cfg.MaxRetries; attempt++ {
        if attempt > 0 {
            log.Printf("🔁 Retrying %s in %s (attempt %d/%d)...", to, backoff, attempt, m.cfg.MaxRetries)
            m.Sleep(backoff)
            backoff *= 2
        }
        if m.sc == nil {
            if err := m.Open(); err != nil {
                return err
            }
        }

        err := gomail.Send(m.sc, msg)
        if err == nil {
            return nil
        }
        if isAuthReply(err) {
            return appErrors.NewSMTPAuth(err)
        }

        lastErr = err
        var tpErr *textproto.Error
        if errors.As(err, &tpErr) && tpErr.Code >= 500 {
            // hard rejection of this recipient, retrying cannot help
            return err
        }

        // connection may be gone, force a redial before the next attempt
        m.sc.Close()
        m.sc = nil
    }
    return lastErr
}

func (m *SMTPMailer) Close() error {
    if m.sc == nil {
        return nil
    }
    err := m.sc.Close()
    m.sc = nil
    return err
}

func (m *SMTPMailer) build(to, subject, body string) *gomail.Message {
    msg := gomail.NewMessage()
    msg.SetAddressHeader("From", m.cfg.Email, m.cfg.FromName)
    msg.SetHeader("To", to)
    if m.cfg.CC != "" {
        msg.SetHeader("Cc", m.cfg.CC)
    }
    msg.SetHeader("Subject", subject)

    // Plain text first, good for anti-spam filters
    msg.SetBody("text/plain", body)
    if html, err := RenderHTML(body); err == nil {
        msg.AddAlternative("text/html", html)
    } else {
        log.Println("⚠️ HTML render failed, sending plain text only:", err)
    }
    return msg
}

// isAuthReply recognizes the SMTP reply codes servers use to reject
// credentials (530 auth required, 534/535 auth failed).
func isAuthReply(err error) bool {
    var tpErr *textproto.Error
    if !errors.As(err, &tpErr) {
        return false
    }
    switch tpErr.Code {
    case 530, 534, 535:
        return true
    }
    return false
}

var _ Transport = (*SMTPMailer)(nil)
