package mail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/textproto"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Goodness-MArcel/oasis/internal/api/metrics"
	"github.com/Goodness-MArcel/oasis/internal/core/domain"
	"github.com/Goodness-MArcel/oasis/internal/core/ports"
)

const sendTimeout = 30 * time.Second

// Sender transmits a fully rendered message.
type Sender interface {
	Send(ctx context.Context, from string, to []string, raw []byte) error
}

// Config describes the mailer. A blank Host or From leaves it unconfigured.
type Config struct {
	SMTP   SMTPConfig
	From   string
	AppURL string
}

// Mailer renders and sends the platform's transactional emails.
type Mailer struct {
	sender Sender // nil when unconfigured
	from   string
	appURL string
	log    zerolog.Logger
	now    func() time.Time
}

var _ ports.Mailer = (*Mailer)(nil)

func New(cfg Config, log zerolog.Logger) *Mailer {
	from := cfg.From
	if from == "" && cfg.SMTP.User != "" {
		from = fmt.Sprintf("Integrated Oasis <%s>", cfg.SMTP.User)
	}
	var sender Sender
	if cfg.SMTP.Host != "" && from != "" {
		sender = NewSMTPSender(cfg.SMTP)
	}
	return NewWithSender(sender, from, cfg.AppURL, log)
}

// NewWithSender builds a Mailer over an arbitrary transport.
func NewWithSender(sender Sender, from, appURL string, log zerolog.Logger) *Mailer {
	return &Mailer{
		sender: sender,
		from:   from,
		appURL: strings.TrimRight(appURL, "/"),
		log:    log.With().Str("component", "mailer").Logger(),
		now:    time.Now,
	}
}

// Configured reports whether a transport is available.
func (m *Mailer) Configured() bool {
	return m.sender != nil
}

func (m *Mailer) SendWelcome(ctx context.Context, to, fullName string) error {
	return m.send(ctx, templateWelcome, to, templateData{Name: fullName, AppURL: m.appURL})
}

func (m *Mailer) SendPasswordReset(ctx context.Context, to, username, resetURL string) error {
	return m.send(ctx, templatePasswordReset, to, templateData{Name: username, AppURL: m.appURL, URL: resetURL})
}

func (m *Mailer) SendFollowup(ctx context.Context, to, username string) error {
	return m.send(ctx, templateFollowup, to, templateData{Name: username, AppURL: m.appURL})
}

func (m *Mailer) send(ctx context.Context, name, to string, data templateData) error {
	if m.sender == nil {
		metrics.EmailsSentTotal.WithLabelValues(name, "not_configured").Inc()
		return domain.ErrMailNotConfigured
	}

	raw, err := m.render(name, to, data)
	if err != nil {
		return fmt.Errorf("render %s email: %w", name, err)
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	if err := m.sender.Send(ctx, m.from, []string{to}, raw); err != nil {
		metrics.EmailsSentTotal.WithLabelValues(name, "error").Inc()
		return fmt.Errorf("send %s email: %w", name, err)
	}

	metrics.EmailsSentTotal.WithLabelValues(name, "ok").Inc()
	m.log.Debug().Str("template", name).Str("to", to).Msg("email sent")
	return nil
}

// render builds a multipart/alternative message with text and HTML parts.
func (m *Mailer) render(name, to string, data templateData) ([]byte, error) {
	tpl, ok := templates[name]
	if !ok {
		return nil, errors.New("unknown template " + name)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, part := range []struct {
		contentType string
		exec        func(*bytes.Buffer) error
	}{
		{"text/plain; charset=UTF-8", func(b *bytes.Buffer) error { return tpl.text.Execute(b, data) }},
		{"text/html; charset=UTF-8", func(b *bytes.Buffer) error { return tpl.html.Execute(b, data) }},
	} {
		var buf bytes.Buffer
		if err := part.exec(&buf); err != nil {
			return nil, err
		}
		w, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {part.contentType},
			"Content-Transfer-Encoding": {"8bit"},
		})
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(buf.Bytes()); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", m.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", tpl.subject))
	fmt.Fprintf(&msg, "Date: %s\r\n", m.now().Format(time.RFC1123Z))
	msg.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", mw.Boundary())
	msg.Write(body.Bytes())
	return msg.Bytes(), nil
}
