package notify

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
)

type Mail struct {
	To       string
	Subject  string
	Markdown string
}

type Mailer interface {
	Send(ctx context.Context, m Mail) error
}

var markdown = goldmark.New(
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
	),
)

// RenderHTML converte o texto do lembrete (markdown) em HTML.
// HTML cru no texto é escapado.
func RenderHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		return "", errors.Wrap(err, "render markdown")
	}
	return buf.String(), nil
}

type ResendMailer struct {
	client *resend.Client
	from   string
	logger *slog.Logger
}

func NewResendMailer(apiKey, from string, logger *slog.Logger) *ResendMailer {
	return &ResendMailer{
		client: resend.NewClient(apiKey),
		from:   from,
		logger: logger,
	}
}

func (m *ResendMailer) Send(ctx context.Context, mail Mail) error {
	body, err := RenderHTML(mail.Markdown)
	if err != nil {
		return err
	}

	sent, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{mail.To},
		Subject: mail.Subject,
		Html:    body,
		Text:    mail.Markdown,
	})
	if err != nil {
		return errors.Wrap(err, "resend send")
	}

	m.logger.Info("reminder e-mail handed off", slog.String("message_id", sent.Id))
	return nil
}

// NoopMailer é usado quando não há chave do resend configurada.
type NoopMailer struct {
	logger *slog.Logger
}

func NewNoopMailer(logger *slog.Logger) *NoopMailer {
	return &NoopMailer{logger: logger}
}

func (m *NoopMailer) Send(_ context.Context, mail Mail) error {
	m.logger.Debug("e-mail disabled, skipping", slog.String("subject", mail.Subject))
	return nil
}
