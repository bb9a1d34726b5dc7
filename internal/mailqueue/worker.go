package mailqueue

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/wneessen/go-mail"

	"github.com/disnaker-asahan/letter-manager/backend/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var subjects = map[string]string{
	domain.MailTypeCreateUser:    "Sistem Manajemen Surat - Informasi Akun",
	domain.MailTypeResetPassword: "Sistem Manajemen Surat - Atur Ulang Kata Sandi",
	domain.MailTypeDisposition:   "Sistem Manajemen Surat - Disposisi Surat",
}

// Sender delivers a rendered message. *mail.Client satisfies it.
type Sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

type Worker struct {
	from      string
	sender    Sender
	templates *template.Template
	logger    *slog.Logger
}

func NewWorker(from string, sender Sender, logger *slog.Logger) (*Worker, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &Worker{
		from:      from,
		sender:    sender,
		templates: tmpl,
		logger:    logger,
	}, nil
}

// Run consumes deliveries until ctx is cancelled or the channel is closed.
func (w *Worker) Run(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				w.logger.Info("delivery channel closed")
				return
			}
			w.handle(ctx, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	var message domain.MailMessage
	if err := json.Unmarshal(d.Body, &message); err != nil {
		w.logger.Error("malformed mail message", slog.String("error", err.Error()))
		_ = d.Nack(false, false)
		return
	}

	msg, err := w.build(message)
	if err != nil {
		w.logger.Error("cannot build mail", slog.String("type", message.Type), slog.String("error", err.Error()))
		_ = d.Nack(false, false)
		return
	}

	if err := w.sender.DialAndSendWithContext(ctx, msg); err != nil {
		w.logger.Error("mail delivery failed", slog.String("type", message.Type), slog.String("error", err.Error()))
		_ = d.Nack(false, true)
		return
	}

	w.logger.Info("mail sent", slog.String("type", message.Type), slog.String("to", message.To))
	_ = d.Ack(false)
}

func (w *Worker) build(message domain.MailMessage) (*mail.Msg, error) {
	subject, ok := subjects[message.Type]
	if !ok {
		return nil, fmt.Errorf("unsupported mail type %q", message.Type)
	}

	msg := mail.NewMsg()
	if err := msg.From(w.from); err != nil {
		return nil, err
	}
	if err := msg.To(message.To); err != nil {
		return nil, err
	}
	msg.Subject(subject)

	tmpl := w.templates.Lookup(message.Type + ".html")
	if tmpl == nil {
		return nil, fmt.Errorf("missing template for %q", message.Type)
	}
	if err := msg.SetBodyHTMLTemplate(tmpl, message.Data); err != nil {
		return nil, err
	}

	return msg, nil
}
