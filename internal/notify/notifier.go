package notify

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/studio-manager/internal/backend"
	"github.com/BruksfildServices01/studio-manager/internal/models"
)

type Intent struct {
	Tipo          string
	Message       string
	Phone         string
	Email         *string
	ClientID      *uuid.UUID
	AppointmentID *uuid.UUID
}

// Handoff é o que o painel abre para o usuário concluir o envio.
type Handoff struct {
	NotificationID uuid.UUID `json:"notification_id"`
	WhatsAppURL    string    `json:"whatsapp_url"`
	EmailSent      bool      `json:"email_sent"`
}

type Notifier struct {
	notifications backend.Table[models.Notification]
	mailer        Mailer
	logger        *slog.Logger
}

func NewNotifier(notifications backend.Table[models.Notification], mailer Mailer, logger *slog.Logger) *Notifier {
	return &Notifier{notifications: notifications, mailer: mailer, logger: logger}
}

// ReminderFor monta a intenção de lembrete do próximo agendamento.
func ReminderFor(next backend.NextAppointment) Intent {
	clientID := next.ClientID
	appointmentID := next.AppointmentID
	return Intent{
		Tipo:          models.NotificationLembrete,
		Message:       ReminderMessage(next),
		Phone:         next.ClientPhone,
		Email:         next.ClientEmail,
		ClientID:      &clientID,
		AppointmentID: &appointmentID,
	}
}

// Send registra a notificação como "registrado" e devolve o link. Nenhum
// status de entrega é gravado depois.
func (n *Notifier) Send(ctx context.Context, in Intent) (Handoff, error) {
	row := models.Notification{
		Tipo:          in.Tipo,
		Mensagem:      in.Message,
		ClientID:      in.ClientID,
		AppointmentID: in.AppointmentID,
		Status:        models.NotificationRegistrado,
	}
	if err := n.notifications.Insert(ctx, &row); err != nil {
		return Handoff{}, err
	}

	out := Handoff{
		NotificationID: row.ID,
		WhatsAppURL:    WhatsAppLink(in.Phone, in.Message),
	}

	if in.Email != nil && *in.Email != "" && n.mailer != nil {
		err := n.mailer.Send(ctx, Mail{To: *in.Email, Subject: "Lembrete de agendamento", Markdown: in.Message})
		if err != nil {
			n.logger.Warn("reminder e-mail failed", slog.String("error", err.Error()))
		} else {
			out.EmailSent = true
		}
	}

	return out, nil
}
