package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationLembrete   = "lembrete"
	NotificationRegistrado = "registrado"
)

// Notification registra a intenção de avisar um cliente. Não existe
// confirmação de entrega.
type Notification struct {
	Base

	Tipo          string     `gorm:"size:30;not null" json:"tipo" validate:"required"`
	Mensagem      string     `gorm:"type:text;not null" json:"mensagem" validate:"required"`
	ClientID      *uuid.UUID `gorm:"type:uuid" json:"client_id"`
	AppointmentID *uuid.UUID `gorm:"type:uuid" json:"appointment_id"`
	Status        string     `gorm:"size:20" json:"status"`
	EnviadoEm     time.Time  `gorm:"autoCreateTime" json:"enviado_em"`
}
