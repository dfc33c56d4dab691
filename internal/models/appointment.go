package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPendente   = "Pendente"
	StatusConfirmado = "Confirmado"
	StatusConcluido  = "Concluído"
	StatusRealizado  = "Realizado"
	StatusCancelado  = "Cancelado"
)

type Appointment struct {
	Base

	ClientID uuid.UUID `gorm:"type:uuid;not null" json:"client_id" validate:"required"`
	Client   *Client   `gorm:"foreignKey:ClientID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"clients,omitempty" validate:"-"`

	ServiceID uuid.UUID `gorm:"type:uuid;not null" json:"service_id" validate:"required"`
	Service   *Service  `gorm:"foreignKey:ServiceID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"services,omitempty" validate:"-"`

	Data string `gorm:"size:10;not null;index" json:"data" validate:"required,datetime=2006-01-02"`
	Hora string `gorm:"size:5;not null" json:"hora" validate:"required,datetime=15:04"`

	// Valor é copiado do preço do serviço no momento do agendamento
	// e nunca recalculado depois.
	Valor float64 `gorm:"not null" json:"valor" validate:"gte=0"`

	Status      string  `gorm:"size:20;not null" json:"status" validate:"required,oneof=Pendente Confirmado Concluído Realizado Cancelado"`
	Observacoes *string `gorm:"size:500" json:"observacoes"`

	CreatedBy uuid.UUID `gorm:"type:uuid" json:"created_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
