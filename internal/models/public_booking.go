package models

import (
	"time"

	"github.com/google/uuid"
)

const BookingPendente = "pendente"

// PublicBooking é criado sem login pela página pública; a conversão em
// Appointment acontece fora deste app.
type PublicBooking struct {
	Base

	Nome        string    `gorm:"size:100;not null" json:"nome" validate:"required"`
	Telefone    string    `gorm:"size:20;not null" json:"telefone" validate:"required"`
	Email       *string   `gorm:"size:100" json:"email" validate:"omitempty,email"`
	ServiceID   uuid.UUID `gorm:"type:uuid;not null" json:"service_id" validate:"required"`
	Data        string    `gorm:"size:10;not null" json:"data" validate:"required,datetime=2006-01-02"`
	Hora        string    `gorm:"size:5;not null" json:"hora" validate:"required,datetime=15:04"`
	Observacoes *string   `gorm:"size:500" json:"observacoes"`
	Valor       float64   `gorm:"not null" json:"valor" validate:"gte=0"`
	Status      string    `gorm:"size:20;not null" json:"status"`

	CreatedAt time.Time `json:"created_at"`
}
