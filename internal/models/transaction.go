package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	TipoEntrada = "entrada"
	TipoSaida   = "saida"
)

type TransactionCategory struct {
	Base

	Nome      string  `gorm:"size:100;not null" json:"nome" validate:"required"`
	Tipo      string  `gorm:"size:10;not null" json:"tipo" validate:"oneof=entrada saida"`
	Descricao *string `gorm:"size:255" json:"descricao"`
	Ativo     bool    `gorm:"not null" json:"ativo"`

	CreatedAt time.Time `json:"created_at"`
}

type Transaction struct {
	Base

	Tipo       string     `gorm:"size:10;not null" json:"tipo" validate:"oneof=entrada saida"`
	Categoria  string     `gorm:"size:100;not null" json:"categoria" validate:"required"`
	CategoryID *uuid.UUID `gorm:"type:uuid" json:"category_id"`
	Descricao  string     `gorm:"size:255;not null" json:"descricao" validate:"required"`
	Valor      float64    `gorm:"not null" json:"valor" validate:"gt=0"`
	Data       string     `gorm:"size:10;not null;index" json:"data" validate:"required,datetime=2006-01-02"`

	CreatedBy     uuid.UUID  `gorm:"type:uuid" json:"created_by"`
	AppointmentID *uuid.UUID `gorm:"type:uuid" json:"appointment_id"`

	CreatedAt time.Time `json:"created_at"`
}
