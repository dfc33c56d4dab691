package models

import (
	"time"

	"github.com/google/uuid"
)

// Cliente do estúdio (sem login), cadastrado pela admin.
type Client struct {
	Base

	Nome           string  `gorm:"size:100;not null" json:"nome" validate:"required"`
	Telefone       string  `gorm:"size:20;not null" json:"telefone" validate:"required"`
	Email          *string `gorm:"size:100" json:"email" validate:"omitempty,email"`
	DataNascimento *string `gorm:"size:10" json:"data_nascimento" validate:"omitempty,datetime=2006-01-02"`

	CriadoPor uuid.UUID `gorm:"type:uuid" json:"criado_por"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
