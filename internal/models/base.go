package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base carrega o identificador de toda entidade do estúdio.
type Base struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func (b Base) EntityID() uuid.UUID {
	return b.ID
}
