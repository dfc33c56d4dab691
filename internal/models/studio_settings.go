package models

import "time"

// StudioSettings pode ter mais de uma linha; a mais recente (created_at)
// é a que vale.
type StudioSettings struct {
	Base

	Nome            string  `gorm:"size:100;not null" json:"nome" validate:"required"`
	Endereco        *string `gorm:"size:255" json:"endereco"`
	Telefone        *string `gorm:"size:20" json:"telefone"`
	Whatsapp        *string `gorm:"size:20" json:"whatsapp"`
	Instagram       *string `gorm:"size:100" json:"instagram"`
	Facebook        *string `gorm:"size:100" json:"facebook"`
	LinkAgendamento *string `gorm:"size:255" json:"link_agendamento" validate:"omitempty,url"`
	LogoURL         *string `gorm:"size:255" json:"logo_url" validate:"omitempty,url"`
	CorPrimaria     *string `gorm:"size:7" json:"cor_primaria" validate:"omitempty,hexcolor"`

	HorasFuncionamento JSON `gorm:"type:jsonb" json:"horas_funcionamento"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (StudioSettings) TableName() string {
	return "studio_settings"
}
