package models

import "time"

type Service struct {
	Base

	Nome       string  `gorm:"size:100;not null" json:"nome" validate:"required"`
	Descricao  *string `gorm:"size:255" json:"descricao"`
	Preco      float64 `gorm:"not null" json:"preco" validate:"gte=0"`
	DuracaoMin int     `gorm:"not null" json:"duracao_min" validate:"gt=0"`
	Categoria  *string `gorm:"size:50" json:"categoria"`

	// sem default no banco: o gorm ignora false em colunas com default
	Ativo bool `gorm:"not null" json:"ativo"`

	CreatedAt time.Time `json:"created_at"`
}
