package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin  = "admin"
	RoleClient = "cliente"
)

// User é a identidade de autenticação. O perfil visível fica em Profile.
type User struct {
	Base

	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "auth_users"
}

// Profile tem o mesmo id do User e define o papel (admin ou cliente).
type Profile struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	Nome        string  `gorm:"size:100;not null" json:"nome"`
	Email       string  `gorm:"size:100;not null" json:"email"`
	Telefone    *string `gorm:"size:20" json:"telefone"`
	TipoUsuario string  `gorm:"size:20;not null" json:"tipo_usuario"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p Profile) EntityID() uuid.UUID {
	return p.ID
}

func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleClient
}
