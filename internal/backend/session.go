package backend

import (
	"time"

	"github.com/google/uuid"
)

// Session é a sessão emitida pelo serviço de autenticação.
type Session struct {
	AccessToken string    `json:"access_token"`
	TokenID     uuid.UUID `json:"token_id"`
	UserID      uuid.UUID `json:"user_id"`
	Role        string    `json:"role"`
	IssuedAt    time.Time `json:"issued_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return s == nil || !now.Before(s.ExpiresAt)
}

// ExpiresWithin informa se a sessão expira antes de now+d.
func (s *Session) ExpiresWithin(now time.Time, d time.Duration) bool {
	return s != nil && now.Add(d).After(s.ExpiresAt)
}

type EventType string

const (
	EventSignedIn       EventType = "SIGNED_IN"
	EventSignedOut      EventType = "SIGNED_OUT"
	EventTokenRefreshed EventType = "TOKEN_REFRESHED"
)

// AuthEvent é publicado a cada mudança de sessão.
type AuthEvent struct {
	Type            EventType `json:"type"`
	UserID          uuid.UUID `json:"user_id"`
	PreviousTokenID uuid.UUID `json:"previous_token_id,omitempty"`
	Session         *Session  `json:"session,omitempty"`
	At              time.Time `json:"at"`
}
