package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/BruksfildServices01/studio-manager/internal/backend"
	"github.com/BruksfildServices01/studio-manager/internal/models"
)

type account struct {
	id       uuid.UUID
	password string
}

// Auth emite tokens opacos e mantém as contas em memória.
type Auth struct {
	mu       sync.Mutex
	accounts map[string]account
	sessions map[string]*backend.Session

	profiles *Table[models.Profile]
	bus      backend.EventBus
	ttl      time.Duration
	now      func() time.Time

	// SignOutErr simula falha na revogação remota.
	SignOutErr error
	// CurrentErr simula falha ao validar token.
	CurrentErr error
}

func NewAuth(profiles *Table[models.Profile], bus backend.EventBus) *Auth {
	return &Auth{
		accounts: make(map[string]account),
		sessions: make(map[string]*backend.Session),
		profiles: profiles,
		bus:      bus,
		ttl:      time.Hour,
		now:      time.Now,
	}
}

func (a *Auth) SetClock(now func() time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.now = now
}

// AddUser cadastra uma conta já com perfil, sem emitir sessão.
func (a *Auth) AddUser(ctx context.Context, email, password, nome, role string) (uuid.UUID, error) {
	id := uuid.New()
	email = strings.ToLower(strings.TrimSpace(email))

	a.mu.Lock()
	if _, ok := a.accounts[email]; ok {
		a.mu.Unlock()
		return uuid.Nil, backend.ErrEmailTaken
	}
	a.accounts[email] = account{id: id, password: password}
	a.mu.Unlock()

	if a.profiles == nil {
		return id, nil
	}
	err := a.profiles.Insert(ctx, &models.Profile{ID: id, Nome: nome, Email: email, TipoUsuario: role})
	return id, err
}

func (a *Auth) SignIn(ctx context.Context, email, password string) (*backend.Session, error) {
	a.mu.Lock()
	acc, ok := a.accounts[strings.ToLower(strings.TrimSpace(email))]
	if !ok || acc.password != password {
		a.mu.Unlock()
		return nil, backend.ErrInvalidCredentials
	}
	s := a.issueLocked(acc.id)
	a.mu.Unlock()

	a.bus.Publish(ctx, backend.AuthEvent{Type: backend.EventSignedIn, UserID: acc.id, Session: s, At: s.IssuedAt})
	return s, nil
}

func (a *Auth) SignUp(ctx context.Context, in backend.SignUpInput) (*backend.Session, error) {
	if !models.ValidRole(in.TipoUsuario) {
		return nil, errors.Wrapf(backend.ErrConstraint, "tipo_usuario %q", in.TipoUsuario)
	}

	id, err := a.AddUser(ctx, in.Email, in.Password, in.Nome, in.TipoUsuario)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	s := a.issueLocked(id)
	a.mu.Unlock()

	a.bus.Publish(ctx, backend.AuthEvent{Type: backend.EventSignedIn, UserID: id, Session: s, At: s.IssuedAt})
	return s, nil
}

func (a *Auth) SignOut(ctx context.Context, s *backend.Session) error {
	if s == nil {
		return nil
	}
	if a.SignOutErr != nil {
		return a.SignOutErr
	}

	a.mu.Lock()
	for token, cur := range a.sessions {
		if cur.UserID == s.UserID {
			delete(a.sessions, token)
		}
	}
	now := a.now()
	a.mu.Unlock()

	a.bus.Publish(ctx, backend.AuthEvent{Type: backend.EventSignedOut, UserID: s.UserID, PreviousTokenID: s.TokenID, At: now})
	return nil
}

func (a *Auth) Current(_ context.Context, token string) (*backend.Session, error) {
	if a.CurrentErr != nil {
		return nil, a.CurrentErr
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	s, ok := a.sessions[token]
	if !ok || s.Expired(a.now()) {
		return nil, backend.ErrSessionExpired
	}
	cp := *s
	return &cp, nil
}

func (a *Auth) Refresh(ctx context.Context, s *backend.Session) (*backend.Session, error) {
	if _, err := a.Current(ctx, s.AccessToken); err != nil {
		return nil, err
	}

	a.mu.Lock()
	delete(a.sessions, s.AccessToken)
	next := a.issueLocked(s.UserID)
	a.mu.Unlock()

	a.bus.Publish(ctx, backend.AuthEvent{
		Type:            backend.EventTokenRefreshed,
		UserID:          s.UserID,
		PreviousTokenID: s.TokenID,
		Session:         next,
		At:              next.IssuedAt,
	})
	return next, nil
}

func (a *Auth) issueLocked(userID uuid.UUID) *backend.Session {
	now := a.now()
	tokenID := uuid.New()
	s := &backend.Session{
		AccessToken: "tok-" + tokenID.String(),
		TokenID:     tokenID,
		UserID:      userID,
		IssuedAt:    now,
		ExpiresAt:   now.Add(a.ttl),
	}
	a.sessions[s.AccessToken] = s
	cp := *s
	return &cp
}
