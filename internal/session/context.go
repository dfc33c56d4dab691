// Package session mantém a sessão de autenticação de uma aba do painel.
package session

import (
	"context"
	stderrors "errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/BruksfildServices01/studio-manager/internal/backend"
	"github.com/BruksfildServices01/studio-manager/internal/models"
)

// ErrProfileUnavailable indica sessão válida sem perfil carregado.
var ErrProfileUnavailable = stderrors.New("profile_unavailable")

// Snapshot é uma cópia imutável do estado da sessão.
type Snapshot struct {
	Session *backend.Session
	Profile *models.Profile
	Loading bool
}

// Authenticated exige sessão e perfil.
func (s Snapshot) Authenticated() bool {
	return !s.Loading && s.Session != nil && s.Profile != nil
}

func (s Snapshot) Role() string {
	if s.Profile == nil {
		return ""
	}
	return s.Profile.TipoUsuario
}

type Options struct {
	// RefreshWindow: tokens que expiram dentro dessa janela são renovados em Touch.
	RefreshWindow time.Duration
	Now           func() time.Time
}

// Context é o dono da sessão e do perfil de uma aba. Começa em Loading
// até Restore, SignIn ou SignUp resolverem.
type Context struct {
	auth     backend.Auth
	profiles backend.Table[models.Profile]
	logger   *slog.Logger
	opts     Options

	mu        sync.Mutex
	session   *backend.Session
	profile   *models.Profile
	loading   bool
	ready     chan struct{}
	epoch     uint64
	listeners []func(Snapshot)

	unsubscribe func()
}

func New(auth backend.Auth, profiles backend.Table[models.Profile], bus backend.EventBus, logger *slog.Logger, opts Options) *Context {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.RefreshWindow <= 0 {
		opts.RefreshWindow = 5 * time.Minute
	}

	c := &Context{
		auth:     auth,
		profiles: profiles,
		logger:   logger,
		opts:     opts,
		loading:  true,
		ready:    make(chan struct{}),
	}
	c.unsubscribe = bus.Subscribe(c.handleEvent)
	return c
}

// =====================================================
// STATE
// =====================================================

func (c *Context) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Context) snapshotLocked() Snapshot {
	snap := Snapshot{Loading: c.loading}
	if c.session != nil {
		s := *c.session
		snap.Session = &s
	}
	if c.profile != nil {
		p := *c.profile
		snap.Profile = &p
	}
	return snap
}

// Wait bloqueia enquanto a sessão estiver em Loading.
func (c *Context) Wait(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	ready := c.ready
	c.mu.Unlock()

	select {
	case <-ready:
		return c.Snapshot(), nil
	case <-ctx.Done():
		return c.Snapshot(), ctx.Err()
	}
}

// OnChange registra um callback chamado após cada mudança de estado.
func (c *Context) OnChange(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Token devolve o access token atual ou "".
func (c *Context) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return ""
	}
	return c.session.AccessToken
}

// setLocked troca o estado e sai de Loading. Devolve a notificação dos
// listeners, que roda fora do lock.
func (c *Context) setLocked(s *backend.Session, p *models.Profile) func() {
	c.session = s
	c.profile = p
	c.epoch++

	if c.loading {
		c.loading = false
		close(c.ready)
	}

	snap := c.snapshotLocked()
	listeners := append([]func(Snapshot){}, c.listeners...)
	return func() {
		for _, fn := range listeners {
			fn(snap)
		}
	}
}

func (c *Context) clear() {
	c.mu.Lock()
	notify := c.setLocked(nil, nil)
	c.mu.Unlock()
	notify()
}

// =====================================================
// OPERATIONS
// =====================================================

// Restore valida um token guardado (cookie) e carrega o perfil.
// Token ausente ou inválido resolve para não autenticado.
func (c *Context) Restore(ctx context.Context, token string) Snapshot {
	if token == "" {
		c.clear()
		return c.Snapshot()
	}

	s, err := c.auth.Current(ctx, token)
	if err != nil {
		if !stderrors.Is(err, backend.ErrSessionExpired) {
			c.logger.Warn("restore session", slog.String("error", err.Error()))
		}
		c.clear()
		return c.Snapshot()
	}

	if err := c.establish(ctx, s); err != nil {
		c.logger.Warn("restore profile", slog.String("user_id", s.UserID.String()), slog.String("error", err.Error()))
	}
	return c.Snapshot()
}

// SignIn em caso de erro mantém o estado anterior.
func (c *Context) SignIn(ctx context.Context, email, password string) (Snapshot, error) {
	s, err := c.auth.SignIn(ctx, email, password)
	if err != nil {
		return c.Snapshot(), err
	}

	err = c.establish(ctx, s)
	return c.Snapshot(), err
}

func (c *Context) SignUp(ctx context.Context, in backend.SignUpInput) (Snapshot, error) {
	s, err := c.auth.SignUp(ctx, in)
	if err != nil {
		return c.Snapshot(), err
	}

	err = c.establish(ctx, s)
	return c.Snapshot(), err
}

// SignOut sempre limpa o estado local, mesmo quando a revogação falha.
func (c *Context) SignOut(ctx context.Context) error {
	c.mu.Lock()
	s := c.session
	c.mu.Unlock()

	var err error
	if s != nil {
		err = c.auth.SignOut(ctx, s)
	}

	c.clear()
	return err
}

// Touch renova o token perto de expirar e descarta a sessão expirada.
func (c *Context) Touch(ctx context.Context) {
	c.mu.Lock()
	s := c.session
	c.mu.Unlock()

	if s == nil {
		return
	}

	now := c.opts.Now()
	if s.Expired(now) {
		c.dropIfCurrent(s)
		return
	}
	if !s.ExpiresWithin(now, c.opts.RefreshWindow) {
		return
	}

	next, err := c.auth.Refresh(ctx, s)
	if err != nil {
		c.logger.Warn("refresh session", slog.String("error", err.Error()))
		if stderrors.Is(err, backend.ErrSessionExpired) {
			c.dropIfCurrent(s)
		}
		return
	}
	c.swapToken(s.TokenID, next)
}

func (c *Context) establish(ctx context.Context, s *backend.Session) error {
	c.mu.Lock()
	epoch := c.epoch
	c.mu.Unlock()

	profile, err := c.profiles.Get(ctx, s.UserID)

	c.mu.Lock()
	if c.epoch != epoch {
		// outra operação mudou a sessão enquanto o perfil carregava
		c.mu.Unlock()
		return nil
	}
	if err != nil {
		notify := c.setLocked(s, nil)
		c.mu.Unlock()
		notify()
		return errors.Wrap(ErrProfileUnavailable, err.Error())
	}
	notify := c.setLocked(s, profile)
	c.mu.Unlock()
	notify()
	return nil
}

func (c *Context) dropIfCurrent(s *backend.Session) {
	c.mu.Lock()
	if c.session == nil || c.session.TokenID != s.TokenID {
		c.mu.Unlock()
		return
	}
	notify := c.setLocked(nil, nil)
	c.mu.Unlock()
	notify()
}

func (c *Context) swapToken(previous uuid.UUID, next *backend.Session) {
	c.mu.Lock()
	if c.session == nil || c.session.TokenID != previous {
		c.mu.Unlock()
		return
	}
	s := *next
	c.session = &s
	c.mu.Unlock()
}

// =====================================================
// EVENTS
// =====================================================

func (c *Context) handleEvent(ev backend.AuthEvent) {
	switch ev.Type {
	case backend.EventSignedOut:
		c.mu.Lock()
		if c.session == nil || c.session.UserID != ev.UserID {
			c.mu.Unlock()
			return
		}
		notify := c.setLocked(nil, nil)
		c.mu.Unlock()
		notify()

	case backend.EventTokenRefreshed:
		if ev.Session != nil {
			c.swapToken(ev.PreviousTokenID, ev.Session)
		}
	}
}

// Close cancela a inscrição no barramento de eventos.
func (c *Context) Close() {
	c.mu.Lock()
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	c.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}
