package views

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/studio-manager/internal/session"
)

// Tab é o estado de uma aba: a sessão e as views já montadas. As views
// são montadas no primeiro acesso e fechadas junto com a aba.
type Tab struct {
	ID      string
	Session *session.Context

	deps   Deps
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	lastSeen time.Time
	agenda   *Agenda
	clients  *Clients
	services *Services
	finance  *Finance
	settings *Settings
	client   *ClientDashboard
}

func newTab(parent context.Context, id string, deps Deps) *Tab {
	ctx, cancel := context.WithCancel(parent)
	return &Tab{
		ID:       id,
		Session:  session.New(deps.Backend.Auth, deps.Backend.Store.Profiles, deps.Backend.Bus, deps.Logger.With(slog.String("tab", id)), deps.Session),
		deps:     deps,
		ctx:      ctx,
		cancel:   cancel,
		lastSeen: deps.Clock(),
	}
}

// UserID é o usuário da sessão atual da aba.
func (t *Tab) UserID() uuid.UUID {
	snap := t.Session.Snapshot()
	if snap.Session == nil {
		return uuid.Nil
	}
	return snap.Session.UserID
}

func (t *Tab) Dashboard() *Dashboard {
	return NewDashboard(t.deps)
}

func (t *Tab) Agenda() *Agenda {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.agenda == nil {
		t.agenda = NewAgenda(t.ctx, t.deps, t.UserID)
	}
	return t.agenda
}

func (t *Tab) Clients() *Clients {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.clients == nil {
		t.clients = NewClients(t.ctx, t.deps, t.UserID)
	}
	return t.clients
}

func (t *Tab) Services() *Services {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.services == nil {
		t.services = NewServices(t.ctx, t.deps, t.UserID)
	}
	return t.services
}

func (t *Tab) Finance() *Finance {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.finance == nil {
		t.finance = NewFinance(t.ctx, t.deps, t.UserID)
	}
	return t.finance
}

func (t *Tab) Settings() *Settings {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.settings == nil {
		t.settings = NewSettings(t.ctx, t.deps, t.UserID)
	}
	return t.settings
}

// ClientDashboard depende do perfil logado; trocar de usuário na aba
// remonta a view.
func (t *Tab) ClientDashboard() *ClientDashboard {
	snap := t.Session.Snapshot()

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.client != nil && !t.client.belongsTo(snap.Profile) {
		t.client.Close()
		t.client = nil
	}
	if t.client == nil {
		t.client = NewClientDashboard(t.ctx, t.deps, snap.Profile)
	}
	return t.client
}

// unmount fecha as views; a sessão continua.
func (t *Tab) unmount() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.agenda != nil {
		t.agenda.Close()
		t.agenda = nil
	}
	if t.clients != nil {
		t.clients.Close()
		t.clients = nil
	}
	if t.services != nil {
		t.services.Close()
		t.services = nil
	}
	if t.finance != nil {
		t.finance.Close()
		t.finance = nil
	}
	if t.settings != nil {
		t.settings.Close()
		t.settings = nil
	}
	if t.client != nil {
		t.client.Close()
		t.client = nil
	}
}

func (t *Tab) touch(now time.Time) {
	t.mu.Lock()
	t.lastSeen = now
	t.mu.Unlock()
}

func (t *Tab) idleSince() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastSeen
}

// Close cancela buscas em andamento e solta a inscrição da sessão.
func (t *Tab) Close() {
	t.unmount()
	t.cancel()
	t.Session.Close()
}

// =====================================================
// REGISTRY
// =====================================================

// Registry guarda as abas vivas, criado no boot e fechado no shutdown.
type Registry struct {
	deps   Deps
	ctx    context.Context
	cancel context.CancelFunc

	mu   sync.Mutex
	tabs map[string]*Tab
}

func NewRegistry(deps Deps) *Registry {
	ctx, cancel := context.WithCancel(context.Background())
	return &Registry{
		deps:   deps,
		ctx:    ctx,
		cancel: cancel,
		tabs:   map[string]*Tab{},
	}
}

// Open devolve a aba do id ou cria uma nova. O bool indica criação;
// aba nova precisa de Restore antes de ser usada.
func (r *Registry) Open(id string) (*Tab, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.deps.Clock()
	if tab, ok := r.tabs[id]; ok {
		tab.touch(now)
		return tab, false
	}

	// id desconhecido (cookie antigo ou forjado) ganha um id novo
	tab := newTab(r.ctx, uuid.NewString(), r.deps)
	r.tabs[tab.ID] = tab
	return tab, true
}

func (r *Registry) Get(id string) *Tab {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tabs[id]
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tabs)
}

// Drop fecha e esquece a aba.
func (r *Registry) Drop(id string) {
	r.mu.Lock()
	tab, ok := r.tabs[id]
	delete(r.tabs, id)
	r.mu.Unlock()

	if ok {
		tab.Close()
	}
}

// Sweep fecha abas sem acesso há mais de idle.
func (r *Registry) Sweep(idle time.Duration) int {
	cutoff := r.deps.Clock().Add(-idle)

	r.mu.Lock()
	var stale []*Tab
	for id, tab := range r.tabs {
		if tab.idleSince().Before(cutoff) {
			stale = append(stale, tab)
			delete(r.tabs, id)
		}
	}
	r.mu.Unlock()

	for _, tab := range stale {
		tab.Close()
	}
	if len(stale) > 0 {
		r.deps.Logger.Info("tabs swept", slog.Int("count", len(stale)))
	}
	return len(stale)
}

func (r *Registry) Close() {
	r.mu.Lock()
	tabs := r.tabs
	r.tabs = map[string]*Tab{}
	r.mu.Unlock()

	for _, tab := range tabs {
		tab.Close()
	}
	r.cancel()
}
