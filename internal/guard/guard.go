// Package guard decide se uma rota protegida pode ser exibida.
package guard

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/studio-manager/internal/httperr"
	"github.com/BruksfildServices01/studio-manager/internal/models"
	"github.com/BruksfildServices01/studio-manager/internal/session"
)

type State int

const (
	Loading State = iota
	Unauthenticated
	WrongRole
	Admitted
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Unauthenticated:
		return "unauthenticated"
	case WrongRole:
		return "wrong_role"
	case Admitted:
		return "admitted"
	}
	return "unknown"
}

const (
	AuthPath         = "/web/auth"
	UnauthorizedPath = "/web/unauthorized"
	AdminHome        = "/web/app/dashboard"
	ClientHome       = "/web/cliente"
)

// Evaluate admite somente com sessão, perfil e papel conferindo.
// requiredRole vazio aceita qualquer papel.
func Evaluate(snap session.Snapshot, requiredRole string) State {
	if snap.Loading {
		return Loading
	}
	if snap.Session == nil || snap.Profile == nil {
		return Unauthenticated
	}
	if requiredRole != "" && snap.Profile.TipoUsuario != requiredRole {
		return WrongRole
	}
	return Admitted
}

// HomeFor é a página inicial depois do login.
func HomeFor(role string) string {
	if role == models.RoleClient {
		return ClientHome
	}
	return AdminHome
}

// =====================================================
// MIDDLEWARE
// =====================================================

// Resolver encontra o contexto de sessão da aba da requisição.
type Resolver func(c *gin.Context) *session.Context

type Responder interface {
	Deny(c *gin.Context, state State)
}

type Guard struct {
	resolve Resolver
	maxWait time.Duration
}

func New(resolve Resolver, maxWait time.Duration) *Guard {
	if maxWait <= 0 {
		maxWait = 5 * time.Second
	}
	return &Guard{resolve: resolve, maxWait: maxWait}
}

// Require reavalia a cada requisição e só segue para o handler quando
// o estado é Admitted.
func (g *Guard) Require(role string, responder Responder) gin.HandlerFunc {
	return func(c *gin.Context) {
		sc := g.resolve(c)
		if sc == nil {
			responder.Deny(c, Unauthenticated)
			c.Abort()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), g.maxWait)
		defer cancel()

		snap, _ := sc.Wait(ctx)
		state := Evaluate(snap, role)
		if state != Admitted {
			responder.Deny(c, state)
			c.Abort()
			return
		}

		c.Set(ContextSnapshot, snap)
		c.Next()
	}
}

const ContextSnapshot = "sessionSnapshot"

// SnapshotFrom devolve o snapshot admitido pelo guard.
func SnapshotFrom(c *gin.Context) session.Snapshot {
	v, ok := c.Get(ContextSnapshot)
	if !ok {
		return session.Snapshot{}
	}
	snap, _ := v.(session.Snapshot)
	return snap
}

// =====================================================
// RESPONDERS
// =====================================================

type HTMLResponder struct {
	// LoadingTemplate é renderizado enquanto a sessão não resolve.
	LoadingTemplate string
}

func (r HTMLResponder) Deny(c *gin.Context, state State) {
	switch state {
	case Loading:
		if r.LoadingTemplate != "" {
			c.HTML(http.StatusServiceUnavailable, r.LoadingTemplate, gin.H{"Redirect": c.Request.URL.RequestURI()})
			return
		}
		c.String(http.StatusServiceUnavailable, "Carregando...")
	case WrongRole:
		c.Redirect(http.StatusSeeOther, UnauthorizedPath)
	default:
		c.Redirect(http.StatusSeeOther, AuthPath)
	}
}

type JSONResponder struct{}

func (JSONResponder) Deny(c *gin.Context, state State) {
	switch state {
	case Loading:
		httperr.WriteRedirect(c, http.StatusServiceUnavailable, "session_loading", "Sessão carregando.", "")
	case WrongRole:
		httperr.WriteRedirect(c, http.StatusForbidden, "wrong_role", "Acesso não autorizado para este perfil.", UnauthorizedPath)
	default:
		httperr.WriteRedirect(c, http.StatusUnauthorized, "unauthenticated", "Entre para continuar.", AuthPath)
	}
}
