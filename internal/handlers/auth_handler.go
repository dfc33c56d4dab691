package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/studio-manager/internal/backend"
	"github.com/BruksfildServices01/studio-manager/internal/guard"
	"github.com/BruksfildServices01/studio-manager/internal/httperr"
	"github.com/BruksfildServices01/studio-manager/internal/middleware"
	"github.com/BruksfildServices01/studio-manager/internal/models"
	"github.com/BruksfildServices01/studio-manager/internal/session"
	"github.com/BruksfildServices01/studio-manager/internal/validators"
)

type AuthHandler struct {
	cookies     middleware.CookieOptions
	resolver    validators.Resolver
	checkDomain bool
	logger      *slog.Logger
}

// NewAuthHandler: resolver nil desliga a checagem de domínio do e-mail.
func NewAuthHandler(cookies middleware.CookieOptions, resolver validators.Resolver, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		cookies:     cookies,
		resolver:    resolver,
		checkDomain: resolver != nil,
		logger:      logger,
	}
}

// --------- Requests ---------

type SignInRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

type SignUpRequest struct {
	Nome        string `json:"nome" form:"nome" binding:"required"`
	Email       string `json:"email" form:"email" binding:"required,email"`
	Password    string `json:"password" form:"password" binding:"required,min=6"`
	Telefone    string `json:"telefone" form:"telefone"`
	TipoUsuario string `json:"tipo_usuario" form:"tipo_usuario" binding:"omitempty,oneof=admin cliente"`
}

func (r SignUpRequest) input() backend.SignUpInput {
	role := r.TipoUsuario
	if role == "" {
		role = models.RoleClient
	}
	return backend.SignUpInput{
		Email:       strings.ToLower(strings.TrimSpace(r.Email)),
		Password:    r.Password,
		Nome:        strings.TrimSpace(r.Nome),
		Telefone:    strPtr(strings.TrimSpace(r.Telefone)),
		TipoUsuario: role,
	}
}

type SessionResponse struct {
	Authenticated bool            `json:"authenticated"`
	Loading       bool            `json:"loading"`
	Profile       *models.Profile `json:"profile,omitempty"`
	ExpiresAt     *time.Time      `json:"expires_at,omitempty"`
	Redirect      string          `json:"redirect,omitempty"`
}

func sessionResponse(snap session.Snapshot) SessionResponse {
	res := SessionResponse{
		Authenticated: snap.Authenticated(),
		Loading:       snap.Loading,
	}
	if snap.Authenticated() {
		res.Profile = snap.Profile
		exp := snap.Session.ExpiresAt
		res.ExpiresAt = &exp
		res.Redirect = guard.HomeFor(snap.Role())
	}
	return res
}

// --------- Handlers ---------

func (h *AuthHandler) SignIn(c *gin.Context) {
	tab, ok := tabOf(c)
	if !ok {
		return
	}

	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Informe e-mail e senha.")
		return
	}

	snap, err := tab.Session.SignIn(c.Request.Context(), strings.ToLower(strings.TrimSpace(req.Email)), req.Password)
	middleware.SyncToken(c, tab.Session, h.cookies)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessionResponse(snap))
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	tab, ok := tabOf(c)
	if !ok {
		return
	}

	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados de cadastro inválidos.")
		return
	}

	in := req.input()
	if !h.domainOK(c.Request.Context(), in.Email) {
		httperr.BadRequest(c, "invalid_email_domain", "O domínio do e-mail informado não parece ser válido.")
		return
	}

	snap, err := tab.Session.SignUp(c.Request.Context(), in)
	middleware.SyncToken(c, tab.Session, h.cookies)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusCreated, sessionResponse(snap))
}

// SignOut sempre limpa a aba; falha na revogação só vai para o log.
func (h *AuthHandler) SignOut(c *gin.Context) {
	tab, ok := tabOf(c)
	if !ok {
		return
	}

	h.signOut(c, tab.Session)
	c.JSON(http.StatusOK, SessionResponse{Redirect: guard.AuthPath})
}

func (h *AuthHandler) signOut(c *gin.Context, sc *session.Context) {
	if err := sc.SignOut(c.Request.Context()); err != nil {
		h.logger.Warn("remote sign out failed", slog.String("error", err.Error()))
	}
	middleware.SyncToken(c, sc, h.cookies)
}

// Session espera a sessão resolver (até 5s) e devolve o estado.
func (h *AuthHandler) Session(c *gin.Context) {
	tab, ok := tabOf(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	snap, _ := tab.Session.Wait(ctx)
	// Clientes JSON que enviam multipart precisam do token no cabeçalho
	c.Header("X-CSRF-Token", middleware.CSRFToken(c))
	c.JSON(http.StatusOK, sessionResponse(snap))
}

func (h *AuthHandler) domainOK(ctx context.Context, email string) bool {
	if !h.checkDomain {
		return true
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return validators.IsEmailDomainValid(ctx, h.resolver, email)
}
