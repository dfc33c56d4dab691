package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/studio-manager/internal/backend"
	"github.com/BruksfildServices01/studio-manager/internal/form"
)

type HTTPError struct {
	Code     string            `json:"error_code"`
	Message  string            `json:"message"`
	Redirect string            `json:"redirect,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

// WriteRedirect informa ao cliente para onde navegar.
func WriteRedirect(c *gin.Context, status int, code, message, redirect string) {
	c.AbortWithStatusJSON(status, HTTPError{
		Code:     code,
		Message:  message,
		Redirect: redirect,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

// fieldErrors é implementado pelos erros de validação de formulário.
type fieldErrors interface {
	error
	Fields() map[string]string
}

// FromError traduz erros do backend. A mensagem do banco é mostrada
// como veio, sem reescrita.
func FromError(c *gin.Context, err error) {
	var fe fieldErrors
	if errors.As(err, &fe) {
		c.JSON(http.StatusUnprocessableEntity, HTTPError{
			Code:    "validation_failed",
			Message: "Verifique os campos destacados.",
			Fields:  fe.Fields(),
		})
		return
	}

	if errors.Is(err, form.ErrBusy) || errors.Is(err, form.ErrClosed) {
		Conflict(c, "form_submitting", "Outro envio deste formulário está em andamento.")
		return
	}

	var be BusinessError
	if errors.As(err, &be) {
		BadRequest(c, be.Code, be.Code)
		return
	}

	var se *backend.StoreError
	message := err.Error()
	if errors.As(err, &se) {
		message = se.Error()
	}

	switch {
	case errors.Is(err, backend.ErrNotFound):
		NotFound(c, "not_found", "Registro não encontrado.")
	case errors.Is(err, backend.ErrConstraint):
		Conflict(c, "constraint_violation", message)
	case errors.Is(err, backend.ErrPermission):
		Forbidden(c, "permission_denied", message)
	case errors.Is(err, backend.ErrInvalidCredentials):
		Unauthorized(c, "invalid_credentials", "E-mail ou senha inválidos.")
	case errors.Is(err, backend.ErrSessionExpired):
		Unauthorized(c, "session_expired", "Sessão expirada. Entre novamente.")
	case errors.Is(err, backend.ErrEmailTaken):
		Conflict(c, "email_already_registered", "Este e-mail já está cadastrado.")
	case errors.Is(err, backend.ErrRoleNotAllowed):
		Forbidden(c, "role_not_allowed", "Cadastro como administrador desabilitado.")
	case errors.Is(err, backend.ErrInvalidQuery):
		BadRequest(c, "invalid_query", message)
	default:
		Internal(c, "internal_error", message)
	}
}
