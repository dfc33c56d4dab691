package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

// CSRF protege os formulários HTML servidos com o cookie de sessão.
// Requisições JSON e métodos que um formulário não envia (PUT, PATCH,
// DELETE) ficam de fora: dependem do CORS restrito.
func CSRF(key []byte, secure bool, trusted []string) gin.HandlerFunc {
	protect := csrf.Protect(
		key,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.CookieName("studio_csrf"),
		csrf.TrustedOrigins(trusted),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error_code":"csrf_failed","message":"Sessão do formulário expirada. Recarregue a página."}`))
		})),
	)

	return func(c *gin.Context) {
		if exempt(c.Request) {
			c.Next()
			return
		}

		req := c.Request
		if !secure {
			req = csrf.PlaintextHTTPRequest(req)
		}

		passed := false
		protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r
			c.Next()
		})).ServeHTTP(c.Writer, req)

		if !passed {
			c.Abort()
		}
	}
}

func exempt(r *http.Request) bool {
	switch r.Method {
	case http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

// CSRFToken é o valor do campo gorilla.csrf.Token dos templates.
func CSRFToken(c *gin.Context) string {
	return csrf.Token(c.Request)
}

