package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/studio-manager/internal/session"
	"github.com/BruksfildServices01/studio-manager/internal/views"
)

const (
	TabCookie   = "studio_tab"
	TokenCookie = "studio_token"

	ContextTab = "tab"
)

type CookieOptions struct {
	Secure   bool
	TokenTTL time.Duration
}

// Tabs resolve a aba da requisição pelo cookie studio_tab. Aba nova
// tenta restaurar a sessão pelo cookie do token.
func Tabs(registry *views.Registry, opts CookieOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(TabCookie)
		tab, created := registry.Open(id)

		if created {
			token, _ := c.Cookie(TokenCookie)
			tab.Session.Restore(c.Request.Context(), token)
			setCookie(c, TabCookie, tab.ID, 0, opts.Secure)
		} else {
			tab.Session.Touch(c.Request.Context())
		}

		SyncToken(c, tab.Session, opts)

		c.Set(ContextTab, tab)
		c.Next()
	}
}

func TabFrom(c *gin.Context) *views.Tab {
	v, ok := c.Get(ContextTab)
	if !ok {
		return nil
	}
	tab, _ := v.(*views.Tab)
	return tab
}

// SessionOf é o resolver usado pelo guard.
func SessionOf(c *gin.Context) *session.Context {
	tab := TabFrom(c)
	if tab == nil {
		return nil
	}
	return tab.Session
}

// SyncToken deixa o cookie do token igual ao token atual da sessão.
func SyncToken(c *gin.Context, sc *session.Context, opts CookieOptions) {
	current, _ := c.Cookie(TokenCookie)
	token := sc.Token()

	switch {
	case token == current:
	case token == "":
		setCookie(c, TokenCookie, "", -1, opts.Secure)
	default:
		setCookie(c, TokenCookie, token, int(opts.TokenTTL.Seconds()), opts.Secure)
	}
}

func setCookie(c *gin.Context, name, value string, maxAge int, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", secure, true)
}
