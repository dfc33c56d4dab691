package guard

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/studio-manager/internal/backend"
	"github.com/BruksfildServices01/studio-manager/internal/backend/memory"
	"github.com/BruksfildServices01/studio-manager/internal/httperr"
	"github.com/BruksfildServices01/studio-manager/internal/models"
	"github.com/BruksfildServices01/studio-manager/internal/session"
	"github.com/BruksfildServices01/studio-manager/internal/timezone"
)

func TestEvaluate(t *testing.T) {
	sess := &backend.Session{UserID: uuid.New()}
	admin := &models.Profile{TipoUsuario: models.RoleAdmin}
	client := &models.Profile{TipoUsuario: models.RoleClient}

	cases := []struct {
		name string
		snap session.Snapshot
		role string
		want State
	}{
		{"loading", session.Snapshot{Loading: true, Session: sess, Profile: admin}, models.RoleAdmin, Loading},
		{"no session", session.Snapshot{}, models.RoleAdmin, Unauthenticated},
		{"session without profile", session.Snapshot{Session: sess}, models.RoleAdmin, Unauthenticated},
		{"profile without session", session.Snapshot{Profile: admin}, models.RoleAdmin, Unauthenticated},
		{"wrong role", session.Snapshot{Session: sess, Profile: client}, models.RoleAdmin, WrongRole},
		{"admitted", session.Snapshot{Session: sess, Profile: admin}, models.RoleAdmin, Admitted},
		{"any role", session.Snapshot{Session: sess, Profile: client}, "", Admitted},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Evaluate(tc.snap, tc.role))
		})
	}
}

func TestHomeFor(t *testing.T) {
	assert.Equal(t, ClientHome, HomeFor(models.RoleClient))
	assert.Equal(t, AdminHome, HomeFor(models.RoleAdmin))
}

func newRouter(sc *session.Context, responder Responder, role string) (*gin.Engine, *int) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	calls := 0

	g := New(func(*gin.Context) *session.Context { return sc }, 50*time.Millisecond)
	r.GET("/protected", g.Require(role, responder), func(c *gin.Context) {
		calls++
		c.String(http.StatusOK, SnapshotFrom(c).Role())
	})
	return r, &calls
}

func newSession(t *testing.T) (*session.Context, *memory.Auth) {
	b, _, auth := memory.Backend(timezone.FixedClock(time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)))
	sc := session.New(b.Auth, b.Store.Profiles, b.Bus, slog.New(slog.NewTextHandler(io.Discard, nil)), session.Options{})
	t.Cleanup(sc.Close)
	return sc, auth
}

func TestRequireNeverRendersWhileLoading(t *testing.T) {
	sc, _ := newSession(t)
	r, calls := newRouter(sc, JSONResponder{}, models.RoleAdmin)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, 0, *calls)
}

func TestRequireRedirectsUnauthenticated(t *testing.T) {
	sc, _ := newSession(t)
	sc.Restore(context.Background(), "")

	r, calls := newRouter(sc, HTMLResponder{}, models.RoleAdmin)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, AuthPath, w.Header().Get("Location"))
	assert.Equal(t, 0, *calls)
}

func TestRequireWrongRoleAndAdmission(t *testing.T) {
	sc, auth := newSession(t)
	sc.Restore(context.Background(), "")
	_, err := auth.AddUser(context.Background(), "bia@example.com", "secret", "Bia", models.RoleClient)
	require.NoError(t, err)
	_, err = sc.SignIn(context.Background(), "bia@example.com", "secret")
	require.NoError(t, err)

	r, calls := newRouter(sc, JSONResponder{}, models.RoleAdmin)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	var body httperr.HTTPError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, UnauthorizedPath, body.Redirect)
	assert.Equal(t, 0, *calls)

	r, calls = newRouter(sc, JSONResponder{}, models.RoleClient)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.RoleClient, w.Body.String())
	assert.Equal(t, 1, *calls)

	// o guard reavalia a cada requisição
	require.NoError(t, sc.SignOut(context.Background()))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 1, *calls)
}
