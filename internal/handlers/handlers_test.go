package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/studio-manager/internal/audit"
	"github.com/BruksfildServices01/studio-manager/internal/backend"
	"github.com/BruksfildServices01/studio-manager/internal/backend/memory"
	"github.com/BruksfildServices01/studio-manager/internal/config"
	"github.com/BruksfildServices01/studio-manager/internal/models"
	"github.com/BruksfildServices01/studio-manager/internal/notify"
	"github.com/BruksfildServices01/studio-manager/internal/payments"
	"github.com/BruksfildServices01/studio-manager/internal/routes"
	"github.com/BruksfildServices01/studio-manager/internal/session"
	"github.com/BruksfildServices01/studio-manager/internal/status"
	"github.com/BruksfildServices01/studio-manager/internal/storage"
	"github.com/BruksfildServices01/studio-manager/internal/validators"
	"github.com/BruksfildServices01/studio-manager/internal/views"
	"github.com/BruksfildServices01/studio-manager/internal/web"
)

// --------------------------------------------------
// Servidor de teste
// --------------------------------------------------

type fakePutter struct {
	keys []string
}

func (p *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	p.keys = append(p.keys, *in.Key)
	return &s3.PutObjectOutput{}, nil
}

// syncBuffer guarda a saída do logger; o slog escreve de várias goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type testServer struct {
	logs    *syncBuffer
	engine  *gin.Engine
	store   *memory.Store
	auth    *memory.Auth
	audits  *memory.Table[models.AuditLog]
	putter  *fakePutter
	cookies map[string]*http.Cookie
}

func newServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	now := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	logs := &syncBuffer{}
	logger := slog.New(slog.NewTextHandler(logs, nil))

	b, store, auth := memory.Backend(clock)
	audits := memory.NewTable[models.AuditLog]()
	dispatcher := audit.NewDispatcher(audit.New(audits), logger)

	deps := views.Deps{
		Backend:  b,
		Validate: validators.New(),
		Audit:    dispatcher,
		Clock:    clock,
		Logger:   logger,
		Session:  session.Options{Now: clock},
		Stats:    status.NewPoller[backend.DashboardStats]("stats", time.Minute, b.Functions.DashboardStats, logger),
		Status:   status.NewPoller[backend.StudioStatus]("status", time.Minute, b.Functions.StudioStatus, logger),
	}
	registry := views.NewRegistry(deps)

	tpl, err := web.Templates()
	require.NoError(t, err)

	pay, err := payments.NewMercadoPago("", b.Store.Appointments)
	require.NoError(t, err)

	putter := &fakePutter{}

	r := gin.New()
	routes.RegisterRoutes(r, routes.App{
		Config: &config.Config{
			CSRFKey:          "0123456789abcdef0123456789abcdef",
			SessionTTL:       time.Hour,
			AllowAdminSignup: true,
		},
		Deps:      deps,
		Registry:  registry,
		Templates: tpl,
		Notifier:  notify.NewNotifier(b.Store.Notifications, notify.NewNoopMailer(logger), logger),
		Payments:  pay,
		Logos:     storage.NewLogos(putter, "logos", "https://cdn.example.com"),
		AuditLogs: audits,
	})

	t.Cleanup(func() {
		registry.Close()
		_ = dispatcher.Close(context.Background())
	})

	return &testServer{
		logs:    logs,
		engine:  r,
		store:   store,
		auth:    auth,
		audits:  audits,
		putter:  putter,
		cookies: map[string]*http.Cookie{},
	}
}

// send reaproveita os cookies como um navegador.
func (s *testServer) send(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range s.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		if c.MaxAge < 0 || c.Value == "" {
			delete(s.cookies, c.Name)
			continue
		}
		s.cookies[c.Name] = c
	}
	return w
}

func (s *testServer) json(method, path string, body any) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	return s.send(req)
}

func (s *testServer) form(path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.send(req)
}

func (s *testServer) signInAdmin(t *testing.T) {
	t.Helper()
	_, err := s.auth.AddUser(context.Background(), "admin@studio.com", "secret123", "Admin", models.RoleAdmin)
	require.NoError(t, err)

	w := s.json(http.MethodPost, "/api/auth/signin", gin.H{"email": "admin@studio.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func (s *testServer) seed(t *testing.T) (models.Client, models.Service) {
	t.Helper()
	ctx := context.Background()

	email := "ana@example.com"
	c := models.Client{Nome: "Ana", Telefone: "(11) 99999-0000", Email: &email}
	require.NoError(t, s.store.Clients.Insert(ctx, &c))
	svc := models.Service{Nome: "Lash Lifting", Preco: 120, DuracaoMin: 60, Ativo: true}
	require.NoError(t, s.store.Services.Insert(ctx, &svc))
	return c, svc
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type apiError struct {
	Code     string `json:"error_code"`
	Redirect string `json:"redirect"`
}

type item[T any] struct {
	Data T `json:"data"`
}

type list[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

// --------------------------------------------------
// Guard + sessão
// --------------------------------------------------

func TestHealth(t *testing.T) {
	s := newServer(t)
	w := s.json(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminAPIRequiresSession(t *testing.T) {
	s := newServer(t)

	w := s.json(http.MethodGet, "/api/clients", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	e := decode[apiError](t, w)
	assert.Equal(t, "unauthenticated", e.Code)
	assert.Equal(t, "/web/auth", e.Redirect)
}

func TestSignUpAsClientLandsOnClientArea(t *testing.T) {
	s := newServer(t)

	w := s.json(http.MethodPost, "/api/auth/signup", gin.H{
		"nome": "Bia", "email": "Bia@Example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	res := decode[SessionResponseView](t, w)
	assert.True(t, res.Authenticated)
	assert.Equal(t, "/web/cliente", res.Redirect)
	assert.Equal(t, "bia@example.com", res.Profile.Email)

	// cliente não entra na área admin
	w = s.json(http.MethodGet, "/api/clients", nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "wrong_role", decode[apiError](t, w).Code)

	w = s.json(http.MethodGet, "/api/me/appointments", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, decode[list[map[string]any]](t, w).Total)
}

type SessionResponseView struct {
	Authenticated bool            `json:"authenticated"`
	Redirect      string          `json:"redirect"`
	Profile       *models.Profile `json:"profile"`
}

func TestSignOutClearsSession(t *testing.T) {
	s := newServer(t)
	s.signInAdmin(t)

	w := s.json(http.MethodGet, "/api/session", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[SessionResponseView](t, w).Authenticated)

	w = s.json(http.MethodPost, "/api/auth/signout", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/web/auth", decode[SessionResponseView](t, w).Redirect)

	w = s.json(http.MethodGet, "/api/clients", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSignOutLogsRemoteFailureAndClearsTab(t *testing.T) {
	s := newServer(t)
	s.signInAdmin(t)
	s.auth.SignOutErr = errors.New("network down")

	w := s.json(http.MethodPost, "/api/auth/signout", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/web/auth", decode[SessionResponseView](t, w).Redirect)
	assert.Contains(t, s.logs.String(), "remote sign out failed")

	w = s.json(http.MethodGet, "/api/clients", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// --------------------------------------------------
// Agenda
// --------------------------------------------------

func TestCreateAppointmentKeepsOverriddenValue(t *testing.T) {
	s := newServer(t)
	s.signInAdmin(t)
	c, svc := s.seed(t)

	w := s.json(http.MethodPost, "/api/appointments", gin.H{
		"client_id": c.ID, "service_id": svc.ID, "hora": "10:00", "valor": 100,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[item[models.Appointment]](t, w).Data
	assert.Equal(t, 100.0, created.Valor)
	assert.Equal(t, "2024-06-10", created.Data)
	assert.Equal(t, models.StatusPendente, created.Status)

	stored, err := s.store.Appointments.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, stored.Valor)

	w = s.json(http.MethodGet, "/api/appointments?date=2024-06-10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	rows := decode[list[map[string]any]](t, w)
	require.Equal(t, 1, rows.Total)
	assert.Equal(t, "Ana", rows.Data[0]["client_name"])
}

func TestCreateAppointmentWithoutValorUsesServicePrice(t *testing.T) {
	s := newServer(t)
	s.signInAdmin(t)
	c, svc := s.seed(t)

	w := s.json(http.MethodPost, "/api/appointments", gin.H{
		"client_id": c.ID, "service_id": svc.ID, "hora": "11:00",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 120.0, decode[item[models.Appointment]](t, w).Data.Valor)
}

func TestCompleteAppointmentRecordsRevenue(t *testing.T) {
	s := newServer(t)
	s.signInAdmin(t)
	c, svc := s.seed(t)

	w := s.json(http.MethodPost, "/api/appointments", gin.H{
		"client_id": c.ID, "service_id": svc.ID, "hora": "10:00", "valor": 100,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decode[item[models.Appointment]](t, w).Data.ID

	w = s.json(http.MethodPatch, "/api/appointments/"+id.String()+"/complete", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	txs := s.store.Transactions.Rows()
	require.Len(t, txs, 1)
	assert.Equal(t, 100.0, txs[0].Valor)
	assert.Equal(t, models.TipoEntrada, txs[0].Tipo)
}

func TestPaymentLinkDisabledWithoutToken(t *testing.T) {
	s := newServer(t)
	s.signInAdmin(t)
	c, svc := s.seed(t)

	ap := models.Appointment{ClientID: c.ID, ServiceID: svc.ID, Data: "2024-06-11", Hora: "10:00", Valor: 90, Status: models.StatusPendente}
	require.NoError(t, s.store.Appointments.Insert(context.Background(), &ap))

	w := s.json(http.MethodPost, "/api/appointments/"+ap.ID.String()+"/payment-link", nil)
	require.Equal(t, http.StatusNotImplemented, w.Code)
	assert.Equal(t, "payments_disabled", decode[apiError](t, w).Code)
}

// --------------------------------------------------
// Clientes
// --------------------------------------------------

func TestClientSearchNarrows(t *testing.T) {
	s := newServer(t)
	s.signInAdmin(t)
	s.seed(t)
	require.NoError(t, s.store.Clients.Insert(context.Background(), &models.Client{Nome: "Antônio", Telefone: "11911112222"}))

	w := s.json(http.MethodGet, "/api/clients?q=An", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decode[list[models.Client]](t, w).Total)

	w = s.json(http.MethodGet, "/api/clients?q=Ana", nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[list[models.Client]](t, w)
	require.Equal(t, 1, got.Total)
	assert.Equal(t, "Ana", got.Data[0].Nome)
}

func TestDeleteClientNeedsConfirmation(t *testing.T) {
	s := newServer(t)
	s.signInAdmin(t)
	c, _ := s.seed(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/clients/"+c.ID.String(), nil)
	w := s.send(req)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "confirmation_required", decode[apiError](t, w).Code)
	assert.Equal(t, 1, s.store.Clients.Len())

	req = httptest.NewRequest(http.MethodDelete, "/api/clients/"+c.ID.String()+"?confirm=true", nil)
	w = s.send(req)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 0, s.store.Clients.Len())
}

func TestConcurrentClientSavesInOneTab(t *testing.T) {
	s := newServer(t)
	s.signInAdmin(t)

	// mesmos cookies (mesma aba) para todos os envios
	var cookies []*http.Cookie
	for _, c := range s.cookies {
		cookies = append(cookies, c)
	}

	const n = 40
	codes := make([]int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			body, _ := json.Marshal(gin.H{"nome": fmt.Sprintf("Cliente %02d", i), "telefone": fmt.Sprintf("119%08d", i)})
			req := httptest.NewRequest(http.MethodPost, "/api/clients", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			for _, c := range cookies {
				req.AddCookie(c)
			}
			w := httptest.NewRecorder()
			s.engine.ServeHTTP(w, req)
			codes[i] = w.Code
		}(i)
	}
	wg.Wait()

	for i, code := range codes {
		assert.Equal(t, http.StatusCreated, code, "request %d", i)
	}
	require.Equal(t, n, s.store.Clients.Len())

	names := map[string]bool{}
	for _, c := range s.store.Clients.Rows() {
		names[c.Nome] = true
	}
	assert.Len(t, names, n)
}

func TestCreateClientValidation(t *testing.T) {
	s := newServer(t)
	s.signInAdmin(t)

	w := s.json(http.MethodPost, "/api/clients", gin.H{"nome": "Ana"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "validation_failed", decode[apiError](t, w).Code)
	assert.Equal(t, 0, s.store.Clients.Len())
}

// --------------------------------------------------
// Financeiro
// --------------------------------------------------

func TestTransactionsSummary(t *testing.T) {
	s := newServer(t)
	s.signInAdmin(t)

	w := s.json(http.MethodPost, "/api/transactions", gin.H{
		"tipo": "entrada", "categoria": "Serviços", "descricao": "Lash", "valor": 120, "data": "2024-06-10",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = s.json(http.MethodPost, "/api/transactions", gin.H{
		"tipo": "saida", "categoria": "Material", "descricao": "Cola", "valor": 45.5, "data": "2024-06-10",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.json(http.MethodGet, "/api/transactions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		Total   int `json:"total"`
		Summary struct {
			Entradas float64 `json:"entradas"`
			Saidas   float64 `json:"saidas"`
			Saldo    float64 `json:"saldo"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 2, got.Total)
	assert.Equal(t, 120.0, got.Summary.Entradas)
	assert.Equal(t, 45.5, got.Summary.Saidas)
	assert.Equal(t, 74.5, got.Summary.Saldo)
}

// --------------------------------------------------
// Configurações
// --------------------------------------------------

func TestSettingsSaveAndQRCode(t *testing.T) {
	s := newServer(t)
	s.signInAdmin(t)

	w := s.json(http.MethodGet, "/api/settings/qrcode", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = s.json(http.MethodPut, "/api/settings", gin.H{"nome": "Studio Bella"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.json(http.MethodPut, "/api/settings", gin.H{
		"nome": "Studio Bella", "link_agendamento": "https://studio.example.com/agendar",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 1, s.store.Settings.Len())

	w = s.json(http.MethodGet, "/api/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		Settings   models.StudioSettings `json:"settings"`
		HoursValid bool                  `json:"horas_validas"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Studio Bella", got.Settings.Nome)
	assert.True(t, got.HoursValid)

	w = s.json(http.MethodGet, "/api/settings/qrcode", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")))
}

func TestSettingsRejectsInvalidHours(t *testing.T) {
	s := newServer(t)
	s.signInAdmin(t)

	w := s.json(http.MethodPut, "/api/settings", gin.H{
		"nome":                "Studio Bella",
		"horas_funcionamento": gin.H{"segunda": gin.H{"ativo": true, "abertura": "18:00", "fechamento": "09:00"}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	assert.Equal(t, 0, s.store.Settings.Len())
}

func TestUploadLogoNeedsCSRFAndStoresURL(t *testing.T) {
	s := newServer(t)
	s.signInAdmin(t)

	w := s.json(http.MethodPut, "/api/settings", gin.H{"nome": "Studio Bella"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var pngBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, img))

	upload := func(token string) *httptest.ResponseRecorder {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		part, err := mw.CreateFormFile("logo", "logo.png")
		require.NoError(t, err)
		_, _ = part.Write(pngBuf.Bytes())
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/settings/logo", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		if token != "" {
			req.Header.Set("X-CSRF-Token", token)
		}
		return s.send(req)
	}

	w = upload("")
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, s.putter.keys)

	w = s.json(http.MethodGet, "/api/session", nil)
	token := w.Header().Get("X-CSRF-Token")
	require.NotEmpty(t, token)

	w = upload(token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Len(t, s.putter.keys, 1)

	saved := decode[item[models.StudioSettings]](t, w).Data
	require.NotNil(t, saved.LogoURL)
	assert.True(t, strings.HasPrefix(*saved.LogoURL, "https://cdn.example.com/logos/"))
}

// --------------------------------------------------
// Painel
// --------------------------------------------------

func TestDashboardWithoutNextAppointment(t *testing.T) {
	s := newServer(t)
	s.signInAdmin(t)

	w := s.json(http.MethodGet, "/api/dashboard/next", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "no_next_appointment", decode[apiError](t, w).Code)

	w = s.json(http.MethodGet, "/api/dashboard/raffle", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "no_clients", decode[apiError](t, w).Code)

	w = s.json(http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"studio_name":"Studio"`)
}

func TestNotifyRegistersReminder(t *testing.T) {
	s := newServer(t)
	s.signInAdmin(t)
	c, svc := s.seed(t)

	ap := models.Appointment{ClientID: c.ID, ServiceID: svc.ID, Data: "2024-06-11", Hora: "14:00", Valor: 120, Status: models.StatusConfirmado}
	require.NoError(t, s.store.Appointments.Insert(context.Background(), &ap))

	w := s.json(http.MethodPost, "/api/notifications", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	handoff := decode[item[notify.Handoff]](t, w).Data
	assert.True(t, strings.HasPrefix(handoff.WhatsAppURL, "https://wa.me/5511999990000?text="))

	rows := s.store.Notifications.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, models.NotificationRegistrado, rows[0].Status)
}

// --------------------------------------------------
// Agendamento público
// --------------------------------------------------

func TestPublicBookingTakesSlot(t *testing.T) {
	s := newServer(t)
	_, svc := s.seed(t)

	body := gin.H{
		"nome": "Carla", "telefone": "11955554444", "service_id": svc.ID,
		"data": "2024-06-11", "hora": "10:00",
	}
	w := s.json(http.MethodPost, "/api/public/bookings", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	booking := decode[item[models.PublicBooking]](t, w).Data
	assert.Equal(t, 120.0, booking.Valor)
	assert.Equal(t, models.BookingPendente, booking.Status)

	w = s.json(http.MethodPost, "/api/public/bookings", body)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "time_unavailable", decode[apiError](t, w).Code)

	w = s.json(http.MethodGet, "/api/public/slots?date=2024-06-11", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `{"hora":"10:00","disponivel":false}`)
}

func TestPublicBookingRequiresContact(t *testing.T) {
	s := newServer(t)
	_, svc := s.seed(t)

	w := s.json(http.MethodPost, "/api/public/bookings", gin.H{
		"service_id": svc.ID, "data": "2024-06-11", "hora": "10:00",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "missing_contact", decode[apiError](t, w).Code)
}

// --------------------------------------------------
// Páginas HTML
// --------------------------------------------------

var csrfField = regexp.MustCompile(`name="gorilla.csrf.Token" value="([^"]+)"`)

func TestWebLoginFlow(t *testing.T) {
	s := newServer(t)
	_, err := s.auth.AddUser(context.Background(), "admin@studio.com", "secret123", "Admin", models.RoleAdmin)
	require.NoError(t, err)

	w := s.send(httptest.NewRequest(http.MethodGet, "/web/app/dashboard", nil))
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/web/auth", w.Header().Get("Location"))

	w = s.send(httptest.NewRequest(http.MethodGet, "/web/auth", nil))
	require.Equal(t, http.StatusOK, w.Code)
	m := csrfField.FindStringSubmatch(w.Body.String())
	require.Len(t, m, 2)

	creds := url.Values{"email": {"admin@studio.com"}, "password": {"secret123"}}

	// sem token o formulário é recusado
	w = s.form("/web/auth/signin", creds)
	require.Equal(t, http.StatusForbidden, w.Code)

	creds.Set("gorilla.csrf.Token", m[1])
	w = s.form("/web/auth/signin", creds)
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	assert.Equal(t, "/web/app/dashboard", w.Header().Get("Location"))

	w = s.send(httptest.NewRequest(http.MethodGet, "/web/app/dashboard", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Painel")

	// admin não acessa a área do cliente
	w = s.send(httptest.NewRequest(http.MethodGet, "/web/cliente", nil))
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/web/unauthorized", w.Header().Get("Location"))
}

func TestWebAgendaPage(t *testing.T) {
	s := newServer(t)
	s.signInAdmin(t)
	c, svc := s.seed(t)

	ap := models.Appointment{ClientID: c.ID, ServiceID: svc.ID, Data: "2024-06-12", Hora: "15:00", Valor: 120, Status: models.StatusPendente}
	require.NoError(t, s.store.Appointments.Insert(context.Background(), &ap))

	w := s.send(httptest.NewRequest(http.MethodGet, "/web/app/agenda?date=2024-06-12", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Lash Lifting")
	assert.Contains(t, body, "R$ 120,00")

	w = s.send(httptest.NewRequest(http.MethodGet, "/web/app/nada", nil))
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/web/app/dashboard", w.Header().Get("Location"))
}

func TestWebPublicBookingPage(t *testing.T) {
	s := newServer(t)
	_, svc := s.seed(t)

	w := s.send(httptest.NewRequest(http.MethodGet, "/web/public/agendar?service_id="+svc.ID.String()+"&date=2024-06-11", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Lash Lifting")
	assert.Contains(t, body, `value="10:00"`)

	m := csrfField.FindStringSubmatch(body)
	require.Len(t, m, 2)

	w = s.form("/web/public/agendar", url.Values{
		"gorilla.csrf.Token": {m[1]},
		"service_id":         {svc.ID.String()},
		"data":               {"2024-06-11"},
		"hora":               {"10:00"},
		"nome":               {"Carla"},
		"telefone":           {"11955554444"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Pedido enviado")
	assert.Equal(t, 1, s.store.PublicBookings.Len())
}

// --------------------------------------------------
// Auditoria
// --------------------------------------------------

func TestAuditLogsFilterByEntity(t *testing.T) {
	s := newServer(t)
	s.signInAdmin(t)
	ctx := context.Background()

	require.NoError(t, s.audits.Insert(ctx, &models.AuditLog{Action: "client_created", Entity: "client"}))
	require.NoError(t, s.audits.Insert(ctx, &models.AuditLog{Action: "service_created", Entity: "service"}))

	w := s.json(http.MethodGet, "/api/audit-logs?entity=client", nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[list[models.AuditLog]](t, w)
	require.Equal(t, 1, got.Total)
	assert.Equal(t, "client_created", got.Data[0].Action)

	w = s.json(http.MethodGet, "/api/audit-logs?from=junho", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
