package handlers

import (
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"

	"github.com/BruksfildServices01/studio-manager/internal/backend"
	"github.com/BruksfildServices01/studio-manager/internal/domain/studio"
	"github.com/BruksfildServices01/studio-manager/internal/dto"
	"github.com/BruksfildServices01/studio-manager/internal/guard"
	"github.com/BruksfildServices01/studio-manager/internal/middleware"
	"github.com/BruksfildServices01/studio-manager/internal/models"
	"github.com/BruksfildServices01/studio-manager/internal/notify"
	"github.com/BruksfildServices01/studio-manager/internal/status"
	"github.com/BruksfildServices01/studio-manager/internal/views"
)

// AppWebHandler serve as páginas HTML da área logada e do login.
type AppWebHandler struct {
	auth       *AuthHandler
	allowAdmin bool
}

func NewAppWebHandler(auth *AuthHandler, allowAdmin bool) *AppWebHandler {
	return &AppWebHandler{auth: auth, allowAdmin: allowAdmin}
}

type navItem struct {
	Key   string
	Label string
}

var adminNav = []navItem{
	{"dashboard", "Painel"},
	{"agenda", "Agenda"},
	{"clientes", "Clientes"},
	{"servicos", "Serviços"},
	{"financeiro", "Financeiro"},
	{"configuracoes", "Configurações"},
}

type authPage struct {
	Title      string
	StudioName string
	CSRFField  template.HTML
	Error      string
	Email      string
	AllowAdmin bool
}

type appPage struct {
	Title      string
	View       string
	StudioName string
	CSRFField  template.HTML
	Profile    *models.Profile
	Nav        []navItem
	Error      string

	Stats    status.Snapshot[backend.DashboardStats]
	Status   status.Snapshot[backend.StudioStatus]
	Next     *backend.NextAppointment
	NextLink string

	Date   string
	Rows   []dto.AgendaRow
	Groups []views.DayGroup

	Query        string
	Clients      []models.Client
	Services     []models.Service
	Transactions []models.Transaction
	Summary      views.Summary

	Settings   *models.StudioSettings
	Week       []studio.NamedDay
	HoursValid bool
}

type clientPage struct {
	Title        string
	StudioName   string
	CSRFField    template.HTML
	Profile      *models.Profile
	Error        string
	Appointments []dto.AgendaRow
	Services     []models.Service
}

// ======================================================
// LOGIN
// ======================================================

func (h *AppWebHandler) AuthPage(c *gin.Context) {
	tab, ok := tabOf(c)
	if !ok {
		return
	}

	// Aba já logada vai direto para a home do perfil
	if snap := tab.Session.Snapshot(); snap.Authenticated() {
		c.Redirect(http.StatusSeeOther, guard.HomeFor(snap.Role()))
		return
	}

	h.renderAuth(c, tab, http.StatusOK, "", "")
}

func (h *AppWebHandler) renderAuth(c *gin.Context, tab *views.Tab, code int, msg, email string) {
	c.HTML(code, "auth.html", authPage{
		Title:      "Entrar",
		StudioName: tab.Dashboard().StudioName(c.Request.Context()),
		CSRFField:  csrf.TemplateField(c.Request),
		Error:      msg,
		Email:      email,
		AllowAdmin: h.allowAdmin,
	})
}

func (h *AppWebHandler) SignIn(c *gin.Context) {
	tab, ok := tabOf(c)
	if !ok {
		return
	}

	var req SignInRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderAuth(c, tab, http.StatusBadRequest, "Informe e-mail e senha.", req.Email)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	snap, err := tab.Session.SignIn(c.Request.Context(), email, req.Password)
	middleware.SyncToken(c, tab.Session, h.auth.cookies)
	if err != nil {
		h.renderAuth(c, tab, http.StatusUnauthorized, authMessage(err), email)
		return
	}

	c.Redirect(http.StatusSeeOther, guard.HomeFor(snap.Role()))
}

func (h *AppWebHandler) SignUp(c *gin.Context) {
	tab, ok := tabOf(c)
	if !ok {
		return
	}

	var req SignUpRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderAuth(c, tab, http.StatusBadRequest, "Dados de cadastro inválidos.", req.Email)
		return
	}

	in := req.input()
	if !h.auth.domainOK(c.Request.Context(), in.Email) {
		h.renderAuth(c, tab, http.StatusBadRequest, "O domínio do e-mail informado não parece ser válido.", in.Email)
		return
	}

	snap, err := tab.Session.SignUp(c.Request.Context(), in)
	middleware.SyncToken(c, tab.Session, h.auth.cookies)
	if err != nil {
		h.renderAuth(c, tab, http.StatusBadRequest, authMessage(err), in.Email)
		return
	}

	c.Redirect(http.StatusSeeOther, guard.HomeFor(snap.Role()))
}

func (h *AppWebHandler) SignOut(c *gin.Context) {
	tab, ok := tabOf(c)
	if !ok {
		return
	}

	h.auth.signOut(c, tab.Session)
	c.Redirect(http.StatusSeeOther, guard.AuthPath)
}

func (h *AppWebHandler) Unauthorized(c *gin.Context) {
	c.HTML(http.StatusForbidden, "unauthorized.html", gin.H{"Title": "Acesso não autorizado"})
}

func authMessage(err error) string {
	switch {
	case errors.Is(err, backend.ErrInvalidCredentials):
		return "E-mail ou senha inválidos."
	case errors.Is(err, backend.ErrEmailTaken):
		return "Este e-mail já está cadastrado."
	case errors.Is(err, backend.ErrRoleNotAllowed):
		return "Cadastro como administrador desabilitado."
	case errors.Is(err, backend.ErrSessionExpired):
		return "Sessão expirada. Entre novamente."
	}
	return "Não foi possível concluir. Tente novamente."
}

// ======================================================
// ÁREA ADMIN
// ======================================================

func (h *AppWebHandler) App(c *gin.Context) {
	tab, ok := tabOf(c)
	if !ok {
		return
	}

	view := c.Param("view")
	if !knownView(view) {
		c.Redirect(http.StatusSeeOther, guard.AdminHome)
		return
	}

	ctx := c.Request.Context()
	d := tab.Dashboard()
	page := appPage{
		Title:      navLabel(view),
		View:       view,
		StudioName: d.StudioName(ctx),
		CSRFField:  csrf.TemplateField(c.Request),
		Profile:    guard.SnapshotFrom(c).Profile,
		Nav:        adminNav,
	}

	var err error
	switch view {
	case "dashboard":
		page.Stats = d.Stats()
		page.Status = d.Status()
		// Sem próximo agendamento o card some
		if next, nerr := d.Next(ctx); nerr == nil {
			page.Next = next
			page.NextLink = notify.WhatsAppLink(next.ClientPhone, notify.ReminderMessage(*next))
		}

	case "agenda":
		a := tab.Agenda()
		if day := c.Query("date"); day != "" {
			if serr := a.SetDate(day); serr != nil {
				page.Error = "Data inválida."
			}
		}
		page.Date = a.Date()

		day, derr := a.Day.Ensure(ctx)
		week, werr := a.Week.Ensure(ctx)
		err = firstErr(derr, day.Err, werr, week.Err)
		page.Rows = day.Data
		page.Groups = a.Upcoming(week.Data)

	case "clientes":
		v := tab.Clients()
		snap, lerr := v.List.Ensure(ctx)
		err = firstErr(lerr, snap.Err)
		page.Query = c.Query("q")
		page.Clients = v.Search(page.Query)

	case "servicos":
		v := tab.Services()
		snap, lerr := v.List.Ensure(ctx)
		err = firstErr(lerr, snap.Err)
		page.Query = c.Query("q")
		page.Services = v.Search(page.Query)

	case "financeiro":
		v := tab.Finance()
		snap, lerr := v.List.Ensure(ctx)
		err = firstErr(lerr, snap.Err)
		page.Transactions = snap.Data
		page.Summary = v.Summary()

	case "configuracoes":
		current, hours, valid, serr := tab.Settings().Current(ctx)
		err = serr
		page.Settings = current
		page.Week = hours.Week()
		page.HoursValid = valid
	}

	if err != nil {
		page.Error = "Erro ao carregar os dados."
		c.HTML(http.StatusInternalServerError, "app.html", page)
		return
	}
	c.HTML(http.StatusOK, "app.html", page)
}

func knownView(view string) bool {
	for _, n := range adminNav {
		if n.Key == view {
			return true
		}
	}
	return false
}

func navLabel(view string) string {
	for _, n := range adminNav {
		if n.Key == view {
			return n.Label
		}
	}
	return ""
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// ======================================================
// ÁREA DO CLIENTE
// ======================================================

func (h *AppWebHandler) Client(c *gin.Context) {
	tab, ok := tabOf(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	v := tab.ClientDashboard()
	page := clientPage{
		Title:      "Minha área",
		StudioName: tab.Dashboard().StudioName(ctx),
		CSRFField:  csrf.TemplateField(c.Request),
		Profile:    guard.SnapshotFrom(c).Profile,
	}

	appts, aerr := v.Appointments.Ensure(ctx)
	services, serr := v.Services.Ensure(ctx)
	page.Appointments = appts.Data
	page.Services = services.Data

	if err := firstErr(aerr, appts.Err, serr, services.Err); err != nil {
		page.Error = "Erro ao carregar os dados."
		c.HTML(http.StatusInternalServerError, "cliente.html", page)
		return
	}
	c.HTML(http.StatusOK, "cliente.html", page)
}

