package views

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/studio-manager/internal/audit"
	"github.com/BruksfildServices01/studio-manager/internal/backend"
	"github.com/BruksfildServices01/studio-manager/internal/backend/memory"
	"github.com/BruksfildServices01/studio-manager/internal/httperr"
	"github.com/BruksfildServices01/studio-manager/internal/models"
	"github.com/BruksfildServices01/studio-manager/internal/session"
	"github.com/BruksfildServices01/studio-manager/internal/status"
	appointmentuc "github.com/BruksfildServices01/studio-manager/internal/usecase/appointment"
	"github.com/BruksfildServices01/studio-manager/internal/validators"
)

type fixture struct {
	deps   Deps
	store  *memory.Store
	auth   *memory.Auth
	audits *memory.Table[models.AuditLog]
	now    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{now: time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)}
	clock := func() time.Time { return f.now }

	var b *backend.Backend
	b, f.store, f.auth = memory.Backend(clock)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.audits = memory.NewTable[models.AuditLog]()

	f.deps = Deps{
		Backend:  b,
		Validate: validators.New(),
		Audit:    audit.NewDispatcher(audit.New(f.audits), logger),
		Clock:    clock,
		Logger:   logger,
		Session:  session.Options{Now: clock},
		Stats:    status.NewPoller("stats", time.Minute, b.Functions.DashboardStats, logger),
		Status:   status.NewPoller("status", time.Minute, b.Functions.StudioStatus, logger),
	}
	return f
}

// signedInTab abre uma aba já logada com o papel pedido.
func (f *fixture) signedInTab(t *testing.T, r *Registry, email, role string) *Tab {
	t.Helper()
	ctx := context.Background()

	_, err := f.auth.AddUser(ctx, email, "secret123", "Usuária", role)
	require.NoError(t, err)

	tab, created := r.Open("")
	require.True(t, created)
	_, err = tab.Session.SignIn(ctx, email, "secret123")
	require.NoError(t, err)
	return tab
}

func (f *fixture) seed(t *testing.T) (models.Client, models.Service) {
	t.Helper()
	ctx := context.Background()

	email := "ana@example.com"
	c := models.Client{Nome: "Ana", Telefone: "(11) 99999-0000", Email: &email}
	require.NoError(t, f.store.Clients.Insert(ctx, &c))
	s := models.Service{Nome: "Lash Lifting", Preco: 120, DuracaoMin: 60, Ativo: true}
	require.NoError(t, f.store.Services.Insert(ctx, &s))
	return c, s
}

func TestRegistryOpenAndSweep(t *testing.T) {
	f := newFixture(t)
	r := NewRegistry(f.deps)
	defer r.Close()

	tab, created := r.Open("")
	require.True(t, created)
	assert.NotEmpty(t, tab.ID)

	same, created := r.Open(tab.ID)
	assert.False(t, created)
	assert.Same(t, tab, same)

	other, created := r.Open("forged-id")
	assert.True(t, created)
	assert.NotEqual(t, "forged-id", other.ID)
	assert.Equal(t, 2, r.Len())

	f.now = f.now.Add(2 * time.Hour)
	r.Open(tab.ID)
	assert.Equal(t, 1, r.Sweep(time.Hour))
	assert.Nil(t, r.Get(other.ID))
	assert.NotNil(t, r.Get(tab.ID))

	r.Drop(tab.ID)
	assert.Equal(t, 0, r.Len())
}

func TestAgendaFormKeepsOverriddenValue(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	r := NewRegistry(f.deps)
	defer r.Close()

	tab := f.signedInTab(t, r, "admin@studio.com", models.RoleAdmin)
	c, s := f.seed(t)
	agenda := tab.Agenda()

	require.NoError(t, agenda.OpenForm(ctx, nil))
	require.NoError(t, agenda.Form.Edit(func(ap *models.Appointment) {
		ap.ClientID = c.ID
		ap.Hora = "14:00"
	}))
	require.NoError(t, agenda.Form.SelectService(s))
	assert.Equal(t, 120.0, agenda.Form.Draft().Valor)
	require.NoError(t, agenda.Form.SetValor(100))

	saved, err := agenda.Form.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, tab.UserID(), saved.CreatedBy)
	assert.Equal(t, "2024-06-10", saved.Data)

	stored, err := f.store.Appointments.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, stored.Valor)

	snap, err := agenda.Day.Wait(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Data, 1)
	assert.Equal(t, "Ana", snap.Data[0].ClientName)

	week, err := agenda.Week.Wait(ctx)
	require.NoError(t, err)
	groups := agenda.Upcoming(week.Data)
	require.Len(t, groups, appointmentuc.WeekStripDays)
	assert.Equal(t, "Hoje", groups[0].Label)
	assert.Len(t, groups[0].Rows, 1)
	assert.Empty(t, groups[1].Rows)

	require.NoError(t, agenda.SetDate("2024-06-11"))
	snap, err = agenda.Day.Wait(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.Data)
	assert.True(t, httperr.IsBusiness(agenda.SetDate("amanhã"), "invalid_date"))

	require.NoError(t, f.deps.Audit.Close(ctx))
	require.Len(t, f.audits.Rows(), 1)
	assert.Equal(t, "appointment_created", f.audits.Rows()[0].Action)
}

func TestClientsSearchAndConfirmedDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	r := NewRegistry(f.deps)
	defer r.Close()

	tab := f.signedInTab(t, r, "admin@studio.com", models.RoleAdmin)
	f.seed(t)
	andre := models.Client{Nome: "André", Telefone: "21988887777"}
	require.NoError(t, f.store.Clients.Insert(ctx, &andre))

	clients := tab.Clients()
	snap, err := clients.List.Ensure(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Data, 2)
	assert.Equal(t, "Ana", snap.Data[0].Nome)

	assert.Len(t, clients.Search("An"), 2)
	only := clients.Search("Ana")
	require.Len(t, only, 1)
	assert.Equal(t, "Ana", only[0].Nome)
	assert.Len(t, clients.Search("EXAMPLE.com"), 1)
	assert.Len(t, clients.Search("2198888"), 1)

	deleted, err := clients.Delete(ctx, andre.ID, func() bool { return false })
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Equal(t, 0, f.store.Clients.Calls("delete"))

	deleted, err = clients.Delete(ctx, andre.ID, func() bool { return true })
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Len(t, clients.List.Snapshot().Data, 1)

	_, err = clients.Delete(ctx, uuid.New(), func() bool { return true })
	assert.ErrorIs(t, err, backend.ErrNotFound)
	assert.Len(t, clients.List.Snapshot().Data, 1)
}

func TestServicesActivePicker(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	r := NewRegistry(f.deps)
	defer r.Close()

	tab := f.signedInTab(t, r, "admin@studio.com", models.RoleAdmin)
	f.seed(t)
	require.NoError(t, f.store.Services.Insert(ctx, &models.Service{Nome: "Design de sobrancelha", Preco: 50, DuracaoMin: 30, Ativo: false}))

	services := tab.Services()
	_, err := services.List.Ensure(ctx)
	require.NoError(t, err)

	active := services.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "Lash Lifting", active[0].Nome)
	assert.Len(t, services.Search("sobrancelha"), 1)

	services.Form.Open(nil)
	assert.True(t, services.Form.Draft().Ativo)
}

func TestFinanceSummaryAndCategory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	r := NewRegistry(f.deps)
	defer r.Close()

	tab := f.signedInTab(t, r, "admin@studio.com", models.RoleAdmin)
	cat := models.TransactionCategory{Nome: "Material", Tipo: models.TipoSaida, Ativo: true}
	require.NoError(t, f.store.Categories.Insert(ctx, &cat))
	require.NoError(t, f.store.Categories.Insert(ctx, &models.TransactionCategory{Nome: "Antiga", Tipo: models.TipoSaida, Ativo: false}))
	require.NoError(t, f.store.Transactions.Insert(ctx, &models.Transaction{Tipo: models.TipoEntrada, Categoria: "Serviços", Descricao: "Lash", Valor: 120, Data: "2024-06-09"}))

	finance := tab.Finance()
	_, err := finance.Categories.Ensure(ctx)
	require.NoError(t, err)
	require.Len(t, finance.CategoriesFor(models.TipoSaida), 1)
	assert.Empty(t, finance.CategoriesFor(models.TipoEntrada))

	finance.Form.Open(nil)
	assert.Equal(t, "2024-06-10", finance.Form.Draft().Data)
	require.NoError(t, finance.Form.SelectCategory(cat))
	require.NoError(t, finance.Form.Edit(func(tx *models.Transaction) {
		tx.Descricao = "Cola para cílios"
		tx.Valor = 45.5
	}))
	saved, err := finance.Form.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Material", saved.Categoria)
	assert.Equal(t, models.TipoSaida, saved.Tipo)

	snap, err := finance.List.Wait(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Data, 2)
	assert.Equal(t, "2024-06-10", snap.Data[0].Data)
	assert.Equal(t, Summary{Entradas: 120, Saidas: 45.5, Saldo: 74.5}, finance.Summary())
}

func TestSettingsUsesLatestRow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	r := NewRegistry(f.deps)
	defer r.Close()

	tab := f.signedInTab(t, r, "admin@studio.com", models.RoleAdmin)
	settings := tab.Settings()

	current, hours, ok, err := settings.Current(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)
	assert.True(t, ok)
	assert.Equal(t, "09:00", hours.Segunda.Abertura)

	require.NoError(t, settings.OpenForm(ctx))
	assert.False(t, settings.Form.Editing())
	require.NoError(t, settings.Form.Edit(func(s *models.StudioSettings) { s.Nome = "Studio Bella" }))
	first, err := settings.Form.Submit(ctx)
	require.NoError(t, err)
	_, err = settings.Latest.Wait(ctx)
	require.NoError(t, err)

	// linha mais nova com horário quebrado: vale a mais nova, com horário padrão
	f.now = f.now.Add(time.Minute)
	require.NoError(t, f.store.Settings.Insert(ctx, &models.StudioSettings{Nome: "Studio Nova", HorasFuncionamento: models.JSON(`{"segunda":"9h"}`)}))
	_, err = settings.Latest.Refresh(ctx)
	require.NoError(t, err)

	current, _, ok, err = settings.Current(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "Studio Nova", current.Nome)
	assert.NotEqual(t, first.ID, current.ID)
	assert.False(t, ok)

	require.NoError(t, settings.OpenForm(ctx))
	assert.True(t, settings.Form.Editing())
	require.NoError(t, settings.SetLogo("https://cdn.example.com/logos/1.webp"))
	saved, err := settings.Form.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, current.ID, saved.ID)
	assert.Equal(t, 2, f.store.Settings.Len())
}

func TestClientDashboardMatchesByEmail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	r := NewRegistry(f.deps)
	defer r.Close()

	c, s := f.seed(t)
	other := models.Client{Nome: "Bia", Telefone: "11977776666"}
	require.NoError(t, f.store.Clients.Insert(ctx, &other))
	for _, ap := range []models.Appointment{
		{ClientID: c.ID, ServiceID: s.ID, Data: "2024-06-12", Hora: "10:00", Valor: 120, Status: models.StatusPendente},
		{ClientID: c.ID, ServiceID: s.ID, Data: "2024-05-02", Hora: "10:00", Valor: 110, Status: models.StatusConcluido},
		{ClientID: other.ID, ServiceID: s.ID, Data: "2024-06-12", Hora: "11:00", Valor: 120, Status: models.StatusPendente},
	} {
		ap := ap
		require.NoError(t, f.store.Appointments.Insert(ctx, &ap))
	}

	tab := f.signedInTab(t, r, "ANA@example.com", models.RoleClient)
	mine := tab.ClientDashboard()
	assert.Same(t, mine, tab.ClientDashboard())

	snap, err := mine.Appointments.Ensure(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Data, 2)
	assert.Equal(t, "2024-06-12", snap.Data[0].Data)
	assert.Equal(t, "Lash Lifting", snap.Data[0].ServiceName)

	services, err := mine.Services.Ensure(ctx)
	require.NoError(t, err)
	assert.Len(t, services.Data, 1)

	require.NoError(t, tab.Session.SignOut(ctx))
	assert.NotSame(t, mine, tab.ClientDashboard())
}

func TestDashboardWithoutData(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	d := NewDashboard(f.deps)

	_, err := d.Next(ctx)
	assert.True(t, httperr.IsBusiness(err, "no_next_appointment"))
	_, err = d.Raffle(ctx)
	assert.True(t, httperr.IsBusiness(err, "no_clients"))
	assert.Equal(t, backend.DefaultStudioName, d.StudioName(ctx))
	assert.False(t, d.Stats().Ready)

	f.deps.Stats.Tick(ctx)
	assert.True(t, d.Stats().Ready)
}

func TestBookingPublicPage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, s := f.seed(t)
	b := NewBooking(f.deps)

	info, err := b.Studio(ctx)
	require.NoError(t, err)
	assert.Equal(t, backend.DefaultStudioName, info.Nome)

	services, err := b.Services(ctx)
	require.NoError(t, err)
	require.Len(t, services, 1)

	booking, err := b.Book(ctx, appointmentuc.CreatePublicBookingInput{
		Nome: "Carla", Telefone: "11955554444", ServiceID: s.ID, Data: "2024-06-10", Hora: "10:00",
	})
	require.NoError(t, err)
	assert.Equal(t, 120.0, booking.Valor)

	slots, err := b.Slots(ctx, "2024-06-10")
	require.NoError(t, err)
	for _, slot := range slots {
		if slot.Hora == "10:00" || slot.Hora == "09:00" {
			assert.False(t, slot.Disponivel, slot.Hora)
		}
	}
}
