package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/studio-manager/internal/backend"
	"github.com/BruksfildServices01/studio-manager/internal/models"
	"github.com/BruksfildServices01/studio-manager/internal/timezone"
)

func strPtr(s string) *string { return &s }

func TestInsertAssignsIDAndTimestamps(t *testing.T) {
	ctx := context.Background()
	clients := NewTable[models.Client]()

	c := models.Client{Nome: "Ana", Telefone: "11999990000"}
	require.NoError(t, clients.Insert(ctx, &c))

	assert.NotEqual(t, uuid.Nil, c.ID)
	assert.False(t, c.CreatedAt.IsZero())

	got, err := clients.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Nome)

	err = clients.Insert(ctx, &c)
	assert.ErrorIs(t, err, backend.ErrConstraint)
}

func TestSelectFiltersAndOrders(t *testing.T) {
	ctx := context.Background()
	services := NewTable[models.Service]()

	for _, s := range []models.Service{
		{Nome: "Manicure", Preco: 40, DuracaoMin: 45, Ativo: true},
		{Nome: "Design de Sobrancelha", Preco: 60, DuracaoMin: 30, Ativo: true},
		{Nome: "Lash Lifting", Preco: 120, DuracaoMin: 60, Ativo: false},
	} {
		s := s
		require.NoError(t, services.Insert(ctx, &s))
	}

	rows, err := services.Select(ctx, backend.Query{
		Filters: []backend.Filter{backend.Eq("ativo", true)},
		Order:   []backend.Order{backend.Asc("nome")},
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Design de Sobrancelha", rows[0].Nome)
	assert.Equal(t, "Manicure", rows[1].Nome)

	rows, err = services.Select(ctx, backend.Query{
		Filters: []backend.Filter{backend.Gte("preco", 60)},
		Order:   []backend.Order{backend.Desc("preco")},
		Limit:   1,
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Lash Lifting", rows[0].Nome)
}

func TestUpdateKeepsFalseAndCreatedAt(t *testing.T) {
	ctx := context.Background()
	services := NewTable[models.Service]()

	s := models.Service{Nome: "Manicure", Preco: 40, DuracaoMin: 45, Ativo: true}
	require.NoError(t, services.Insert(ctx, &s))
	created := s.CreatedAt

	s.Ativo = false
	s.CreatedAt = time.Time{}
	require.NoError(t, services.Update(ctx, s.ID, &s))

	got, err := services.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.False(t, got.Ativo)
	assert.True(t, created.Equal(got.CreatedAt))

	err = services.Update(ctx, uuid.New(), &s)
	assert.ErrorIs(t, err, backend.ErrNotFound)
}

func TestDeleteAndInjectedErrors(t *testing.T) {
	ctx := context.Background()
	clients := NewTable[models.Client]()

	c := models.Client{Nome: "Bia", Telefone: "1"}
	require.NoError(t, clients.Insert(ctx, &c))

	boom := errors.New("boom")
	clients.SetError(boom)
	assert.ErrorIs(t, clients.Delete(ctx, c.ID), boom)
	assert.Equal(t, 1, clients.Len())

	clients.SetError(nil)
	require.NoError(t, clients.Delete(ctx, c.ID))
	assert.Equal(t, 0, clients.Len())
	assert.ErrorIs(t, clients.Delete(ctx, c.ID), backend.ErrNotFound)
	assert.Equal(t, 3, clients.Calls("delete"))
}

func TestAppointmentJoins(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	c := models.Client{Nome: "Ana", Telefone: "11999990000", Email: strPtr("ana@example.com")}
	require.NoError(t, store.Clients.Insert(ctx, &c))
	s := models.Service{Nome: "Manicure", Preco: 40, DuracaoMin: 45, Ativo: true}
	require.NoError(t, store.Services.Insert(ctx, &s))

	ap := models.Appointment{ClientID: c.ID, ServiceID: s.ID, Data: "2024-06-03", Hora: "10:00", Valor: 40, Status: models.StatusPendente}
	ap.Client = &c
	require.NoError(t, store.Appointments.Insert(ctx, &ap))

	plain, err := store.Appointments.Get(ctx, ap.ID)
	require.NoError(t, err)
	assert.Nil(t, plain.Client, "associations are not stored")

	joined, err := store.Appointments.Get(ctx, ap.ID, "Client", "Service")
	require.NoError(t, err)
	require.NotNil(t, joined.Client)
	require.NotNil(t, joined.Service)
	assert.Equal(t, "Ana", joined.Client.Nome)
	assert.Equal(t, "Manicure", joined.Service.Nome)
}

func TestFunctions(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 3, 10, 30, 0, 0, time.UTC)
	b, store, _ := Backend(timezone.FixedClock(now))

	c := models.Client{Nome: "Ana", Telefone: "11999990000"}
	require.NoError(t, store.Clients.Insert(ctx, &c))
	s := models.Service{Nome: "Manicure", Preco: 40, DuracaoMin: 45, Ativo: true}
	require.NoError(t, store.Services.Insert(ctx, &s))

	for _, ap := range []models.Appointment{
		{ClientID: c.ID, ServiceID: s.ID, Data: "2024-06-03", Hora: "09:00", Valor: 40, Status: models.StatusConcluido},
		{ClientID: c.ID, ServiceID: s.ID, Data: "2024-06-03", Hora: "14:00", Valor: 40, Status: models.StatusConfirmado},
		{ClientID: c.ID, ServiceID: s.ID, Data: "2024-06-03", Hora: "16:00", Valor: 40, Status: models.StatusCancelado},
		{ClientID: c.ID, ServiceID: s.ID, Data: "2024-06-01", Hora: "09:00", Valor: 40, Status: models.StatusRealizado},
	} {
		ap := ap
		require.NoError(t, store.Appointments.Insert(ctx, &ap))
	}
	require.NoError(t, store.Transactions.Insert(ctx, &models.Transaction{Tipo: models.TipoEntrada, Categoria: "Serviços", Descricao: "Manicure", Valor: 40, Data: "2024-06-03"}))
	require.NoError(t, store.Transactions.Insert(ctx, &models.Transaction{Tipo: models.TipoSaida, Categoria: "Material", Descricao: "Esmaltes", Valor: 25, Data: "2024-06-03"}))

	stats, err := b.Functions.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, backend.DashboardStats{AppointmentsToday: 2, RevenueToday: 40, TotalClients: 1, ServicesCompleted: 2}, stats)

	next, err := b.Functions.NextAppointment(ctx)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, "14:00", next.AppointmentTime)
	assert.Equal(t, "Ana", next.ClientName)
	assert.Equal(t, "Manicure", next.ServiceName)

	name, err := b.Functions.StudioName(ctx)
	require.NoError(t, err)
	assert.Equal(t, backend.DefaultStudioName, name)

	status, err := b.Functions.StudioStatus(ctx)
	require.NoError(t, err)
	assert.False(t, status.IsOpen, "default hours are all inactive")
	assert.Equal(t, "Segunda-feira", status.CurrentDay)
}
