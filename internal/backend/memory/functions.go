package memory

import (
	"context"
	"math/rand"

	"github.com/BruksfildServices01/studio-manager/internal/backend"
	"github.com/BruksfildServices01/studio-manager/internal/models"
	"github.com/BruksfildServices01/studio-manager/internal/timezone"
)

// Functions calcula os agregados a partir das tabelas em memória.
type Functions struct {
	store *Store
	clock timezone.Clock

	// Err, quando definido, faz todas as funções falharem.
	Err error
}

func NewFunctions(store *Store, clock timezone.Clock) *Functions {
	return &Functions{store: store, clock: clock}
}

func (f *Functions) DashboardStats(ctx context.Context) (backend.DashboardStats, error) {
	if f.Err != nil {
		return backend.DashboardStats{}, f.Err
	}

	now := f.clock()
	today := timezone.Today(now)
	monthStart, monthEnd := timezone.MonthRange(now)

	var stats backend.DashboardStats
	for _, ap := range f.store.Appointments.Rows() {
		if ap.Data == today && ap.Status != models.StatusCancelado {
			stats.AppointmentsToday++
		}
		if ap.Data >= monthStart && ap.Data <= monthEnd && completed(ap.Status) {
			stats.ServicesCompleted++
		}
	}

	for _, tx := range f.store.Transactions.Rows() {
		if tx.Data == today && tx.Tipo == models.TipoEntrada {
			stats.RevenueToday += tx.Valor
		}
	}

	stats.TotalClients = int64(f.store.Clients.Len())
	return stats, nil
}

func completed(status string) bool {
	for _, s := range backend.CompletedStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func (f *Functions) NextAppointment(ctx context.Context) (*backend.NextAppointment, error) {
	if f.Err != nil {
		return nil, f.Err
	}

	now := f.clock()
	today := timezone.Today(now)
	clock := timezone.ClockTime(now)

	rows, err := f.store.Appointments.Select(ctx, backend.Query{
		Filters: []backend.Filter{backend.In("status", backend.UpcomingStatuses)},
		Order:   []backend.Order{backend.Asc("data"), backend.Asc("hora")},
		Joins:   []string{"Client", "Service"},
	})
	if err != nil {
		return nil, err
	}

	for _, ap := range rows {
		if ap.Data < today || (ap.Data == today && ap.Hora < clock) {
			continue
		}
		if ap.Client == nil || ap.Service == nil {
			continue
		}
		return &backend.NextAppointment{
			AppointmentID:   ap.ID,
			ClientID:        ap.Client.ID,
			ClientName:      ap.Client.Nome,
			ClientPhone:     ap.Client.Telefone,
			ClientEmail:     ap.Client.Email,
			AppointmentDate: ap.Data,
			AppointmentTime: ap.Hora,
			ServiceName:     ap.Service.Nome,
		}, nil
	}
	return nil, nil
}

func (f *Functions) RandomClient(ctx context.Context) (*backend.RandomClient, error) {
	if f.Err != nil {
		return nil, f.Err
	}

	clients := f.store.Clients.Rows()
	if len(clients) == 0 {
		return nil, nil
	}
	c := clients[rand.Intn(len(clients))]
	return &backend.RandomClient{ID: c.ID, Nome: c.Nome, Telefone: c.Telefone}, nil
}

func (f *Functions) latestSettings(ctx context.Context) (*models.StudioSettings, error) {
	rows, err := f.store.Settings.Select(ctx, backend.Query{
		Order: []backend.Order{backend.Desc("created_at")},
		Limit: 1,
	})
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &rows[0], nil
}

func (f *Functions) StudioStatus(ctx context.Context) (backend.StudioStatus, error) {
	if f.Err != nil {
		return backend.StudioStatus{}, f.Err
	}

	settings, err := f.latestSettings(ctx)
	if err != nil {
		return backend.StudioStatus{}, err
	}
	return backend.StatusFromSettings(settings, f.clock()), nil
}

func (f *Functions) StudioName(ctx context.Context) (string, error) {
	if f.Err != nil {
		return "", f.Err
	}

	settings, err := f.latestSettings(ctx)
	if err != nil {
		return "", err
	}
	if settings == nil || settings.Nome == "" {
		return backend.DefaultStudioName, nil
	}
	return settings.Nome, nil
}

// Backend monta a superfície completa em memória.
func Backend(clock timezone.Clock) (*backend.Backend, *Store, *Auth) {
	store := NewStore()
	store.SetClock(clock)

	bus := backend.NewLocalBus()
	auth := NewAuth(store.Profiles, bus)
	auth.SetClock(clock)

	return &backend.Backend{
		Auth:      auth,
		Bus:       bus,
		Store:     store.Backend(),
		Functions: NewFunctions(store, clock),
	}, store, auth
}
