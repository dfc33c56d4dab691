package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/studio-manager/internal/backend"
	"github.com/BruksfildServices01/studio-manager/internal/models"
)

// Store expõe as tabelas concretas para os testes inspecionarem.
type Store struct {
	Profiles       *Table[models.Profile]
	Clients        *Table[models.Client]
	Services       *Table[models.Service]
	Appointments   *Table[models.Appointment]
	Transactions   *Table[models.Transaction]
	Categories     *Table[models.TransactionCategory]
	Settings       *Table[models.StudioSettings]
	PublicBookings *Table[models.PublicBooking]
	Notifications  *Table[models.Notification]
}

func NewStore() *Store {
	s := &Store{
		Profiles:       NewTable[models.Profile](),
		Clients:        NewTable[models.Client](),
		Services:       NewTable[models.Service](),
		Appointments:   NewTable[models.Appointment](),
		Transactions:   NewTable[models.Transaction](),
		Categories:     NewTable[models.TransactionCategory](),
		Settings:       NewTable[models.StudioSettings](),
		PublicBookings: NewTable[models.PublicBooking](),
		Notifications:  NewTable[models.Notification](),
	}

	s.Appointments.Join("Client", "clients", lookup(s.Clients, "client_id"))
	s.Appointments.Join("Service", "services", lookup(s.Services, "service_id"))
	return s
}

func lookup[T any](t *Table[T], column string) JoinFunc {
	return func(_ context.Context, r row) (any, error) {
		id, err := uuid.Parse(toString(r[column]))
		if err != nil {
			return nil, nil
		}

		t.mu.Lock()
		defer t.mu.Unlock()
		idx := t.index(id)
		if idx < 0 {
			return nil, nil
		}
		return clone(t.rows[idx]), nil
	}
}

func toString(v any) string {
	s, _ := v.(string)
	return s
}

// SetClock fixa o relógio usado para created_at em todas as tabelas.
func (s *Store) SetClock(now func() time.Time) {
	s.Profiles.now = now
	s.Clients.now = now
	s.Services.now = now
	s.Appointments.now = now
	s.Transactions.now = now
	s.Categories.now = now
	s.Settings.now = now
	s.PublicBookings.now = now
	s.Notifications.now = now
}

func (s *Store) Backend() *backend.Store {
	return &backend.Store{
		Profiles:       s.Profiles,
		Clients:        s.Clients,
		Services:       s.Services,
		Appointments:   s.Appointments,
		Transactions:   s.Transactions,
		Categories:     s.Categories,
		Settings:       s.Settings,
		PublicBookings: s.PublicBookings,
		Notifications:  s.Notifications,
	}
}
