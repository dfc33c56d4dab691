package appointment

import (
	"context"

	"github.com/BruksfildServices01/studio-manager/internal/backend"
	domain "github.com/BruksfildServices01/studio-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/studio-manager/internal/domain/studio"
	"github.com/BruksfildServices01/studio-manager/internal/httperr"
	"github.com/BruksfildServices01/studio-manager/internal/models"
	"github.com/BruksfildServices01/studio-manager/internal/timezone"
)

type GetAvailability struct {
	store *backend.Store
	clock timezone.Clock
}

func NewGetAvailability(store *backend.Store, clock timezone.Clock) *GetAvailability {
	return &GetAvailability{store: store, clock: clock}
}

// Execute devolve a grade pública do dia. Ocupam horário os agendamentos
// não cancelados e as solicitações públicas pendentes.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	day string,
) ([]domain.TimeSlot, error) {

	now := uc.clock()
	date, err := timezone.ParseDay(day, now.Location())
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}
	if day < timezone.Today(now) {
		return []domain.TimeSlot{}, nil
	}

	hours, err := uc.hours(ctx)
	if err != nil {
		return nil, err
	}

	taken := map[string]bool{}

	appointments, err := uc.store.Appointments.Select(ctx, backend.Query{
		Columns: []string{"hora", "status"},
		Filters: []backend.Filter{
			backend.Eq("data", day),
			backend.Neq("status", models.StatusCancelado),
		},
	})
	if err != nil {
		return nil, err
	}
	for _, ap := range appointments {
		taken[slotKey(ap.Hora)] = true
	}

	bookings, err := uc.store.PublicBookings.Select(ctx, backend.Query{
		Columns: []string{"hora"},
		Filters: []backend.Filter{
			backend.Eq("data", day),
			backend.Eq("status", models.BookingPendente),
		},
	})
	if err != nil {
		return nil, err
	}
	for _, b := range bookings {
		taken[slotKey(b.Hora)] = true
	}

	return domain.Slots(domain.SlotInput{
		Date:  date,
		Hours: hours,
		Taken: taken,
		Now:   now,
	}), nil
}

// hours devolve nil quando não há configuração válida (usa a grade padrão).
func (uc *GetAvailability) hours(ctx context.Context) (*studio.BusinessHours, error) {
	rows, err := uc.store.Settings.Select(ctx, backend.Query{
		Order: []backend.Order{backend.Desc("created_at")},
		Limit: 1,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	h, err := studio.ParseBusinessHours(rows[0].HorasFuncionamento)
	if err != nil {
		return nil, nil
	}
	return &h, nil
}

// slotKey corta segundos quando o banco devolve HH:MM:SS.
func slotKey(hora string) string {
	if len(hora) > 5 {
		return hora[:5]
	}
	return hora
}
