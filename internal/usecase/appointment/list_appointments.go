package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/studio-manager/internal/backend"
	"github.com/BruksfildServices01/studio-manager/internal/dto"
	"github.com/BruksfildServices01/studio-manager/internal/httperr"
	"github.com/BruksfildServices01/studio-manager/internal/models"
	"github.com/BruksfildServices01/studio-manager/internal/timezone"
)

// WeekStripDays é o tamanho da faixa de dias da agenda.
const WeekStripDays = 7

type ListAppointments struct {
	appointments backend.Table[models.Appointment]
}

func NewListAppointments(appointments backend.Table[models.Appointment]) *ListAppointments {
	return &ListAppointments{appointments: appointments}
}

// ByDate lista o dia em ordem de horário, com cliente e serviço.
func (uc *ListAppointments) ByDate(ctx context.Context, day string) ([]dto.AgendaRow, error) {
	if _, err := time.Parse(timezone.DateLayout, day); err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	rows, err := uc.appointments.Select(ctx, backend.Query{
		Filters: []backend.Filter{backend.Eq("data", day)},
		Order:   []backend.Order{backend.Asc("hora")},
		Joins:   []string{"Client", "Service"},
	})
	if err != nil {
		return nil, err
	}

	return dto.AgendaRows(rows), nil
}

// Range lista de from até to (inclusive), ordenado por data e hora.
func (uc *ListAppointments) Range(ctx context.Context, from, to string) ([]dto.AgendaRow, error) {
	if _, err := time.Parse(timezone.DateLayout, from); err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}
	if _, err := time.Parse(timezone.DateLayout, to); err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}
	if to < from {
		return nil, httperr.ErrBusiness("invalid_range")
	}

	rows, err := uc.appointments.Select(ctx, backend.Query{
		Filters: []backend.Filter{
			backend.Gte("data", from),
			backend.Lte("data", to),
		},
		Order: []backend.Order{backend.Asc("data"), backend.Asc("hora")},
		Joins: []string{"Client", "Service"},
	})
	if err != nil {
		return nil, err
	}

	return dto.AgendaRows(rows), nil
}

// Strip devolve os sete dias a partir de start.
func Strip(start time.Time) []string {
	days := make([]string, 0, WeekStripDays)
	for i := 0; i < WeekStripDays; i++ {
		days = append(days, start.AddDate(0, 0, i).Format(timezone.DateLayout))
	}
	return days
}
