package views

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/studio-manager/internal/backend"
	"github.com/BruksfildServices01/studio-manager/internal/dto"
	"github.com/BruksfildServices01/studio-manager/internal/form"
	"github.com/BruksfildServices01/studio-manager/internal/httperr"
	"github.com/BruksfildServices01/studio-manager/internal/loader"
	"github.com/BruksfildServices01/studio-manager/internal/models"
	"github.com/BruksfildServices01/studio-manager/internal/timezone"
	appointmentuc "github.com/BruksfildServices01/studio-manager/internal/usecase/appointment"
)

// DayGroup agrupa a faixa de próximos dias.
type DayGroup struct {
	Data  string          `json:"data"`
	Label string          `json:"label"`
	Rows  []dto.AgendaRow `json:"rows"`
}

// Agenda mostra o dia selecionado e os próximos sete dias.
type Agenda struct {
	deps Deps
	list *appointmentuc.ListAppointments

	mu   sync.Mutex
	date string

	Day  *loader.Loader[dto.AgendaRow]
	Week *loader.Loader[dto.AgendaRow]
	Form *form.AppointmentForm
}

func NewAgenda(ctx context.Context, deps Deps, user UserFunc) *Agenda {
	a := &Agenda{
		deps: deps,
		list: appointmentuc.NewListAppointments(deps.Backend.Store.Appointments),
		date: timezone.Today(deps.Clock()),
	}

	a.Day = loader.New(ctx, "agenda", func(ctx context.Context) ([]dto.AgendaRow, error) {
		return a.list.ByDate(ctx, a.Date())
	}, deps.Logger)

	a.Week = loader.New(ctx, "agenda_week", func(ctx context.Context) ([]dto.AgendaRow, error) {
		days := appointmentuc.Strip(a.deps.Clock())
		return a.list.Range(ctx, days[0], days[len(days)-1])
	}, deps.Logger)

	a.Form = form.NewAppointmentForm(deps.Backend.Store.Appointments, deps.Validate, form.Options[models.Appointment]{
		Prepare: func(draft *models.Appointment, creating bool) {
			if creating {
				draft.CreatedBy = user()
			}
			// associações nunca são gravadas pelo formulário
			draft.Client = nil
			draft.Service = nil
		},
		OnSaved: saved[models.Appointment](deps, user, "appointment", a.Reload),
	})

	return a
}

func (a *Agenda) Date() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.date
}

// SetDate troca o dia e recarrega a lista do dia.
func (a *Agenda) SetDate(day string) error {
	if _, err := time.Parse(timezone.DateLayout, day); err != nil {
		return httperr.ErrBusiness("invalid_date")
	}

	a.mu.Lock()
	changed := a.date != day
	a.date = day
	a.mu.Unlock()

	if changed {
		a.Day.Reload()
	}
	return nil
}

// Reload recarrega dia e semana (depois de salvar ou mudar status).
func (a *Agenda) Reload() {
	a.Day.Reload()
	a.Week.Reload()
}

// Upcoming agrupa a semana por dia, incluindo dias sem agendamento.
func (a *Agenda) Upcoming(rows []dto.AgendaRow) []DayGroup {
	now := a.deps.Clock()
	days := appointmentuc.Strip(now)

	byDay := map[string][]dto.AgendaRow{}
	for _, r := range rows {
		byDay[r.Data] = append(byDay[r.Data], r)
	}

	out := make([]DayGroup, 0, len(days))
	for i, d := range days {
		out = append(out, DayGroup{
			Data:  d,
			Label: dayLabel(now.AddDate(0, 0, i), i),
			Rows:  append([]dto.AgendaRow{}, byDay[d]...),
		})
	}
	return out
}

func dayLabel(t time.Time, offset int) string {
	switch offset {
	case 0:
		return "Hoje"
	case 1:
		return "Amanhã"
	}
	return t.Format("02/01")
}

// Pickers são as opções do formulário: clientes e serviços ativos.
func (a *Agenda) Pickers(ctx context.Context) ([]models.Client, []models.Service, error) {
	store := a.deps.Backend.Store

	clients, err := store.Clients.Select(ctx, backend.Query{
		Columns: []string{"id", "nome", "telefone"},
		Order:   []backend.Order{backend.Asc("nome")},
	})
	if err != nil {
		return nil, nil, err
	}

	services, err := activeServices(ctx, store)
	if err != nil {
		return nil, nil, err
	}
	return clients, services, nil
}

// OpenForm abre o formulário para criar (id nil) ou editar.
func (a *Agenda) OpenForm(ctx context.Context, id *uuid.UUID) error {
	return a.open(ctx, a.Form, id)
}

// Draft abre um fork do formulário só para uma requisição.
func (a *Agenda) Draft(ctx context.Context, id *uuid.UUID) (*form.AppointmentForm, error) {
	f := a.Form.Fork()
	if err := a.open(ctx, f, id); err != nil {
		return nil, err
	}
	return f, nil
}

func (a *Agenda) open(ctx context.Context, f *form.AppointmentForm, id *uuid.UUID) error {
	if id == nil {
		f.Open(nil)
		return f.Edit(func(ap *models.Appointment) { ap.Data = a.Date() })
	}

	ap, err := a.deps.Backend.Store.Appointments.Get(ctx, *id)
	if err != nil {
		return err
	}
	f.Open(ap)
	return nil
}

func (a *Agenda) Close() {
	a.Day.Close()
	a.Week.Close()
	a.Form.Close()
}

func activeServices(ctx context.Context, store *backend.Store) ([]models.Service, error) {
	return store.Services.Select(ctx, backend.Query{
		Filters: []backend.Filter{backend.Eq("ativo", true)},
		Order:   []backend.Order{backend.Asc("nome")},
	})
}
