package views

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/studio-manager/internal/backend"
	"github.com/BruksfildServices01/studio-manager/internal/dto"
	"github.com/BruksfildServices01/studio-manager/internal/loader"
	"github.com/BruksfildServices01/studio-manager/internal/models"
)

// ClientDashboard é a área do cliente logado: seus agendamentos e os
// serviços ativos. O vínculo perfil→cliente é pelo e-mail.
type ClientDashboard struct {
	profileID uuid.UUID

	Appointments *loader.Loader[dto.AgendaRow]
	Services     *loader.Loader[models.Service]
}

func NewClientDashboard(ctx context.Context, deps Deps, profile *models.Profile) *ClientDashboard {
	v := &ClientDashboard{}
	email := ""
	if profile != nil {
		v.profileID = profile.ID
		email = profile.Email
	}
	store := deps.Backend.Store

	v.Appointments = loader.New(ctx, "my_appointments", func(ctx context.Context) ([]dto.AgendaRow, error) {
		return ClientAppointments(ctx, store, email)
	}, deps.Logger)

	v.Services = loader.New(ctx, "my_services", func(ctx context.Context) ([]models.Service, error) {
		return activeServices(ctx, store)
	}, deps.Logger)

	return v
}

// ClientAppointments lista os agendamentos dos clientes com o e-mail,
// mais recentes primeiro.
func ClientAppointments(ctx context.Context, store *backend.Store, email string) ([]dto.AgendaRow, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return []dto.AgendaRow{}, nil
	}

	candidates, err := store.Clients.Select(ctx, backend.Query{
		Columns: []string{"id", "email"},
		Filters: []backend.Filter{{Column: "email", Op: backend.OpLike, Value: email}},
	})
	if err != nil {
		return nil, err
	}

	var ids []uuid.UUID
	for _, c := range candidates {
		if c.Email != nil && strings.EqualFold(strings.TrimSpace(*c.Email), email) {
			ids = append(ids, c.ID)
		}
	}
	if len(ids) == 0 {
		return []dto.AgendaRow{}, nil
	}

	rows, err := store.Appointments.Select(ctx, backend.Query{
		Filters: []backend.Filter{backend.In("client_id", ids)},
		Order:   []backend.Order{backend.Desc("data"), backend.Desc("hora")},
		Joins:   []string{"Client", "Service"},
	})
	if err != nil {
		return nil, err
	}
	return dto.AgendaRows(rows), nil
}

func (v *ClientDashboard) belongsTo(p *models.Profile) bool {
	if p == nil {
		return v.profileID == uuid.Nil
	}
	return p.ID == v.profileID
}

func (v *ClientDashboard) Close() {
	v.Appointments.Close()
	v.Services.Close()
}
