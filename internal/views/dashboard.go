package views

import (
	"context"
	"log/slog"

	"github.com/BruksfildServices01/studio-manager/internal/backend"
	"github.com/BruksfildServices01/studio-manager/internal/httperr"
	"github.com/BruksfildServices01/studio-manager/internal/status"
)

// Dashboard lê os pollers compartilhados e chama as funções agregadas
// sob demanda.
type Dashboard struct {
	deps Deps
}

func NewDashboard(deps Deps) *Dashboard {
	return &Dashboard{deps: deps}
}

func (d *Dashboard) Stats() status.Snapshot[backend.DashboardStats] {
	return d.deps.Stats.Snapshot()
}

func (d *Dashboard) Status() status.Snapshot[backend.StudioStatus] {
	return d.deps.Status.Snapshot()
}

// Next devolve o próximo agendamento. Sem resultado o recurso some da
// tela (no_next_appointment).
func (d *Dashboard) Next(ctx context.Context) (*backend.NextAppointment, error) {
	next, err := d.deps.Backend.Functions.NextAppointment(ctx)
	if err != nil {
		d.deps.Logger.Error("next appointment", slog.String("error", err.Error()))
		return nil, err
	}
	if next == nil {
		return nil, httperr.ErrBusiness("no_next_appointment")
	}
	return next, nil
}

// Raffle sorteia um cliente.
func (d *Dashboard) Raffle(ctx context.Context) (*backend.RandomClient, error) {
	winner, err := d.deps.Backend.Functions.RandomClient(ctx)
	if err != nil {
		d.deps.Logger.Error("random client", slog.String("error", err.Error()))
		return nil, err
	}
	if winner == nil {
		return nil, httperr.ErrBusiness("no_clients")
	}
	return winner, nil
}

func (d *Dashboard) StudioName(ctx context.Context) string {
	name, err := d.deps.Backend.Functions.StudioName(ctx)
	if err != nil {
		d.deps.Logger.Warn("studio name", slog.String("error", err.Error()))
		return backend.DefaultStudioName
	}
	return name
}
