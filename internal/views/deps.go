// Package views monta as telas do painel sobre loaders e formulários.
// Cada aba do navegador tem o seu conjunto de views.
package views

import (
	"context"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/studio-manager/internal/audit"
	"github.com/BruksfildServices01/studio-manager/internal/backend"
	"github.com/BruksfildServices01/studio-manager/internal/session"
	"github.com/BruksfildServices01/studio-manager/internal/status"
	"github.com/BruksfildServices01/studio-manager/internal/timezone"
)

// Deps são os colaboradores compartilhados por todas as abas.
type Deps struct {
	Backend  *backend.Backend
	Validate *validator.Validate
	Audit    *audit.Dispatcher
	Clock    timezone.Clock
	Logger   *slog.Logger
	Session  session.Options

	Stats  *status.Poller[backend.DashboardStats]
	Status *status.Poller[backend.StudioStatus]
}

// UserFunc devolve o usuário logado na aba (uuid.Nil quando não há).
type UserFunc func() uuid.UUID

// saved registra no audit a gravação feita por um formulário.
func saved[T interface{ EntityID() uuid.UUID }](d Deps, user UserFunc, entity string, after func()) func(context.Context, T, bool) {
	return func(_ context.Context, row T, created bool) {
		action := entity + "_updated"
		if created {
			action = entity + "_created"
		}

		uid := user()
		id := row.EntityID()
		d.Audit.Dispatch(audit.Event{
			UserID:   &uid,
			Action:   action,
			Entity:   entity,
			EntityID: &id,
		})

		if after != nil {
			after()
		}
	}
}

func (d Deps) auditDelete(user UserFunc, entity string, id uuid.UUID) {
	uid := user()
	d.Audit.Dispatch(audit.Event{
		UserID:   &uid,
		Action:   entity + "_deleted",
		Entity:   entity,
		EntityID: &id,
	})
}
