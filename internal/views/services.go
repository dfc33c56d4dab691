package views

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/studio-manager/internal/backend"
	"github.com/BruksfildServices01/studio-manager/internal/form"
	"github.com/BruksfildServices01/studio-manager/internal/loader"
	"github.com/BruksfildServices01/studio-manager/internal/models"
)

type Services struct {
	deps Deps
	user UserFunc

	List *loader.Loader[models.Service]
	Form *form.Form[models.Service]
}

func NewServices(ctx context.Context, deps Deps, user UserFunc) *Services {
	v := &Services{deps: deps, user: user}

	v.List = loader.New(ctx, "services", func(ctx context.Context) ([]models.Service, error) {
		return deps.Backend.Store.Services.Select(ctx, backend.Query{
			Order: []backend.Order{backend.Asc("nome")},
		})
	}, deps.Logger)

	v.Form = form.New(deps.Backend.Store.Services, deps.Validate, form.Options[models.Service]{
		Defaults: func() models.Service {
			return models.Service{Ativo: true, DuracaoMin: 60}
		},
		OnSaved: saved[models.Service](deps, user, "service", func() { v.List.Reload() }),
	})

	return v
}

func (v *Services) Search(term string) []models.Service {
	return loader.Filter(v.List.Snapshot().Data, term,
		func(s models.Service) string { return s.Nome },
		func(s models.Service) string { return deref(s.Categoria) },
		func(s models.Service) string { return deref(s.Descricao) },
	)
}

// Active é o seletor de serviços para agendamento.
func (v *Services) Active() []models.Service {
	all := v.List.Snapshot().Data
	out := make([]models.Service, 0, len(all))
	for _, s := range all {
		if s.Ativo {
			out = append(out, s)
		}
	}
	return out
}

func (v *Services) Delete(ctx context.Context, id uuid.UUID, confirm func() bool) (bool, error) {
	deleted, err := v.List.Delete(ctx, confirm, func(ctx context.Context) error {
		return v.deps.Backend.Store.Services.Delete(ctx, id)
	})
	if deleted {
		v.deps.auditDelete(v.user, "service", id)
	}
	return deleted, err
}

func (v *Services) Close() {
	v.List.Close()
	v.Form.Close()
}
