package views

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/studio-manager/internal/backend"
	"github.com/BruksfildServices01/studio-manager/internal/form"
	"github.com/BruksfildServices01/studio-manager/internal/loader"
	"github.com/BruksfildServices01/studio-manager/internal/models"
)

type Clients struct {
	deps Deps
	user UserFunc

	List *loader.Loader[models.Client]
	Form *form.Form[models.Client]
}

func NewClients(ctx context.Context, deps Deps, user UserFunc) *Clients {
	v := &Clients{deps: deps, user: user}

	v.List = loader.New(ctx, "clients", func(ctx context.Context) ([]models.Client, error) {
		return deps.Backend.Store.Clients.Select(ctx, backend.Query{
			Order: []backend.Order{backend.Asc("nome")},
		})
	}, deps.Logger)

	v.Form = form.New(deps.Backend.Store.Clients, deps.Validate, form.Options[models.Client]{
		Prepare: func(draft *models.Client, creating bool) {
			if creating {
				draft.CriadoPor = user()
			}
		},
		OnSaved: saved[models.Client](deps, user, "client", func() { v.List.Reload() }),
	})

	return v
}

// Search filtra por nome, telefone ou e-mail sobre a última lista carregada.
func (v *Clients) Search(term string) []models.Client {
	return loader.Filter(v.List.Snapshot().Data, term,
		func(c models.Client) string { return c.Nome },
		func(c models.Client) string { return c.Telefone },
		func(c models.Client) string { return deref(c.Email) },
	)
}

// Delete só remove com confirmação.
func (v *Clients) Delete(ctx context.Context, id uuid.UUID, confirm func() bool) (bool, error) {
	deleted, err := v.List.Delete(ctx, confirm, func(ctx context.Context) error {
		return v.deps.Backend.Store.Clients.Delete(ctx, id)
	})
	if deleted {
		v.deps.auditDelete(v.user, "client", id)
	}
	return deleted, err
}

func (v *Clients) Close() {
	v.List.Close()
	v.Form.Close()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
