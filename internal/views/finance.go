package views

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/studio-manager/internal/backend"
	"github.com/BruksfildServices01/studio-manager/internal/form"
	"github.com/BruksfildServices01/studio-manager/internal/loader"
	"github.com/BruksfildServices01/studio-manager/internal/models"
	"github.com/BruksfildServices01/studio-manager/internal/timezone"
)

// Summary soma as entradas e saídas da lista carregada.
type Summary struct {
	Entradas float64 `json:"entradas"`
	Saidas   float64 `json:"saidas"`
	Saldo    float64 `json:"saldo"`
}

func Summarize(rows []models.Transaction) Summary {
	var s Summary
	for _, t := range rows {
		switch t.Tipo {
		case models.TipoEntrada:
			s.Entradas += t.Valor
		case models.TipoSaida:
			s.Saidas += t.Valor
		}
	}
	s.Saldo = s.Entradas - s.Saidas
	return s
}

type Finance struct {
	deps Deps
	user UserFunc

	List       *loader.Loader[models.Transaction]
	Categories *loader.Loader[models.TransactionCategory]
	Form       *form.TransactionForm
	Category   *form.Form[models.TransactionCategory]
}

func NewFinance(ctx context.Context, deps Deps, user UserFunc) *Finance {
	v := &Finance{deps: deps, user: user}
	store := deps.Backend.Store

	v.List = loader.New(ctx, "transactions", func(ctx context.Context) ([]models.Transaction, error) {
		return store.Transactions.Select(ctx, backend.Query{
			Order: []backend.Order{backend.Desc("data"), backend.Desc("created_at")},
		})
	}, deps.Logger)

	v.Categories = loader.New(ctx, "transaction_categories", func(ctx context.Context) ([]models.TransactionCategory, error) {
		return store.Categories.Select(ctx, backend.Query{
			Filters: []backend.Filter{backend.Eq("ativo", true)},
			Order:   []backend.Order{backend.Asc("nome")},
		})
	}, deps.Logger)

	v.Form = form.NewTransactionForm(store.Transactions, deps.Validate, form.Options[models.Transaction]{
		Defaults: func() models.Transaction {
			return models.Transaction{Tipo: models.TipoEntrada, Data: timezone.Today(deps.Clock())}
		},
		Prepare: func(draft *models.Transaction, creating bool) {
			if creating {
				draft.CreatedBy = user()
			}
		},
		OnSaved: saved[models.Transaction](deps, user, "transaction", func() { v.List.Reload() }),
	})

	v.Category = form.New(store.Categories, deps.Validate, form.Options[models.TransactionCategory]{
		Defaults: func() models.TransactionCategory {
			return models.TransactionCategory{Tipo: models.TipoEntrada, Ativo: true}
		},
		OnSaved: saved[models.TransactionCategory](deps, user, "transaction_category", func() { v.Categories.Reload() }),
	})

	return v
}

func (v *Finance) Summary() Summary {
	return Summarize(v.List.Snapshot().Data)
}

// CategoriesFor filtra as categorias ativas do tipo.
func (v *Finance) CategoriesFor(tipo string) []models.TransactionCategory {
	var out []models.TransactionCategory
	for _, c := range v.Categories.Snapshot().Data {
		if tipo == "" || c.Tipo == tipo {
			out = append(out, c)
		}
	}
	return out
}

func (v *Finance) Delete(ctx context.Context, id uuid.UUID, confirm func() bool) (bool, error) {
	deleted, err := v.List.Delete(ctx, confirm, func(ctx context.Context) error {
		return v.deps.Backend.Store.Transactions.Delete(ctx, id)
	})
	if deleted {
		v.deps.auditDelete(v.user, "transaction", id)
	}
	return deleted, err
}

func (v *Finance) Close() {
	v.List.Close()
	v.Categories.Close()
	v.Form.Close()
	v.Category.Close()
}
