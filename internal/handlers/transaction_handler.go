package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/studio-manager/internal/backend"
	"github.com/BruksfildServices01/studio-manager/internal/httperr"
	"github.com/BruksfildServices01/studio-manager/internal/httpresp"
	"github.com/BruksfildServices01/studio-manager/internal/models"
	"github.com/BruksfildServices01/studio-manager/internal/views"
)

type TransactionHandler struct {
	store *backend.Store
}

func NewTransactionHandler(store *backend.Store) *TransactionHandler {
	return &TransactionHandler{store: store}
}

type TransactionRequest struct {
	Tipo       string     `json:"tipo"`
	CategoryID *uuid.UUID `json:"category_id"`
	Categoria  string     `json:"categoria"`
	Descricao  string     `json:"descricao"`
	Valor      float64    `json:"valor"`
	Data       string     `json:"data"`
}

type CategoryRequest struct {
	Nome      string  `json:"nome"`
	Tipo      string  `json:"tipo"`
	Descricao *string `json:"descricao"`
	Ativo     *bool   `json:"ativo"`
}

func (r CategoryRequest) apply(cat *models.TransactionCategory) {
	cat.Nome = r.Nome
	cat.Tipo = r.Tipo
	cat.Descricao = r.Descricao
	if r.Ativo != nil {
		cat.Ativo = *r.Ativo
	}
}

type TransactionList struct {
	Data    []models.Transaction `json:"data"`
	Total   int                  `json:"total"`
	Loading bool                 `json:"loading"`
	Summary views.Summary        `json:"summary"`
}

// ======================================================
// TRANSACTIONS
// ======================================================

func (h *TransactionHandler) List(c *gin.Context) {
	tab, ok := tabOf(c)
	if !ok {
		return
	}
	v := tab.Finance()

	snap, err := v.List.Ensure(c.Request.Context())
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	if snap.Err != nil {
		httperr.FromError(c, snap.Err)
		return
	}

	data := snap.Data
	if data == nil {
		data = []models.Transaction{}
	}
	httpresp.OK(c, TransactionList{
		Data:    data,
		Total:   len(data),
		Loading: snap.Loading,
		Summary: views.Summarize(data),
	})
}

func (h *TransactionHandler) Create(c *gin.Context) {
	h.save(c, nil)
}

func (h *TransactionHandler) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	h.save(c, &id)
}

func (h *TransactionHandler) save(c *gin.Context, id *uuid.UUID) {
	tab, ok := tabOf(c)
	if !ok {
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ctx := c.Request.Context()
	var category *models.TransactionCategory
	if req.CategoryID != nil {
		cat, err := h.store.Categories.Get(ctx, *req.CategoryID)
		if err != nil {
			if errors.Is(err, backend.ErrNotFound) {
				httperr.BadRequest(c, "category_not_found", "Categoria não encontrada.")
				return
			}
			httperr.FromError(c, err)
			return
		}
		category = cat
	}

	f := tab.Finance().Form
	saveEntity(c, f.Form, h.store.Transactions, id, func(t *models.Transaction) {
		if req.Tipo != "" {
			t.Tipo = req.Tipo
		}
		if req.Categoria != "" {
			t.Categoria = req.Categoria
		}
		t.Descricao = req.Descricao
		t.Valor = req.Valor
		if req.Data != "" {
			t.Data = req.Data
		}
		// a categoria escolhida define nome e tipo
		if category != nil {
			cid := category.ID
			t.CategoryID = &cid
			t.Categoria = category.Nome
			t.Tipo = category.Tipo
		}
	})
}

func (h *TransactionHandler) Delete(c *gin.Context) {
	tab, ok := tabOf(c)
	if !ok {
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}

	deleted, err := tab.Finance().Delete(c.Request.Context(), id, confirmed(c))
	deleteResult(c, deleted, err)
}

// ======================================================
// CATEGORIES
// ======================================================

func (h *TransactionHandler) Categories(c *gin.Context) {
	tab, ok := tabOf(c)
	if !ok {
		return
	}
	v := tab.Finance()

	snap, err := v.Categories.Ensure(c.Request.Context())
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	if snap.Err != nil {
		httperr.FromError(c, snap.Err)
		return
	}

	httpresp.List(c, v.CategoriesFor(c.Query("tipo")), snap.Loading)
}

func (h *TransactionHandler) CreateCategory(c *gin.Context) {
	h.saveCategory(c, nil)
}

func (h *TransactionHandler) UpdateCategory(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	h.saveCategory(c, &id)
}

func (h *TransactionHandler) saveCategory(c *gin.Context, id *uuid.UUID) {
	tab, ok := tabOf(c)
	if !ok {
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	saveEntity(c, tab.Finance().Category, h.store.Categories, id, req.apply)
}
