package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/studio-manager/internal/backend"
	"github.com/BruksfildServices01/studio-manager/internal/httperr"
	"github.com/BruksfildServices01/studio-manager/internal/httpresp"
	"github.com/BruksfildServices01/studio-manager/internal/models"
)

type ServiceHandler struct {
	store *backend.Store
}

func NewServiceHandler(store *backend.Store) *ServiceHandler {
	return &ServiceHandler{store: store}
}

type ServiceRequest struct {
	Nome       string  `json:"nome"`
	Descricao  *string `json:"descricao"`
	Preco      float64 `json:"preco"`
	DuracaoMin int     `json:"duracao_min"`
	Categoria  *string `json:"categoria"`
	Ativo      *bool   `json:"ativo"`
}

func (r ServiceRequest) apply(s *models.Service) {
	s.Nome = r.Nome
	s.Descricao = r.Descricao
	s.Preco = r.Preco
	s.DuracaoMin = r.DuracaoMin
	s.Categoria = r.Categoria
	if r.Ativo != nil {
		s.Ativo = *r.Ativo
	}
}

// ======================================================
// LIST (?q= busca, ?active=true só ativos)
// ======================================================
func (h *ServiceHandler) List(c *gin.Context) {
	tab, ok := tabOf(c)
	if !ok {
		return
	}
	v := tab.Services()

	snap, err := v.List.Ensure(c.Request.Context())
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	if snap.Err != nil {
		httperr.FromError(c, snap.Err)
		return
	}

	if c.Query("active") == "true" {
		httpresp.List(c, v.Active(), snap.Loading)
		return
	}
	httpresp.List(c, v.Search(c.Query("q")), snap.Loading)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	h.save(c, nil)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	h.save(c, &id)
}

func (h *ServiceHandler) save(c *gin.Context, id *uuid.UUID) {
	tab, ok := tabOf(c)
	if !ok {
		return
	}

	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	saveEntity(c, tab.Services().Form, h.store.Services, id, req.apply)
}

func (h *ServiceHandler) Delete(c *gin.Context) {
	tab, ok := tabOf(c)
	if !ok {
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}

	deleted, err := tab.Services().Delete(c.Request.Context(), id, confirmed(c))
	deleteResult(c, deleted, err)
}
