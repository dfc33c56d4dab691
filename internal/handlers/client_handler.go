package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/studio-manager/internal/backend"
	"github.com/BruksfildServices01/studio-manager/internal/httperr"
	"github.com/BruksfildServices01/studio-manager/internal/httpresp"
	"github.com/BruksfildServices01/studio-manager/internal/models"
)

type ClientHandler struct {
	store *backend.Store
}

func NewClientHandler(store *backend.Store) *ClientHandler {
	return &ClientHandler{store: store}
}

type ClientRequest struct {
	Nome           string  `json:"nome"`
	Telefone       string  `json:"telefone"`
	Email          *string `json:"email"`
	DataNascimento *string `json:"data_nascimento"`
}

func (r ClientRequest) apply(cl *models.Client) {
	cl.Nome = r.Nome
	cl.Telefone = r.Telefone
	cl.Email = r.Email
	cl.DataNascimento = r.DataNascimento
}

// ======================================================
// LIST CLIENTS (?q= busca em nome, telefone e e-mail)
// ======================================================
func (h *ClientHandler) List(c *gin.Context) {
	tab, ok := tabOf(c)
	if !ok {
		return
	}
	v := tab.Clients()

	snap, err := v.List.Ensure(c.Request.Context())
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	if snap.Err != nil {
		httperr.FromError(c, snap.Err)
		return
	}

	httpresp.List(c, v.Search(c.Query("q")), snap.Loading)
}

func (h *ClientHandler) Create(c *gin.Context) {
	h.save(c, nil)
}

func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	h.save(c, &id)
}

func (h *ClientHandler) save(c *gin.Context, id *uuid.UUID) {
	tab, ok := tabOf(c)
	if !ok {
		return
	}

	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	saveEntity(c, tab.Clients().Form, h.store.Clients, id, req.apply)
}

func (h *ClientHandler) Delete(c *gin.Context) {
	tab, ok := tabOf(c)
	if !ok {
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}

	deleted, err := tab.Clients().Delete(c.Request.Context(), id, confirmed(c))
	deleteResult(c, deleted, err)
}
