package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/studio-manager/internal/backend"
	"github.com/BruksfildServices01/studio-manager/internal/httperr"
	"github.com/BruksfildServices01/studio-manager/internal/httpresp"
	"github.com/BruksfildServices01/studio-manager/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	logs backend.Table[models.AuditLog]
}

func NewAuditLogsHandler(logs backend.Table[models.AuditLog]) *AuditLogsHandler {
	return &AuditLogsHandler{logs: logs}
}

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 200
)

// List filtra por action, entity, entity_id e período (from/to em
// YYYY-MM-DD), mais recentes primeiro.
func (h *AuditLogsHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultAuditLimit)))
	if limit <= 0 || limit > maxAuditLimit {
		limit = defaultAuditLimit
	}

	// --------------------------------------------------
	// Filtros opcionais
	// --------------------------------------------------

	var filters []backend.Filter

	if action := c.Query("action"); action != "" {
		filters = append(filters, backend.Eq("action", action))
	}

	if entity := c.Query("entity"); entity != "" {
		filters = append(filters, backend.Eq("entity", entity))
	}

	if raw := c.Query("entity_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
			return
		}
		filters = append(filters, backend.Eq("entity_id", id))
	}

	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Data inválida.")
			return
		}
		filters = append(filters, backend.Gte("created_at", from.UTC()))
	}

	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Data inválida.")
			return
		}
		filters = append(filters, backend.Lte("created_at", to.Add(24*time.Hour).UTC()))
	}

	// --------------------------------------------------
	// Listagem
	// --------------------------------------------------

	logs, err := h.logs.Select(c.Request.Context(), backend.Query{
		Filters: filters,
		Order:   []backend.Order{backend.Desc("created_at")},
		Limit:   limit,
	})
	if err != nil {
		httperr.Internal(c, "audit_list_failed", "Erro ao listar logs.")
		return
	}

	httpresp.List(c, logs, false)
}
