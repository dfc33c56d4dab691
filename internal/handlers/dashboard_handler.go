package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/studio-manager/internal/audit"
	"github.com/BruksfildServices01/studio-manager/internal/backend"
	"github.com/BruksfildServices01/studio-manager/internal/httperr"
	"github.com/BruksfildServices01/studio-manager/internal/httpresp"
	"github.com/BruksfildServices01/studio-manager/internal/notify"
	"github.com/BruksfildServices01/studio-manager/internal/status"
)

type DashboardHandler struct {
	notifier *notify.Notifier
	audit    *audit.Dispatcher
	logger   *slog.Logger
}

func NewDashboardHandler(notifier *notify.Notifier, audit *audit.Dispatcher, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{notifier: notifier, audit: audit, logger: logger}
}

type DashboardResponse struct {
	StudioName string                                 `json:"studio_name"`
	Stats      status.Snapshot[backend.DashboardStats] `json:"stats"`
	Status     status.Snapshot[backend.StudioStatus]   `json:"status"`
}

// ======================================================
// RESUMO
// ======================================================
func (h *DashboardHandler) Get(c *gin.Context) {
	tab, ok := tabOf(c)
	if !ok {
		return
	}
	d := tab.Dashboard()

	httpresp.OK(c, DashboardResponse{
		StudioName: d.StudioName(c.Request.Context()),
		Stats:      d.Stats(),
		Status:     d.Status(),
	})
}

func (h *DashboardHandler) Status(c *gin.Context) {
	tab, ok := tabOf(c)
	if !ok {
		return
	}
	httpresp.OK(c, tab.Dashboard().Status())
}

// ======================================================
// PRÓXIMO AGENDAMENTO
// ======================================================
func (h *DashboardHandler) Next(c *gin.Context) {
	tab, ok := tabOf(c)
	if !ok {
		return
	}

	next, err := tab.Dashboard().Next(c.Request.Context())
	if err != nil {
		if httperr.IsBusiness(err, "no_next_appointment") {
			httperr.NotFound(c, "no_next_appointment", "Nenhum agendamento futuro.")
			return
		}
		httperr.FromError(c, err)
		return
	}

	msg := notify.ReminderMessage(*next)
	httpresp.OK(c, gin.H{
		"appointment":  next,
		"message":      msg,
		"whatsapp_url": notify.WhatsAppLink(next.ClientPhone, msg),
	})
}

// ======================================================
// SORTEIO
// ======================================================
func (h *DashboardHandler) Raffle(c *gin.Context) {
	tab, ok := tabOf(c)
	if !ok {
		return
	}

	winner, err := tab.Dashboard().Raffle(c.Request.Context())
	if err != nil {
		if httperr.IsBusiness(err, "no_clients") {
			httperr.NotFound(c, "no_clients", "Nenhum cliente cadastrado.")
			return
		}
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, winner)
}

// ======================================================
// LEMBRETE (registra e devolve o link do WhatsApp)
// ======================================================
type NotifyRequest struct {
	Message string `json:"message"`
}

func (h *DashboardHandler) Notify(c *gin.Context) {
	tab, ok := tabOf(c)
	if !ok {
		return
	}

	var req NotifyRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
			return
		}
	}

	ctx := c.Request.Context()
	next, err := tab.Dashboard().Next(ctx)
	if err != nil {
		if httperr.IsBusiness(err, "no_next_appointment") {
			httperr.NotFound(c, "no_next_appointment", "Nenhum agendamento futuro.")
			return
		}
		httperr.FromError(c, err)
		return
	}

	intent := notify.ReminderFor(*next)
	if req.Message != "" {
		intent.Message = req.Message
	}

	handoff, err := h.notifier.Send(ctx, intent)
	if err != nil {
		h.logger.Error("notification insert failed", slog.String("error", err.Error()))
		httperr.FromError(c, err)
		return
	}

	userID := userOf(c)
	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "notification_registered",
		Entity:   "notification",
		EntityID: &handoff.NotificationID,
	})

	httpresp.Created(c, handoff)
}
