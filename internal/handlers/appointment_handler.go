package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/studio-manager/internal/audit"
	"github.com/BruksfildServices01/studio-manager/internal/backend"
	"github.com/BruksfildServices01/studio-manager/internal/httperr"
	"github.com/BruksfildServices01/studio-manager/internal/httpresp"
	"github.com/BruksfildServices01/studio-manager/internal/middleware"
	"github.com/BruksfildServices01/studio-manager/internal/models"
	"github.com/BruksfildServices01/studio-manager/internal/payments"
	ucAppointment "github.com/BruksfildServices01/studio-manager/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	store    *backend.Store
	confirm  *ucAppointment.ConfirmAppointment
	cancel   *ucAppointment.CancelAppointment
	complete *ucAppointment.CompleteAppointment
	payments *payments.Service
	audit    *audit.Dispatcher
}

func NewAppointmentHandler(
	store *backend.Store,
	confirm *ucAppointment.ConfirmAppointment,
	cancel *ucAppointment.CancelAppointment,
	complete *ucAppointment.CompleteAppointment,
	payments *payments.Service,
	audit *audit.Dispatcher,
) *AppointmentHandler {
	return &AppointmentHandler{
		store:    store,
		confirm:  confirm,
		cancel:   cancel,
		complete: complete,
		payments: payments,
		audit:    audit,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type AppointmentRequest struct {
	ClientID    uuid.UUID `json:"client_id"`
	ServiceID   uuid.UUID `json:"service_id"`
	Data        string    `json:"data"`
	Hora        string    `json:"hora"`
	Status      string    `json:"status"`
	Observacoes *string   `json:"observacoes"`
	// Valor nil mantém o sugerido pelo serviço escolhido.
	Valor *float64 `json:"valor"`
}

// ======================================================
// LIST
// ======================================================

// List devolve o dia selecionado (?date= troca o dia da aba).
func (h *AppointmentHandler) List(c *gin.Context) {
	tab, ok := tabOf(c)
	if !ok {
		return
	}
	agenda := tab.Agenda()

	if date := c.Query("date"); date != "" {
		if err := agenda.SetDate(date); err != nil {
			httperr.BadRequest(c, "invalid_date", "Data inválida. Use AAAA-MM-DD.")
			return
		}
	}

	snap, err := agenda.Day.Ensure(c.Request.Context())
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	if snap.Err != nil {
		httperr.FromError(c, snap.Err)
		return
	}

	httpresp.List(c, snap.Data, snap.Loading)
}

// Week devolve a faixa de próximos dias.
func (h *AppointmentHandler) Week(c *gin.Context) {
	tab, ok := tabOf(c)
	if !ok {
		return
	}
	agenda := tab.Agenda()

	snap, err := agenda.Week.Ensure(c.Request.Context())
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	if snap.Err != nil {
		httperr.FromError(c, snap.Err)
		return
	}

	httpresp.List(c, agenda.Upcoming(snap.Data), snap.Loading)
}

func (h *AppointmentHandler) Pickers(c *gin.Context) {
	tab, ok := tabOf(c)
	if !ok {
		return
	}

	clients, services, err := tab.Agenda().Pickers(c.Request.Context())
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, gin.H{"clients": clients, "services": services})
}

// ======================================================
// CREATE / UPDATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	h.save(c, nil)
}

func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	h.save(c, &id)
}

func (h *AppointmentHandler) save(c *gin.Context, id *uuid.UUID) {
	tab, ok := tabOf(c)
	if !ok {
		return
	}

	var req AppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ctx := c.Request.Context()
	agenda := tab.Agenda()
	// cada requisição grava pelo seu próprio rascunho
	f, err := agenda.Draft(ctx, id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	// troca de serviço sugere o preço atual
	if req.ServiceID != uuid.Nil && req.ServiceID != f.Draft().ServiceID {
		svc, err := h.store.Services.Get(ctx, req.ServiceID)
		if err != nil {
			if errors.Is(err, backend.ErrNotFound) {
				httperr.BadRequest(c, "service_not_found", "Serviço não encontrado.")
				return
			}
			httperr.FromError(c, err)
			return
		}
		_ = f.SelectService(*svc)
	}

	_ = f.Edit(func(ap *models.Appointment) {
		if req.ClientID != uuid.Nil {
			ap.ClientID = req.ClientID
		}
		if req.Data != "" {
			ap.Data = req.Data
		}
		if req.Hora != "" {
			ap.Hora = req.Hora
		}
		if req.Status != "" {
			ap.Status = req.Status
		}
		ap.Observacoes = req.Observacoes
	})
	if req.Valor != nil {
		_ = f.SetValor(*req.Valor)
	}

	saved, err := f.Submit(ctx)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	if id == nil {
		httpresp.Created(c, saved)
		return
	}
	httpresp.Item(c, saved)
}

// ======================================================
// STATUS
// ======================================================

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	ap, err := h.confirm.Execute(c.Request.Context(), userOf(c), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	h.reload(c)
	httpresp.Item(c, ap)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	ap, err := h.cancel.Execute(c.Request.Context(), userOf(c), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	h.reload(c)
	httpresp.Item(c, ap)
}

// Complete conclui e lança a entrada. Se o lançamento falhar o
// agendamento continua concluído e a resposta avisa.
func (h *AppointmentHandler) Complete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	ap, tx, err := h.complete.Execute(c.Request.Context(), userOf(c), id)
	if err != nil && ap == nil {
		httperr.FromError(c, err)
		return
	}

	h.reload(c)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"data":       ap,
			"error_code": "transaction_not_recorded",
			"message":    "Atendimento concluído, mas a entrada no financeiro não foi registrada.",
		})
		return
	}

	httpresp.OK(c, gin.H{"data": ap, "transaction": tx})
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	tab, ok := tabOf(c)
	if !ok {
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}

	agenda := tab.Agenda()
	deleted, err := agenda.Day.Delete(c.Request.Context(), confirmed(c), func(ctx context.Context) error {
		return h.store.Appointments.Delete(ctx, id)
	})
	if deleted {
		agenda.Week.Reload()
		uid := userOf(c)
		h.audit.Dispatch(audit.Event{UserID: &uid, Action: "appointment_deleted", Entity: "appointment", EntityID: &id})
	}
	deleteResult(c, deleted, err)
}

// ======================================================
// PAYMENT LINK
// ======================================================

func (h *AppointmentHandler) PaymentLink(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	link, err := h.payments.LinkFor(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, payments.ErrDisabled) {
			httperr.Write(c, http.StatusNotImplemented, "payments_disabled", "Pagamento online não configurado.")
			return
		}
		httperr.FromError(c, err)
		return
	}

	uid := userOf(c)
	h.audit.Dispatch(audit.Event{
		UserID:   &uid,
		Action:   "payment_link_created",
		Entity:   "appointment",
		EntityID: &id,
		Metadata: map[string]any{"preference_id": link.PreferenceID, "valor": link.Valor},
	})

	httpresp.Item(c, link)
}

func (h *AppointmentHandler) reload(c *gin.Context) {
	if tab := middleware.TabFrom(c); tab != nil {
		tab.Agenda().Reload()
	}
}
