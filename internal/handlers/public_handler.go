package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/studio-manager/internal/httperr"
	"github.com/BruksfildServices01/studio-manager/internal/httpresp"
	appointmentuc "github.com/BruksfildServices01/studio-manager/internal/usecase/appointment"
	"github.com/BruksfildServices01/studio-manager/internal/views"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

// PublicHandler atende a página de agendamento, sem sessão.
type PublicHandler struct {
	booking *views.Booking
}

func NewPublicHandler(booking *views.Booking) *PublicHandler {
	return &PublicHandler{booking: booking}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicBookingRequest struct {
	Nome        string    `json:"nome"`
	Telefone    string    `json:"telefone"`
	Email       *string   `json:"email"`
	ServiceID   uuid.UUID `json:"service_id" binding:"required"`
	Data        string    `json:"data" binding:"required"` // YYYY-MM-DD
	Hora        string    `json:"hora" binding:"required"` // HH:mm
	Observacoes *string   `json:"observacoes"`
}

func (r PublicBookingRequest) input() appointmentuc.CreatePublicBookingInput {
	return appointmentuc.CreatePublicBookingInput{
		Nome:        r.Nome,
		Telefone:    r.Telefone,
		Email:       r.Email,
		ServiceID:   r.ServiceID,
		Data:        r.Data,
		Hora:        r.Hora,
		Observacoes: r.Observacoes,
	}
}

////////////////////////////////////////////////////////
// STUDIO + SERVICES
////////////////////////////////////////////////////////

func (h *PublicHandler) Studio(c *gin.Context) {
	info, err := h.booking.Studio(c.Request.Context())
	if err != nil {
		httperr.Internal(c, "failed_to_load_studio", "Erro ao carregar o estúdio.")
		return
	}
	httpresp.Item(c, info)
}

func (h *PublicHandler) Services(c *gin.Context) {
	services, err := h.booking.Services(c.Request.Context())
	if err != nil {
		httperr.Internal(c, "failed_to_list_services", "Erro ao listar serviços.")
		return
	}
	httpresp.List(c, services, false)
}

////////////////////////////////////////////////////////
// SLOTS
////////////////////////////////////////////////////////

func (h *PublicHandler) Slots(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_params", "Informe a data.")
		return
	}

	slots, err := h.booking.Slots(c.Request.Context(), date)
	if err != nil {
		if httperr.IsBusiness(err, "invalid_date") {
			httperr.BadRequest(c, "invalid_date", "Data inválida.")
			return
		}
		httperr.Internal(c, "availability_failed", "Erro ao calcular horários.")
		return
	}

	httpresp.OK(c, gin.H{
		"date":  date,
		"slots": slots,
	})
}

////////////////////////////////////////////////////////
// BOOKING
////////////////////////////////////////////////////////

func (h *PublicHandler) Book(c *gin.Context) {
	var req PublicBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	booking, err := h.booking.Book(c.Request.Context(), req.input())
	if err != nil {
		writeBookingError(c, err)
		return
	}

	httpresp.Created(c, booking)
}

func writeBookingError(c *gin.Context, err error) {
	switch {
	case httperr.IsBusiness(err, "missing_contact"):
		httperr.BadRequest(c, "missing_contact", "Informe nome e telefone.")
	case httperr.IsBusiness(err, "service_not_found"):
		httperr.BadRequest(c, "service_not_found", "Serviço inválido.")
	case httperr.IsBusiness(err, "service_inactive"):
		httperr.BadRequest(c, "service_inactive", "Serviço indisponível.")
	case httperr.IsBusiness(err, "time_unavailable"):
		httperr.Conflict(c, "time_unavailable", "Horário indisponível.")
	case httperr.IsBusiness(err, "invalid_date"):
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
	default:
		httperr.FromError(c, err)
	}
}
