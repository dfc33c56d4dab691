package handlers

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/csrf"

	domain "github.com/BruksfildServices01/studio-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/studio-manager/internal/httperr"
	"github.com/BruksfildServices01/studio-manager/internal/models"
	"github.com/BruksfildServices01/studio-manager/internal/views"
)

// PublicWebHandler serve a página pública de agendamento.
type PublicWebHandler struct {
	booking *views.Booking
}

func NewPublicWebHandler(booking *views.Booking) *PublicWebHandler {
	return &PublicWebHandler{booking: booking}
}

type bookingPage struct {
	Title     string
	CSRFField template.HTML
	Studio    views.StudioInfo
	Services  []models.Service
	ServiceID string
	Date      string
	Slots     []domain.TimeSlot
	Booked    *models.PublicBooking
	Error     string
}

type bookingForm struct {
	Nome        string `form:"nome"`
	Telefone    string `form:"telefone"`
	Email       string `form:"email"`
	ServiceID   string `form:"service_id"`
	Data        string `form:"data"`
	Hora        string `form:"hora"`
	Observacoes string `form:"observacoes"`
}

// page monta a página com serviços, estúdio e, havendo data, a grade.
func (h *PublicWebHandler) page(c *gin.Context, serviceID, date string) (bookingPage, error) {
	ctx := c.Request.Context()
	p := bookingPage{
		CSRFField: csrf.TemplateField(c.Request),
		ServiceID: serviceID,
		Date:      date,
	}

	studioInfo, err := h.booking.Studio(ctx)
	if err != nil {
		return p, err
	}
	p.Studio = studioInfo
	p.Title = "Agendar · " + studioInfo.Nome

	services, err := h.booking.Services(ctx)
	if err != nil {
		return p, err
	}
	p.Services = services

	if date != "" {
		slots, err := h.booking.Slots(ctx, date)
		if err != nil {
			if !httperr.IsBusiness(err, "invalid_date") {
				return p, err
			}
			p.Date = ""
			p.Error = "Data inválida."
		}
		p.Slots = slots
	}

	return p, nil
}

func (h *PublicWebHandler) ShowBookingPage(c *gin.Context) {
	p, err := h.page(c, c.Query("service_id"), c.Query("date"))
	if err != nil {
		c.String(http.StatusInternalServerError, "Erro ao carregar a página de agendamento.")
		return
	}
	c.HTML(http.StatusOK, "agendar.html", p)
}

func (h *PublicWebHandler) SubmitBooking(c *gin.Context) {
	var f bookingForm
	_ = c.ShouldBind(&f)

	p, err := h.page(c, f.ServiceID, f.Data)
	if err != nil {
		c.String(http.StatusInternalServerError, "Erro ao carregar a página de agendamento.")
		return
	}

	serviceID, err := uuid.Parse(f.ServiceID)
	if err != nil {
		p.Error = "Escolha um serviço."
		c.HTML(http.StatusBadRequest, "agendar.html", p)
		return
	}

	booking, err := h.booking.Book(c.Request.Context(), PublicBookingRequest{
		Nome:        strings.TrimSpace(f.Nome),
		Telefone:    strings.TrimSpace(f.Telefone),
		Email:       strPtr(strings.TrimSpace(f.Email)),
		ServiceID:   serviceID,
		Data:        f.Data,
		Hora:        f.Hora,
		Observacoes: strPtr(strings.TrimSpace(f.Observacoes)),
	}.input())
	if err != nil {
		p.Error = bookingMessage(err)
		c.HTML(http.StatusBadRequest, "agendar.html", p)
		return
	}

	p.Booked = booking
	c.HTML(http.StatusCreated, "agendar.html", p)
}

func bookingMessage(err error) string {
	switch {
	case httperr.IsBusiness(err, "missing_contact"):
		return "Informe nome e telefone."
	case httperr.IsBusiness(err, "service_not_found"), httperr.IsBusiness(err, "service_inactive"):
		return "Serviço indisponível."
	case httperr.IsBusiness(err, "time_unavailable"):
		return "Horário indisponível. Escolha outro."
	case httperr.IsBusiness(err, "invalid_date"):
		return "Data inválida."
	}
	return "Não foi possível agendar. Tente novamente."
}
