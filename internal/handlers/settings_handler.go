package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/studio-manager/internal/domain/studio"
	"github.com/BruksfildServices01/studio-manager/internal/httperr"
	"github.com/BruksfildServices01/studio-manager/internal/httpresp"
	"github.com/BruksfildServices01/studio-manager/internal/models"
	"github.com/BruksfildServices01/studio-manager/internal/storage"
	"github.com/BruksfildServices01/studio-manager/internal/views"
)

type SettingsHandler struct {
	logos *storage.Logos
}

func NewSettingsHandler(logos *storage.Logos) *SettingsHandler {
	return &SettingsHandler{logos: logos}
}

type SettingsRequest struct {
	Nome               string      `json:"nome"`
	Endereco           *string     `json:"endereco"`
	Telefone           *string     `json:"telefone"`
	Whatsapp           *string     `json:"whatsapp"`
	Instagram          *string     `json:"instagram"`
	Facebook           *string     `json:"facebook"`
	LinkAgendamento    *string     `json:"link_agendamento"`
	LogoURL            *string     `json:"logo_url"`
	CorPrimaria        *string     `json:"cor_primaria"`
	HorasFuncionamento models.JSON `json:"horas_funcionamento"`
}

type SettingsResponse struct {
	Settings *models.StudioSettings `json:"settings"`
	Hours    studio.BusinessHours   `json:"horas_funcionamento"`
	// HoursValid=false: o horário gravado estava fora do formato e foi
	// trocado pelo padrão.
	HoursValid bool `json:"horas_validas"`
}

// ======================================================
// GET
// ======================================================
func (h *SettingsHandler) Get(c *gin.Context) {
	tab, ok := tabOf(c)
	if !ok {
		return
	}

	current, hours, valid, err := tab.Settings().Current(c.Request.Context())
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, SettingsResponse{Settings: current, Hours: hours, HoursValid: valid})
}

// ======================================================
// SAVE (atualiza a linha vigente ou cria a primeira)
// ======================================================
func (h *SettingsHandler) Save(c *gin.Context) {
	tab, ok := tabOf(c)
	if !ok {
		return
	}

	var req SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ctx := c.Request.Context()
	f, err := tab.Settings().Draft(ctx)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	_ = f.Edit(func(s *models.StudioSettings) {
		s.Nome = req.Nome
		s.Endereco = req.Endereco
		s.Telefone = req.Telefone
		s.Whatsapp = req.Whatsapp
		s.Instagram = req.Instagram
		s.Facebook = req.Facebook
		s.LinkAgendamento = req.LinkAgendamento
		s.LogoURL = req.LogoURL
		if req.CorPrimaria != nil {
			s.CorPrimaria = req.CorPrimaria
		}
		if len(req.HorasFuncionamento) > 0 {
			s.HorasFuncionamento = req.HorasFuncionamento
		}
	})

	creating := !f.Editing()
	saved, err := f.Submit(ctx)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	if creating {
		httpresp.Created(c, saved)
		return
	}
	httpresp.Item(c, saved)
}

// ======================================================
// LOGO
// ======================================================
func (h *SettingsHandler) UploadLogo(c *gin.Context) {
	tab, ok := tabOf(c)
	if !ok {
		return
	}
	if !h.logos.Enabled() {
		httperr.Write(c, http.StatusNotImplemented, "storage_disabled", "Upload de logo não configurado.")
		return
	}

	file, err := c.FormFile("logo")
	if err != nil {
		httperr.BadRequest(c, "logo_required", "Envie o arquivo do logo.")
		return
	}
	if file.Size > storage.MaxLogoBytes {
		httperr.BadRequest(c, "logo_too_large", "O logo deve ter no máximo 5 MB.")
		return
	}

	src, err := file.Open()
	if err != nil {
		httperr.BadRequest(c, "logo_unreadable", "Não foi possível ler o arquivo.")
		return
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, storage.MaxLogoBytes))
	if err != nil {
		httperr.BadRequest(c, "logo_unreadable", "Não foi possível ler o arquivo.")
		return
	}

	ctx := c.Request.Context()
	url, err := h.logos.Upload(ctx, data)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedImage) {
			httperr.BadRequest(c, "unsupported_image", "Use uma imagem PNG, JPEG ou WebP.")
			return
		}
		httperr.Internal(c, "logo_upload_failed", "Erro ao enviar o logo.")
		return
	}

	f, err := tab.Settings().Draft(ctx)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	_ = views.SetLogo(f, url)

	saved, err := f.Submit(ctx)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Item(c, saved)
}

// ======================================================
// QR CODE do link de agendamento
// ======================================================
func (h *SettingsHandler) QRCode(c *gin.Context) {
	tab, ok := tabOf(c)
	if !ok {
		return
	}

	current, _, _, err := tab.Settings().Current(c.Request.Context())
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	if current == nil || current.LinkAgendamento == nil {
		httperr.NotFound(c, "booking_link_missing", "Cadastre o link de agendamento nas configurações.")
		return
	}

	png, err := storage.BookingQRCode(*current.LinkAgendamento)
	if err != nil {
		httperr.BadRequest(c, "invalid_link", "Link de agendamento inválido.")
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
