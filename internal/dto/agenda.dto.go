package dto

import (
	"github.com/google/uuid"

	"github.com/BruksfildServices01/studio-manager/internal/models"
)

// AgendaRow é a linha da agenda com cliente e serviço já resolvidos.
type AgendaRow struct {
	ID          uuid.UUID `json:"id"`
	Data        string    `json:"data"`
	Hora        string    `json:"hora"`
	Status      string    `json:"status"`
	Valor       float64   `json:"valor"`
	Observacoes *string   `json:"observacoes,omitempty"`
	ClientID    uuid.UUID `json:"client_id"`
	ClientName  string    `json:"client_name"`
	ClientPhone string    `json:"client_phone"`
	ServiceID   uuid.UUID `json:"service_id"`
	ServiceName string    `json:"service_name"`
	DurationMin int       `json:"duracao_min"`
}

func NewAgendaRow(ap models.Appointment) AgendaRow {
	row := AgendaRow{
		ID:          ap.ID,
		Data:        ap.Data,
		Hora:        ap.Hora,
		Status:      ap.Status,
		Valor:       ap.Valor,
		Observacoes: ap.Observacoes,
		ClientID:    ap.ClientID,
		ServiceID:   ap.ServiceID,
	}

	if ap.Client != nil {
		row.ClientName = ap.Client.Nome
		row.ClientPhone = ap.Client.Telefone
	}
	if ap.Service != nil {
		row.ServiceName = ap.Service.Nome
		row.DurationMin = ap.Service.DuracaoMin
	}
	return row
}

func AgendaRows(aps []models.Appointment) []AgendaRow {
	out := make([]AgendaRow, 0, len(aps))
	for _, ap := range aps {
		out = append(out, NewAgendaRow(ap))
	}
	return out
}
