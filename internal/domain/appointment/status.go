package appointment

import (
	"github.com/BruksfildServices01/studio-manager/internal/httperr"
	"github.com/BruksfildServices01/studio-manager/internal/models"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = models.StatusPendente
	StatusConfirmed Status = models.StatusConfirmado
	StatusCompleted Status = models.StatusConcluido
	// StatusDone é a grafia antiga de concluído, ainda aceita na leitura.
	StatusDone      Status = models.StatusRealizado
	StatusCancelled Status = models.StatusCancelado
)

// IsCompleted aceita as duas grafias de serviço feito.
func (s Status) IsCompleted() bool {
	return s == StatusCompleted || s == StatusDone
}

// Open indica agendamento ainda por acontecer.
func (s Status) Open() bool {
	return s == StatusPending || s == StatusConfirmed
}

// ===============================
// Validations
// ===============================

// CanConfirm: só agendamento pendente pode ser confirmado
func CanConfirm(current Status) error {
	if current != StatusPending {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanCancel define se um agendamento pode ser cancelado
func CanCancel(current Status) error {
	if !current.Open() {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanComplete define se um agendamento pode ser concluído
func CanComplete(current Status) error {
	if !current.Open() {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func InitialStatus() Status {
	return StatusPending
}
