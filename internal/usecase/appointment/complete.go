package appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/studio-manager/internal/audit"
	"github.com/BruksfildServices01/studio-manager/internal/backend"
	domain "github.com/BruksfildServices01/studio-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/studio-manager/internal/models"
	"github.com/BruksfildServices01/studio-manager/internal/timezone"
)

// ServiceRevenueCategory é a categoria da entrada gerada ao concluir.
const ServiceRevenueCategory = "Serviços"

type CompleteAppointment struct {
	appointments backend.Table[models.Appointment]
	transactions backend.Table[models.Transaction]
	audit        *audit.Dispatcher
	clock        timezone.Clock
}

func NewCompleteAppointment(
	appointments backend.Table[models.Appointment],
	transactions backend.Table[models.Transaction],
	audit *audit.Dispatcher,
	clock timezone.Clock,
) *CompleteAppointment {
	return &CompleteAppointment{
		appointments: appointments,
		transactions: transactions,
		audit:        audit,
		clock:        clock,
	}
}

// Execute conclui o agendamento e lança a entrada no financeiro com o
// valor gravado no agendamento. São duas escritas independentes: se a
// segunda falhar o agendamento fica concluído sem lançamento.
func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	userID uuid.UUID,
	appointmentID uuid.UUID,
) (*models.Appointment, *models.Transaction, error) {

	// --------------------------------------------------
	// 1️⃣ Agendamento
	// --------------------------------------------------
	ap, err := uc.appointments.Get(ctx, appointmentID, "Service")
	if err != nil {
		return nil, nil, err
	}

	if err := domain.Complete(ap); err != nil {
		return nil, nil, err
	}

	service := ap.Service
	ap.Service = nil
	if err := uc.appointments.Update(ctx, ap.ID, ap); err != nil {
		return nil, nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "appointment_completed",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	// --------------------------------------------------
	// 2️⃣ Entrada no financeiro
	// --------------------------------------------------
	descricao := "Atendimento"
	if service != nil {
		descricao = service.Nome
	}

	apID := ap.ID
	tx := &models.Transaction{
		Tipo:          models.TipoEntrada,
		Categoria:     ServiceRevenueCategory,
		Descricao:     descricao,
		Valor:         ap.Valor,
		Data:          timezone.Today(uc.clock()),
		CreatedBy:     userID,
		AppointmentID: &apID,
	}

	if ap.Valor <= 0 {
		return ap, nil, nil
	}

	if err := uc.transactions.Insert(ctx, tx); err != nil {
		return ap, nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "transaction_created",
		Entity:   "transaction",
		EntityID: &tx.ID,
		Metadata: map[string]any{"appointment_id": apID, "valor": tx.Valor},
	})

	return ap, tx, nil
}
