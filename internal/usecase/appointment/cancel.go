package appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/studio-manager/internal/audit"
	"github.com/BruksfildServices01/studio-manager/internal/backend"
	domain "github.com/BruksfildServices01/studio-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/studio-manager/internal/models"
)

type CancelAppointment struct {
	appointments backend.Table[models.Appointment]
	audit        *audit.Dispatcher
}

func NewCancelAppointment(
	appointments backend.Table[models.Appointment],
	audit *audit.Dispatcher,
) *CancelAppointment {
	return &CancelAppointment{
		appointments: appointments,
		audit:        audit,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	userID uuid.UUID,
	appointmentID uuid.UUID,
) (*models.Appointment, error) {

	ap, err := uc.appointments.Get(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	if err := domain.Cancel(ap); err != nil {
		return nil, err
	}

	if err := uc.appointments.Update(ctx, ap.ID, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "appointment_cancelled",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
