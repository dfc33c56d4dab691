package appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/studio-manager/internal/audit"
	"github.com/BruksfildServices01/studio-manager/internal/backend"
	domain "github.com/BruksfildServices01/studio-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/studio-manager/internal/models"
)

type ConfirmAppointment struct {
	appointments backend.Table[models.Appointment]
	audit        *audit.Dispatcher
}

func NewConfirmAppointment(
	appointments backend.Table[models.Appointment],
	audit *audit.Dispatcher,
) *ConfirmAppointment {
	return &ConfirmAppointment{
		appointments: appointments,
		audit:        audit,
	}
}

func (uc *ConfirmAppointment) Execute(
	ctx context.Context,
	userID uuid.UUID,
	appointmentID uuid.UUID,
) (*models.Appointment, error) {

	ap, err := uc.appointments.Get(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	if err := domain.Confirm(ap); err != nil {
		return nil, err
	}

	if err := uc.appointments.Update(ctx, ap.ID, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "appointment_confirmed",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
