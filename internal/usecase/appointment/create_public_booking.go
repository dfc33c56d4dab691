package appointment

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/studio-manager/internal/audit"
	"github.com/BruksfildServices01/studio-manager/internal/backend"
	"github.com/BruksfildServices01/studio-manager/internal/httperr"
	"github.com/BruksfildServices01/studio-manager/internal/models"
)

type CreatePublicBookingInput struct {
	Nome        string
	Telefone    string
	Email       *string
	ServiceID   uuid.UUID
	Data        string
	Hora        string
	Observacoes *string
}

type CreatePublicBooking struct {
	store        *backend.Store
	availability *GetAvailability
	audit        *audit.Dispatcher
}

func NewCreatePublicBooking(
	store *backend.Store,
	availability *GetAvailability,
	audit *audit.Dispatcher,
) *CreatePublicBooking {
	return &CreatePublicBooking{
		store:        store,
		availability: availability,
		audit:        audit,
	}
}

// Execute registra a solicitação da página pública. O valor é o preço
// atual do serviço; a conversão em agendamento fica com a admin.
func (uc *CreatePublicBooking) Execute(
	ctx context.Context,
	in CreatePublicBookingInput,
) (*models.PublicBooking, error) {

	if strings.TrimSpace(in.Nome) == "" || strings.TrimSpace(in.Telefone) == "" {
		return nil, httperr.ErrBusiness("missing_contact")
	}

	// --------------------------------------------------
	// 1️⃣ Serviço ativo
	// --------------------------------------------------
	service, err := uc.store.Services.Get(ctx, in.ServiceID)
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			return nil, httperr.ErrBusiness("service_not_found")
		}
		return nil, err
	}
	if !service.Ativo {
		return nil, httperr.ErrBusiness("service_inactive")
	}

	// --------------------------------------------------
	// 2️⃣ Horário livre
	// --------------------------------------------------
	slots, err := uc.availability.Execute(ctx, in.Data)
	if err != nil {
		return nil, err
	}

	free := false
	for _, s := range slots {
		if s.Hora == in.Hora {
			free = s.Disponivel
			break
		}
	}
	if !free {
		return nil, httperr.ErrBusiness("time_unavailable")
	}

	// --------------------------------------------------
	// 3️⃣ Solicitação
	// --------------------------------------------------
	booking := &models.PublicBooking{
		Nome:        strings.TrimSpace(in.Nome),
		Telefone:    strings.TrimSpace(in.Telefone),
		Email:       in.Email,
		ServiceID:   service.ID,
		Data:        in.Data,
		Hora:        in.Hora,
		Observacoes: in.Observacoes,
		Valor:       service.Preco,
		Status:      models.BookingPendente,
	}

	if err := uc.store.PublicBookings.Insert(ctx, booking); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		Action:   "public_booking_created",
		Entity:   "public_booking",
		EntityID: &booking.ID,
		Metadata: map[string]any{"service_id": service.ID, "data": in.Data, "hora": in.Hora},
	})

	return booking, nil
}
