// Package payments gera links de pagamento do Mercado Pago para um
// agendamento. Nada é gravado além do evento de auditoria.
package payments

import (
	"context"
	stderrors "errors"

	"github.com/google/uuid"
	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/preference"
	"github.com/pkg/errors"

	"github.com/BruksfildServices01/studio-manager/internal/backend"
	"github.com/BruksfildServices01/studio-manager/internal/models"
)

var ErrDisabled = stderrors.New("payments_disabled")

// Creator é o pedaço do cliente de preferências que usamos.
type Creator interface {
	Create(ctx context.Context, request preference.Request) (*preference.Response, error)
}

type Link struct {
	PreferenceID string  `json:"preference_id"`
	URL          string  `json:"url"`
	Valor        float64 `json:"valor"`
}

type Service struct {
	creator      Creator
	appointments backend.Table[models.Appointment]
}

// NewMercadoPago devolve um Service sem creator quando não há token.
func NewMercadoPago(accessToken string, appointments backend.Table[models.Appointment]) (*Service, error) {
	if accessToken == "" {
		return &Service{appointments: appointments}, nil
	}

	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, errors.Wrap(err, "mercadopago config")
	}
	return NewService(preference.NewClient(cfg), appointments), nil
}

func NewService(creator Creator, appointments backend.Table[models.Appointment]) *Service {
	return &Service{creator: creator, appointments: appointments}
}

func (s *Service) Enabled() bool {
	return s.creator != nil
}

// LinkFor cobra o valor gravado no agendamento, nunca o preço atual do serviço.
func (s *Service) LinkFor(ctx context.Context, appointmentID uuid.UUID) (Link, error) {
	if s.creator == nil {
		return Link{}, ErrDisabled
	}

	ap, err := s.appointments.Get(ctx, appointmentID, "Service")
	if err != nil {
		return Link{}, err
	}

	title := "Atendimento"
	if ap.Service != nil {
		title = ap.Service.Nome
	}

	res, err := s.creator.Create(ctx, preference.Request{
		Items: []preference.ItemRequest{{
			ID:         ap.ServiceID.String(),
			Title:      title,
			Quantity:   1,
			UnitPrice:  ap.Valor,
			CurrencyID: "BRL",
		}},
		ExternalReference: ap.ID.String(),
	})
	if err != nil {
		return Link{}, errors.Wrap(err, "create preference")
	}

	return Link{PreferenceID: res.ID, URL: res.InitPoint, Valor: ap.Valor}, nil
}
