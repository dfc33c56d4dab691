package views

import (
	"context"
	"log/slog"

	"github.com/BruksfildServices01/studio-manager/internal/backend"
	domain "github.com/BruksfildServices01/studio-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/studio-manager/internal/models"
	appointmentuc "github.com/BruksfildServices01/studio-manager/internal/usecase/appointment"
)

// StudioInfo é o que a página pública mostra do estúdio.
type StudioInfo struct {
	Nome        string  `json:"nome"`
	Endereco    *string `json:"endereco,omitempty"`
	Telefone    *string `json:"telefone,omitempty"`
	Whatsapp    *string `json:"whatsapp,omitempty"`
	Instagram   *string `json:"instagram,omitempty"`
	LogoURL     *string `json:"logo_url,omitempty"`
	CorPrimaria *string `json:"cor_primaria,omitempty"`
}

// Booking é a página pública, sem sessão.
type Booking struct {
	store        *backend.Store
	availability *appointmentuc.GetAvailability
	create       *appointmentuc.CreatePublicBooking
	logger       *slog.Logger
}

func NewBooking(deps Deps) *Booking {
	store := deps.Backend.Store
	availability := appointmentuc.NewGetAvailability(store, deps.Clock)
	return &Booking{
		store:        store,
		availability: availability,
		create:       appointmentuc.NewCreatePublicBooking(store, availability, deps.Audit),
		logger:       deps.Logger,
	}
}

func (b *Booking) Services(ctx context.Context) ([]models.Service, error) {
	return activeServices(ctx, b.store)
}

func (b *Booking) Slots(ctx context.Context, day string) ([]domain.TimeSlot, error) {
	return b.availability.Execute(ctx, day)
}

func (b *Booking) Book(ctx context.Context, in appointmentuc.CreatePublicBookingInput) (*models.PublicBooking, error) {
	booking, err := b.create.Execute(ctx, in)
	if err != nil {
		return nil, err
	}
	b.logger.Info("public booking created",
		slog.String("booking_id", booking.ID.String()),
		slog.String("data", booking.Data),
		slog.String("hora", booking.Hora),
	)
	return booking, nil
}

// Studio devolve nome e contatos da configuração vigente.
func (b *Booking) Studio(ctx context.Context) (StudioInfo, error) {
	rows, err := LatestSettings(ctx, b.store)
	if err != nil {
		return StudioInfo{}, err
	}
	if len(rows) == 0 {
		return StudioInfo{Nome: backend.DefaultStudioName}, nil
	}

	s := rows[0]
	info := StudioInfo{
		Nome:        s.Nome,
		Endereco:    s.Endereco,
		Telefone:    s.Telefone,
		Whatsapp:    s.Whatsapp,
		Instagram:   s.Instagram,
		LogoURL:     s.LogoURL,
		CorPrimaria: s.CorPrimaria,
	}
	if info.Nome == "" {
		info.Nome = backend.DefaultStudioName
	}
	return info, nil
}
