package payments

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/mercadopago/sdk-go/pkg/preference"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/studio-manager/internal/backend/memory"
	"github.com/BruksfildServices01/studio-manager/internal/models"
)

type fakeCreator struct {
	requests []preference.Request
}

func (f *fakeCreator) Create(_ context.Context, r preference.Request) (*preference.Response, error) {
	f.requests = append(f.requests, r)
	return &preference.Response{ID: "pref-1", InitPoint: "https://www.mercadopago.com.br/checkout/v1/redirect?pref_id=pref-1"}, nil
}

func TestLinkForUsesStoredValue(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	svc := models.Service{Nome: "Lash Lifting", Preco: 150, DuracaoMin: 60, Ativo: true}
	require.NoError(t, store.Services.Insert(ctx, &svc))
	ap := models.Appointment{ClientID: uuid.New(), ServiceID: svc.ID, Data: "2024-06-10", Hora: "14:00", Valor: 100, Status: models.StatusConfirmado}
	require.NoError(t, store.Appointments.Insert(ctx, &ap))

	creator := &fakeCreator{}
	s := NewService(creator, store.Appointments)

	link, err := s.LinkFor(ctx, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, "pref-1", link.PreferenceID)
	assert.Equal(t, 100.0, link.Valor)

	require.Len(t, creator.requests, 1)
	item := creator.requests[0].Items[0]
	assert.Equal(t, 100.0, item.UnitPrice)
	assert.Equal(t, "Lash Lifting", item.Title)
	assert.Equal(t, ap.ID.String(), creator.requests[0].ExternalReference)
}

func TestDisabledWithoutToken(t *testing.T) {
	s, err := NewMercadoPago("", memory.NewTable[models.Appointment]())
	require.NoError(t, err)
	assert.False(t, s.Enabled())

	_, err = s.LinkFor(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrDisabled)
}
