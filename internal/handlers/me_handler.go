package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/studio-manager/internal/guard"
	"github.com/BruksfildServices01/studio-manager/internal/httperr"
	"github.com/BruksfildServices01/studio-manager/internal/httpresp"
)

// MeHandler atende a área do cliente logado.
type MeHandler struct{}

func NewMeHandler() *MeHandler {
	return &MeHandler{}
}

func (h *MeHandler) Profile(c *gin.Context) {
	snap := guard.SnapshotFrom(c)
	if snap.Profile == nil {
		httperr.Unauthorized(c, "not_authenticated", "Faça login para continuar.")
		return
	}
	httpresp.Item(c, snap.Profile)
}

// ======================================================
// MEUS AGENDAMENTOS (vínculo pelo e-mail do perfil)
// ======================================================
func (h *MeHandler) Appointments(c *gin.Context) {
	tab, ok := tabOf(c)
	if !ok {
		return
	}
	v := tab.ClientDashboard()

	snap, err := v.Appointments.Ensure(c.Request.Context())
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	if snap.Err != nil {
		httperr.FromError(c, snap.Err)
		return
	}

	httpresp.List(c, snap.Data, snap.Loading)
}

func (h *MeHandler) Services(c *gin.Context) {
	tab, ok := tabOf(c)
	if !ok {
		return
	}
	v := tab.ClientDashboard()

	snap, err := v.Services.Ensure(c.Request.Context())
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	if snap.Err != nil {
		httperr.FromError(c, snap.Err)
		return
	}

	httpresp.List(c, snap.Data, snap.Loading)
}
