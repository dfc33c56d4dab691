package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/studio-manager/internal/backend"
	"github.com/BruksfildServices01/studio-manager/internal/form"
	"github.com/BruksfildServices01/studio-manager/internal/guard"
	"github.com/BruksfildServices01/studio-manager/internal/httperr"
	"github.com/BruksfildServices01/studio-manager/internal/httpresp"
	"github.com/BruksfildServices01/studio-manager/internal/middleware"
	"github.com/BruksfildServices01/studio-manager/internal/views"
)

// --------------------------------------------------
// Request helpers
// --------------------------------------------------

// paramID lê :id; em caso de erro já respondeu 400.
func paramID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return uuid.Nil, false
	}
	return id, true
}

// tabOf devolve a aba resolvida pelo middleware.
func tabOf(c *gin.Context) (*views.Tab, bool) {
	tab := middleware.TabFrom(c)
	if tab == nil {
		httperr.Unauthorized(c, "no_tab", "Sessão da aba não encontrada.")
		return nil, false
	}
	return tab, true
}

// confirmed é o gate de exclusão: o cliente precisa mandar ?confirm=true.
func confirmed(c *gin.Context) func() bool {
	return func() bool {
		return c.Query("confirm") == "true"
	}
}

func userOf(c *gin.Context) uuid.UUID {
	snap := guard.SnapshotFrom(c)
	if snap.Session == nil {
		return uuid.Nil
	}
	return snap.Session.UserID
}

// deleteResult responde a exclusão feita por um loader.
func deleteResult(c *gin.Context, deleted bool, err error) {
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	if !deleted {
		httperr.BadRequest(c, "confirmation_required", "Confirme a exclusão.")
		return
	}
	httpresp.NoContent(c)
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// saveEntity abre um fork do formulário da aba (novo ou sobre a linha
// id), aplica a requisição e faz o submit. Saves simultâneos na mesma
// aba não disputam o mesmo rascunho.
func saveEntity[T form.Entity](c *gin.Context, tabForm *form.Form[T], table backend.Table[T], id *uuid.UUID, apply func(*T)) {
	ctx := c.Request.Context()

	f := tabForm.Fork()
	if id == nil {
		f.Open(nil)
	} else {
		row, err := table.Get(ctx, *id)
		if err != nil {
			httperr.FromError(c, err)
			return
		}
		f.Open(row)
	}

	_ = f.Edit(apply)

	saved, err := f.Submit(ctx)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	if id == nil {
		httpresp.Created(c, saved)
		return
	}
	httpresp.Item(c, saved)
}
