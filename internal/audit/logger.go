package audit

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/studio-manager/internal/models"
)

// Sink é onde os eventos são gravados (backend.Table[models.AuditLog]).
type Sink interface {
	Insert(ctx context.Context, row *models.AuditLog) error
}

type Logger struct {
	sink Sink
}

func New(sink Sink) *Logger {
	return &Logger{sink: sink}
}

func (l *Logger) Log(
	ctx context.Context,
	userID *uuid.UUID,
	action string,
	entity string,
	entityID *uuid.UUID,
	metadata any,
) error {

	var metaJSON string
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			metaJSON = string(b)
		}
	}

	row := models.AuditLog{
		UserID:   userID,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Metadata: metaJSON,
	}

	return l.sink.Insert(ctx, &row)
}
