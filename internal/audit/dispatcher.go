package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Event struct {
	UserID   *uuid.UUID
	Action   string
	Entity   string
	EntityID *uuid.UUID
	Metadata any
}

// Dispatcher grava eventos em segundo plano. Fila cheia descarta o
// evento: auditoria nunca bloqueia a requisição.
type Dispatcher struct {
	logger *Logger
	log    *slog.Logger
	queue  chan Event
	done   chan struct{}
	once   sync.Once
}

func NewDispatcher(logger *Logger, log *slog.Logger) *Dispatcher {
	d := &Dispatcher{
		logger: logger,
		log:    log,
		queue:  make(chan Event, 100),
		done:   make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := d.logger.Log(ctx, ev.UserID, ev.Action, ev.Entity, ev.EntityID, ev.Metadata)
		cancel()

		if err != nil {
			d.log.Error("audit error", slog.String("action", ev.Action), slog.String("error", err.Error()))
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	defer func() {
		// Dispatch depois de Close não derruba o handler
		if recover() != nil {
			d.log.Warn("audit dispatcher closed, dropping event", slog.String("action", ev.Action))
		}
	}()

	select {
	case d.queue <- ev:
	default:
		d.log.Warn("audit queue full, dropping event", slog.String("action", ev.Action))
	}
}

// Close fecha a fila e espera os eventos pendentes serem gravados.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.once.Do(func() { close(d.queue) })

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
