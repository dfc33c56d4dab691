// Package status mantém valores derivados atualizados em intervalo fixo.
package status

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
)

const DefaultInterval = time.Minute

type FetchFunc[T any] func(ctx context.Context) (T, error)

type Snapshot[T any] struct {
	Value     T         `json:"value"`
	Ready     bool      `json:"ready"`
	UpdatedAt time.Time `json:"updated_at"`
	// LastError é o erro da última tentativa; Value continua o anterior.
	LastError string `json:"last_error,omitempty"`
}

// Poller busca na partida e depois a cada intervalo. Em caso de erro
// mantém o último valor conhecido.
type Poller[T any] struct {
	name     string
	interval time.Duration
	fetch    FetchFunc[T]
	logger   *slog.Logger
	now      func() time.Time
	spec     string

	mu      sync.Mutex
	value   T
	ready   bool
	updated time.Time
	lastErr error
	// issued conta as buscas disparadas; applied é a última aplicada.
	issued  uint64
	applied uint64

	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
}

func NewPoller[T any](name string, interval time.Duration, fetch FetchFunc[T], logger *slog.Logger) *Poller[T] {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller[T]{
		name:     name,
		interval: interval,
		fetch:    fetch,
		logger:   logger,
		now:      time.Now,
		spec:     fmt.Sprintf("@every %s", interval),
	}
}

// Start faz a primeira busca em segundo plano e agenda as próximas.
func (p *Poller[T]) Start(parent context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cron != nil {
		return errors.Errorf("poller %s already started", p.name)
	}

	ctx, cancel := context.WithCancel(parent)
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(p.spec, func() { p.Tick(ctx) }); err != nil {
		cancel()
		return errors.Wrapf(err, "schedule poller %s", p.name)
	}

	p.ctx, p.cancel, p.cron = ctx, cancel, c

	go p.Tick(ctx)
	c.Start()

	p.logger.Info("poller started", slog.String("poller", p.name), slog.Duration("interval", p.interval))
	return nil
}

// Tick executa uma busca e aplica o resultado se o poller não foi parado.
// Resultado de uma busca mais antiga que a última aplicada é descartado.
func (p *Poller[T]) Tick(ctx context.Context) {
	p.mu.Lock()
	p.issued++
	seq := p.issued
	p.mu.Unlock()

	v, err := p.fetch(ctx)

	if ctx.Err() != nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if seq < p.applied {
		return
	}
	p.applied = seq

	if err != nil {
		p.lastErr = err
		p.logger.Warn("poller fetch failed", slog.String("poller", p.name), slog.String("error", err.Error()))
		return
	}

	p.value = v
	p.ready = true
	p.updated = p.now()
	p.lastErr = nil
}

func (p *Poller[T]) Snapshot() Snapshot[T] {
	p.mu.Lock()
	defer p.mu.Unlock()

	snap := Snapshot[T]{Value: p.value, Ready: p.ready, UpdatedAt: p.updated}
	if p.lastErr != nil {
		snap.LastError = p.lastErr.Error()
	}
	return snap
}

// Stop cancela o agendamento e a busca em andamento.
func (p *Poller[T]) Stop() {
	p.mu.Lock()
	c := p.cron
	cancel := p.cancel
	p.cron = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if c != nil {
		<-c.Stop().Done()
		p.logger.Info("poller stopped", slog.String("poller", p.name))
	}
}
