// Package loader mantém listas remotas com recarga explícita. A última
// busca emitida é a que vale.
package loader

import (
	"context"
	stderrors "errors"
	"log/slog"
	"strings"
	"sync"
)

type FetchFunc[T any] func(ctx context.Context) ([]T, error)

type Snapshot[T any] struct {
	Data    []T
	Loading bool
	Loaded  bool
	Err     error
}

// Loader troca Data inteira a cada busca concluída. Cada Reload recebe
// uma geração nova e cancela a anterior; resultado de geração antiga é
// descartado.
type Loader[T any] struct {
	name   string
	fetch  FetchFunc[T]
	logger *slog.Logger

	base   context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	data     []T
	loading  bool
	loaded   bool
	err      error
	gen      uint64
	inflight context.CancelFunc
	idle     chan struct{}
	closed   bool
}

var ErrClosed = stderrors.New("loader_closed")

// New amarra o loader ao ciclo de vida de parent (a aba).
func New[T any](parent context.Context, name string, fetch FetchFunc[T], logger *slog.Logger) *Loader[T] {
	base, cancel := context.WithCancel(parent)
	idle := make(chan struct{})
	close(idle)

	return &Loader[T]{
		name:   name,
		fetch:  fetch,
		logger: logger,
		base:   base,
		cancel: cancel,
		idle:   idle,
	}
}

func (l *Loader[T]) Snapshot() Snapshot[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

func (l *Loader[T]) snapshotLocked() Snapshot[T] {
	return Snapshot[T]{
		Data:    append([]T(nil), l.data...),
		Loading: l.loading,
		Loaded:  l.loaded,
		Err:     l.err,
	}
}

// Reload dispara uma nova busca sem esperar e devolve sua geração.
func (l *Loader[T]) Reload() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return l.gen
	}

	if l.inflight != nil {
		l.inflight()
	}
	if !l.loading {
		l.idle = make(chan struct{})
	}

	l.gen++
	gen := l.gen
	ctx, cancel := context.WithCancel(l.base)
	l.inflight = cancel
	l.loading = true

	go l.run(ctx, gen)
	return gen
}

func (l *Loader[T]) run(ctx context.Context, gen uint64) {
	data, err := l.fetch(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed || gen != l.gen {
		return
	}

	if err != nil {
		l.err = err
		l.logger.Warn("list fetch failed", slog.String("list", l.name), slog.String("error", err.Error()))
	} else {
		l.data = data
		l.err = nil
		l.loaded = true
	}

	l.loading = false
	l.inflight = nil
	close(l.idle)
}

// Wait espera a busca mais recente terminar.
func (l *Loader[T]) Wait(ctx context.Context) (Snapshot[T], error) {
	for {
		l.mu.Lock()
		if !l.loading || l.closed {
			snap := l.snapshotLocked()
			l.mu.Unlock()
			return snap, nil
		}
		idle := l.idle
		l.mu.Unlock()

		select {
		case <-idle:
		case <-ctx.Done():
			return l.Snapshot(), ctx.Err()
		}
	}
}

// Ensure busca na primeira montagem e espera o resultado.
func (l *Loader[T]) Ensure(ctx context.Context) (Snapshot[T], error) {
	l.mu.Lock()
	first := !l.loaded && !l.loading && l.err == nil
	l.mu.Unlock()

	if first {
		l.Reload()
	}
	return l.Wait(ctx)
}

// Refresh recarrega e espera.
func (l *Loader[T]) Refresh(ctx context.Context) (Snapshot[T], error) {
	l.Reload()
	return l.Wait(ctx)
}

// Delete só chama del se confirm devolver true. Em caso de sucesso
// recarrega a lista; em caso de erro os dados ficam como estavam.
func (l *Loader[T]) Delete(ctx context.Context, confirm func() bool, del func(ctx context.Context) error) (bool, error) {
	if confirm == nil || !confirm() {
		return false, nil
	}

	if err := del(ctx); err != nil {
		return false, err
	}

	_, err := l.Refresh(ctx)
	return true, err
}

// Close cancela a busca em andamento e ignora resultados futuros.
func (l *Loader[T]) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}
	l.closed = true
	l.cancel()

	if l.loading {
		l.loading = false
		close(l.idle)
	}
}

// =====================================================
// FILTER
// =====================================================

// Filter faz busca por substring, sem diferenciar maiúsculas, sobre os
// dados já carregados.
func Filter[T any](items []T, term string, fields ...func(T) string) []T {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return items
	}

	out := make([]T, 0, len(items))
	for _, it := range items {
		for _, field := range fields {
			if strings.Contains(strings.ToLower(field(it)), term) {
				out = append(out, it)
				break
			}
		}
	}
	return out
}
