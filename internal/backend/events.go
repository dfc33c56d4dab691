package backend

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// EventBus distribui eventos de autenticação para os contextos de sessão.
type EventBus interface {
	Publish(ctx context.Context, ev AuthEvent)
	Subscribe(fn func(AuthEvent)) (unsubscribe func())
}

// LocalBus entrega eventos dentro do processo.
type LocalBus struct {
	mu   sync.RWMutex
	subs map[uuid.UUID]func(AuthEvent)
}

func NewLocalBus() *LocalBus {
	return &LocalBus{subs: make(map[uuid.UUID]func(AuthEvent))}
}

func (b *LocalBus) Publish(_ context.Context, ev AuthEvent) {
	b.deliver(ev)
}

func (b *LocalBus) deliver(ev AuthEvent) {
	b.mu.RLock()
	handlers := make([]func(AuthEvent), 0, len(b.subs))
	for _, fn := range b.subs {
		handlers = append(handlers, fn)
	}
	b.mu.RUnlock()

	for _, fn := range handlers {
		fn(ev)
	}
}

func (b *LocalBus) Subscribe(fn func(AuthEvent)) func() {
	id := uuid.New()

	b.mu.Lock()
	b.subs[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

func (b *LocalBus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

const authEventsChannel = "studio:auth-events"

// RedisBus replica os eventos entre instâncias via pub/sub. Eventos
// publicados aqui voltam pelo canal e são entregues localmente uma vez.
type RedisBus struct {
	local  *LocalBus
	client *redis.Client
	logger *slog.Logger

	pubsub *redis.PubSub
	done   chan struct{}
}

func NewRedisBus(client *redis.Client, logger *slog.Logger) *RedisBus {
	b := &RedisBus{
		local:  NewLocalBus(),
		client: client,
		logger: logger,
		done:   make(chan struct{}),
	}

	b.pubsub = client.Subscribe(context.Background(), authEventsChannel)
	go b.listen()

	return b
}

func (b *RedisBus) listen() {
	defer close(b.done)

	for msg := range b.pubsub.Channel() {
		var ev AuthEvent
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			b.logger.Warn("invalid auth event payload", slog.String("error", err.Error()))
			continue
		}
		b.local.deliver(ev)
	}
}

func (b *RedisBus) Publish(ctx context.Context, ev AuthEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		b.logger.Error("marshal auth event", slog.String("error", err.Error()))
		return
	}

	if err := b.client.Publish(ctx, authEventsChannel, payload).Err(); err != nil {
		// sem redis o evento ainda vale para esta instância
		b.logger.Warn("publish auth event", slog.String("error", err.Error()))
		b.local.deliver(ev)
	}
}

func (b *RedisBus) Subscribe(fn func(AuthEvent)) func() {
	return b.local.Subscribe(fn)
}

func (b *RedisBus) Close() error {
	err := b.pubsub.Close()
	<-b.done
	return err
}
