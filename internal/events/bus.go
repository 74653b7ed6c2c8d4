package events

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Handler обрабатывает событие шины.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc адаптирует обычную функцию к интерфейсу Handler.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus — простая синхронная шина: обработчики вызываются в горутине
// публикующего, в порядке подписки. Ошибка одного обработчика
// логируется и не прерывает остальных.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	logger   *log.Entry
}

// NewBus создаёт пустую шину событий.
func NewBus(logger *log.Entry) *Bus {
	if logger == nil {
		logger = log.WithField("component", "event-bus")
	}
	return &Bus{
		handlers: make(map[string][]Handler),
		logger:   logger,
	}
}

// Subscribe регистрирует обработчик на имя события.
func (b *Bus) Subscribe(name string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], handler)
}

// Publish доставляет событие всем подписчикам синхронно (fire-and-forget
// с точки зрения публикующего: ошибки обработчиков не возвращаются).
func (b *Bus) Publish(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := b.handlers[event.EventName()]
	b.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler.Handle(ctx, event); err != nil {
			b.logger.WithError(err).WithField("event", event.EventName()).Error("event handler failed")
		}
	}
}
