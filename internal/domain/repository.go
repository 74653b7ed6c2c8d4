package domain

import (
	"context"
	"time"
)

// AdjustmentRepository описывает требования к хранилищу корректировок.
// Коллекция корректировок — это тонкая обёртка над этими вызовами:
// каждая операция чтения идёт в хранилище, скрытых кэшей нет.
type AdjustmentRepository interface {
	// ListByOwner возвращает корректировки владельца в порядке вставки.
	ListByOwner(ctx context.Context, owner OwnerRef) ([]Adjustment, error)
	// Save сохраняет новую корректировку или перезаписывает существующую по ID.
	Save(ctx context.Context, adjustment *Adjustment) error
	// Delete удаляет корректировку по идентификатору.
	// Возвращает ErrAdjustmentNotFound, если записи нет.
	Delete(ctx context.Context, id string) error
	// DeleteByIDs удаляет пакет корректировок; отсутствующие ID пропускаются.
	DeleteByIDs(ctx context.Context, ids []string) error
}

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Create сохраняет агрегат целиком: шапку, плательщика, адреса и позиции.
	// Присоединяется к транзакции из ctx, если она открыта.
	// Возвращает ErrOrderNumberConflict при занятом номере.
	Create(ctx context.Context, order *Order) error
	// AddItem добавляет позицию к существующему заказу.
	AddItem(ctx context.Context, orderID string, item *OrderItem) error
	// Get возвращает заказ по идентификатору или ErrOrderNotFound.
	Get(ctx context.Context, id string) (Order, error)
	// GetByNumber возвращает заказ по номеру или ErrOrderNotFound.
	GetByNumber(ctx context.Context, number string) (Order, error)
	// ListByUser возвращает заказы пользователя с опциональным лимитом.
	ListByUser(ctx context.Context, userID string, limit int) ([]Order, error)
}

// CartRepository описывает требования к хранилищу корзин.
type CartRepository interface {
	// Get возвращает корзину или ErrCartNotFound.
	Get(ctx context.Context, id string) (Cart, error)
	// Save создаёт или перезаписывает корзину.
	Save(ctx context.Context, cart *Cart) error
}

// OutboxMessage хранит данные для публикуемого события.
type OutboxMessage struct {
	ID            string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// OutboxStats описывает текущее состояние backlog transactional outbox.
type OutboxStats struct {
	PendingCount    int
	OldestPendingAt time.Time
}

// OutboxRepository позволяет сохранять события для последующей публикации.
// Enqueue присоединяется к транзакции из ctx: событие фиксируется вместе
// с бизнес-данными и публикуется только после commit.
type OutboxRepository interface {
	Enqueue(ctx context.Context, msg OutboxMessage) (OutboxMessage, error)
	PullPending(ctx context.Context, limit int) ([]OutboxMessage, error)
	Stats(ctx context.Context) (OutboxStats, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string) error
}
