package memory_test

import (
	"context"
	"testing"

	"github.com/vladislavdragonenkov/commerce/internal/domain"
	"github.com/vladislavdragonenkov/commerce/internal/storage/memory"
)

func TestOutboxRepository_EnqueuePull(t *testing.T) {
	store := memory.NewStore()
	repo := memory.NewOutboxRepository(store)
	ctx := context.Background()

	msg, err := repo.Enqueue(ctx, domain.OutboxMessage{
		AggregateType: "order",
		AggregateID:   "order-1",
		EventType:     "order.created",
		Payload:       []byte(`{}`),
	})
	if err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	if msg.ID == "" {
		t.Fatal("expected generated outbox id")
	}

	pending, err := repo.PullPending(ctx, 10)
	if err != nil {
		t.Fatalf("pull failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending message, got %d", len(pending))
	}
}

func TestOutboxRepository_MarkSent(t *testing.T) {
	store := memory.NewStore()
	repo := memory.NewOutboxRepository(store)
	ctx := context.Background()

	msg, _ := repo.Enqueue(ctx, domain.OutboxMessage{EventType: "order.created"})
	if err := repo.MarkSent(ctx, msg.ID); err != nil {
		t.Fatalf("mark sent failed: %v", err)
	}

	pending, _ := repo.PullPending(ctx, 10)
	if len(pending) != 0 {
		t.Fatalf("expected no pending messages, got %d", len(pending))
	}

	stats, err := repo.Stats(ctx)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.PendingCount != 0 {
		t.Fatalf("expected empty backlog, got %d", stats.PendingCount)
	}
}

func TestOutboxRepository_EnqueueRollsBackWithTx(t *testing.T) {
	store := memory.NewStore()
	repo := memory.NewOutboxRepository(store)
	ctx := context.Background()

	err := store.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := repo.Enqueue(ctx, domain.OutboxMessage{EventType: "order.created"}); err != nil {
			return err
		}
		return domain.ErrOrderItemsRequired
	})
	if err == nil {
		t.Fatal("expected tx error")
	}

	pending, _ := repo.PullPending(ctx, 10)
	if len(pending) != 0 {
		t.Fatal("outbox message must roll back with the transaction")
	}
}
