package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"

	"github.com/iho/stmtledger/internal/domain"
)

func TestOutboxRepositoryCreateInTx(t *testing.T) {
	ctx := context.Background()
	mockPool := newMockPool(t)

	mockPool.ExpectBegin()
	mockPool.ExpectExec("INSERT INTO outbox_events").
		WithArgs("evt-1", "stmt-1", domain.AggregateTypeStatement, domain.EventTypeStatementCreated, pgxmock.AnyArg(), pgxmock.AnyArg(), false).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockPool.ExpectCommit()

	tx, err := newTxManagerWithPool(mockPool).Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	event := domain.NewStatementCreatedEvent("evt-1", &domain.Statement{
		ID:        "stmt-1",
		AccountID: "acc-1",
		Operation: domain.OperationDeposit,
		Amount:    decimal.NewFromInt(5),
		CreatedAt: time.Now(),
	})

	if err := newOutboxRepository(mockPool).Create(ctx, tx, event); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestOutboxRepositoryGetUnpublished(t *testing.T) {
	mockPool := newMockPool(t)
	now := time.Now().UTC()

	mockPool.ExpectQuery("FROM outbox_events").
		WithArgs(int32(10)).
		WillReturnRows(mockPool.NewRows([]string{"id", "aggregate_id", "aggregate_type", "event_type", "payload", "created_at", "published_at", "published"}).
			AddRow("evt-1", "stmt-1", "statement", "statement.created", []byte(`{"amount":"5"}`), timeToPgTimestamptz(now), nil, false))

	events, err := newOutboxRepository(mockPool).GetUnpublished(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(events) != 1 || events[0].Payload["amount"] != "5" || events[0].PublishedAt != nil {
		t.Fatalf("unexpected events %+v", events)
	}

	assertExpectations(t, mockPool)
}

func TestOutboxRepositoryMarkPublished(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectExec("UPDATE outbox_events").
		WithArgs("evt-1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := newOutboxRepository(mockPool).MarkPublished(context.Background(), "evt-1", time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertExpectations(t, mockPool)
}
