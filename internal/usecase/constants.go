package usecase

import "time"

const (
	// DefaultTransactionTimeout bounds a single statement transaction, lock wait included.
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// IdempotencyPendingMarker is what an IdempotencyStore holds for a key
	// claimed without a response, while the first request is in flight.
	IdempotencyPendingMarker = "processing"

	// reconcilePageSize is the page size used when re-reading a full history.
	reconcilePageSize = 500
)
