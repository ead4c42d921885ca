package domain

import "time"

// EventTypeStatementCreated is emitted once per committed statement.
const EventTypeStatementCreated = "statement.created"

// AggregateTypeStatement marks events whose aggregate is a statement.
const AggregateTypeStatement = "statement"

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// StatementCreatedEvent payload
type StatementCreatedEvent struct {
	StatementID string `json:"statement_id"`
	AccountID   string `json:"account_id"`
	Operation   string `json:"operation"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

// NewStatementCreatedEvent builds the outbox event for a committed statement.
func NewStatementCreatedEvent(id string, s *Statement) *OutboxEvent {
	return &OutboxEvent{
		ID:            id,
		AggregateID:   s.ID,
		AggregateType: AggregateTypeStatement,
		EventType:     EventTypeStatementCreated,
		Payload: map[string]any{
			"statement_id": s.ID,
			"account_id":   s.AccountID,
			"operation":    string(s.Operation),
			"amount":       s.Amount.String(),
			"description":  s.Description,
			"created_at":   s.CreatedAt.Format(time.RFC3339Nano),
		},
		CreatedAt: s.CreatedAt,
	}
}
