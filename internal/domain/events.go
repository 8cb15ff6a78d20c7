package domain

import (
	"encoding/json"
	"time"
)

// Event types
const (
	EventTypeInstallmentsCreated = "installment.created"
	EventTypeInstallmentsResized = "installment.resized"
	EventTypeRecurrenceGenerated = "recurrence.generated"
	EventTypeRecurrenceRetired   = "recurrence.retired"
	EventTypeDuplicatesPruned    = "ledger.duplicates_pruned"
	EventTypeEntriesCreated      = "ledger.entries_created"
	EventTypeEntriesDeleted      = "ledger.entries_deleted"
	EventTypeSettingsUpdated     = "settings.updated"
)

// Aggregate types
const (
	AggregateTypeInstallmentGroup = "installment_group"
	AggregateTypeRecurrenceRule   = "recurrence_rule"
	AggregateTypeLedger           = "ledger"
	AggregateTypeSettings         = "settings"
)

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

// InstallmentsCreatedEvent payload
type InstallmentsCreatedEvent struct {
	ParentTransactionID string   `json:"parent_transaction_id"`
	EntryIDs            []string `json:"entry_ids"`
	TotalAmount         string   `json:"total_amount"`
	InstallmentAmount   string   `json:"installment_amount"`
	TotalInstallments   int      `json:"total_installments"`
}

// InstallmentsResizedEvent payload
type InstallmentsResizedEvent struct {
	ParentTransactionID string `json:"parent_transaction_id"`
	TotalAmount         string `json:"total_amount"`
	PreviousCount       int    `json:"previous_count"`
	TotalInstallments   int    `json:"total_installments"`
	Updated             int    `json:"updated"`
	Created             int    `json:"created"`
	Deleted             int    `json:"deleted"`
}

// RecurrenceGeneratedEvent payload
type RecurrenceGeneratedEvent struct {
	RuleID   string   `json:"rule_id"`
	EntryIDs []string `json:"entry_ids"`
	NewRule  bool     `json:"new_rule"`
}

// RecurrenceRetiredEvent payload
type RecurrenceRetiredEvent struct {
	RuleID   string `json:"rule_id"`
	FromDate string `json:"from_date"`
	EndDate  string `json:"end_date"`
	Deleted  int    `json:"deleted"`
}

// EntriesChangedEvent payload, shared by creations, deletions and pruning.
type EntriesChangedEvent struct {
	EntryIDs []string `json:"entry_ids"`
	Count    int      `json:"count"`
}

// SettingsUpdatedEvent payload
type SettingsUpdatedEvent struct {
	Fields []string `json:"fields"`
}

// EventPayload converts a payload struct to the generic map stored in the
// outbox.
func EventPayload(v any) map[string]any {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return map[string]any{"error": "failed to marshal payload"}
	}

	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		return map[string]any{"error": "failed to unmarshal payload"}
	}

	return result
}
