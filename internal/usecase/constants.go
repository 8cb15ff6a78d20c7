package usecase

import "time"

const (
	// DefaultRecurrenceMonths is how many months Generate materializes when
	// the caller does not say.
	DefaultRecurrenceMonths = 12

	// DefaultSummaryTTL is how long a month summary stays cached.
	DefaultSummaryTTL = 10 * time.Minute

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// SettingsAggregateID identifies the single settings record in outbox
	// events.
	SettingsAggregateID = "global"
)

// Batch operation names, used in errors, logs and metrics.
const (
	OpExpandInstallments = "expand_installments"
	OpResizeInstallments = "resize_installments"
	OpGenerateRecurrence = "generate_recurrence"
	OpRetireRecurrence   = "retire_recurrence"
	OpPruneDuplicates    = "prune_duplicates"
	OpCreateEntries      = "create_entries"
	OpDeleteEntries      = "delete_entries"
	OpSaveSettings       = "save_settings"
)
