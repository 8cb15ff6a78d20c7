package usecase

// MetricsRecorder receives engine counters. The Prometheus implementation
// lives in infrastructure/metrics.
type MetricsRecorder interface {
	InstallmentGroupCreated(installments int)
	InstallmentGroupResized(updated, created, deleted int)
	RecurrenceEntriesGenerated(count int)
	RecurrenceRuleRetired(deleted int)
	DuplicatesPruned(count int)
	BatchCommitted(op string, size int)
	BatchFailed(op string)
}

type noopMetrics struct{}

func (noopMetrics) InstallmentGroupCreated(int) {}
func (noopMetrics) InstallmentGroupResized(int, int, int) {}
func (noopMetrics) RecurrenceEntriesGenerated(int) {}
func (noopMetrics) RecurrenceRuleRetired(int) {}
func (noopMetrics) DuplicatesPruned(int) {}
func (noopMetrics) BatchCommitted(string, int) {}
func (noopMetrics) BatchFailed(string) {}
