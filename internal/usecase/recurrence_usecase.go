package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iho/famledger/internal/domain"
)

// RecurrenceUseCase materializes recurrence rules into monthly fixed entries
// and retires rules.
type RecurrenceUseCase struct {
	txManager  TransactionManager
	ruleRepo   RecurrenceRuleRepository
	entryRepo  EntryRepository
	outboxRepo OutboxRepository
	idGen      IDGenerator
	deps
}

// NewRecurrenceUseCase creates a new RecurrenceUseCase.
func NewRecurrenceUseCase(
	txManager TransactionManager,
	ruleRepo RecurrenceRuleRepository,
	entryRepo EntryRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	opts Options,
) *RecurrenceUseCase {
	return &RecurrenceUseCase{
		txManager:  txManager,
		ruleRepo:   ruleRepo,
		entryRepo:  entryRepo,
		outboxRepo: outboxRepo,
		idGen:      idGen,
		deps:       newDeps(opts),
	}
}

// GenerateResult reports the outcome of one generation run.
type GenerateResult struct {
	RuleID   string
	EntryIDs []string
	Skipped  int
	NewRule  bool
}

// RetireResult reports the outcome of a retirement.
type RetireResult struct {
	EndDate time.Time
	RuleID  string
	Deleted int
}

// Generate materializes up to monthsToGenerate monthly occurrences of rule
// starting at its StartDate (zero means DefaultRecurrenceMonths, at most
// domain.MaxRecurrenceMonths). Months that
// already hold an entry for the rule are skipped and generation stops at the
// rule's EndDate. A rule without an ID is created in the same batch.
func (uc *RecurrenceUseCase) Generate(ctx context.Context, rule *domain.RecurrenceRule, monthsToGenerate int) (*GenerateResult, error) {
	if monthsToGenerate == 0 {
		monthsToGenerate = DefaultRecurrenceMonths
	}
	if err := domain.ValidateMonthCount(monthsToGenerate); err != nil {
		return nil, err
	}

	rule.Normalize()
	if err := rule.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	isNew := rule.ID == ""
	if isNew {
		rule.ID = uc.idGen.Generate()
		rule.IsActive = true
		rule.CreatedAt = now
		rule.UpdatedAt = now
	}

	occupied := make(map[domain.YearMonth]struct{})
	if !isNew {
		from := domain.MonthStart(rule.StartDate)
		to := domain.MonthEnd(domain.AddMonthsClamped(from, monthsToGenerate-1))
		existing, err := uc.entryRepo.ListByRule(ctx, rule.ID, from, to)
		if err != nil {
			return nil, err
		}
		for _, e := range existing {
			occupied[e.Month()] = struct{}{}
		}
	}

	result := &GenerateResult{RuleID: rule.ID, NewRule: isNew}
	entries := make([]*domain.Entry, 0, monthsToGenerate)
	for i := 0; i < monthsToGenerate; i++ {
		date := domain.AddMonthsClamped(rule.StartDate, i)
		if !rule.Covers(date) {
			break
		}

		month := domain.YearMonthOf(date)
		if _, ok := occupied[month]; ok {
			result.Skipped++
			continue
		}
		occupied[month] = struct{}{}

		entries = append(entries, rule.Occurrence(uc.idGen.Generate(), date, now))
	}
	result.EntryIDs = entryIDs(entries)

	if !isNew && len(entries) == 0 {
		uc.logger.Debug().Str("rule_id", rule.ID).Int("skipped", result.Skipped).Msg("recurrence already materialized")
		return result, nil
	}

	event := newOutboxEvent(uc.idGen, domain.AggregateTypeRecurrenceRule, rule.ID,
		domain.EventTypeRecurrenceGenerated, domain.RecurrenceGeneratedEvent{
			RuleID:   rule.ID,
			EntryIDs: result.EntryIDs,
			NewRule:  isNew,
		}, now)

	err := uc.runBatch(ctx, uc.txManager, OpGenerateRecurrence, len(entries), func(tx Transaction) error {
		if isNew {
			if err := uc.ruleRepo.Create(ctx, tx, rule); err != nil {
				return err
			}
		}
		if len(entries) > 0 {
			if err := uc.entryRepo.CreateMany(ctx, tx, entries); err != nil {
				return err
			}
		}
		return uc.outboxRepo.Create(ctx, tx, event)
	})
	if err != nil {
		if isNew {
			rule.ID = ""
		}
		return nil, err
	}

	uc.metrics.RecurrenceEntriesGenerated(len(entries))
	uc.invalidateMonths(ctx, entries...)
	uc.logger.Info().
		Str("rule_id", rule.ID).
		Bool("new_rule", isNew).
		Int("created", len(entries)).
		Int("skipped", result.Skipped).
		Msg("recurrence generated")

	return result, nil
}

// GenerateForRule loads a stored rule and generates its occurrences.
func (uc *RecurrenceUseCase) GenerateForRule(ctx context.Context, ruleID string, monthsToGenerate int) (*GenerateResult, error) {
	rule, err := uc.ruleRepo.GetByID(ctx, ruleID)
	if err != nil {
		return nil, err
	}
	return uc.Generate(ctx, rule, monthsToGenerate)
}

// RetireFrom stops a rule before fromDate: the rule ends on the last day of
// the previous month, is deactivated, and every entry of the rule dated on or
// after fromDate is deleted. Earlier entries are kept.
func (uc *RecurrenceUseCase) RetireFrom(ctx context.Context, ruleID string, fromDate time.Time) (*RetireResult, error) {
	if fromDate.IsZero() {
		return nil, fmt.Errorf("%w: retirement date is required", domain.ErrInvalidDate)
	}
	from := domain.DateOnly(fromDate)

	rule, err := uc.ruleRepo.GetByID(ctx, ruleID)
	if err != nil {
		return nil, err
	}

	future, err := uc.entryRepo.ListByRuleFrom(ctx, ruleID, from)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rule.Retire(from, now)
	ids := entryIDs(future)

	event := newOutboxEvent(uc.idGen, domain.AggregateTypeRecurrenceRule, rule.ID,
		domain.EventTypeRecurrenceRetired, domain.RecurrenceRetiredEvent{
			RuleID:   rule.ID,
			FromDate: from.Format(domain.DateLayout),
			EndDate:  rule.EndDate.Format(domain.DateLayout),
			Deleted:  len(ids),
		}, now)

	err = uc.runBatch(ctx, uc.txManager, OpRetireRecurrence, len(ids)+1, func(tx Transaction) error {
		if err := uc.ruleRepo.Update(ctx, tx, rule); err != nil {
			return err
		}
		if len(ids) > 0 {
			if err := uc.entryRepo.DeleteMany(ctx, tx, ids); err != nil {
				return err
			}
		}
		return uc.outboxRepo.Create(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.RecurrenceRuleRetired(len(ids))
	uc.invalidateMonths(ctx, future...)
	uc.logger.Info().
		Str("rule_id", rule.ID).
		Str("end_date", rule.EndDate.Format(domain.DateLayout)).
		Int("deleted", len(ids)).
		Msg("recurrence retired")

	return &RetireResult{RuleID: rule.ID, EndDate: *rule.EndDate, Deleted: len(ids)}, nil
}

// ListRules returns every rule, active or retired.
func (uc *RecurrenceUseCase) ListRules(ctx context.Context) ([]*domain.RecurrenceRule, error) {
	return uc.ruleRepo.List(ctx)
}

// Retrier re-runs an operation on transient store errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// DueReport summarizes a GenerateDue pass.
type DueReport struct {
	Rules   int
	Created int
	Failed  int
}

// GenerateDue materializes every active rule through now's month plus
// horizon months. Each rule is its own batch; one failing rule does not stop
// the others. retrier may be nil.
func (uc *RecurrenceUseCase) GenerateDue(ctx context.Context, now time.Time, horizon int, retrier Retrier) (*DueReport, error) {
	rules, err := uc.ruleRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	report := &DueReport{Rules: len(rules)}
	var errs []error

	for _, rule := range rules {
		months := MonthsDue(rule, now, horizon)
		if months == 0 {
			continue
		}

		var result *GenerateResult
		generate := func() error {
			var err error
			result, err = uc.Generate(ctx, rule, months)
			return err
		}

		if retrier != nil {
			err = retrier.Retry(ctx, generate)
		} else {
			err = generate()
		}
		if err != nil {
			report.Failed++
			errs = append(errs, fmt.Errorf("rule %s: %w", rule.ID, err))
			uc.logger.Error().Err(err).Str("rule_id", rule.ID).Msg("recurrence generation failed")
			continue
		}
		report.Created += len(result.EntryIDs)
	}

	return report, errors.Join(errs...)
}

// MonthsDue is how many months from a rule's start must exist so that it is
// materialized through now's month plus horizon months, capped at
// domain.MaxRecurrenceMonths. Zero means nothing is due yet.
func MonthsDue(rule *domain.RecurrenceRule, now time.Time, horizon int) int {
	months := domain.MonthsBetween(rule.StartDate, now) + horizon + 1
	if months < 0 {
		return 0
	}
	return min(months, domain.MaxRecurrenceMonths)
}
