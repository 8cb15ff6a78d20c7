package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Frequency of a recurrence rule. Only monthly rules exist today.
type Frequency string

const FrequencyMonthly Frequency = "monthly"

// RecurrenceRule declares a fixed expense repeating every month from
// StartDate, optionally until EndDate. Rules are retired, never deleted.
type RecurrenceRule struct {
	CreatedAt     time.Time
	UpdatedAt     time.Time
	StartDate     time.Time
	EndDate       *time.Time
	ID            string
	Description   string
	Category      string
	Pillar        Pillar
	CardSource    string
	PaymentMethod PaymentMethod
	Frequency     Frequency
	Amount        decimal.Decimal
	IsActive      bool
}

// Normalize fills defaults and truncates dates to calendar days.
func (r *RecurrenceRule) Normalize() {
	if r.Frequency == "" {
		r.Frequency = FrequencyMonthly
	}
	if r.PaymentMethod == "" {
		r.PaymentMethod = DefaultPaymentMethod
	}
	r.Pillar = DefaultPillar(r.Pillar, r.Category)
	r.StartDate = DateOnly(r.StartDate)
	if r.EndDate != nil {
		end := DateOnly(*r.EndDate)
		r.EndDate = &end
	}
}

// Validate validates the rule before any entries are materialized.
func (r *RecurrenceRule) Validate() error {
	if err := ValidateDescription(r.Description); err != nil {
		return err
	}

	if err := ValidateAmount(r.Amount); err != nil {
		return err
	}

	if err := ValidateCategory(r.Category); err != nil {
		return err
	}

	if r.Frequency != FrequencyMonthly {
		return fmt.Errorf("%w: %q", ErrInvalidFrequency, r.Frequency)
	}

	if !r.PaymentMethod.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, r.PaymentMethod)
	}

	if r.Pillar != "" && !r.Pillar.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPillar, r.Pillar)
	}

	if r.StartDate.IsZero() {
		return fmt.Errorf("%w: start date is required", ErrInvalidDate)
	}

	if r.EndDate != nil && r.EndDate.Before(r.StartDate) {
		return fmt.Errorf("%w: %s < %s", ErrInvalidDateRange,
			r.EndDate.Format(DateLayout), r.StartDate.Format(DateLayout))
	}

	return nil
}

// Covers reports whether an occurrence on date is inside the rule's range.
func (r *RecurrenceRule) Covers(date time.Time) bool {
	return r.EndDate == nil || !date.After(*r.EndDate)
}

// Occurrence materializes the rule as a fixed expense dated on date.
func (r *RecurrenceRule) Occurrence(id string, date, now time.Time) *Entry {
	paymentMethod := r.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = DefaultPaymentMethod
	}

	return &Entry{
		ID:              id,
		Description:     r.Description,
		Amount:          r.Amount,
		Date:            date,
		Type:            EntryTypeExpense,
		Category:        r.Category,
		Pillar:          r.Pillar,
		PaymentMethod:   paymentMethod,
		CardSource:      r.CardSource,
		IsFixed:         true,
		RecurringRuleID: r.ID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Retire ends the rule on the last day of the month before fromDate.
func (r *RecurrenceRule) Retire(fromDate, now time.Time) {
	end := MonthEnd(AddMonthsClamped(MonthStart(fromDate), -1))
	r.EndDate = &end
	r.IsActive = false
	r.UpdatedAt = now
}
