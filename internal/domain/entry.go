package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// EntryType tells income from expense.
type EntryType string

const (
	EntryTypeIncome  EntryType = "income"
	EntryTypeExpense EntryType = "expense"
)

// IsValid reports whether t is a known entry type.
func (t EntryType) IsValid() bool {
	return t == EntryTypeIncome || t == EntryTypeExpense
}

// PaymentMethod is how an entry was paid.
type PaymentMethod string

const (
	PaymentMethodCreditCard PaymentMethod = "credit_card"
	PaymentMethodDebitCard  PaymentMethod = "debit_card"
	PaymentMethodCash       PaymentMethod = "cash"
	PaymentMethodPix        PaymentMethod = "pix"
	PaymentMethodTransfer   PaymentMethod = "transfer"
)

// DefaultPaymentMethod is used for materialized recurring entries without one.
const DefaultPaymentMethod = PaymentMethodDebitCard

// IsValid reports whether m is a known payment method.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCreditCard, PaymentMethodDebitCard, PaymentMethodCash,
		PaymentMethodPix, PaymentMethodTransfer:
		return true
	}
	return false
}

// Entry is one dated income or expense record in the ledger. Optional
// references are empty strings and optional counters are zero when absent.
type Entry struct {
	CreatedAt           time.Time
	UpdatedAt           time.Time
	Date                time.Time
	ID                  string
	Description         string
	Category            string
	Pillar              Pillar
	CardSource          string
	ParentTransactionID string
	RecurringRuleID     string
	Type                EntryType
	PaymentMethod       PaymentMethod
	Amount              decimal.Decimal
	InstallmentIndex    int
	TotalInstallments   int
	IsFixed             bool
}

// IsInstallment reports whether the entry belongs to an installment group.
func (e *Entry) IsInstallment() bool {
	return e.InstallmentIndex > 0
}

// Month returns the calendar month the entry is dated in.
func (e *Entry) Month() YearMonth {
	return YearMonthOf(e.Date)
}

// Validate checks field domains and installment metadata consistency.
func (e *Entry) Validate() error {
	if err := ValidateDescription(e.Description); err != nil {
		return err
	}

	if e.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if err := ValidateCategory(e.Category); err != nil {
		return err
	}

	if !e.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidEntryType, e.Type)
	}

	if !e.PaymentMethod.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, e.PaymentMethod)
	}

	if e.Pillar != "" && !e.Pillar.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPillar, e.Pillar)
	}

	if e.Date.IsZero() {
		return fmt.Errorf("%w: entry date is required", ErrInvalidDate)
	}

	if e.InstallmentIndex < 0 || e.TotalInstallments < 0 {
		return fmt.Errorf("%w: negative installment counters", ErrInvalidInstallmentMetadata)
	}

	if e.IsInstallment() {
		if e.TotalInstallments == 0 || e.ParentTransactionID == "" {
			return fmt.Errorf("%w: installment %d has no group", ErrInvalidInstallmentMetadata, e.InstallmentIndex)
		}
		if e.InstallmentIndex > e.TotalInstallments {
			return fmt.Errorf("%w: installment %d of %d", ErrInvalidInstallmentMetadata, e.InstallmentIndex, e.TotalInstallments)
		}
	}

	return nil
}

// InstallmentDescription suffixes the base description with "(index/total)".
func InstallmentDescription(base string, index, total int) string {
	return fmt.Sprintf("%s (%d/%d)", base, index, total)
}

// SplitAmount divides a total into n equal installments. The quotient is not
// corrected for remainders, so the parts may not sum back to the total.
func SplitAmount(total decimal.Decimal, n int) decimal.Decimal {
	return total.Div(decimal.NewFromInt(int64(n)))
}
