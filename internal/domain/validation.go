package domain

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrEmptyDescription   = errors.New("description cannot be empty")
	ErrDescriptionTooLong = errors.New("description exceeds maximum length")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrAmountTooLarge     = errors.New("amount exceeds maximum allowed")
	ErrAmountTooSmall     = errors.New("amount below minimum allowed")
)

// Validation constants
const (
	MaxDescriptionLength = 255
	MaxCategoryLength    = 100
	MaxEntryAmount       = "1000000000" // 1 billion
	MinEntryAmount       = "0.01"

	// MaxInstallments caps an installment group at 35 years of monthly
	// payments.
	MaxInstallments = 420
	// MaxRecurrenceMonths caps one recurrence generation window.
	MaxRecurrenceMonths = 600
)

// ValidateInstallmentCount accepts 1..MaxInstallments.
func ValidateInstallmentCount(n int) error {
	if n < 1 || n > MaxInstallments {
		return fmt.Errorf("%w: got %d, want 1..%d", ErrInvalidInstallmentCount, n, MaxInstallments)
	}
	return nil
}

// ValidateMonthCount accepts 1..MaxRecurrenceMonths.
func ValidateMonthCount(n int) error {
	if n < 1 || n > MaxRecurrenceMonths {
		return fmt.Errorf("%w: got %d, want 1..%d", ErrInvalidMonthCount, n, MaxRecurrenceMonths)
	}
	return nil
}

// ValidateAmount validates a purchase, rule or entry total.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	minAmount, _ := decimal.NewFromString(MinEntryAmount)
	if amount.LessThan(minAmount) {
		return fmt.Errorf("%w: minimum amount is %s", ErrAmountTooSmall, MinEntryAmount)
	}

	maxAmount, _ := decimal.NewFromString(MaxEntryAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxEntryAmount)
	}

	return nil
}

// ValidateDescription rejects blank and oversized descriptions.
func ValidateDescription(description string) error {
	description = strings.TrimSpace(description)

	if description == "" {
		return ErrEmptyDescription
	}

	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return fmt.Errorf("%w: %d characters", ErrDescriptionTooLong, MaxDescriptionLength)
	}

	return nil
}

// ValidateCategory rejects blank and oversized category names.
func ValidateCategory(category string) error {
	category = strings.TrimSpace(category)

	if category == "" {
		return fmt.Errorf("%w: category cannot be empty", ErrInvalidCategory)
	}

	if utf8.RuneCountInString(category) > MaxCategoryLength {
		return fmt.Errorf("%w: exceeds %d characters", ErrInvalidCategory, MaxCategoryLength)
	}

	return nil
}
