package domain

import (
	"errors"
	"fmt"
)

var (
	// Entry errors
	ErrInvalidAmount              = errors.New("amount must be positive")
	ErrInvalidEntryType           = errors.New("invalid entry type")
	ErrInvalidPaymentMethod       = errors.New("invalid payment method")
	ErrInvalidPillar              = errors.New("invalid pillar")
	ErrInvalidInstallmentMetadata = errors.New("inconsistent installment metadata")
	ErrEntryNotFound              = errors.New("entry not found")

	// Installment errors
	ErrInvalidInstallmentCount  = errors.New("installment count out of range")
	ErrInstallmentGroupNotFound = errors.New("installment group not found")

	// Recurrence errors
	ErrInvalidFrequency  = errors.New("invalid recurrence frequency")
	ErrInvalidMonthCount = errors.New("month count out of range")
	ErrInvalidDateRange  = errors.New("end date is before start date")
	ErrRuleNotFound      = errors.New("recurring rule not found")

	// Settings errors
	ErrInvalidSettings = errors.New("invalid settings")

	// Calendar errors
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidPeriod = errors.New("invalid period")
)

// BatchError reports a failed atomic write batch. Nothing from the batch was
// applied.
type BatchError struct {
	Err error
	Op  string
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("%s: batch write failed: %v", e.Op, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

// IsValidationError reports whether err comes from input validation.
func IsValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

var validationErrors = []error{
	ErrInvalidAmount,
	ErrInvalidEntryType,
	ErrInvalidPaymentMethod,
	ErrInvalidPillar,
	ErrInvalidInstallmentMetadata,
	ErrInvalidInstallmentCount,
	ErrInvalidFrequency,
	ErrInvalidMonthCount,
	ErrInvalidDateRange,
	ErrInvalidDate,
	ErrInvalidPeriod,
	ErrEmptyDescription,
	ErrDescriptionTooLong,
	ErrAmountTooLarge,
	ErrAmountTooSmall,
	ErrInvalidCategory,
	ErrInvalidSettings,
}
