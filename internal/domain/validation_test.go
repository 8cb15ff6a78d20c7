package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateDescription(t *testing.T) {
	t.Parallel()

	t.Run("valid description", func(t *testing.T) {
		if err := ValidateDescription("Supermercado"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("blank description rejected", func(t *testing.T) {
		err := ValidateDescription("   ")
		if !errors.Is(err, ErrEmptyDescription) {
			t.Fatalf("expected ErrEmptyDescription, got %v", err)
		}
	})

	t.Run("description too long", func(t *testing.T) {
		tooLong := strings.Repeat("a", MaxDescriptionLength+1)
		err := ValidateDescription(tooLong)
		if !errors.Is(err, ErrDescriptionTooLong) {
			t.Fatalf("expected ErrDescriptionTooLong, got %v", err)
		}
	})

	t.Run("length counted in characters", func(t *testing.T) {
		accented := strings.Repeat("ç", MaxDescriptionLength)
		if err := ValidateDescription(accented); err != nil {
			t.Fatalf("expected multi-byte description to fit, got %v", err)
		}
	})
}

func TestValidateCategory(t *testing.T) {
	t.Parallel()

	if err := ValidateCategory("Moradia"); err != nil {
		t.Fatalf("expected valid category, got %v", err)
	}

	if err := ValidateCategory(""); !errors.Is(err, ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}
}

func TestValidateAmount(t *testing.T) {
	t.Parallel()

	valid := decimal.NewFromFloat(100.25)
	if err := ValidateAmount(valid); err != nil {
		t.Fatalf("expected valid amount, got %v", err)
	}

	if err := ValidateAmount(decimal.Zero); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for zero, got %v", err)
	}

	if err := ValidateAmount(decimal.NewFromInt(-5)); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for negative, got %v", err)
	}

	if err := ValidateAmount(decimal.RequireFromString("0.001")); !errors.Is(err, ErrAmountTooSmall) {
		t.Fatalf("expected ErrAmountTooSmall, got %v", err)
	}

	tooLarge, _ := decimal.NewFromString("1000000000.01")
	if err := ValidateAmount(tooLarge); !errors.Is(err, ErrAmountTooLarge) {
		t.Fatalf("expected ErrAmountTooLarge, got %v", err)
	}
}

func TestValidateInstallmentCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n       int
		wantErr bool
	}{
		{n: 1},
		{n: MaxInstallments},
		{n: 0, wantErr: true},
		{n: -3, wantErr: true},
		{n: MaxInstallments + 1, wantErr: true},
		{n: 1 << 62, wantErr: true},
	}

	for _, tt := range tests {
		err := ValidateInstallmentCount(tt.n)
		if tt.wantErr != errors.Is(err, ErrInvalidInstallmentCount) {
			t.Fatalf("ValidateInstallmentCount(%d) = %v", tt.n, err)
		}
	}
}

func TestValidateMonthCount(t *testing.T) {
	t.Parallel()

	if err := ValidateMonthCount(MaxRecurrenceMonths); err != nil {
		t.Fatalf("expected %d months to be accepted, got %v", MaxRecurrenceMonths, err)
	}
	if err := ValidateMonthCount(MaxRecurrenceMonths + 1); !errors.Is(err, ErrInvalidMonthCount) {
		t.Fatalf("expected ErrInvalidMonthCount, got %v", err)
	}
	if err := ValidateMonthCount(0); !errors.Is(err, ErrInvalidMonthCount) {
		t.Fatalf("expected ErrInvalidMonthCount for zero, got %v", err)
	}
	if !IsValidationError(ValidateMonthCount(-1)) {
		t.Fatal("month count errors must classify as validation errors")
	}
}

func TestIsValidationError(t *testing.T) {
	t.Parallel()

	if !IsValidationError(ErrInvalidInstallmentCount) {
		t.Fatal("expected installment count error to be a validation error")
	}

	if IsValidationError(ErrRuleNotFound) {
		t.Fatal("not found is not a validation error")
	}

	batch := &BatchError{Op: "expand", Err: errors.New("boom")}
	if IsValidationError(batch) {
		t.Fatal("batch errors are not validation errors")
	}
}
