package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/famledger/internal/domain"
	"github.com/iho/famledger/internal/usecase"
)

// EntryFields are the user-editable fields shared by entry-shaped requests.
type EntryFields struct {
	Date          string `json:"date"`
	Description   string `json:"description"`
	Amount        string `json:"amount"`
	Type          string `json:"type"`
	Category      string `json:"category"`
	Pillar        string `json:"pillar,omitempty"`
	PaymentMethod string `json:"payment_method,omitempty"`
	CardSource    string `json:"card_source,omitempty"`
	IsFixed       bool   `json:"is_fixed"`
}

func (f EntryFields) parse() (time.Time, decimal.Decimal, error) {
	date, err := domain.ParseDate(strings.TrimSpace(f.Date))
	if err != nil {
		return time.Time{}, decimal.Zero, err
	}

	amount, err := ParseAmount(f.Amount)
	if err != nil {
		return time.Time{}, decimal.Zero, err
	}

	return date, amount, nil
}

// ParseAmount parses a decimal amount sent as a JSON string.
func ParseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", domain.ErrInvalidAmount, s)
	}
	return amount, nil
}

// ExpandInstallmentsRequest represents a purchase paid in installments.
type ExpandInstallmentsRequest struct {
	EntryFields

	TotalInstallments int `json:"total_installments"`
}

// ToUseCaseInput converts to use case input.
func (r *ExpandInstallmentsRequest) ToUseCaseInput() (usecase.ExpandInstallmentsInput, error) {
	date, amount, err := r.parse()
	if err != nil {
		return usecase.ExpandInstallmentsInput{}, err
	}

	return usecase.ExpandInstallmentsInput{
		StartDate: date,
		Purchase: usecase.PurchaseInput{
			Date:          date,
			Description:   r.Description,
			Amount:        amount,
			Type:          domain.EntryType(r.Type),
			Category:      r.Category,
			Pillar:        domain.Pillar(r.Pillar),
			PaymentMethod: paymentMethod(r.PaymentMethod),
			CardSource:    r.CardSource,
			IsFixed:       r.IsFixed,
		},
		TotalInstallments: r.TotalInstallments,
	}, nil
}

// ResizeInstallmentsRequest rewrites an installment group.
type ResizeInstallmentsRequest struct {
	Description       string `json:"description"`
	TotalAmount       string `json:"total_amount"`
	TotalInstallments int    `json:"total_installments"`
	Type              string `json:"type"`
	Category          string `json:"category"`
	Pillar            string `json:"pillar,omitempty"`
	PaymentMethod     string `json:"payment_method,omitempty"`
	CardSource        string `json:"card_source,omitempty"`
	IsFixed           bool   `json:"is_fixed"`
}

// ToUseCaseInput converts to use case input.
func (r *ResizeInstallmentsRequest) ToUseCaseInput(parentID string) (usecase.ResizeInstallmentsInput, error) {
	amount, err := ParseAmount(r.TotalAmount)
	if err != nil {
		return usecase.ResizeInstallmentsInput{}, err
	}

	return usecase.ResizeInstallmentsInput{
		ParentTransactionID:  parentID,
		NewDescription:       r.Description,
		NewTotalAmount:       amount,
		NewTotalInstallments: r.TotalInstallments,
		Shared: usecase.SharedEntryFields{
			Type:          domain.EntryType(r.Type),
			Category:      r.Category,
			Pillar:        domain.Pillar(r.Pillar),
			PaymentMethod: paymentMethod(r.PaymentMethod),
			CardSource:    r.CardSource,
			IsFixed:       r.IsFixed,
		},
	}, nil
}

// CreateRecurringRuleRequest creates a rule and generates its first months.
type CreateRecurringRuleRequest struct {
	Description   string `json:"description"`
	Amount        string `json:"amount"`
	Category      string `json:"category"`
	Pillar        string `json:"pillar,omitempty"`
	PaymentMethod string `json:"payment_method,omitempty"`
	CardSource    string `json:"card_source,omitempty"`
	Frequency     string `json:"frequency,omitempty"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date,omitempty"`
	Months        int    `json:"months,omitempty"`
}

// ToDomain builds an unsaved rule.
func (r *CreateRecurringRuleRequest) ToDomain() (*domain.RecurrenceRule, error) {
	amount, err := ParseAmount(r.Amount)
	if err != nil {
		return nil, err
	}

	start, err := domain.ParseDate(strings.TrimSpace(r.StartDate))
	if err != nil {
		return nil, err
	}

	rule := &domain.RecurrenceRule{
		Description:   r.Description,
		Amount:        amount,
		Category:      r.Category,
		Pillar:        domain.Pillar(r.Pillar),
		PaymentMethod: domain.PaymentMethod(r.PaymentMethod),
		CardSource:    r.CardSource,
		Frequency:     domain.Frequency(r.Frequency),
		StartDate:     start,
	}

	if strings.TrimSpace(r.EndDate) != "" {
		end, err := domain.ParseDate(strings.TrimSpace(r.EndDate))
		if err != nil {
			return nil, err
		}
		rule.EndDate = &end
	}

	return rule, nil
}

// GenerateRequest asks for more occurrences of an existing rule.
type GenerateRequest struct {
	Months int `json:"months"`
}

// RetireRuleRequest stops a rule from a date onwards.
type RetireRuleRequest struct {
	FromDate string `json:"from_date"`
}

// ParseFromDate parses FromDate.
func (r *RetireRuleRequest) ParseFromDate() (time.Time, error) {
	return domain.ParseDate(strings.TrimSpace(r.FromDate))
}

// CreateEntriesRequest is a batch of plain entries.
type CreateEntriesRequest struct {
	Entries []EntryFields `json:"entries"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateEntriesRequest) ToUseCaseInput() ([]usecase.CreateEntryInput, error) {
	inputs := make([]usecase.CreateEntryInput, len(r.Entries))
	for i, e := range r.Entries {
		date, amount, err := e.parse()
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		inputs[i] = usecase.CreateEntryInput{
			Date:          date,
			Description:   e.Description,
			Amount:        amount,
			Type:          domain.EntryType(e.Type),
			Category:      e.Category,
			Pillar:        domain.Pillar(e.Pillar),
			PaymentMethod: paymentMethod(e.PaymentMethod),
			CardSource:    e.CardSource,
			IsFixed:       e.IsFixed,
		}
	}
	return inputs, nil
}

// DeleteEntriesRequest lists entries to delete together.
type DeleteEntriesRequest struct {
	IDs []string `json:"ids"`
}

// UpdateSettingsRequest is a partial settings update. Amounts and goal
// shares are decimal strings; omitted fields are left untouched and a zero
// budget removes it.
type UpdateSettingsRequest struct {
	OpeningBalance  *string           `json:"opening_balance,omitempty"`
	IncomeTarget    *string           `json:"income_target,omitempty"`
	ExpenseTarget   *string           `json:"expense_target,omitempty"`
	PillarGoals     map[string]string `json:"pillar_goals,omitempty"`
	CategoryBudgets map[string]string `json:"category_budgets,omitempty"`
}

// ToUseCaseInput parses the request into a settings update.
func (r *UpdateSettingsRequest) ToUseCaseInput() (usecase.UpdateSettingsInput, error) {
	var in usecase.UpdateSettingsInput
	var err error

	if in.OpeningBalance, err = optionalDecimal("opening_balance", r.OpeningBalance); err != nil {
		return in, err
	}
	if in.IncomeTarget, err = optionalDecimal("income_target", r.IncomeTarget); err != nil {
		return in, err
	}
	if in.ExpenseTarget, err = optionalDecimal("expense_target", r.ExpenseTarget); err != nil {
		return in, err
	}

	if len(r.PillarGoals) > 0 {
		in.PillarGoals = make(map[domain.Pillar]decimal.Decimal, len(r.PillarGoals))
		for pillar, raw := range r.PillarGoals {
			share, err := decimal.NewFromString(strings.TrimSpace(raw))
			if err != nil {
				return in, fmt.Errorf("%w: goal for %s: %q", domain.ErrInvalidSettings, pillar, raw)
			}
			in.PillarGoals[domain.Pillar(pillar)] = share
		}
	}

	if len(r.CategoryBudgets) > 0 {
		in.CategoryBudgets = make(map[string]decimal.Decimal, len(r.CategoryBudgets))
		for category, raw := range r.CategoryBudgets {
			limit, err := decimal.NewFromString(strings.TrimSpace(raw))
			if err != nil {
				return in, fmt.Errorf("%w: budget for %s: %q", domain.ErrInvalidSettings, category, raw)
			}
			in.CategoryBudgets[category] = limit
		}
	}

	return in, nil
}

func optionalDecimal(field string, raw *string) (*decimal.Decimal, error) {
	if raw == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(*raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %q", domain.ErrInvalidSettings, field, *raw)
	}
	return &d, nil
}

func paymentMethod(s string) domain.PaymentMethod {
	if s == "" {
		return domain.DefaultPaymentMethod
	}
	return domain.PaymentMethod(s)
}
