package dto

import (
	"time"

	"github.com/iho/famledger/internal/domain"
	"github.com/iho/famledger/internal/usecase"
)

// EntryResponse represents an entry in API responses.
type EntryResponse struct {
	ID                  string    `json:"id"`
	Date                string    `json:"date"`
	Description         string    `json:"description"`
	Amount              string    `json:"amount"`
	Type                string    `json:"type"`
	Category            string    `json:"category"`
	Pillar              string    `json:"pillar,omitempty"`
	PaymentMethod       string    `json:"payment_method"`
	CardSource          string    `json:"card_source,omitempty"`
	IsFixed             bool      `json:"is_fixed"`
	InstallmentIndex    int       `json:"installment_index,omitempty"`
	TotalInstallments   int       `json:"total_installments,omitempty"`
	ParentTransactionID string    `json:"parent_transaction_id,omitempty"`
	RecurringRuleID     string    `json:"recurring_rule_id,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// EntryFromDomain converts a domain entry to a response.
func EntryFromDomain(e *domain.Entry) *EntryResponse {
	return &EntryResponse{
		ID:                  e.ID,
		Date:                e.Date.Format(domain.DateLayout),
		Description:         e.Description,
		Amount:              e.Amount.StringFixed(2),
		Type:                string(e.Type),
		Category:            e.Category,
		Pillar:              string(e.Pillar),
		PaymentMethod:       string(e.PaymentMethod),
		CardSource:          e.CardSource,
		IsFixed:             e.IsFixed,
		InstallmentIndex:    e.InstallmentIndex,
		TotalInstallments:   e.TotalInstallments,
		ParentTransactionID: e.ParentTransactionID,
		RecurringRuleID:     e.RecurringRuleID,
		CreatedAt:           e.CreatedAt,
		UpdatedAt:           e.UpdatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.Entry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// InstallmentGroupResponse is an expanded or listed installment group.
type InstallmentGroupResponse struct {
	ParentTransactionID string           `json:"parent_transaction_id"`
	EntryIDs            []string         `json:"entry_ids,omitempty"`
	Entries             []*EntryResponse `json:"entries,omitempty"`
}

// ResizeResponse reports what a resize touched.
type ResizeResponse struct {
	ParentTransactionID string `json:"parent_transaction_id"`
	Updated             int    `json:"updated"`
	Created             int    `json:"created"`
	Deleted             int    `json:"deleted"`
}

// ResizeFromUseCase converts a resize result.
func ResizeFromUseCase(r *usecase.ResizeResult) *ResizeResponse {
	return &ResizeResponse{
		ParentTransactionID: r.ParentTransactionID,
		Updated:             r.Updated,
		Created:             r.Created,
		Deleted:             r.Deleted,
	}
}

// RuleResponse represents a recurrence rule in API responses.
type RuleResponse struct {
	ID            string    `json:"id"`
	Description   string    `json:"description"`
	Amount        string    `json:"amount"`
	Category      string    `json:"category"`
	Pillar        string    `json:"pillar,omitempty"`
	PaymentMethod string    `json:"payment_method"`
	CardSource    string    `json:"card_source,omitempty"`
	Frequency     string    `json:"frequency"`
	StartDate     string    `json:"start_date"`
	EndDate       string    `json:"end_date,omitempty"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// RuleFromDomain converts a domain rule to a response.
func RuleFromDomain(r *domain.RecurrenceRule) *RuleResponse {
	resp := &RuleResponse{
		ID:            r.ID,
		Description:   r.Description,
		Amount:        r.Amount.StringFixed(2),
		Category:      r.Category,
		Pillar:        string(r.Pillar),
		PaymentMethod: string(r.PaymentMethod),
		CardSource:    r.CardSource,
		Frequency:     string(r.Frequency),
		StartDate:     r.StartDate.Format(domain.DateLayout),
		IsActive:      r.IsActive,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	if r.EndDate != nil {
		resp.EndDate = r.EndDate.Format(domain.DateLayout)
	}
	return resp
}

// RulesFromDomain converts domain rules to responses.
func RulesFromDomain(rules []*domain.RecurrenceRule) []*RuleResponse {
	result := make([]*RuleResponse, len(rules))
	for i, r := range rules {
		result[i] = RuleFromDomain(r)
	}
	return result
}

// GenerateResponse reports a generation pass.
type GenerateResponse struct {
	RuleID   string   `json:"rule_id"`
	EntryIDs []string `json:"entry_ids"`
	Skipped  int      `json:"skipped"`
	NewRule  bool     `json:"new_rule"`
}

// GenerateFromUseCase converts a generation result.
func GenerateFromUseCase(r *usecase.GenerateResult) *GenerateResponse {
	ids := r.EntryIDs
	if ids == nil {
		ids = []string{}
	}
	return &GenerateResponse{
		RuleID:   r.RuleID,
		EntryIDs: ids,
		Skipped:  r.Skipped,
		NewRule:  r.NewRule,
	}
}

// RetireResponse reports a retirement.
type RetireResponse struct {
	RuleID  string `json:"rule_id"`
	EndDate string `json:"end_date"`
	Deleted int    `json:"deleted"`
}

// RetireFromUseCase converts a retirement result.
func RetireFromUseCase(r *usecase.RetireResult) *RetireResponse {
	return &RetireResponse{
		RuleID:  r.RuleID,
		EndDate: r.EndDate.Format(domain.DateLayout),
		Deleted: r.Deleted,
	}
}

// DuplicateClusterResponse is one set of identical entries.
type DuplicateClusterResponse struct {
	Description   string           `json:"description"`
	Amount        string           `json:"amount"`
	Date          string           `json:"date"`
	Category      string           `json:"category"`
	PaymentMethod string           `json:"payment_method"`
	CardSource    string           `json:"card_source"`
	Entries       []*EntryResponse `json:"entries"`
}

// ClustersFromDomain converts duplicate clusters.
func ClustersFromDomain(clusters []domain.DuplicateCluster) []*DuplicateClusterResponse {
	result := make([]*DuplicateClusterResponse, len(clusters))
	for i, c := range clusters {
		result[i] = &DuplicateClusterResponse{
			Description:   c.Key.Description,
			Amount:        c.Key.Amount,
			Date:          c.Key.Date,
			Category:      c.Key.Category,
			PaymentMethod: string(c.Key.PaymentMethod),
			CardSource:    c.Key.CardSource,
			Entries:       EntriesFromDomain(c.Entries),
		}
	}
	return result
}

// CountResponse reports how many records an operation touched.
type CountResponse struct {
	Count int `json:"count"`
}

// SummaryResponse is a month summary.
type SummaryResponse struct {
	Month          string                   `json:"month"`
	Income         string                   `json:"income"`
	Expense        string                   `json:"expense"`
	Balance        string                   `json:"balance"`
	OpeningBalance string                   `json:"opening_balance"`
	ClosingBalance string                   `json:"closing_balance"`
	IncomeTarget   string                   `json:"income_target"`
	ExpenseTarget  string                   `json:"expense_target"`
	Pillars        map[string]string        `json:"pillars"`
	Goals          []PillarGoalResponse     `json:"goals"`
	Budgets        []CategoryBudgetResponse `json:"budgets"`
	EntryCount     int                      `json:"entry_count"`
}

// PillarGoalResponse is one pillar measured against its share of income.
type PillarGoalResponse struct {
	Pillar      string `json:"pillar"`
	Share       string `json:"share"`
	Limit       string `json:"limit"`
	Spent       string `json:"spent"`
	Remaining   string `json:"remaining"`
	ActualShare string `json:"actual_share"`
}

// CategoryBudgetResponse is one category measured against its budget.
type CategoryBudgetResponse struct {
	Category  string `json:"category"`
	Limit     string `json:"limit"`
	Spent     string `json:"spent"`
	Remaining string `json:"remaining"`
}

// SummaryFromDomain converts a month summary.
func SummaryFromDomain(s *domain.MonthSummary) *SummaryResponse {
	pillars := make(map[string]string, len(s.Pillars))
	for p, v := range s.Pillars {
		pillars[string(p)] = v.StringFixed(2)
	}

	goals := make([]PillarGoalResponse, len(s.Goals))
	for i, g := range s.Goals {
		goals[i] = PillarGoalResponse{
			Pillar:      string(g.Pillar),
			Share:       g.Share.String(),
			Limit:       g.Limit.StringFixed(2),
			Spent:       g.Spent.StringFixed(2),
			Remaining:   g.Remaining.StringFixed(2),
			ActualShare: g.ActualShare.String(),
		}
	}

	budgets := make([]CategoryBudgetResponse, len(s.Budgets))
	for i, b := range s.Budgets {
		budgets[i] = CategoryBudgetResponse{
			Category:  b.Category,
			Limit:     b.Limit.StringFixed(2),
			Spent:     b.Spent.StringFixed(2),
			Remaining: b.Remaining.StringFixed(2),
		}
	}

	return &SummaryResponse{
		Month:          s.Month.String(),
		Income:         s.Income.StringFixed(2),
		Expense:        s.Expense.StringFixed(2),
		Balance:        s.Balance.StringFixed(2),
		OpeningBalance: s.OpeningBalance.StringFixed(2),
		ClosingBalance: s.ClosingBalance.StringFixed(2),
		IncomeTarget:   s.IncomeTarget.StringFixed(2),
		ExpenseTarget:  s.ExpenseTarget.StringFixed(2),
		Pillars:        pillars,
		Goals:          goals,
		Budgets:        budgets,
		EntryCount:     s.EntryCount,
	}
}

// SettingsResponse represents the household settings.
type SettingsResponse struct {
	OpeningBalance  string            `json:"opening_balance"`
	IncomeTarget    string            `json:"income_target"`
	ExpenseTarget   string            `json:"expense_target"`
	PillarGoals     map[string]string `json:"pillar_goals"`
	CategoryBudgets map[string]string `json:"category_budgets"`
	UpdatedAt       *time.Time        `json:"updated_at,omitempty"`
}

// SettingsFromDomain converts settings.
func SettingsFromDomain(s *domain.Settings) *SettingsResponse {
	goals := make(map[string]string, len(s.PillarGoals))
	for p, share := range s.PillarGoals {
		goals[string(p)] = share.String()
	}
	budgets := make(map[string]string, len(s.CategoryBudgets))
	for c, limit := range s.CategoryBudgets {
		budgets[c] = limit.StringFixed(2)
	}

	resp := &SettingsResponse{
		OpeningBalance:  s.OpeningBalance.StringFixed(2),
		IncomeTarget:    s.IncomeTarget.StringFixed(2),
		ExpenseTarget:   s.ExpenseTarget.StringFixed(2),
		PillarGoals:     goals,
		CategoryBudgets: budgets,
	}
	if !s.UpdatedAt.IsZero() {
		updated := s.UpdatedAt
		resp.UpdatedAt = &updated
	}
	return resp
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
