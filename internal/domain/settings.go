package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Settings are the household-wide figures month summaries are measured
// against. Goals are shares of the month's income.
type Settings struct {
	UpdatedAt       time.Time
	PillarGoals     map[Pillar]decimal.Decimal
	CategoryBudgets map[string]decimal.Decimal
	OpeningBalance  decimal.Decimal
	IncomeTarget    decimal.Decimal
	ExpenseTarget   decimal.Decimal
}

// DefaultPillarGoals splits income 65/15/15/5 across the pillars.
func DefaultPillarGoals() map[Pillar]decimal.Decimal {
	return map[Pillar]decimal.Decimal{
		PillarFixedExpenses: decimal.RequireFromString("0.65"),
		PillarInvestments:   decimal.RequireFromString("0.15"),
		PillarGuiltyFree:    decimal.RequireFromString("0.15"),
		PillarUnexpected:    decimal.RequireFromString("0.05"),
	}
}

// DefaultSettings is what a household starts with before saving anything.
func DefaultSettings() *Settings {
	return &Settings{
		PillarGoals:     DefaultPillarGoals(),
		CategoryBudgets: map[string]decimal.Decimal{},
		OpeningBalance:  decimal.Zero,
		IncomeTarget:    decimal.Zero,
		ExpenseTarget:   decimal.Zero,
	}
}

// Normalize trims budget category names and fills missing pillar goals
// with zero. Budgets of zero are dropped.
func (s *Settings) Normalize() {
	goals := make(map[Pillar]decimal.Decimal, len(Pillars))
	for _, p := range Pillars {
		goals[p] = decimal.Zero
	}
	for p, share := range s.PillarGoals {
		goals[p] = share
	}
	s.PillarGoals = goals

	budgets := make(map[string]decimal.Decimal, len(s.CategoryBudgets))
	for category, limit := range s.CategoryBudgets {
		if limit.IsZero() {
			continue
		}
		budgets[strings.TrimSpace(category)] = limit
	}
	s.CategoryBudgets = budgets
}

// Validate checks that goals are known pillars with shares in [0, 1]
// adding up to at most 1, and that budgets and targets are not negative.
func (s *Settings) Validate() error {
	total := decimal.Zero
	for p, share := range s.PillarGoals {
		if !p.IsValid() {
			return fmt.Errorf("%w: %q", ErrInvalidPillar, p)
		}
		if share.IsNegative() || share.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("%w: goal for %s must be between 0 and 1", ErrInvalidSettings, p)
		}
		total = total.Add(share)
	}
	if total.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("%w: pillar goals add up to %s", ErrInvalidSettings, total.String())
	}

	for category, limit := range s.CategoryBudgets {
		if err := ValidateCategory(category); err != nil {
			return err
		}
		if limit.IsNegative() {
			return fmt.Errorf("%w: budget for %s is negative", ErrInvalidSettings, category)
		}
	}

	if s.IncomeTarget.IsNegative() || s.ExpenseTarget.IsNegative() {
		return fmt.Errorf("%w: targets cannot be negative", ErrInvalidSettings)
	}

	return nil
}

// Clone returns a deep copy.
func (s *Settings) Clone() *Settings {
	c := *s
	c.PillarGoals = make(map[Pillar]decimal.Decimal, len(s.PillarGoals))
	for k, v := range s.PillarGoals {
		c.PillarGoals[k] = v
	}
	c.CategoryBudgets = make(map[string]decimal.Decimal, len(s.CategoryBudgets))
	for k, v := range s.CategoryBudgets {
		c.CategoryBudgets[k] = v
	}
	return &c
}

// BudgetCategories returns the budgeted categories in name order.
func (s *Settings) BudgetCategories() []string {
	categories := make([]string, 0, len(s.CategoryBudgets))
	for c := range s.CategoryBudgets {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories
}

// Totals is the income and expense of a set of entries.
type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// Net is income minus expense.
func (t Totals) Net() decimal.Decimal {
	return t.Income.Sub(t.Expense)
}
