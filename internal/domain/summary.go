package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MonthSummary aggregates one month of entries. The fields below Balance
// depend on settings and on earlier months, and are filled by ApplySettings.
type MonthSummary struct {
	Pillars    map[Pillar]decimal.Decimal
	Categories map[string]decimal.Decimal
	Month      YearMonth
	Income     decimal.Decimal
	Expense    decimal.Decimal
	Balance    decimal.Decimal
	EntryCount int

	Goals          []PillarGoal
	Budgets        []CategoryBudget
	OpeningBalance decimal.Decimal
	ClosingBalance decimal.Decimal
	IncomeTarget   decimal.Decimal
	ExpenseTarget  decimal.Decimal
}

// PillarGoal compares a pillar's spending with its share of income.
type PillarGoal struct {
	Pillar      Pillar
	Share       decimal.Decimal
	Limit       decimal.Decimal
	Spent       decimal.Decimal
	Remaining   decimal.Decimal
	ActualShare decimal.Decimal
}

// CategoryBudget compares a category's spending with its monthly budget.
type CategoryBudget struct {
	Category  string
	Limit     decimal.Decimal
	Spent     decimal.Decimal
	Remaining decimal.Decimal
}

// Summarize totals income and expense for month and splits expenses by
// pillar. Entries outside month are skipped. Every pillar is present in the
// result even when zero.
func Summarize(month YearMonth, entries []*Entry) *MonthSummary {
	s := &MonthSummary{
		Month:   month,
		Income:  decimal.Zero,
		Expense: decimal.Zero,
		Pillars:    make(map[Pillar]decimal.Decimal, len(Pillars)),
		Categories: make(map[string]decimal.Decimal),
	}
	for _, p := range Pillars {
		s.Pillars[p] = decimal.Zero
	}

	for _, e := range entries {
		if e.Month() != month {
			continue
		}
		s.EntryCount++

		switch e.Type {
		case EntryTypeIncome:
			s.Income = s.Income.Add(e.Amount)
		case EntryTypeExpense:
			s.Expense = s.Expense.Add(e.Amount)
			category := strings.TrimSpace(e.Category)
			s.Categories[category] = s.Categories[category].Add(e.Amount)
			if p := ResolvePillar(e); p != "" {
				s.Pillars[p] = s.Pillars[p].Add(e.Amount)
			}
		}
	}

	s.Balance = s.Income.Sub(s.Expense)

	return s
}

// ApplySettings measures the month against settings. carried is the total
// of every entry dated before the month; together with the configured
// opening balance it gives the balance the month starts from. Pillar limits
// are shares of this month's income, so a month without income has zero
// limits.
func (s *MonthSummary) ApplySettings(settings *Settings, carried Totals) {
	s.OpeningBalance = settings.OpeningBalance.Add(carried.Net())
	s.ClosingBalance = s.OpeningBalance.Add(s.Balance)
	s.IncomeTarget = settings.IncomeTarget
	s.ExpenseTarget = settings.ExpenseTarget

	s.Goals = make([]PillarGoal, 0, len(Pillars))
	for _, p := range Pillars {
		share := settings.PillarGoals[p]
		limit := s.Income.Mul(share)
		spent := s.Pillars[p]
		goal := PillarGoal{
			Pillar:      p,
			Share:       share,
			Limit:       limit,
			Spent:       spent,
			Remaining:   limit.Sub(spent),
			ActualShare: decimal.Zero,
		}
		if s.Income.IsPositive() {
			goal.ActualShare = spent.DivRound(s.Income, 4)
		}
		s.Goals = append(s.Goals, goal)
	}

	s.Budgets = make([]CategoryBudget, 0, len(settings.CategoryBudgets))
	for _, category := range settings.BudgetCategories() {
		limit := settings.CategoryBudgets[category]
		spent := s.categorySpend(category)
		s.Budgets = append(s.Budgets, CategoryBudget{
			Category:  category,
			Limit:     limit,
			Spent:     spent,
			Remaining: limit.Sub(spent),
		})
	}
}

// categorySpend matches category names ignoring case.
func (s *MonthSummary) categorySpend(category string) decimal.Decimal {
	total := decimal.Zero
	for name, amount := range s.Categories {
		if strings.EqualFold(name, category) {
			total = total.Add(amount)
		}
	}
	return total
}
