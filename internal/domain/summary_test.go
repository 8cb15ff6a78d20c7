package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestSummarize(t *testing.T) {
	t.Parallel()

	may := YearMonth{Year: 2024, Month: time.May}

	entries := []*Entry{
		{Type: EntryTypeIncome, Amount: decimal.NewFromInt(5000), Date: date(2024, time.May, 5), Category: "Salário"},
		{Type: EntryTypeExpense, Amount: decimal.NewFromInt(1500), Date: date(2024, time.May, 10), Category: "Moradia"},
		{Type: EntryTypeExpense, Amount: decimal.NewFromInt(200), Date: date(2024, time.May, 12), Category: "Lazer"},
		{Type: EntryTypeExpense, Amount: decimal.NewFromInt(50), Date: date(2024, time.May, 13), Category: "Viagem"},
		{Type: EntryTypeExpense, Amount: decimal.NewFromInt(999), Date: date(2024, time.June, 1), Category: "Moradia"},
	}

	s := Summarize(may, entries)

	if s.EntryCount != 4 {
		t.Fatalf("expected 4 entries in May, got %d", s.EntryCount)
	}
	if !s.Income.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("income = %s", s.Income)
	}
	if !s.Expense.Equal(decimal.NewFromInt(1750)) {
		t.Fatalf("expense = %s", s.Expense)
	}
	if !s.Balance.Equal(decimal.NewFromInt(3250)) {
		t.Fatalf("balance = %s", s.Balance)
	}
	if !s.Pillars[PillarFixedExpenses].Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("fixed = %s", s.Pillars[PillarFixedExpenses])
	}
	if !s.Pillars[PillarGuiltyFree].Equal(decimal.NewFromInt(200)) {
		t.Fatalf("guilty-free = %s", s.Pillars[PillarGuiltyFree])
	}
	if len(s.Pillars) != len(Pillars) {
		t.Fatalf("expected all pillars present, got %d", len(s.Pillars))
	}
	if !s.Pillars[PillarInvestments].IsZero() {
		t.Fatalf("investments = %s", s.Pillars[PillarInvestments])
	}
}

func TestApplySettings(t *testing.T) {
	t.Parallel()

	may := YearMonth{Year: 2024, Month: time.May}
	s := Summarize(may, []*Entry{
		{Type: EntryTypeIncome, Amount: decimal.NewFromInt(2000), Date: date(2024, time.May, 5), Category: "Salário"},
		{Type: EntryTypeExpense, Amount: decimal.NewFromInt(500), Date: date(2024, time.May, 10), Category: "Moradia"},
		{Type: EntryTypeExpense, Amount: decimal.NewFromInt(80), Date: date(2024, time.May, 11), Category: " Lazer"},
	})

	settings := DefaultSettings()
	settings.OpeningBalance = decimal.NewFromInt(100)
	settings.CategoryBudgets = map[string]decimal.Decimal{"Pets": decimal.NewFromInt(50), "lazer": decimal.NewFromInt(100)}

	s.ApplySettings(settings, Totals{Income: decimal.NewFromInt(300), Expense: decimal.NewFromInt(50)})

	if !s.OpeningBalance.Equal(decimal.NewFromInt(350)) {
		t.Fatalf("opening = %s", s.OpeningBalance)
	}
	if !s.ClosingBalance.Equal(decimal.NewFromInt(1770)) {
		t.Fatalf("closing = %s", s.ClosingBalance)
	}
	if len(s.Goals) != len(Pillars) || s.Goals[3].Pillar != PillarUnexpected {
		t.Fatalf("goals = %+v", s.Goals)
	}
	if !s.Goals[3].Limit.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("unexpected limit = %s", s.Goals[3].Limit)
	}
	if len(s.Budgets) != 2 || s.Budgets[0].Category != "Pets" || s.Budgets[1].Category != "lazer" {
		t.Fatalf("budgets = %+v", s.Budgets)
	}
	if !s.Budgets[1].Spent.Equal(decimal.NewFromInt(80)) || !s.Budgets[1].Remaining.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("lazer budget = %+v", s.Budgets[1])
	}
}

func TestApplySettingsWithoutIncome(t *testing.T) {
	t.Parallel()

	s := Summarize(YearMonth{Year: 2024, Month: time.May}, []*Entry{
		{Type: EntryTypeExpense, Amount: decimal.NewFromInt(40), Date: date(2024, time.May, 10), Category: "Moradia"},
	})
	s.ApplySettings(DefaultSettings(), Totals{})

	fixed := s.Goals[0]
	if !fixed.Limit.IsZero() || !fixed.ActualShare.IsZero() {
		t.Fatalf("fixed goal = %+v", fixed)
	}
	if !fixed.Remaining.Equal(decimal.NewFromInt(-40)) {
		t.Fatalf("remaining = %s", fixed.Remaining)
	}
}
