package domain

import (
	"sort"
	"strings"
)

// DuplicateKey is the normalized identity two entries must share to count as
// exact duplicates.
type DuplicateKey struct {
	Description   string
	Amount        string
	Date          string
	Category      string
	PaymentMethod PaymentMethod
	CardSource    string
}

// DuplicateKeyOf normalizes an entry into its duplicate key.
func DuplicateKeyOf(e *Entry) DuplicateKey {
	cardSource := strings.ToLower(strings.TrimSpace(e.CardSource))
	if cardSource == "" {
		cardSource = "none"
	}

	return DuplicateKey{
		Description:   strings.ToLower(strings.TrimSpace(e.Description)),
		Amount:        e.Amount.StringFixed(2),
		Date:          e.Date.Format(DateLayout),
		Category:      strings.ToLower(strings.TrimSpace(e.Category)),
		PaymentMethod: e.PaymentMethod,
		CardSource:    cardSource,
	}
}

// DuplicateCluster groups two or more entries sharing a key.
type DuplicateCluster struct {
	Key     DuplicateKey
	Entries []*Entry
}

// FindExactDuplicates clusters entries by DuplicateKey and returns only the
// clusters with more than one member. Clusters appear in the order their first
// member appears in entries; members keep input order.
func FindExactDuplicates(entries []*Entry) []DuplicateCluster {
	index := make(map[DuplicateKey]int)
	clusters := make([]DuplicateCluster, 0)

	for _, e := range entries {
		key := DuplicateKeyOf(e)
		if i, ok := index[key]; ok {
			clusters[i].Entries = append(clusters[i].Entries, e)
			continue
		}
		index[key] = len(clusters)
		clusters = append(clusters, DuplicateCluster{Key: key, Entries: []*Entry{e}})
	}

	result := make([]DuplicateCluster, 0)
	for _, c := range clusters {
		if len(c.Entries) > 1 {
			result = append(result, c)
		}
	}

	return result
}

type ruleMonth struct {
	ruleID string
	month  YearMonth
}

// FindRuleDuplicates returns the fixed entries that repeat a (rule, month)
// pair already seen. Entries are visited ordered by date then id, so the
// earliest one of each pair survives. Entries without a rule are ignored.
func FindRuleDuplicates(entries []*Entry) []*Entry {
	ordered := make([]*Entry, len(entries))
	copy(ordered, entries)
	SortEntriesByDate(ordered)

	seen := make(map[ruleMonth]struct{})
	dupes := make([]*Entry, 0)

	for _, e := range ordered {
		if !e.IsFixed || e.RecurringRuleID == "" {
			continue
		}
		key := ruleMonth{ruleID: e.RecurringRuleID, month: e.Month()}
		if _, ok := seen[key]; ok {
			dupes = append(dupes, e)
			continue
		}
		seen[key] = struct{}{}
	}

	return dupes
}

// SortEntriesByDate orders entries by date, then id.
func SortEntriesByDate(entries []*Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.Before(entries[j].Date)
		}
		return entries[i].ID < entries[j].ID
	})
}

// SortEntriesByInstallment orders a group by installment index.
func SortEntriesByInstallment(entries []*Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].InstallmentIndex < entries[j].InstallmentIndex
	})
}
