package domain

import "strings"

// Pillar is one of the four budget pillars expenses are classified into.
type Pillar string

const (
	PillarFixedExpenses Pillar = "Despesas Fixas"
	PillarInvestments   Pillar = "Investimentos"
	PillarGuiltyFree    Pillar = "Guilty-free"
	PillarUnexpected    Pillar = "Imprevistos"
)

// Pillars lists every pillar in display order.
var Pillars = []Pillar{
	PillarFixedExpenses,
	PillarInvestments,
	PillarGuiltyFree,
	PillarUnexpected,
}

// IsValid reports whether p is one of the known pillars.
func (p Pillar) IsValid() bool {
	for _, known := range Pillars {
		if p == known {
			return true
		}
	}
	return false
}

var categoryPillars = map[string]Pillar{
	"moradia":              PillarFixedExpenses,
	"transporte":           PillarFixedExpenses,
	"educação":             PillarFixedExpenses,
	"saúde":                PillarFixedExpenses,
	"mercado":              PillarFixedExpenses,
	"serviços essenciais":  PillarFixedExpenses,
	"pets":                 PillarFixedExpenses,
	"crianças":             PillarFixedExpenses,
	"assinaturas":          PillarGuiltyFree,
	"academia e bem-estar": PillarGuiltyFree,
	"alimentação fora":     PillarGuiltyFree,
	"lazer":                PillarGuiltyFree,
	"presentes":            PillarGuiltyFree,
	"compras pessoais":     PillarGuiltyFree,
	"consórcios":           PillarInvestments,
	"saúde imprevista":     PillarUnexpected,
	"manutenção carro":     PillarUnexpected,
	"multas e taxas":       PillarUnexpected,
	"outros imprevistos":   PillarUnexpected,
}

// PillarForCategory looks up the default pillar of a category. Matching
// ignores case and surrounding whitespace.
func PillarForCategory(category string) (Pillar, bool) {
	p, ok := categoryPillars[strings.ToLower(strings.TrimSpace(category))]
	return p, ok
}

// DefaultPillar keeps an explicit pillar and otherwise falls back to the
// category's default, which may be empty.
func DefaultPillar(pillar Pillar, category string) Pillar {
	if pillar != "" {
		return pillar
	}
	p, _ := PillarForCategory(category)
	return p
}

// ResolvePillar classifies an entry: the category table wins, then the
// entry's own pillar. An empty result means unclassified.
func ResolvePillar(e *Entry) Pillar {
	if p, ok := PillarForCategory(e.Category); ok {
		return p
	}
	if e.Pillar.IsValid() {
		return e.Pillar
	}
	return ""
}
