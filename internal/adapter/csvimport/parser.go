// Package csvimport reads the family spreadsheet export into plain entries.
package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/famledger/internal/domain"
	"github.com/iho/famledger/internal/usecase"
)

// Spreadsheet column headers.
const (
	ColumnDate          = "Data"
	ColumnDescription   = "Descrição"
	ColumnAmount        = "Valor"
	ColumnType          = "Tipo"
	ColumnCategory      = "Categoria"
	ColumnPaymentMethod = "Forma Pagamento"
	ColumnInstallment   = "Parcela Atual"
	ColumnInstallments  = "Parcela Total"
	ColumnFixed         = "Fixa"
)

const (
	defaultDescription = "Sem descrição"
	defaultCategory    = "Outros"
	brazilianDate      = "02/01/2006"
)

var (
	// ErrMissingColumn is returned when a required header is absent.
	ErrMissingColumn = errors.New("missing required column")
	// ErrEmptyFile is returned when the input has no header row.
	ErrEmptyFile = errors.New("csv file is empty")
)

var requiredColumns = []string{ColumnDate, ColumnAmount}

// RowError reports the line of a row that could not be parsed.
type RowError struct {
	Err  error
	Line int
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Parser converts spreadsheet rows into entry inputs.
type Parser struct {
	comma rune
}

// NewParser creates a Parser for comma separated input. A zero comma keeps
// the default.
func NewParser(comma rune) *Parser {
	if comma == 0 {
		comma = ','
	}
	return &Parser{comma: comma}
}

// Parse reads every data row of r. Blank rows are skipped. The first row that
// fails to parse aborts the import with a *RowError.
func (p *Parser) Parse(r io.Reader) ([]usecase.CreateEntryInput, error) {
	reader := csv.NewReader(r)
	reader.Comma = p.comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := indexColumns(header)
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
	}

	var inputs []usecase.CreateEntryInput
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line, _ := reader.FieldPos(0)
		if isBlank(record) {
			continue
		}

		input, err := parseRow(row{columns: columns, record: record})
		if err != nil {
			return nil, &RowError{Line: line, Err: err}
		}
		inputs = append(inputs, input)
	}

	return inputs, nil
}

type row struct {
	columns map[string]int
	record  []string
}

func (r row) get(column string) string {
	i, ok := r.columns[column]
	if !ok || i >= len(r.record) {
		return ""
	}
	return strings.TrimSpace(r.record[i])
}

func parseRow(r row) (usecase.CreateEntryInput, error) {
	date, err := ParseDate(r.get(ColumnDate))
	if err != nil {
		return usecase.CreateEntryInput{}, err
	}

	amount, err := ParseCurrency(r.get(ColumnAmount))
	if err != nil {
		return usecase.CreateEntryInput{}, err
	}

	entryType := domain.EntryTypeExpense
	if strings.EqualFold(r.get(ColumnType), "RECEITA") {
		entryType = domain.EntryTypeIncome
	}

	fixed := strings.EqualFold(r.get(ColumnFixed), "SIM")
	pillar := domain.PillarGuiltyFree
	if fixed {
		pillar = domain.PillarFixedExpenses
	}

	description := r.get(ColumnDescription)
	if description == "" {
		description = defaultDescription
	}
	description, err = withInstallmentSuffix(description, r.get(ColumnInstallment), r.get(ColumnInstallments))
	if err != nil {
		return usecase.CreateEntryInput{}, err
	}

	category := r.get(ColumnCategory)
	if category == "" {
		category = defaultCategory
	}

	return usecase.CreateEntryInput{
		Date:          date,
		Description:   description,
		Amount:        amount,
		Type:          entryType,
		Category:      category,
		Pillar:        pillar,
		PaymentMethod: MapPaymentMethod(r.get(ColumnPaymentMethod)),
		IsFixed:       fixed,
	}, nil
}

// ParseDate accepts ISO dates and the Brazilian DD/MM/YYYY form.
func ParseDate(s string) (time.Time, error) {
	if strings.Contains(s, "/") {
		t, err := time.Parse(brazilianDate, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidDate, s)
		}
		return t, nil
	}
	return domain.ParseDate(s)
}

// ParseCurrency parses amounts such as "R$ 1.234,56". The sign is dropped;
// direction comes from the Tipo column.
func ParseCurrency(s string) (decimal.Decimal, error) {
	clean := strings.NewReplacer("R$", "", " ", "", "\u00a0", "", ".", "").Replace(s)
	clean = strings.Replace(clean, ",", ".", 1)

	amount, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", domain.ErrInvalidAmount, s)
	}
	return amount.Abs(), nil
}

// MapPaymentMethod maps the spreadsheet's payment labels. Unknown labels map
// to the default debit card.
func MapPaymentMethod(s string) domain.PaymentMethod {
	v := strings.ToUpper(s)
	switch {
	case strings.Contains(v, "CRÉDITO"), strings.Contains(v, "CREDITO"):
		return domain.PaymentMethodCreditCard
	case strings.Contains(v, "DÉBITO"), strings.Contains(v, "DEBITO"):
		return domain.PaymentMethodDebitCard
	case strings.Contains(v, "PIX"):
		return domain.PaymentMethodPix
	case strings.Contains(v, "DINHEIRO"):
		return domain.PaymentMethodCash
	default:
		return domain.DefaultPaymentMethod
	}
}

// withInstallmentSuffix keeps the installment position visible on imported
// rows. Imported rows are plain entries, so the position lives only in the
// description.
func withInstallmentSuffix(description, current, total string) (string, error) {
	if current == "" || total == "" {
		return description, nil
	}

	index, err := strconv.Atoi(current)
	if err != nil {
		return "", fmt.Errorf("%w: parcela atual %q", domain.ErrInvalidInstallmentMetadata, current)
	}
	count, err := strconv.Atoi(total)
	if err != nil {
		return "", fmt.Errorf("%w: parcela total %q", domain.ErrInvalidInstallmentMetadata, total)
	}
	if count <= 1 {
		return description, nil
	}
	if index < 1 || index > count {
		return "", fmt.Errorf("%w: %d/%d", domain.ErrInvalidInstallmentMetadata, index, count)
	}

	tail := domain.InstallmentDescription("", index, count)
	if strings.HasSuffix(description, tail) {
		return description, nil
	}
	return description + tail, nil
}

func indexColumns(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := columns[name]; !dup {
			columns[name] = i
		}
	}
	return columns
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
