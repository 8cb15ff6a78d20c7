package csvimport

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/famledger/internal/domain"
)

const sample = "\ufeffID,Data,Descrição,Valor,Tipo,Categoria,Subcategoria,Conta,Forma Pagamento,Parcela Atual,Parcela Total,Recorrente,Fixa\n" +
	"1,2024-03-05,Aluguel,\"R$ 2.500,00\",DESPESA,Moradia,,Itaú,PIX,,,SIM,SIM\n" +
	"2,10/03/2024,Salário,\"R$ 8.000,00\",RECEITA,Salário,,Itaú,Transferência,,,SIM,NÃO\n" +
	",,,,,,,,,,,,\n" +
	"3,2024-03-12,TV,\"R$ 250,00\",DESPESA,Casa,,Nubank,Cartão de Crédito,2,10,NÃO,NÃO\n" +
	"4,2024-03-15,,\"-R$ 35,90\",DESPESA,,,Itaú,Dinheiro,,,NÃO,\n"

func TestParse(t *testing.T) {
	inputs, err := NewParser(0).Parse(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, inputs, 4)

	rent := inputs[0]
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), rent.Date)
	assert.True(t, rent.Amount.Equal(decimal.NewFromInt(2500)))
	assert.Equal(t, domain.EntryTypeExpense, rent.Type)
	assert.Equal(t, domain.PaymentMethodPix, rent.PaymentMethod)
	assert.Equal(t, domain.PillarFixedExpenses, rent.Pillar)
	assert.True(t, rent.IsFixed)

	salary := inputs[1]
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), salary.Date)
	assert.Equal(t, domain.EntryTypeIncome, salary.Type)
	assert.Equal(t, domain.DefaultPaymentMethod, salary.PaymentMethod)
	assert.Equal(t, domain.PillarGuiltyFree, salary.Pillar)
	assert.False(t, salary.IsFixed)

	tv := inputs[2]
	assert.Equal(t, "TV (2/10)", tv.Description)
	assert.Equal(t, domain.PaymentMethodCreditCard, tv.PaymentMethod)
	assert.True(t, tv.Amount.Equal(decimal.NewFromInt(250)))

	cash := inputs[3]
	assert.Equal(t, "Sem descrição", cash.Description)
	assert.Equal(t, "Outros", cash.Category)
	assert.Equal(t, domain.PaymentMethodCash, cash.PaymentMethod)
	assert.True(t, cash.Amount.Equal(decimal.RequireFromString("35.90")))
}

func TestParse_SemicolonSeparated(t *testing.T) {
	input := "Data;Descrição;Valor;Tipo\n2024-01-02;Mercado;R$ 120,10;DESPESA\n"

	inputs, err := NewParser(';').Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, inputs, 1)
	assert.True(t, inputs[0].Amount.Equal(decimal.RequireFromString("120.10")))
}

func TestParse_Errors(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		target   error
		wantLine int
	}{
		{name: "empty file", input: "", target: ErrEmptyFile},
		{name: "missing amount column", input: "Data,Descrição\n2024-01-01,x\n", target: ErrMissingColumn},
		{name: "bad date", input: "Data,Valor\n2024-13-01,10\n", target: domain.ErrInvalidDate, wantLine: 2},
		{name: "bad amount", input: "Data,Valor\n2024-01-01,\n2024-01-02,abc\n", target: domain.ErrInvalidAmount, wantLine: 2},
		{name: "installment out of range", input: "Data,Valor,Parcela Atual,Parcela Total\n2024-01-01,10,5,3\n", target: domain.ErrInvalidInstallmentMetadata, wantLine: 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewParser(0).Parse(strings.NewReader(tc.input))
			require.ErrorIs(t, err, tc.target)

			if tc.wantLine > 0 {
				var rowErr *RowError
				require.True(t, errors.As(err, &rowErr))
				assert.Equal(t, tc.wantLine, rowErr.Line)
			}
		})
	}
}

func TestParseCurrency(t *testing.T) {
	testCases := map[string]string{
		"R$ 1.234,56":   "1234.56",
		"1234,5":        "1234.5",
		"R$\u00a099,99": "99.99",
		"-R$ 10,00":     "10",
		"42":            "42",
	}

	for in, want := range testCases {
		got, err := ParseCurrency(in)
		require.NoError(t, err, in)
		assert.True(t, got.Equal(decimal.RequireFromString(want)), "%s: got %s", in, got)
	}
}

func TestMapPaymentMethod(t *testing.T) {
	assert.Equal(t, domain.PaymentMethodCreditCard, MapPaymentMethod("Crédito"))
	assert.Equal(t, domain.PaymentMethodCreditCard, MapPaymentMethod("credito nubank"))
	assert.Equal(t, domain.PaymentMethodDebitCard, MapPaymentMethod("DÉBITO"))
	assert.Equal(t, domain.PaymentMethodPix, MapPaymentMethod("pix"))
	assert.Equal(t, domain.PaymentMethodCash, MapPaymentMethod("Dinheiro"))
	assert.Equal(t, domain.DefaultPaymentMethod, MapPaymentMethod("boleto"))
}
