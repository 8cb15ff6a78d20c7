package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iho/famledger/internal/adapter/http/dto"
)

func execute(t *testing.T, serverURL string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--url", serverURL}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("expected short unchanged, got %q", got)
	}

	if got := truncate("longerstring", 6); got != "lon..." {
		t.Fatalf("expected lon..., got %q", got)
	}

	if got := truncate("Aluguel março", 10); got != "Aluguel..." {
		t.Fatalf("expected rune-aware truncation, got %q", got)
	}
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := printJSON(&buf, struct {
		A int `json:"a"`
	}{A: 1}); err != nil {
		t.Fatalf("printJSON failed: %v", err)
	}

	expected := "{\n  \"a\": 1\n}\n"
	if buf.String() != expected {
		t.Fatalf("unexpected json output:\n%s", buf.String())
	}
}

func TestDuplicatesList(t *testing.T) {
	var query string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode([]dto.DuplicateClusterResponse{{
			Date:        "2024-03-05",
			Description: "Netflix",
			Amount:      "55.90",
			Entries:     []*dto.EntryResponse{{ID: "a"}, {ID: "b"}},
		}})
	}))
	defer server.Close()

	out, err := execute(t, server.URL, "duplicates", "list", "--year", "2024", "--month", "3")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if query != "year=2024&month=3" {
		t.Fatalf("unexpected query %q", query)
	}
	if !strings.Contains(out, "Netflix") || !strings.Contains(out, "a,b") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestDuplicatesPruneReportsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(dto.ErrorResponse{Error: "failed to prune duplicates", Message: "db down"})
	}))
	defer server.Close()

	_, err := execute(t, server.URL, "duplicates", "prune")
	if err == nil || !strings.Contains(err.Error(), "db down") {
		t.Fatalf("expected API error, got %v", err)
	}
}

func TestImportPostsParsedEntries(t *testing.T) {
	var received dto.CreateEntriesRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/entries" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode failed: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(make([]dto.EntryResponse, len(received.Entries)))
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "export.csv")
	csv := "Data,Descrição,Valor,Tipo,Categoria,Forma Pagamento,Fixa\n" +
		"2024-03-05,Aluguel,\"R$ 2.500,00\",DESPESA,Moradia,PIX,SIM\n" +
		"05/03/2024,Salário,\"R$ 8.000,00\",RECEITA,Salário,,NÃO\n"
	if err := os.WriteFile(path, []byte(csv), 0o600); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	out, err := execute(t, server.URL, "import", path)
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if !strings.Contains(out, "Imported 2 entries") {
		t.Fatalf("unexpected output: %s", out)
	}

	if len(received.Entries) != 2 {
		t.Fatalf("expected 2 entries posted, got %d", len(received.Entries))
	}
	rent := received.Entries[0]
	if rent.Amount != "2500" || rent.PaymentMethod != "pix" || rent.Pillar != "Despesas Fixas" || !rent.IsFixed {
		t.Fatalf("unexpected rent entry: %+v", rent)
	}
	if received.Entries[1].Type != "income" || received.Entries[1].Date != "2024-03-05" {
		t.Fatalf("unexpected salary entry: %+v", received.Entries[1])
	}
}

func TestImportDryRunDoesNotCallAPI(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.csv")
	if err := os.WriteFile(path, []byte("Data;Valor\n2024-01-01;10,00\n"), 0o600); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	out, err := execute(t, "http://127.0.0.1:1", "import", "--dry-run", "--separator", ";", path)
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if !strings.Contains(out, `"amount": "10"`) {
		t.Fatalf("unexpected dry-run output:\n%s", out)
	}
}

func TestSettingsSetSendsOnlyChangedFields(t *testing.T) {
	var body map[string]any
	var method string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		_ = json.NewDecoder(r.Body).Decode(&body)
		_ = json.NewEncoder(w).Encode(dto.SettingsResponse{OpeningBalance: "250.00"})
	}))
	defer server.Close()

	out, err := execute(t, server.URL, "settings", "set", "--opening-balance", "250", "--budget", "Lazer=300")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if method != http.MethodPut {
		t.Fatalf("expected PUT, got %s", method)
	}
	if body["opening_balance"] != "250" {
		t.Fatalf("unexpected body %v", body)
	}
	if _, sent := body["income_target"]; sent {
		t.Fatalf("unchanged fields must be omitted, got %v", body)
	}
	budgets, _ := body["category_budgets"].(map[string]any)
	if budgets["Lazer"] != "300" {
		t.Fatalf("unexpected budgets %v", body["category_budgets"])
	}
	if !strings.Contains(out, "250.00") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}
