package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/famledger/internal/adapter/csvimport"
	"github.com/iho/famledger/internal/adapter/http/dto"
)

const importChunkSize = 200

type apiClient struct {
	http    *http.Client
	baseURL string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		baseURL string
		timeout time.Duration
	)
	client := &apiClient{}

	rootCmd := &cobra.Command{
		Use:           "famledger-cli",
		Short:         "FamLedger CLI tool",
		Long:          `A command line interface for the FamLedger family finance API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			client.baseURL = strings.TrimRight(baseURL, "/")
			client.http = &http.Client{Timeout: timeout}
		},
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the FamLedger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(duplicatesCmd(client), importCmd(client), summaryCmd(client), settingsCmd(client))

	return rootCmd
}

func duplicatesCmd(client *apiClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "duplicates",
		Short: "Duplicate reconciliation",
	}

	var year, month int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List exact duplicate clusters of a month",
		RunE: func(cmd *cobra.Command, args []string) error {
			var clusters []dto.DuplicateClusterResponse
			if err := client.get(fmt.Sprintf("/api/v1/duplicates?year=%d&month=%d", year, month), &clusters); err != nil {
				return err
			}
			printClusters(cmd.OutOrStdout(), clusters)
			return nil
		},
	}
	addPeriodFlags(listCmd, &year, &month)

	pruneCmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete extra recurring occurrences within a month",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.CountResponse
			if err := client.post("/api/v1/duplicates/prune", nil, &resp); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d duplicate entries\n", resp.Count)
			return nil
		},
	}

	cmd.AddCommand(listCmd, pruneCmd)
	return cmd
}

func importCmd(client *apiClient) *cobra.Command {
	var (
		separator string
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import plain entries from a spreadsheet export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			comma := ','
			if separator != "" {
				comma = []rune(separator)[0]
			}

			inputs, err := csvimport.NewParser(comma).Parse(f)
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}

			requests := make([]dto.EntryFields, len(inputs))
			for i, in := range inputs {
				requests[i] = dto.EntryFields{
					Date:          in.Date.Format("2006-01-02"),
					Description:   in.Description,
					Amount:        in.Amount.String(),
					Type:          string(in.Type),
					Category:      in.Category,
					Pillar:        string(in.Pillar),
					PaymentMethod: string(in.PaymentMethod),
					IsFixed:       in.IsFixed,
				}
			}

			if dryRun {
				return printJSON(cmd.OutOrStdout(), requests)
			}

			imported := 0
			for start := 0; start < len(requests); start += importChunkSize {
				end := min(start+importChunkSize, len(requests))

				var created []dto.EntryResponse
				if err := client.post("/api/v1/entries", dto.CreateEntriesRequest{Entries: requests[start:end]}, &created); err != nil {
					return fmt.Errorf("import rows %d-%d (%d already imported): %w", start+1, end, imported, err)
				}
				imported += len(created)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d entries\n", imported)
			return nil
		},
	}

	cmd.Flags().StringVar(&separator, "separator", ",", "Field separator")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print parsed entries without importing")

	return cmd
}

func summaryCmd(client *apiClient) *cobra.Command {
	var year, month int

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show income, expense and pillar totals of a month",
		RunE: func(cmd *cobra.Command, args []string) error {
			var summary dto.SummaryResponse
			if err := client.get(fmt.Sprintf("/api/v1/summary?year=%d&month=%d", year, month), &summary); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), summary)
		},
	}
	addPeriodFlags(cmd, &year, &month)

	return cmd
}

func settingsCmd(client *apiClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Opening balance, pillar goals, budgets and targets",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the current settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			var settings dto.SettingsResponse
			if err := client.get("/api/v1/settings/", &settings); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), settings)
		},
	}

	var (
		req     dto.UpdateSettingsRequest
		opening string
		income  string
		expense string
	)
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Update the given settings and leave the rest untouched",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("opening-balance") {
				req.OpeningBalance = &opening
			}
			if flags.Changed("income-target") {
				req.IncomeTarget = &income
			}
			if flags.Changed("expense-target") {
				req.ExpenseTarget = &expense
			}

			var settings dto.SettingsResponse
			if err := client.do(http.MethodPut, "/api/v1/settings/", req, &settings); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), settings)
		},
	}
	setCmd.Flags().StringVar(&opening, "opening-balance", "", "Balance before the first entry")
	setCmd.Flags().StringVar(&income, "income-target", "", "Monthly income target")
	setCmd.Flags().StringVar(&expense, "expense-target", "", "Monthly expense ceiling")
	setCmd.Flags().StringToStringVar(&req.PillarGoals, "goal", nil, "Pillar share of income, e.g. Investimentos=0.2")
	setCmd.Flags().StringToStringVar(&req.CategoryBudgets, "budget", nil, "Monthly category budget, e.g. Lazer=300; 0 removes it")

	cmd.AddCommand(showCmd, setCmd)
	return cmd
}

func addPeriodFlags(cmd *cobra.Command, year, month *int) {
	now := time.Now()
	cmd.Flags().IntVar(year, "year", now.Year(), "Year")
	cmd.Flags().IntVar(month, "month", int(now.Month()), "Month (1-12)")
}

func (c *apiClient) get(path string, out any) error {
	return c.do(http.MethodGet, path, nil, out)
}

func (c *apiClient) post(path string, body, out any) error {
	return c.do(http.MethodPost, path, body, out)
}

func (c *apiClient) do(method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr dto.ErrorResponse
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			if apiErr.Message != "" {
				return fmt.Errorf("%s (status %d): %s", apiErr.Error, resp.StatusCode, apiErr.Message)
			}
			return fmt.Errorf("%s (status %d)", apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("request failed (status %d): %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func printClusters(w io.Writer, clusters []dto.DuplicateClusterResponse) {
	if len(clusters) == 0 {
		fmt.Fprintln(w, "No duplicates found")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tDESCRIPTION\tAMOUNT\tCOUNT\tIDS")
	for _, c := range clusters {
		ids := make([]string, len(c.Entries))
		for i, e := range c.Entries {
			ids[i] = e.ID
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
			c.Date, truncate(c.Description, 32), c.Amount, len(ids), strings.Join(ids, ","))
	}
	tw.Flush()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
