package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "caixaflow-cli",
		Short: "CaixaFlow CLI tool",
		Long:  `A command line interface for interacting with the CaixaFlow API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the CaixaFlow API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	accountsCmd := &cobra.Command{
		Use:   "accounts",
		Short: "Account operations",
	}
	accountsCmd.AddCommand(accountsListCmd())

	balanceCmd := &cobra.Command{
		Use:   "balance",
		Short: "Balance operations",
	}
	balanceCmd.AddCommand(balanceTotalCmd(), consistencyCmd())

	transfersCmd := &cobra.Command{
		Use:   "transfers",
		Short: "Transfer operations",
	}
	transfersCmd.AddCommand(sweepCmd())

	rootCmd.AddCommand(accountsCmd, balanceCmd, transfersCmd, statementCmd(), projectionCmd())

	return rootCmd
}

func accountsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result struct {
				Accounts []struct {
					ID      string `json:"id"`
					Name    string `json:"name"`
					Kind    string `json:"kind"`
					Balance string `json:"balance"`
					Active  bool   `json:"active"`
				} `json:"accounts"`
				Total int64 `json:"total"`
			}
			if err := apiGet("/api/v1/accounts?limit=100", &result); err != nil {
				return err
			}

			fmt.Printf("%-28s %-20s %-8s %12s  %s\n", "ID", "NAME", "KIND", "BALANCE", "ACTIVE")
			for _, a := range result.Accounts {
				fmt.Printf("%-28s %-20s %-8s %12s  %v\n",
					truncate(a.ID, 28), truncate(a.Name, 20), a.Kind, a.Balance, a.Active)
			}
			fmt.Printf("Total: %d\n", result.Total)
			return nil
		},
	}
}

func balanceTotalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "total",
		Short: "Total balance across all active accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result struct {
				Total string `json:"total"`
			}
			if err := apiGet("/api/v1/balances/total", &result); err != nil {
				return err
			}

			fmt.Printf("Total: %s\n", result.Total)
			return nil
		},
	}
}

func consistencyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "consistency",
		Short: "Check that cached balances match the movement log",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result struct {
				Consistent bool `json:"consistent"`
				Drifts     []struct {
					AccountID  string `json:"account_id"`
					Cached     string `json:"cached"`
					Recomputed string `json:"recomputed"`
				} `json:"drifts"`
			}
			if err := apiGet("/api/v1/balances/consistency", &result); err != nil {
				return err
			}

			if result.Consistent {
				fmt.Println("Consistency check PASSED")
				return nil
			}

			fmt.Println("Consistency check FAILED")
			for _, d := range result.Drifts {
				fmt.Printf("  account %s: cached %s, recomputed %s\n",
					d.AccountID, d.Cached, d.Recomputed)
			}
			return fmt.Errorf("%d account(s) drifted", len(result.Drifts))
		},
	}
}

func sweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Execute transfers that are due",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result struct {
				Due      int `json:"due"`
				Executed int `json:"executed"`
				Skipped  int `json:"skipped"`
				Failed   int `json:"failed"`
			}
			if err := apiPost("/api/v1/transfers/sweep", &result); err != nil {
				return err
			}

			fmt.Printf("Due: %d, Executed: %d, Skipped: %d, Failed: %d\n",
				result.Due, result.Executed, result.Skipped, result.Failed)
			return nil
		},
	}
}

func statementCmd() *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "statement <account-id>",
		Short: "Account statement for a period",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := url.Values{}
			params.Set("start", start)
			params.Set("end", end)

			var result map[string]any
			path := fmt.Sprintf("/api/v1/accounts/%s/statement?%s", args[0], params.Encode())
			if err := apiGet(path, &result); err != nil {
				return err
			}

			printJSON(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Period start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Period end (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func projectionCmd() *cobra.Command {
	var scenario string
	var days int
	var minimum string

	cmd := &cobra.Command{
		Use:   "projection",
		Short: "Cash-flow projection",
		RunE: func(cmd *cobra.Command, args []string) error {
			params := url.Values{}
			params.Set("scenario", scenario)
			params.Set("days", strconv.Itoa(days))
			if minimum != "" {
				params.Set("minimum", minimum)
			}

			var result struct {
				Scenario     string `json:"scenario"`
				GeneratedFor string `json:"generated_for"`
				Days         []struct {
					Date           string `json:"date"`
					ClosingBalance string `json:"closing_balance"`
					Status         string `json:"status"`
				} `json:"days"`
				NegativeDays int `json:"negative_days"`
				LowDays      int `json:"low_days"`
			}
			if err := apiGet("/api/v1/projections?"+params.Encode(), &result); err != nil {
				return err
			}

			fmt.Printf("Scenario: %s (from %s)\n", result.Scenario, result.GeneratedFor)
			for _, d := range result.Days {
				fmt.Printf("%s  %12s  %s\n", d.Date, d.ClosingBalance, d.Status)
			}
			fmt.Printf("Negative days: %d, Low days: %d\n", result.NegativeDays, result.LowDays)
			return nil
		},
	}

	cmd.Flags().StringVar(&scenario, "scenario", "REALISTIC", "Scenario: OPTIMISTIC, REALISTIC or PESSIMISTIC")
	cmd.Flags().IntVar(&days, "days", 30, "Projection horizon in days")
	cmd.Flags().StringVar(&minimum, "minimum", "", "Minimum required balance")

	return cmd
}

func apiGet(path string, out any) error {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return decodeResponse(resp, out)
}

func apiPost(path string, out any) error {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+path, "application/json", nil)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return decodeResponse(resp, out)
}

func decodeResponse(resp *http.Response, out any) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("request failed (status %d): %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("failed to render: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
