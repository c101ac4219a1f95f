// Copyright Align Security Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/align-sec/arxiv-mcp/internal/client"
	"github.com/align-sec/arxiv-mcp/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent searches from the history database",
	Long: `History lists recent searches recorded by the search subcommand. Use
--results with a search id to re-display the ranked papers that search
returned.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "number of recent searches to show")
	historyCmd.Flags().Int64("results", 0, "show the ranked papers for this search id")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	st, err := store.Open(cfg.Store.DataDir)
	if err != nil {
		return err
	}
	defer st.Close()

	if searchID, _ := cmd.Flags().GetInt64("results"); searchID != 0 {
		papers, err := st.Results(cmd.Context(), searchID)
		if err != nil {
			return err
		}
		client.FormatTable(client.Output{Papers: papers}, os.Stdout)
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	records, err := st.Recent(cmd.Context(), limit)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Println("No search history.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-6s  %-19s  %-50s  %-7s\n", "ID", "When", "Query", "Results")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))
	for _, r := range records {
		query := r.QueryText
		if len(query) > 50 {
			query = query[:47] + "..."
		}
		when := ""
		if !r.CreatedAt.IsZero() {
			when = r.CreatedAt.Local().Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(os.Stdout, "%-6d  %-19s  %-50s  %-7d\n", r.ID, when, query, r.ResultCount)
	}
	return nil
}
