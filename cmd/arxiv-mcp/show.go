// Copyright Align Security Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/align-sec/arxiv-mcp/internal/client"
)

var showCmd = &cobra.Command{
	Use:   "show <query-file>",
	Short: "Display a saved query file",
	Long: `Show re-displays a search saved with "search --save". No APIs are
queried; the file already holds the compiled query and ranked results.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	qf, err := client.ReadQueryFile(args[0])
	if err != nil {
		return err
	}

	out := qf.Output()
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return client.FormatJSON(out, os.Stdout)
	}
	client.FormatTable(out, os.Stdout)
	return nil
}
