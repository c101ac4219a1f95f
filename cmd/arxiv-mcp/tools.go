// Copyright Align Security Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools the configured transport offers",
	Long: `Tools connects through the configured transport, asks the endpoint which
tools it offers, and prints their names and descriptions. Useful for
checking that a stdio server command is wired correctly.`,
	RunE: runTools,
}

func init() {
	toolsCmd.Flags().String("transport", "", "tool transport: inproc or stdio")
	toolsCmd.Flags().String("server-cmd", "", "command line that launches the tool server (stdio transport)")

	rootCmd.AddCommand(toolsCmd)
}

func runTools(cmd *cobra.Command, args []string) error {
	transport, err := transportFromFlags(cmd, loadConfig())
	if err != nil {
		return err
	}

	session, err := transport.Connect(cmd.Context())
	if err != nil {
		return err
	}
	defer session.Close()

	tools, err := session.ListTools(cmd.Context())
	if err != nil {
		return err
	}

	if len(tools) == 0 {
		fmt.Println("No tools offered.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-20s  %s\n", "Name", "Description")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 70))
	for _, t := range tools {
		fmt.Fprintf(os.Stdout, "%-20s  %s\n", t.Name, t.Description)
	}
	return nil
}
