// Copyright Align Security Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/align-sec/arxiv-mcp/internal/arxiv"
	"github.com/align-sec/arxiv-mcp/internal/client"
	"github.com/align-sec/arxiv-mcp/internal/compile"
	"github.com/align-sec/arxiv-mcp/internal/mcp"
	"github.com/align-sec/arxiv-mcp/internal/secrets"
	"github.com/align-sec/arxiv-mcp/internal/store"
	"github.com/align-sec/arxiv-mcp/internal/tool"
	"github.com/align-sec/arxiv-mcp/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [request]",
	Short: "Search arXiv from a natural-language request",
	Long: `Search compiles a natural-language request into structured search terms
with a completion model, invokes the find_papers tool, and prints the
candidates ranked by lexical relevance to the compiled terms.

The request is the remaining command line, e.g.:

  arxiv-mcp search find me recent papers about quantum error correction`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().String("save", "", "save the search and results to a YAML query file")
	searchCmd.Flags().String("transport", "", "tool transport: inproc or stdio")
	searchCmd.Flags().String("server-cmd", "", "command line that launches the tool server (stdio transport)")
	searchCmd.Flags().Int("max-results", 0, "cap on displayed results (default: what the compiled query asks for)")
	searchCmd.Flags().Bool("no-history", false, "do not record this search in the history database")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if cfg.Compiler.APIKey == "" {
		return fmt.Errorf("no Anthropic API key: set %s or create .secrets/%s",
			secrets.AnthropicKeyEnv, secrets.AnthropicKeyFile)
	}

	transport, err := transportFromFlags(cmd, cfg)
	if err != nil {
		return err
	}

	c := &client.Client{
		Compiler:  compile.New(cfg.Compiler, nil),
		Transport: transport,
		Log:       os.Stderr,
	}

	noHistory, _ := cmd.Flags().GetBool("no-history")
	if !noHistory && !cfg.Store.Disabled {
		st, err := store.Open(cfg.Store.DataDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: opening history database: %v\n", err)
		} else {
			defer st.Close()
			c.History = st
		}
	}

	out, err := c.Search(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}

	if savePath, _ := cmd.Flags().GetString("save"); savePath != "" {
		if err := client.WriteQueryFile(savePath, out); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved query file: %s\n", savePath)
	}

	display := out
	limit, _ := cmd.Flags().GetInt("max-results")
	if limit == 0 {
		limit = out.Parsed.MaxResults
	}
	display.Papers = client.Truncate(out.Papers, limit)

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return client.FormatJSON(display, os.Stdout)
	}
	client.FormatTable(display, os.Stdout)
	return nil
}

// transportFromFlags builds the tool transport, with flags overriding the
// configured mode.
func transportFromFlags(cmd *cobra.Command, cfg types.Config) (mcp.Transport, error) {
	mode := cfg.Transport.Mode
	if flagMode, _ := cmd.Flags().GetString("transport"); flagMode != "" {
		mode = types.TransportMode(flagMode)
	}

	serverCmd := cfg.Transport.ServerCommand
	if flagCmd, _ := cmd.Flags().GetString("server-cmd"); flagCmd != "" {
		serverCmd = strings.Fields(flagCmd)
	}

	switch mode {
	case types.TransportStdio:
		if len(serverCmd) == 0 {
			// Spawn this binary's own serve subcommand.
			exe, err := os.Executable()
			if err != nil {
				return nil, fmt.Errorf("resolving server command: %w", err)
			}
			serverCmd = []string{exe, "serve"}
		}
		return &mcp.StdioTransport{
			Command:       serverCmd,
			InvokeTimeout: cfg.Transport.InvokeTimeout,
			Log:           os.Stderr,
		}, nil
	case types.TransportInproc, "":
		reg := tool.NewRegistry()
		if err := reg.Register(arxiv.New(cfg.HTTP).Tool()); err != nil {
			return nil, err
		}
		return &mcp.InprocTransport{
			Registry:      reg,
			InvokeTimeout: cfg.Transport.InvokeTimeout,
		}, nil
	default:
		return nil, fmt.Errorf("unknown transport %q (want inproc or stdio)", mode)
	}
}
