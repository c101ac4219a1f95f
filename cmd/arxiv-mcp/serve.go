// Copyright Align Security Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/align-sec/arxiv-mcp/internal/arxiv"
	"github.com/align-sec/arxiv-mcp/internal/mcp"
	"github.com/align-sec/arxiv-mcp/internal/tool"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the find_papers tool over stdio",
	Long: `Serve speaks the tool-invocation protocol on stdin and stdout, exposing
the find_papers tool backed by the arXiv API. Stdout carries protocol
frames only; all logging goes to stderr.

This is the server half of the stdio transport. A client spawns it with
"arxiv-mcp search --transport stdio".`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Bool("verbose", false, "log at debug level")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger, err := serveLogger(verbose)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer logger.Sync()

	cfg := loadConfig()

	reg := tool.NewRegistry()
	if err := reg.Register(arxiv.New(cfg.HTTP).Tool()); err != nil {
		return err
	}

	srv := &mcp.Server{
		Registry: reg,
		Logger:   logger,
		Name:     "arxiv-mcp",
		Version:  version,
	}
	return srv.Serve(cmd.Context(), os.Stdin, os.Stdout)
}

// serveLogger builds a production logger writing to stderr. Stdout is
// reserved for protocol frames.
func serveLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}
