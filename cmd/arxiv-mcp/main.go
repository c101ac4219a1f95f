// Copyright Align Security Inc., 2026. All rights reserved.

// Package main is the entry point for the arxiv-mcp CLI.
// The same binary is both sides of the wire: `search` runs the client
// pipeline, `serve` exposes the find_papers tool over stdio.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/align-sec/arxiv-mcp/internal/secrets"
	"github.com/align-sec/arxiv-mcp/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the arxiv-mcp CLI.
var rootCmd = &cobra.Command{
	Use:   "arxiv-mcp",
	Short: "Natural-language arXiv search over a tool-invocation protocol",
	Long: `arxiv-mcp turns a natural-language request for papers into ranked arXiv
results. A completion model compiles the request into structured search
terms, the find_papers tool queries the arXiv API, and a lexical ranker
scores the candidates against the compiled terms.

The find_papers tool runs in-process by default, or in a separate server
process (see the serve subcommand) spoken to over stdio.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := secrets.LoadEnvFile(".env"); err != nil {
			return err
		}
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./arxiv-mcp.yaml or ~/.config/arxiv-mcp/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("arxiv-mcp")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "arxiv-mcp"))
		}
	}

	viper.SetDefault("compiler.model", "claude-sonnet-4-5")
	viper.SetDefault("compiler.timeout", 30*time.Second)
	viper.SetDefault("compiler.retry_backoff", 2*time.Second)
	viper.SetDefault("http.timeout", 30*time.Second)
	viper.SetDefault("http.user_agent", "arxiv-mcp/"+version)
	viper.SetDefault("transport.mode", string(types.TransportInproc))
	viper.SetDefault("transport.invoke_timeout", 60*time.Second)
	viper.SetDefault("store.data_dir", defaultDataDir())

	viper.SetEnvPrefix("ARXIV_MCP")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".arxiv-mcp"
	}
	return filepath.Join(home, ".local", "share", "arxiv-mcp")
}

// loadConfig assembles the effective configuration from viper.
func loadConfig() types.Config {
	return types.Config{
		HTTP: types.HTTPConfig{
			Timeout:   viper.GetDuration("http.timeout"),
			UserAgent: viper.GetString("http.user_agent"),
		},
		Compiler: types.CompilerConfig{
			Model:        viper.GetString("compiler.model"),
			APIKey:       secrets.AnthropicKey(loadedSecrets),
			Timeout:      viper.GetDuration("compiler.timeout"),
			RetryBackoff: viper.GetDuration("compiler.retry_backoff"),
		},
		Transport: types.TransportConfig{
			Mode:          types.TransportMode(viper.GetString("transport.mode")),
			ServerCommand: viper.GetStringSlice("transport.server_command"),
			InvokeTimeout: viper.GetDuration("transport.invoke_timeout"),
		},
		Store: types.StoreConfig{
			DataDir:  viper.GetString("store.data_dir"),
			Disabled: viper.GetBool("store.disabled"),
		},
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
