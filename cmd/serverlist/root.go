// ABOUTME: Root cobra command of the serverlist CLI
// ABOUTME: Holds the global flags and builds the API client for subcommands

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"serverlist-api/client"
	"serverlist-api/infrastructure/logger/structured"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serverlist",
		Short: "Browse and post servers on a Serverlist instance",
		Long: `serverlist is a command line client for the Serverlist API.
It lists, votes, posts and edits servers.

The API address comes from --url or the SERVERLIST_URL environment variable.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("url", envOrDefault("SERVERLIST_URL", client.DefaultBaseURL), "Base URL of the Serverlist API")
	cmd.PersistentFlags().Duration("timeout", 30*time.Second, "Request timeout")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewListCmd())
	cmd.AddCommand(NewTopCmd())
	cmd.AddCommand(NewTagsCmd())
	cmd.AddCommand(NewVoteCmd())
	cmd.AddCommand(NewSubmitCmd())
	cmd.AddCommand(NewEditCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newClient builds an API client from the global flags
func newClient(cmd *cobra.Command) (*client.Client, error) {
	baseURL, err := cmd.Flags().GetString("url")
	if err != nil {
		return nil, err
	}
	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return nil, err
	}

	level := "warn"
	if verbose {
		level = "debug"
	}
	logger := structured.New(structured.Options{
		Level:  level,
		Format: "text",
		Output: cmd.ErrOrStderr(),
	})

	return client.NewClient(
		client.WithBaseURL(baseURL),
		client.WithTimeout(timeout),
		client.WithLogger(logger),
	)
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
