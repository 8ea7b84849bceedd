// Package cli implements the lexml command-line interface.  Commands talk to
// a running API server through pkg/client.
package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/smartlex/lexml/pkg/client"
)

// rootOptions carries flags shared by every subcommand.
type rootOptions struct {
	serverURL string
	timeout   time.Duration
}

func (o *rootOptions) newClient() (*client.Client, error) {
	return client.New(o.serverURL, client.WithTimeout(o.timeout))
}

// NewRootCmd assembles the lexml command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "lexml",
		Short: "Contract risk analysis",
		Long: `lexml analyzes contract text for risky language: ambiguous terms,
weak enforceability indicators, modal verb usage, and missing standard
sections.  Results carry the research citations behind each finding.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.serverURL, "server", "http://localhost:8080",
		"base URL of the lexml API server")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second,
		"request timeout")

	root.AddCommand(
		newAnalyzeCmd(opts),
		newHistoryCmd(opts),
	)
	return root
}
