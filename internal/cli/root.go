// Package cli implements demandctl, the operator command line for the
// persisted demand snapshot.
package cli

import (
	"fmt"
	"slices"

	"coown-backend/internal/config"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	// LoadConfig defaults to config.Load.
	LoadConfig func() (*config.Config, error)
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for demandctl.
func NewRootCommand() *cobra.Command {
	return NewRootCommandWith(&RootOptions{LoadConfig: config.Load})
}

// NewRootCommandWith builds the command tree around opts.
func NewRootCommandWith(opts *RootOptions) *cobra.Command {
	if opts.LoadConfig == nil {
		opts.LoadConfig = config.Load
	}
	cmd := &cobra.Command{
		Use:   "demandctl",
		Short: "Inspect and manage the persisted demand snapshot",
		Long: `demandctl reads the same configuration as the API server
(PERSISTENCE_BACKEND, DATABASE_URL, REDIS_URL, S3_*) and operates on the
snapshot that backend holds.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewReportCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewResetCommand(opts))

	return cmd
}
