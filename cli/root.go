package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"attendify/config"
	"attendify/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootOptions holds global flags and the state loaded before every command.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	Config *config.Config
	Logger *zap.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command of the attendify CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "attendify",
		Short:         "Attendify - group attendance ledger",
		Long:          "Keeps a member roster and a per-session attendance ledger, served over HTTP or managed from the command line.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			level := cfg.LogLevel
			if opts.Verbose {
				level = "debug"
			}
			logger, err := utils.InitializeLogger(cfg.IsProduction(), level)
			if err != nil {
				return err
			}
			opts.Config = cfg
			opts.Logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.Logger != nil {
				_ = opts.Logger.Sync()
			}
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	// Add subcommands
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewRosterCommand(opts))
	cmd.AddCommand(NewSessionCommand(opts))
	cmd.AddCommand(NewRecordsCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// writeJSON prints v indented.
func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
