package cli

import (
	"fmt"

	"attendify/models"

	"github.com/spf13/cobra"
)

// NewSessionCommand groups the session commands.
func NewSessionCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Record attendance sessions",
	}
	cmd.AddCommand(newSessionRecordCommand(rootOpts))
	return cmd
}

func newSessionRecordCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		date    string
		group   string
		present []string
		roster  []string
	)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record (or re-record) one group's attendance for a date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := models.ParseDate(date)
			if err != nil {
				return err
			}

			app, err := NewApp(cmd.Context(), rootOpts.Config, rootOpts.Logger)
			if err != nil {
				return err
			}
			defer app.Close(cmd.Context())

			var result *models.SessionResult
			if cmd.Flags().Changed("roster") {
				result, err = app.Ledger.RecordSession(cmd.Context(), day, group, present, roster)
			} else {
				result, err = app.Ledger.RecordGroupSession(cmd.Context(), day, group, present)
			}
			if err != nil {
				return err
			}

			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %d present, %d absent, %d replaced\n",
				result.Date, result.Group, result.PresentCount, result.AbsentCount, result.ReplacedCount)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "session date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&group, "group", "", "group name")
	cmd.Flags().StringSliceVar(&present, "present", nil, "membership numbers of present members")
	cmd.Flags().StringSliceVar(&roster, "roster", nil, "full group roster (defaults to the directory roster)")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("group")
	return cmd
}
