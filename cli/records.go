package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"attendify/models"
	"attendify/services/attendance"

	"github.com/spf13/cobra"
)

// NewRecordsCommand groups the ledger commands.
func NewRecordsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Query, export and clear the attendance ledger",
	}
	cmd.AddCommand(newRecordsExportCommand(rootOpts))
	cmd.AddCommand(newRecordsClearCommand(rootOpts))
	return cmd
}

type filterFlags struct {
	from, to, group, member, status string
}

func (f filterFlags) filter() (models.RecordFilter, error) {
	out := models.RecordFilter{
		Group:    strings.TrimSpace(f.group),
		MemberID: strings.TrimSpace(f.member),
	}
	var err error
	if f.from != "" {
		if out.From, err = models.ParseDate(f.from); err != nil {
			return out, fmt.Errorf("--from: %w", err)
		}
	}
	if f.to != "" {
		if out.To, err = models.ParseDate(f.to); err != nil {
			return out, fmt.Errorf("--to: %w", err)
		}
	}
	if f.status != "" {
		if out.Status, err = models.ParseStatus(f.status); err != nil {
			return out, fmt.Errorf("--status: %w", err)
		}
	}
	return out, nil
}

func newRecordsExportCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		flags         filterFlags
		out           string
		withTimestamp bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export matching records as CSV (or JSON with --format json)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := flags.filter()
			if err != nil {
				return err
			}

			app, err := NewApp(cmd.Context(), rootOpts.Config, rootOpts.Logger)
			if err != nil {
				return err
			}
			defer app.Close(cmd.Context())

			records, err := app.Ledger.Query(cmd.Context(), filter)
			if err != nil {
				return err
			}

			write := func(w io.Writer) error {
				if rootOpts.Format == "json" {
					return writeJSON(w, records)
				}
				return attendance.WriteCSV(w, records, withTimestamp)
			}
			if out == "" {
				return write(cmd.OutOrStdout())
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", out, err)
			}
			if err := writeAndClose(f, write); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.from, "from", "", "first date, inclusive")
	cmd.Flags().StringVar(&flags.to, "to", "", "last date, inclusive")
	cmd.Flags().StringVar(&flags.group, "group", "", "only this group")
	cmd.Flags().StringVar(&flags.member, "member", "", "only this membership number")
	cmd.Flags().StringVar(&flags.status, "status", "", "only Present or Absent rows")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&withTimestamp, "timestamp", false, "include the submission timestamp column")
	return cmd
}

// writeAndClose runs write against wc and always closes it. A write error takes
// precedence over a close error.
func writeAndClose(wc io.WriteCloser, write func(io.Writer) error) error {
	werr := write(wc)
	cerr := wc.Close()
	if werr != nil {
		return werr
	}
	return cerr
}

func newRecordsClearCommand(rootOpts *RootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every attendance record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear the ledger without --yes")
			}
			app, err := NewApp(cmd.Context(), rootOpts.Config, rootOpts.Logger)
			if err != nil {
				return err
			}
			defer app.Close(cmd.Context())

			removed, err := app.Ledger.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d records\n", removed)
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm clearing the ledger")
	return cmd
}
