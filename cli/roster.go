package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"attendify/models"

	"github.com/spf13/cobra"
)

// NewRosterCommand groups the member directory commands.
func NewRosterCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Manage the member directory",
	}
	cmd.AddCommand(newRosterImportCommand(rootOpts))
	cmd.AddCommand(newRosterListCommand(rootOpts))
	return cmd
}

func newRosterImportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Replace the directory with a CSV roster",
		Long:  "Replace the whole member directory with a CSV file carrying Membership Number, Full Name and Group columns (Email and Phone optional).",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open roster: %w", err)
			}
			defer f.Close()

			app, err := NewApp(cmd.Context(), rootOpts.Config, rootOpts.Logger)
			if err != nil {
				return err
			}
			defer app.Close(cmd.Context())

			n, err := app.Members.ImportCSV(cmd.Context(), f)
			if err != nil {
				return err
			}
			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), map[string]int{"imported": n})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d members\n", n)
			return nil
		},
	}
}

func newRosterListCommand(rootOpts *RootOptions) *cobra.Command {
	var group string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List members, optionally of one group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(cmd.Context(), rootOpts.Config, rootOpts.Logger)
			if err != nil {
				return err
			}
			defer app.Close(cmd.Context())

			var all []models.Member
			if group != "" {
				all, err = app.Members.ListByGroup(cmd.Context(), group)
			} else {
				all, err = app.Members.ListAll(cmd.Context())
			}
			if err != nil {
				return err
			}

			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), all)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NUMBER\tNAME\tGROUP\tEMAIL\tPHONE")
			for _, m := range all {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", m.MembershipNumber, m.FullName, m.Group, m.Email, m.Phone)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&group, "group", "", "only list this group")
	return cmd
}
