package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var permissionsCmd = &cobra.Command{
	Use:   "permissions",
	Short: "Show what the acting user may see",
	Args:  cobra.NoArgs,
	RunE:  withRuntime(runPermissions),
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or clear the acting user's recent searches",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent searches, most recent first",
	Args:  cobra.NoArgs,
	RunE:  withRuntime(runHistoryList),
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget recent searches",
	Args:  cobra.NoArgs,
	RunE:  withRuntime(runHistoryClear),
}

func init() {
	historyCmd.AddCommand(historyListCmd, historyClearCmd)
	rootCmd.AddCommand(permissionsCmd, historyCmd)
}

func runPermissions(cmd *cobra.Command, rt *runtime, _ []string) error {
	check, err := rt.backend.Permissions(cmd.Context(), rt.session)
	if err != nil {
		return friendly("permission check failed", err)
	}

	out := cmd.OutOrStdout()
	categories := make([]string, len(check.AllowedCategories))
	for i, c := range check.AllowedCategories {
		categories[i] = string(c)
	}
	fmt.Fprintf(out, "%s %s (%s)\n", heading.Sprint("User:"), rt.session.User.Name, check.UserID)
	fmt.Fprintf(out, "%s %s, level %d\n", heading.Sprint("Role:"), check.Role, check.Level)
	fmt.Fprintf(out, "%s %s\n", heading.Sprint("Categories:"), strings.Join(categories, ", "))
	if check.RestrictedContent {
		warn.Fprintln(out, "Some content is restricted for this role.")
	} else {
		ok.Fprintln(out, "No content restrictions.")
	}
	return nil
}

func runHistoryList(cmd *cobra.Command, rt *runtime, _ []string) error {
	entries, err := rt.backend.History(cmd.Context(), rt.session.User.ID)
	if err != nil {
		return friendly("could not load history", err)
	}
	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		faint.Fprintln(out, "No recent searches.")
		return nil
	}
	for i, q := range entries {
		fmt.Fprintf(out, "%s %s\n", faint.Sprintf("%d.", i+1), q)
	}
	return nil
}

func runHistoryClear(cmd *cobra.Command, rt *runtime, _ []string) error {
	if err := rt.backend.ClearHistory(cmd.Context(), rt.session.User.ID); err != nil {
		return friendly("could not clear history", err)
	}
	ok.Fprintln(cmd.OutOrStdout(), "Search history cleared.")
	return nil
}
