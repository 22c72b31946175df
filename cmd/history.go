package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vedsharma/resterx/internal/format"
)

func init() {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "View request history",
		Long: `View request history, newest first.

Every send attempt is recorded, including failed ones. Only the method, URL,
status and timing are kept; headers and bodies are never written to history.
At most 100 entries are retained.`,
		Run: runHistoryList,
	}

	historyCmd.Flags().IntP("limit", "n", 10, "Number of requests to show")

	showCmd := &cobra.Command{
		Use:   "show <id or index>",
		Short: "Show details of a history entry",
		Args:  cobra.ExactArgs(1),
		Run:   runHistoryShow,
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear all history",
		Run:   runHistoryClear,
	}

	historyCmd.AddCommand(showCmd, clearCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, args []string) {
	a := mustApp("Failed to load history")
	defer a.Close()

	entries, err := a.history.Load()
	if err != nil {
		fail("Failed to load history", err)
	}

	limit, _ := cmd.Flags().GetInt("limit")
	format.PrintHistoryList(entries, limit)
}

func runHistoryShow(cmd *cobra.Command, args []string) {
	a := mustApp("Failed to load history")
	defer a.Close()

	entry, err := a.history.Find(args[0])
	if err != nil {
		fail("Failed to load history", err)
	}
	if entry == nil {
		format.PrintError(fmt.Sprintf("Request not found: %s", args[0]))
		exit(1)
	}

	format.PrintHistoryEntry(*entry)
}

func runHistoryClear(cmd *cobra.Command, args []string) {
	a := mustApp("Failed to clear history")
	defer a.Close()

	if err := a.history.Clear(); err != nil {
		fail("Failed to clear history", err)
	}

	format.PrintSuccess("History cleared")
}
