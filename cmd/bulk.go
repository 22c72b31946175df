package cmd

import (
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/vedsharma/resterx/internal/bulk"
	"github.com/vedsharma/resterx/internal/format"
	"github.com/vedsharma/resterx/internal/model"
)

var (
	bulkCount    int
	bulkParallel bool
	bulkDelay    time.Duration
	bulkMethod   string
)

func init() {
	bulkCmd := &cobra.Command{
		Use:   "bulk <url>",
		Short: "Send the same request many times and report timings",
		Long: `Send the same request many times and report timings.

Requests run one at a time with --delay between them, or all at once with
--parallel. Bulk requests are not added to history.

Example:
  resterx bulk '{{base}}/health' -n 50 --parallel`,
		Args: cobra.ExactArgs(1),
		Run:  runBulk,
	}
	bulkCmd.Flags().IntVarP(&bulkCount, "count", "n", 10, "Number of requests")
	bulkCmd.Flags().BoolVar(&bulkParallel, "parallel", false, "Send all requests at once")
	bulkCmd.Flags().DurationVar(&bulkDelay, "delay", 0, "Delay between sequential requests")
	bulkCmd.Flags().StringVarP(&bulkMethod, "method", "X", "GET", "HTTP method")
	addRequestFlags(bulkCmd)
	rootCmd.AddCommand(bulkCmd)
}

func runBulk(cmd *cobra.Command, args []string) {
	method, ok := model.ParseMethod(bulkMethod)
	if !ok {
		format.PrintError(fmt.Sprintf("Unsupported method %q", bulkMethod))
		exit(1)
	}

	draft, err := buildDraft(method, args[0])
	if err != nil {
		fail("Invalid request", err)
	}

	a := mustApp("Failed to run bulk test")
	defer a.Close()

	m, err := a.sender.Prepare(draft)
	if err != nil {
		fail("Failed to prepare request", err)
	}
	format.PrintMaterialized(m)

	var mu sync.Mutex
	runner := bulk.NewRunner(a.sender, logger)
	stats, err := runner.Run(cmd.Context(), m, bulk.Options{
		Count:    bulkCount,
		Parallel: bulkParallel,
		Delay:    bulkDelay,
		OnResult: func(i int, rec model.ResponseRecord) {
			mu.Lock()
			defer mu.Unlock()
			status := fmt.Sprintf("%d", rec.StatusCode)
			if rec.Error {
				status = rec.StatusText
			}
			fmt.Printf("  #%-4d %-14s %dms\n", i+1, status, rec.ResponseTimeMs)
		},
	})
	fmt.Println()
	if err != nil {
		format.PrintBulkStats(stats)
		fail("Bulk test failed", err)
	}

	format.PrintBulkStats(stats)
	if stats.Failed > 0 {
		exit(1)
	}
}
