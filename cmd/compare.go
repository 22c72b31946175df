package cmd

import (
	"sync"

	"github.com/spf13/cobra"

	"github.com/vedsharma/resterx/internal/compare"
	"github.com/vedsharma/resterx/internal/format"
	"github.com/vedsharma/resterx/internal/model"
)

var compareMethod string

func init() {
	compareCmd := &cobra.Command{
		Use:   "compare <url-a> <url-b>",
		Short: "Send the same request to two URLs and diff the responses",
		Long: `Send the same request to two URLs and diff the responses.

Headers, auth and body flags apply to both requests. JSON bodies are pretty
printed with sorted keys before diffing. Neither response is added to history.

Example:
  resterx compare https://staging.example.com/users https://api.example.com/users`,
		Args: cobra.ExactArgs(2),
		Run:  runCompare,
	}
	compareCmd.Flags().StringVarP(&compareMethod, "method", "X", "GET", "HTTP method")
	addRequestFlags(compareCmd)
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) {
	method, ok := model.ParseMethod(compareMethod)
	if !ok {
		fail("Invalid request", &model.ValidationError{Field: "method", Reason: compareMethod + " is not supported"})
	}

	a := mustApp("Failed to compare responses")
	defer a.Close()

	sides := make([]compare.Side, len(args))
	var wg sync.WaitGroup
	for i, url := range args {
		draft, err := buildDraft(method, url)
		if err != nil {
			fail("Invalid request", err)
		}
		m, err := a.sender.Prepare(draft)
		if err != nil {
			fail("Failed to prepare request", err)
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			sides[i] = compare.Side{Label: m.URL, Record: a.sender.Invoke(cmd.Context(), m)}
		}()
	}
	wg.Wait()

	format.PrintComparison(compare.Compare(sides[0], sides[1]))
}
