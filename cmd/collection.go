package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vedsharma/resterx/internal/collection"
	"github.com/vedsharma/resterx/internal/format"
	"github.com/vedsharma/resterx/internal/model"
	"github.com/vedsharma/resterx/internal/pipeline"
)

var (
	collectionDescription string
	exportOutput          string
)

func init() {
	collectionCmd := &cobra.Command{
		Use:     "collection",
		Aliases: []string{"col"},
		Short:   "Manage request collections",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all collections",
		Run:   runCollectionList,
	}

	createCmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new collection",
		Args:  cobra.ExactArgs(1),
		Run:   runCollectionCreate,
	}
	createCmd.Flags().StringVar(&collectionDescription, "description", "", "Collection description")

	showCmd := &cobra.Command{
		Use:   "show <name or id>",
		Short: "Show requests in a collection",
		Args:  cobra.ExactArgs(1),
		Run:   runCollectionShow,
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <name or id>",
		Short: "Delete a collection",
		Args:  cobra.ExactArgs(1),
		Run:   runCollectionDelete,
	}

	saveCmd := &cobra.Command{
		Use:     "save <collection> <name> <method> <url>",
		Aliases: []string{"add"},
		Short:   "Save a request to a collection",
		Long: `Save a request to a collection.

Saving under an existing name adds a second entry; saved requests are never
updated in place. Only the credentials of the selected --auth kind are kept.

Example:
  resterx collection save my-api "Get Users" GET '{{base}}/users' --auth bearer --token '{{token}}'`,
		Args: cobra.ExactArgs(4),
		Run:  runCollectionSave,
	}
	addRequestFlags(saveCmd)

	exportCmd := &cobra.Command{
		Use:   "export <name or id>",
		Short: "Export a collection as a Postman v2.1 file",
		Args:  cobra.ExactArgs(1),
		Run:   runCollectionExport,
	}
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to this file instead of stdout")

	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a Postman v2.1 collection file ('-' reads stdin)",
		Args:  cobra.ExactArgs(1),
		Run:   runCollectionImport,
	}

	runCmd := &cobra.Command{
		Use:   "run <name or id>",
		Short: "Run all requests in a collection",
		Args:  cobra.ExactArgs(1),
		Run:   runCollectionRun,
	}
	runCmd.Flags().BoolVar(&noHistory, "no-history", false, "Don't save to history")

	collectionCmd.AddCommand(listCmd, createCmd, showCmd, deleteCmd, saveCmd, exportCmd, importCmd, runCmd)
	rootCmd.AddCommand(collectionCmd)
}

func runCollectionList(cmd *cobra.Command, args []string) {
	a := mustApp("Failed to load collections")
	defer a.Close()

	collections, err := a.collections.List()
	if err != nil {
		fail("Failed to load collections", err)
	}

	format.PrintCollectionList(collections)
}

func runCollectionCreate(cmd *cobra.Command, args []string) {
	a := mustApp("Failed to create collection")
	defer a.Close()

	col, err := a.collections.CreateCollection(args[0], collectionDescription)
	if err != nil {
		fail("Failed to create collection", err)
	}

	format.PrintSuccess(fmt.Sprintf("Collection '%s' created (%s)", col.Name, col.ID))
}

func runCollectionShow(cmd *cobra.Command, args []string) {
	a := mustApp("Failed to load collection")
	defer a.Close()

	format.PrintCollectionRequests(mustCollection(a, args[0]))
}

func runCollectionDelete(cmd *cobra.Command, args []string) {
	a := mustApp("Failed to delete collection")
	defer a.Close()

	if err := a.collections.DeleteCollection(args[0]); err != nil {
		fail("Failed to delete collection", err)
	}

	format.PrintSuccess(fmt.Sprintf("Collection '%s' deleted", args[0]))
}

func runCollectionSave(cmd *cobra.Command, args []string) {
	collectionRef, name, rawMethod, url := args[0], args[1], args[2], args[3]

	method, ok := model.ParseMethod(rawMethod)
	if !ok {
		format.PrintError(fmt.Sprintf("Unsupported method %q", rawMethod))
		exit(1)
	}

	draft, err := buildDraft(method, url)
	if err != nil {
		fail("Invalid request", err)
	}

	a := mustApp("Failed to save request")
	defer a.Close()

	saveDraft(a, collectionRef, name, draft)
}

func runCollectionExport(cmd *cobra.Command, args []string) {
	a := mustApp("Failed to export collection")
	defer a.Close()

	doc, err := a.collections.ExportCollection(args[0])
	if err != nil {
		fail("Failed to export collection", err)
	}

	if exportOutput == "" {
		fmt.Fprintln(cmd.OutOrStdout(), string(doc))
		return
	}
	if err := os.WriteFile(exportOutput, doc, 0600); err != nil {
		fail("Failed to write export", err)
	}
	format.PrintSuccess(fmt.Sprintf("Exported '%s' to %s", args[0], exportOutput))
}

func runCollectionImport(cmd *cobra.Command, args []string) {
	var (
		doc []byte
		err error
	)
	if args[0] == "-" {
		doc, err = io.ReadAll(cmd.InOrStdin())
	} else {
		doc, err = os.ReadFile(args[0])
	}
	if err != nil {
		fail("Failed to read collection file", err)
	}

	a := mustApp("Failed to import collection")
	defer a.Close()

	col, err := a.collections.ImportCollection(doc)
	if errors.Is(err, model.ErrFormat) {
		fail("Import aborted", err)
	}
	if err != nil {
		fail("Failed to import collection", err)
	}

	format.PrintSuccess(fmt.Sprintf("Imported collection '%s' with %d requests (%s)", col.Name, len(col.Requests), col.ID))
}

func runCollectionRun(cmd *cobra.Command, args []string) {
	verbose, _ := cmd.Flags().GetBool("verbose")

	a := mustApp("Failed to load collection")
	defer a.Close()

	col := mustCollection(a, args[0])
	if len(col.Requests) == 0 {
		format.PrintError(fmt.Sprintf("Collection '%s' is empty", col.Name))
		exit(1)
	}

	fmt.Printf("Running %d requests from collection '%s'\n\n", len(col.Requests), col.Name)

	failed := 0
	for i, saved := range col.Requests {
		label := saved.Name
		if label == "" {
			label = fmt.Sprintf("%s %s", saved.Method, saved.URL)
		}
		fmt.Printf("[%d/%d] %s\n", i+1, len(col.Requests), label)

		result, err := a.sender.Send(cmd.Context(), collection.DraftFromSaved(saved), pipeline.SendOptions{NoHistory: noHistory})
		if err != nil && result.Request.URL == "" {
			format.PrintError(fmt.Sprintf("Request failed: %v", err))
			failed++
			continue
		}
		if err != nil {
			format.PrintWarning(fmt.Sprintf("Request sent but not recorded: %v", err))
		}

		format.PrintResponse(result.Response, verbose)
		fmt.Println()
		if result.Response.Error || result.Response.StatusCode >= 400 {
			failed++
		}
	}

	if failed > 0 {
		format.PrintError(fmt.Sprintf("%d of %d requests in '%s' failed", failed, len(col.Requests), col.Name))
		exit(1)
	}
	format.PrintSuccess(fmt.Sprintf("Completed running collection '%s'", col.Name))
}

func mustCollection(a *app, ref string) model.Collection {
	col, err := a.collections.Get(ref)
	if err != nil {
		fail("Failed to load collection", err)
	}
	if col == nil {
		format.PrintError(fmt.Sprintf("Collection '%s' not found", strings.TrimSpace(ref)))
		exit(1)
	}
	return *col
}
