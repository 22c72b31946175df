package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vedsharma/resterx/internal/format"
	"github.com/vedsharma/resterx/internal/storage"
)

var revealSecrets bool

func init() {
	envCmd := &cobra.Command{
		Use:     "env",
		Aliases: []string{"environment"},
		Short:   "Manage environments",
		Long: `Manage environments of {{variable}} values.

At most one environment is active. Its variables replace {{ name }}
placeholders in the URL, header names and values, auth credentials and body
of every request sent.

Example:
  resterx env create staging
  resterx env set staging base https://staging.example.com
  resterx env use staging
  resterx get '{{base}}/users'`,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List environments",
		Run:   runEnvList,
	}

	createCmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create an empty environment",
		Args:  cobra.ExactArgs(1),
		Run:   runEnvCreate,
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <name or id>",
		Short: "Delete an environment",
		Args:  cobra.ExactArgs(1),
		Run:   runEnvDelete,
	}

	setCmd := &cobra.Command{
		Use:   "set <env> <key> <value>",
		Short: "Set a variable",
		Args:  cobra.ExactArgs(3),
		Run:   runEnvSet,
	}

	unsetCmd := &cobra.Command{
		Use:   "unset <env> <key>",
		Short: "Remove a variable",
		Args:  cobra.ExactArgs(2),
		Run:   runEnvUnset,
	}

	useCmd := &cobra.Command{
		Use:   "use <name or id>",
		Short: "Activate an environment",
		Args:  cobra.ExactArgs(1),
		Run:   runEnvUse,
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Deactivate the active environment",
		Run:   runEnvClear,
	}

	showCmd := &cobra.Command{
		Use:   "show [name or id]",
		Short: "Show an environment (default: the active one)",
		Args:  cobra.MaximumNArgs(1),
		Run:   runEnvShow,
	}
	showCmd.Flags().BoolVar(&revealSecrets, "reveal", false, "Show values of secret-looking variables")

	importCmd := &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Import environments from a YAML file",
		Args:  cobra.ExactArgs(1),
		Run:   runEnvImport,
	}

	envCmd.AddCommand(listCmd, createCmd, deleteCmd, setCmd, unsetCmd, useCmd, clearCmd, showCmd, importCmd)
	rootCmd.AddCommand(envCmd)
}

func runEnvList(cmd *cobra.Command, args []string) {
	a := mustApp("Failed to load environments")
	defer a.Close()

	envs, err := a.envs.List()
	if err != nil {
		fail("Failed to load environments", err)
	}
	active, err := a.envs.Active()
	if err != nil {
		fail("Failed to load environments", err)
	}

	activeID := ""
	if active != nil {
		activeID = active.ID
	}
	format.PrintEnvironmentList(envs, activeID)
}

func runEnvCreate(cmd *cobra.Command, args []string) {
	a := mustApp("Failed to create environment")
	defer a.Close()

	env, err := a.envs.Create(args[0])
	if err != nil {
		fail("Failed to create environment", err)
	}

	format.PrintSuccess(fmt.Sprintf("Environment '%s' created", env.Name))
}

func runEnvDelete(cmd *cobra.Command, args []string) {
	a := mustApp("Failed to delete environment")
	defer a.Close()

	if err := a.envs.Delete(args[0]); err != nil {
		fail("Failed to delete environment", err)
	}

	format.PrintSuccess(fmt.Sprintf("Environment '%s' deleted", args[0]))
}

func runEnvSet(cmd *cobra.Command, args []string) {
	a := mustApp("Failed to set variable")
	defer a.Close()

	if err := a.envs.SetVariable(args[0], args[1], args[2]); err != nil {
		fail("Failed to set variable", err)
	}

	format.PrintSuccess(fmt.Sprintf("Set '%s' in '%s'", args[1], args[0]))
}

func runEnvUnset(cmd *cobra.Command, args []string) {
	a := mustApp("Failed to remove variable")
	defer a.Close()

	if err := a.envs.UnsetVariable(args[0], args[1]); err != nil {
		fail("Failed to remove variable", err)
	}

	format.PrintSuccess(fmt.Sprintf("Removed '%s' from '%s'", args[1], args[0]))
}

func runEnvUse(cmd *cobra.Command, args []string) {
	a := mustApp("Failed to activate environment")
	defer a.Close()

	env, err := a.envs.Activate(args[0])
	if err != nil {
		fail("Failed to activate environment", err)
	}

	format.PrintSuccess(fmt.Sprintf("Environment '%s' is now active", env.Name))
}

func runEnvClear(cmd *cobra.Command, args []string) {
	a := mustApp("Failed to deactivate environment")
	defer a.Close()

	if err := a.envs.Deactivate(); err != nil {
		fail("Failed to deactivate environment", err)
	}

	format.PrintSuccess("No environment is active")
}

func runEnvShow(cmd *cobra.Command, args []string) {
	a := mustApp("Failed to load environment")
	defer a.Close()

	active, err := a.envs.Active()
	if err != nil {
		fail("Failed to load environment", err)
	}

	env := active
	if len(args) == 1 {
		env, err = a.envs.Find(args[0])
		if err != nil {
			fail("Failed to load environment", err)
		}
	}
	if env == nil {
		if len(args) == 1 {
			format.PrintError(fmt.Sprintf("Environment '%s' not found", args[0]))
		} else {
			format.PrintError("No environment is active")
		}
		exit(1)
	}

	format.PrintEnvironment(*env, active != nil && active.ID == env.ID, revealSecrets)
}

func runEnvImport(cmd *cobra.Command, args []string) {
	doc, err := readLocalFile(args[0])
	if err != nil {
		fail("Failed to read environment file", err)
	}

	envs, err := storage.ParseEnvironmentYAML(doc)
	if err != nil {
		fail("Import aborted", err)
	}

	a := mustApp("Failed to import environments")
	defer a.Close()

	for _, env := range envs {
		created, err := a.envs.Import(env)
		if err != nil {
			fail(fmt.Sprintf("Failed to import '%s'", env.Name), err)
		}
		format.PrintSuccess(fmt.Sprintf("Imported environment '%s' with %d variables", created.Name, len(created.Variables)))
	}
}
