package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kroneus/kroneus-site/internal/scenario"
)

var (
	scenariosCatalog string
	scenariosJSON    bool
)

func init() {
	rootCmd.AddCommand(scenariosCmd)
	scenariosCmd.AddCommand(scenariosListCmd)
	scenariosCmd.AddCommand(scenariosValidateCmd)
	scenariosCmd.PersistentFlags().StringVar(&scenariosCatalog, "catalog", "", "Catalog file (defaults to catalog.path, then the built-in catalog)")
	scenariosListCmd.Flags().BoolVar(&scenariosJSON, "json", false, "Output the catalog in its wire shape")
}

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "Inspect the demo scenario catalog",
}

var scenariosListCmd = &cobra.Command{
	Use:   "list",
	Short: "List scenarios grouped by industry",
	RunE:  runScenariosList,
}

var scenariosValidateCmd = &cobra.Command{
	Use:   "validate <path>",
	Short: "Validate a catalog file against the schema and catalog rules",
	Args:  cobra.ExactArgs(1),
	RunE:  runScenariosValidate,
}

// catalogPath resolves --catalog, falling back to the configured path.
func catalogPath() (string, error) {
	if scenariosCatalog != "" {
		return scenariosCatalog, nil
	}
	cfg, err := loadConfig()
	if err != nil {
		return "", err
	}
	return cfg.Catalog.Path, nil
}

func runScenariosList(cmd *cobra.Command, args []string) error {
	path, err := catalogPath()
	if err != nil {
		return err
	}
	c, err := scenario.Load(path)
	if err != nil {
		return err
	}

	if scenariosJSON {
		out, err := scenario.FormatJSON(c)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), scenario.FormatText(c))
	return nil
}

func runScenariosValidate(cmd *cobra.Command, args []string) error {
	c, err := scenario.Load(args[0])
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "OK: %d scenarios valid\n", c.Len())
	return nil
}
