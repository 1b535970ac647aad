package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kroneus/kroneus-site/internal/config"
	"github.com/kroneus/kroneus-site/internal/scenario"
)

var (
	initDir   string
	initForce bool
)

func init() {
	initCmd.Flags().StringVar(&initDir, "dir", ".", "Directory to write kroneus.yaml and scenarios.yaml into")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing files")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config and an editable copy of the scenario catalog",
	Long: `Creates kroneus.yaml with the default settings and scenarios.yaml with the
built-in catalog. The config points catalog.path at scenarios.yaml with hot
reload enabled, so edits show up without a restart.

The mailer API key is never written; supply it via RESEND_API_KEY.`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	if err := os.MkdirAll(initDir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", initDir, err)
	}

	var created []string

	catalogPath := filepath.Join(initDir, "scenarios.yaml")
	catalogYAML, err := defaultCatalogYAML()
	if err != nil {
		return err
	}
	if wrote, err := writeIfMissing(catalogPath, catalogYAML); err != nil {
		return err
	} else if wrote {
		created = append(created, catalogPath)
	}

	cfg := config.Default()
	cfg.Catalog.Path = catalogPath
	cfg.Catalog.Watch = true
	cfg.Audit.Path = filepath.Join(initDir, "contact-audit.jsonl")

	cfgPath := filepath.Join(initDir, "kroneus.yaml")
	if initForce {
		if err := os.Remove(cfgPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", cfgPath, err)
		}
	}
	switch err := config.WriteYAML(cfgPath, cfg); {
	case err == nil:
		created = append(created, cfgPath)
	case errors.Is(err, fs.ErrExist):
	default:
		return err
	}

	var out io.Writer = os.Stdout
	if cmd != nil {
		out = cmd.OutOrStdout()
	}
	if len(created) == 0 {
		fmt.Fprintln(out, "Nothing to do: files already exist (use --force to overwrite)")
		return nil
	}
	for _, p := range created {
		fmt.Fprintf(out, "created %s\n", p)
	}
	return nil
}

func writeIfMissing(path, content string) (bool, error) {
	if !initForce {
		if _, err := os.Stat(path); err == nil {
			return false, nil
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}

func defaultCatalogYAML() (string, error) {
	data, err := yaml.Marshal(scenario.Builtin())
	if err != nil {
		return "", fmt.Errorf("marshal catalog: %w", err)
	}
	header := "# KRONEUS demo scenarios.\n" +
		"# outcome: blocked (needs stopLayer 1-5), allowed, or auth_required (needs authLevel).\n\n"
	return header + string(data), nil
}
