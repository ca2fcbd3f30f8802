// ABOUTME: Validate command checks the clinical catalog without starting anything
// ABOUTME: Exits non-zero on any schema or cross-reference violation
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ruralcare/triage-engine/internal/catalog"
	"github.com/ruralcare/triage-engine/internal/config"
)

// NewValidateCmd creates the validate command
func NewValidateCmd() *cobra.Command {
	var dataDir string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the clinical catalog",
		Long: `Load and validate the clinical catalog: symptom clusters, syndromes,
plan templates, the medicine allow-list, and guideline snippets.

Validation requires no API keys and makes no network calls.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := dataDir
			if dir == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				dir = cfg.DataDir
			}

			cat, err := catalog.Load(dir)
			if err != nil {
				return fmt.Errorf("catalog validation failed: %w", err)
			}

			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Catalog at %s is valid\n", dir)
				fmt.Fprintf(cmd.OutOrStdout(), "  Clusters:   %d\n", len(cat.Clusters))
				fmt.Fprintf(cmd.OutOrStdout(), "  Syndromes:  %d\n", len(cat.Syndromes))
				fmt.Fprintf(cmd.OutOrStdout(), "  Specialists: %d\n", len(cat.MDTRules))
				fmt.Fprintf(cmd.OutOrStdout(), "  Medicines:  %d allowed\n", len(cat.AllowedMedicines))
				fmt.Fprintf(cmd.OutOrStdout(), "  Snippets:   %d\n", len(cat.Snippets))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dataDir, "data", "", "Catalog directory (default: TRIAGE_DATA_DIR or ./data)")
	return cmd
}
