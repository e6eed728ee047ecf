package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/remedy/internal/cleanup"
	"github.com/Iron-Ham/remedy/internal/errors"
	"github.com/Iron-Ham/remedy/internal/report"
)

func newValidateCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "validate <plan>",
		Short: "Check a saved plan for structural problems",
		Long: `Check a plan written by 'remedy plan --format json' (or yaml) for
duplicate or dangling task ids, dependency cycles, tasks placed in the
wrong phase and an inconsistent risk assessment.

Exits with status 1 when the plan has errors. Warnings alone do not fail.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := readPlan(args[0])
			if err != nil {
				return err
			}

			result := cleanup.ValidatePlan(plan)
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(result); err != nil {
					return fmt.Errorf("failed to encode result: %w", err)
				}
			} else if err := report.RenderValidation(out, result); err != nil {
				return err
			}

			if !result.IsValid {
				return errSilent
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

// readPlan loads a plan file, choosing YAML or JSON by extension.
func readPlan(path string) (*cleanup.CleanupPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("plan", path).WithCause(err)
		}
		return nil, errors.NewInputError("failed to read plan", err).WithPath(path)
	}

	var plan cleanup.CleanupPlan
	format := "json"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = "yaml"
		err = yaml.Unmarshal(data, &plan)
	default:
		err = json.Unmarshal(data, &plan)
	}
	if err != nil {
		return nil, errors.NewInputError("failed to decode plan", err).WithPath(path).WithFormat(format)
	}
	return &plan, nil
}
