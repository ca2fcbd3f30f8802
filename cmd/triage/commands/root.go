// ABOUTME: Root command for the triage CLI with global flags
// ABOUTME: Wires the run, validate, mcp, and version subcommands
package commands

import (
	"github.com/spf13/cobra"
)

var quiet bool

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "triage",
		Short: "Symptom triage engine for rural health workers",
		Long: `Triage engine for rural primary care.

Collects a patient description, asks the clarifying questions the
description leaves open, and routes the case to a primary-care plan,
a specialist panel, or an emergency referral.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress progress output")

	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewValidateCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
