// ABOUTME: Run command drives one triage case interactively from the terminal
// ABOUTME: Asks clarifying questions on stdin, then prints the routed care plan
package commands

import (
	"bufio"
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ruralcare/triage-engine/internal/config"
	"github.com/ruralcare/triage-engine/internal/models"
)

// NewRunCmd creates the run command
func NewRunCmd() *cobra.Command {
	var (
		age   int
		spo2  int
		pulse int
		bpSys int
		bpDia int
	)

	cmd := &cobra.Command{
		Use:   "run <patient description>",
		Short: "Triage one case interactively",
		Long: `Run a single case end to end: start from the description, answer
the clarifying questions on stdin, and print the routed plan.`,
		Args: cobra.MinimumNArgs(1),
		Example: `  # Triage a pediatric fever case
  triage run "child age 3 with fever and cough" --age 3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err != nil && !quiet {
				log.Printf("No .env file found (this is okay for production): %v", err)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			pipeline, _, err := buildPipeline(cfg)
			if err != nil {
				return err
			}

			text := strings.Join(args, " ")
			vitals := models.Vitals{Age: age, SpO2: spo2, Pulse: pulse, BPSys: bpSys, BPDia: bpDia}

			start, err := pipeline.Start(text, vitals)
			if err != nil {
				return fmt.Errorf("starting case: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Case %s opened\n", start.CaseID)

			scanner := bufio.NewScanner(cmd.InOrStdin())
			question := start.Question
			for question != nil {
				fmt.Fprintf(out, "\nQ: %s\n> ", question.Text)
				if !scanner.Scan() {
					break
				}

				resp, err := pipeline.SubmitAnswer(start.CaseID, scanner.Text())
				if err != nil {
					return fmt.Errorf("submitting answer: %w", err)
				}
				if !resp.Verdict.Valid {
					fmt.Fprintf(out, "Answer not accepted: %s\n", resp.Verdict.Reason)
					continue
				}
				question = resp.Question
				if resp.Done {
					break
				}
			}

			result, err := pipeline.Finalize(start.CaseID)
			if err != nil {
				return fmt.Errorf("finalizing case: %w", err)
			}

			fmt.Fprintf(out, "\nRoute: %s\n", result.Route)
			if len(result.Symptoms) > 0 {
				fmt.Fprintf(out, "Symptoms: %s\n", strings.Join(result.Symptoms, ", "))
			}
			if len(result.NegatedSymptoms) > 0 {
				fmt.Fprintf(out, "Ruled out: %s\n", strings.Join(result.NegatedSymptoms, ", "))
			}
			if len(result.Specialists) > 0 {
				fmt.Fprintf(out, "Specialists: %s\n", strings.Join(result.Specialists, ", "))
			}
			if result.Discussion != "" {
				fmt.Fprintf(out, "\n%s\n", result.Discussion)
			}
			fmt.Fprintf(out, "\n%s\n", result.Advice)
			return nil
		},
	}

	cmd.Flags().IntVar(&age, "age", models.DefaultAge, "Patient age in years")
	cmd.Flags().IntVar(&spo2, "spo2", models.DefaultSpO2, "Oxygen saturation percentage")
	cmd.Flags().IntVar(&pulse, "pulse", models.DefaultPulse, "Pulse rate in beats per minute")
	cmd.Flags().IntVar(&bpSys, "bp-sys", models.DefaultBPSys, "Systolic blood pressure")
	cmd.Flags().IntVar(&bpDia, "bp-dia", models.DefaultBPDia, "Diastolic blood pressure")

	return cmd
}
