package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mohammad-safakhou/scout/config"
	"github.com/mohammad-safakhou/scout/internal/agent/core"
	"github.com/mohammad-safakhou/scout/internal/agent/telemetry"
)

func runCMD() *cobra.Command {
	var cfgPath string
	var run = &cobra.Command{
		Use:   "run [task]",
		Short: "Run the plan/execute/verify pipeline for a single task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(cfgPath)
			if err != nil {
				return err
			}

			telem := telemetry.NewTelemetry(cfg.Telemetry)
			orch, err := core.NewOrchestrator(cfg, log.New(log.Writer(), "[SCOUT] ", log.LstdFlags), telem)
			if err != nil {
				return err
			}

			task := strings.Join(args, " ")
			result, err := orch.ProcessTask(context.Background(), task)
			if err != nil {
				return err
			}

			renderRun(result)
			return nil
		},
	}
	run.Flags().StringVarP(&cfgPath, "config", "c", "", "config file (default is ./scout_config.json)")

	return run
}

func renderRun(result core.RunResult) {
	fmt.Printf("\n=== PLAN (%d steps) ===\n", len(result.Plan.Steps))
	for _, step := range result.Plan.Steps {
		fmt.Printf("%d. %s [%s]\n", step.StepNumber, step.Action, step.Tool)
		if step.Reasoning != "" {
			fmt.Printf("   reason: %s\n", step.Reasoning)
		}
	}
	fmt.Printf("Expected outcome: %s\n", result.Plan.ExpectedOutcome)

	fmt.Printf("\n=== EXECUTION (%s) ===\n", result.Execution.OverallStatus)
	for _, sr := range result.Execution.StepResults {
		if sr.Status == core.StepSuccess {
			fmt.Printf("step %d: ok (%s)\n", sr.StepNumber, sr.ToolUsed)
		} else {
			fmt.Printf("step %d: FAILED (%s): %s\n", sr.StepNumber, sr.ToolUsed, sr.ErrorMessage)
		}
	}

	v := result.Verification
	fmt.Printf("\n=== VERIFICATION ===\n")
	fmt.Printf("Complete: %v | Confidence: %.2f\n", v.IsComplete, v.ConfidenceScore)
	for _, issue := range v.Issues {
		fmt.Printf("issue: %s\n", issue)
	}

	fmt.Printf("\n=== SUMMARY ===\n%s\n", v.Summary)

	if len(v.Data) > 0 {
		if data, err := json.MarshalIndent(v.Data, "", "  "); err == nil {
			fmt.Printf("\n=== DATA ===\n%s\n", data)
		}
	}
}
