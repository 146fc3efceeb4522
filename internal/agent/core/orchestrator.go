package core

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/mohammad-safakhou/scout/config"
	"github.com/mohammad-safakhou/scout/internal/agent/telemetry"
	"github.com/mohammad-safakhou/scout/provider"
	"github.com/mohammad-safakhou/scout/tools/github"
	"github.com/mohammad-safakhou/scout/tools/newsapi"
)

// Orchestrator drives the plan -> execute -> verify pipeline for one task.
// Everything is sequential and single-threaded: each stage completes before
// the next begins, and the tool adapters are constructed once and treated as
// read-only thereafter.
type Orchestrator struct {
	config    *config.Config
	logger    *log.Logger
	telemetry *telemetry.Telemetry

	planner  *Planner
	executor *Executor
	verifier *Verifier
}

// NewOrchestrator wires the provider, tool adapters, and pipeline stages
// from configuration. Missing required secrets fail here, before any task
// is accepted.
func NewOrchestrator(cfg *config.Config, logger *log.Logger, telemetry *telemetry.Telemetry) (*Orchestrator, error) {
	if logger == nil {
		logger = log.New(log.Writer(), "[ORCHESTRATOR] ", log.LstdFlags)
	}

	llm, err := provider.NewProvider(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM provider: %w", err)
	}

	githubClient := github.NewClient(cfg.Tools.GitHub)

	newsClient, err := newsapi.NewClient(cfg.Tools.NewsAPI)
	if err != nil {
		return nil, fmt.Errorf("failed to create news client: %w", err)
	}

	return &Orchestrator{
		config:    cfg,
		logger:    logger,
		telemetry: telemetry,
		planner:   NewPlanner(cfg, llm, telemetry),
		executor:  NewExecutor(cfg, llm, githubClient, newsClient, telemetry),
		verifier:  NewVerifier(llm, telemetry),
	}, nil
}

// ProcessTask runs the full pipeline over a user task. Planning and summary
// failures are fatal; step failures degrade the confidence score instead.
func (o *Orchestrator) ProcessTask(ctx context.Context, task string) (RunResult, error) {
	startTime := time.Now()
	runID := uuid.New().String()
	o.logger.Printf("[%s] processing task: %s", runID, task)

	plan, err := o.planner.CreatePlan(ctx, task)
	if err != nil {
		o.telemetry.RecordRun("plan_failed", time.Since(startTime))
		return RunResult{}, fmt.Errorf("planning failed: %w", err)
	}
	o.logger.Printf("[%s] plan ready: %d steps", runID, len(plan.Steps))

	execution := o.executor.ExecutePlan(ctx, plan)
	o.logger.Printf("[%s] execution finished: %s", runID, execution.OverallStatus)

	verification, err := o.verifier.VerifyAndFormat(ctx, task, plan, execution)
	if err != nil {
		o.telemetry.RecordRun("verify_failed", time.Since(startTime))
		return RunResult{}, fmt.Errorf("verification failed: %w", err)
	}

	processingTime := time.Since(startTime)
	o.telemetry.RecordRun(string(execution.OverallStatus), processingTime)
	o.logger.Printf("[%s] done in %v (confidence %.2f)", runID, processingTime, verification.ConfidenceScore)

	return RunResult{
		RunID:          runID,
		Task:           task,
		Plan:           plan,
		Execution:      execution,
		Verification:   verification,
		ProcessingTime: processingTime,
		CreatedAt:      startTime,
	}, nil
}
