package core

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mohammad-safakhou/scout/config"
	"github.com/mohammad-safakhou/scout/internal/agent/telemetry"
	planschema "github.com/mohammad-safakhou/scout/internal/planner"
	"github.com/mohammad-safakhou/scout/provider"
)

// plannerSystemMessage enumerates the tool catalogue for the planning model.
// Tool labels are free text; the executor matches them by substring, so the
// catalogue names are chosen to contain the routing tokens.
const plannerSystemMessage = `You are a planning agent that breaks down user tasks into executable steps.

Available tools:
1. GitHubTool - Search repositories, get trending repos, fetch repo details
   Methods: search_repositories(query, sort, limit), get_trending_repos(language, limit)
   Example parameters: {"query": "python machine learning", "limit": 5}

2. NewsTool - Fetch tech news and headlines
   Methods: get_tech_news(query, limit), get_top_headlines(category, country, limit)
   Example parameters: {"query": "artificial intelligence", "limit": 5}
   IMPORTANT: Always provide a non-empty query string for news searches

3. LLM - Summarize, analyze, or format data
   Example parameters: {"prompt": "Summarize these articles"}

Your job is to:
- Analyze the user's request
- Break it into logical steps
- Select appropriate tools for each step
- Specify parameters for each tool call (ensure query strings are not empty)
- Plan a final summarization step if needed

Create a clear, executable plan with specific, non-empty parameters.`

// Planner turns a free-text user task into a structured execution plan
type Planner struct {
	config    *config.Config
	llm       provider.Provider
	telemetry *telemetry.Telemetry
	logger    *log.Logger
}

// NewPlanner creates a new planner instance
func NewPlanner(cfg *config.Config, llm provider.Provider, telemetry *telemetry.Telemetry) *Planner {
	return &Planner{
		config:    cfg,
		llm:       llm,
		telemetry: telemetry,
		logger:    log.New(log.Writer(), "[PLANNER] ", log.LstdFlags),
	}
}

// CreatePlan asks the language model for an execution plan for the task.
// The returned plan is schema-valid but otherwise unvalidated: unknown tools
// or incomplete parameters surface later as per-step dispatch failures.
func (p *Planner) CreatePlan(ctx context.Context, task string) (ExecutionPlan, error) {
	startTime := time.Now()

	target, err := planschema.PlanTarget()
	if err != nil {
		return ExecutionPlan{}, fmt.Errorf("plan schema unavailable: %w", err)
	}

	prompt := fmt.Sprintf(`User task: %s

Create a detailed execution plan with steps that will accomplish this task.
Each step should specify which tool to use and what parameters to pass.
Include a final step to summarize or format the results if needed.`, task)

	var plan ExecutionPlan
	p.telemetry.RecordLLMRequest()
	if err := p.llm.GenerateStructured(ctx, prompt, plannerSystemMessage, target, &plan); err != nil {
		return ExecutionPlan{}, fmt.Errorf("failed to generate plan: %w", err)
	}

	p.logger.Printf("planning completed in %v with %d steps", time.Since(startTime), len(plan.Steps))
	return plan, nil
}
