package core

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/mohammad-safakhou/scout/config"
	"github.com/mohammad-safakhou/scout/internal/agent/telemetry"
	"github.com/mohammad-safakhou/scout/provider"
)

// Executor runs an execution plan one step at a time, in list order. A step
// failure never aborts the remaining steps: every step resolves to exactly
// one StepResult and the overall status is derived from the success count.
type Executor struct {
	config    *config.Config
	llm       provider.Provider
	github    RepositorySearcher
	news      NewsSource
	telemetry *telemetry.Telemetry
	logger    *log.Logger
}

// NewExecutor creates a new executor instance
func NewExecutor(cfg *config.Config, llm provider.Provider, github RepositorySearcher, news NewsSource, telemetry *telemetry.Telemetry) *Executor {
	return &Executor{
		config:    cfg,
		llm:       llm,
		github:    github,
		news:      news,
		telemetry: telemetry,
		logger:    log.New(log.Writer(), "[EXECUTOR] ", log.LstdFlags),
	}
}

// ExecutePlan executes every step of the plan sequentially and aggregates
// the outcomes. An empty plan yields overall failure with no step results.
func (e *Executor) ExecutePlan(ctx context.Context, plan ExecutionPlan) ExecutionResult {
	stepResults := make([]StepResult, 0, len(plan.Steps))
	for _, step := range plan.Steps {
		result := e.executeStep(ctx, step)
		e.telemetry.RecordStep(string(ResolveToolKind(step.Tool)), string(result.Status))
		stepResults = append(stepResults, result)
	}

	return ExecutionResult{
		PlanDescription: plan.TaskDescription,
		StepResults:     stepResults,
		OverallStatus:   aggregateStatus(stepResults),
	}
}

// aggregateStatus derives the overall status from per-step outcomes.
// Zero steps is defined as failure so the empty plan never reads as success.
func aggregateStatus(results []StepResult) OverallStatus {
	successCount := 0
	for _, r := range results {
		if r.Status == StepSuccess {
			successCount++
		}
	}
	switch {
	case len(results) > 0 && successCount == len(results):
		return StatusSuccess
	case successCount > 0:
		return StatusPartialFailure
	default:
		return StatusFailure
	}
}

// executeStep resolves the step's tool once and dispatches it. Errors from
// the language model are caught here and converted into an error result;
// tool adapters self-report failures as data and never error out.
func (e *Executor) executeStep(ctx context.Context, step PlanStep) StepResult {
	var (
		data map[string]interface{}
		err  error
	)

	switch ResolveToolKind(step.Tool) {
	case ToolRepositorySearch:
		data = e.callGitHub(ctx, step)
	case ToolNewsSearch:
		data = e.callNews(ctx, step)
	case ToolLanguageModel:
		data, err = e.callLLM(ctx, step)
	default:
		err = fmt.Errorf("unknown tool: %s", step.Tool)
	}

	if err != nil {
		return StepResult{
			StepNumber:   step.StepNumber,
			Action:       step.Action,
			ToolUsed:     step.Tool,
			Status:       StepError,
			Data:         map[string]interface{}{},
			ErrorMessage: err.Error(),
		}
	}

	return StepResult{
		StepNumber: step.StepNumber,
		Action:     step.Action,
		ToolUsed:   step.Tool,
		Status:     StepSuccess,
		Data:       data,
	}
}

// callGitHub picks the adapter method from the step's action keyword
func (e *Executor) callGitHub(ctx context.Context, step PlanStep) map[string]interface{} {
	action := strings.ToLower(step.Action)
	e.telemetry.RecordToolRequest("github")

	switch {
	case strings.Contains(action, "trending"):
		language := stringParam(step.Parameters, "language", "python")
		limit := intParam(step.Parameters, "limit", 5)
		return map[string]interface{}{"repos": e.github.TrendingRepositories(ctx, language, limit)}
	case strings.Contains(action, "detail"):
		owner := stringParam(step.Parameters, "owner", "")
		repo := stringParam(step.Parameters, "repo", "")
		return map[string]interface{}{"repo": e.github.RepoDetails(ctx, owner, repo)}
	case strings.Contains(action, "search"):
		query := stringParam(step.Parameters, "query", "language:python")
		sort := stringParam(step.Parameters, "sort", "stars")
		limit := intParam(step.Parameters, "limit", 5)
		return map[string]interface{}{"repos": e.github.SearchRepositories(ctx, query, sort, limit)}
	default:
		return map[string]interface{}{"repos": e.github.SearchRepositories(ctx, "language:python", "stars", 5)}
	}
}

// callNews picks the adapter method from the step's action keyword. An empty
// or whitespace-only query is replaced with a default so a degenerate
// request never reaches the news API.
func (e *Executor) callNews(ctx context.Context, step PlanStep) map[string]interface{} {
	action := strings.ToLower(step.Action)
	e.telemetry.RecordToolRequest("news")

	if strings.Contains(action, "headline") {
		category := stringParam(step.Parameters, "category", "technology")
		country := stringParam(step.Parameters, "country", "us")
		limit := intParam(step.Parameters, "limit", 5)
		return map[string]interface{}{"articles": e.news.TopHeadlines(ctx, category, country, limit)}
	}

	query := stringParam(step.Parameters, "query", "technology")
	if strings.TrimSpace(query) == "" {
		query = "technology"
	}
	limit := intParam(step.Parameters, "limit", 5)
	return map[string]interface{}{"articles": e.news.Everything(ctx, query, limit)}
}

// callLLM runs a free-text sub-task; LLM failures propagate to the caller
// and become per-step errors.
func (e *Executor) callLLM(ctx context.Context, step PlanStep) (map[string]interface{}, error) {
	prompt := stringParam(step.Parameters, "prompt", "Summarize the data")
	e.telemetry.RecordLLMRequest()
	response, err := e.llm.GenerateText(ctx, prompt, "")
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"summary": response}, nil
}

// stringParam pulls a string out of a permissive parameter bag
func stringParam(params map[string]interface{}, key, def string) string {
	if v, ok := params[key].(string); ok && v != "" {
		return v
	}
	return def
}

// intParam pulls an integer out of a permissive parameter bag. JSON numbers
// decode as float64, so both forms are accepted.
func intParam(params map[string]interface{}, key string, def int) int {
	switch v := params[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return def
	}
}
