package core

import (
	"context"
	"strings"
	"time"

	"github.com/mohammad-safakhou/scout/tools/github"
	"github.com/mohammad-safakhou/scout/tools/newsapi"
)

// StepStatus is the outcome of dispatching a single plan step
type StepStatus string

const (
	StepSuccess StepStatus = "success"
	StepError   StepStatus = "error"
)

// OverallStatus is the aggregate outcome of running a plan
type OverallStatus string

const (
	StatusSuccess        OverallStatus = "success"
	StatusPartialFailure OverallStatus = "partial_failure"
	StatusFailure        OverallStatus = "failure"
)

// PlanStep is one unit of work inside an execution plan. The step number is
// assigned by the planner and treated as advisory: it is echoed into results
// but execution order is list order.
type PlanStep struct {
	StepNumber int                    `json:"step_number"`
	Action     string                 `json:"action"`
	Tool       string                 `json:"tool"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
	Reasoning  string                 `json:"reasoning"`
}

// ExecutionPlan is the language model's interpretation of a user task
type ExecutionPlan struct {
	TaskDescription string     `json:"task_description"`
	Steps           []PlanStep `json:"steps"`
	ExpectedOutcome string     `json:"expected_outcome"`
}

// StepResult is the outcome of dispatching one plan step. Status is error iff
// ErrorMessage is non-empty iff Data is empty.
type StepResult struct {
	StepNumber   int                    `json:"step_number"`
	Action       string                 `json:"action"`
	ToolUsed     string                 `json:"tool_used"`
	Status       StepStatus             `json:"status"`
	Data         map[string]interface{} `json:"data"`
	ErrorMessage string                 `json:"error_message,omitempty"`
}

// ExecutionResult is the full outcome of running a plan
type ExecutionResult struct {
	PlanDescription string        `json:"plan_description"`
	StepResults     []StepResult  `json:"step_results"`
	OverallStatus   OverallStatus `json:"overall_status"`
}

// VerificationResult is the final user-facing artifact
type VerificationResult struct {
	OriginalTask    string                 `json:"original_task"`
	IsComplete      bool                   `json:"is_complete"`
	Summary         string                 `json:"summary"`
	Data            map[string]interface{} `json:"data"`
	Issues          []string               `json:"issues"`
	ConfidenceScore float64                `json:"confidence_score"`
}

// RunResult bundles the artifacts of one full pipeline run
type RunResult struct {
	RunID          string             `json:"run_id"`
	Task           string             `json:"task"`
	Plan           ExecutionPlan      `json:"plan"`
	Execution      ExecutionResult    `json:"execution"`
	Verification   VerificationResult `json:"verification"`
	ProcessingTime time.Duration      `json:"processing_time"`
	CreatedAt      time.Time          `json:"created_at"`
}

// ToolKind is the closed set of dispatch targets for a plan step
type ToolKind string

const (
	ToolRepositorySearch ToolKind = "repository_search"
	ToolNewsSearch       ToolKind = "news_search"
	ToolLanguageModel    ToolKind = "language_model"
	ToolUnknown          ToolKind = "unknown"
)

// ResolveToolKind maps a free-text tool label onto a ToolKind. Matching is a
// case-insensitive substring check in fixed priority order: repository tool
// first, then news, then language model. Anything else is ToolUnknown and
// must not trigger any external call.
func ResolveToolKind(tool string) ToolKind {
	t := strings.ToLower(tool)
	switch {
	case strings.Contains(t, "github"):
		return ToolRepositorySearch
	case strings.Contains(t, "news"):
		return ToolNewsSearch
	case strings.Contains(t, "llm"):
		return ToolLanguageModel
	default:
		return ToolUnknown
	}
}

// RepositorySearcher is the contract the executor needs from the GitHub
// adapter. Transport failures surface as in-band error records, never errors.
type RepositorySearcher interface {
	SearchRepositories(ctx context.Context, query, sort string, limit int) []github.Repo
	TrendingRepositories(ctx context.Context, language string, limit int) []github.Repo
	RepoDetails(ctx context.Context, owner, repo string) github.RepoDetails
}

// NewsSource is the contract the executor needs from the NewsAPI adapter.
type NewsSource interface {
	Everything(ctx context.Context, query string, limit int) []newsapi.Article
	TopHeadlines(ctx context.Context, category, country string, limit int) []newsapi.Article
}
