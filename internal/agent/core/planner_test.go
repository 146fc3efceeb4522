package core

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mohammad-safakhou/scout/config"
	"github.com/mohammad-safakhou/scout/internal/agent/telemetry"
)

func newTestPlanner(llm *stubLLM) *Planner {
	return NewPlanner(&config.Config{}, llm, telemetry.NewTelemetry(config.TelemetryConfig{}))
}

func TestCreatePlanDecodesStructuredResponse(t *testing.T) {
	llm := &stubLLM{structuredDoc: `{
		"task_description": "Get latest tech news and summarize it",
		"steps": [
			{"step_number": 1, "action": "Fetch tech news", "tool": "NewsTool",
			 "parameters": {"query": "technology", "limit": 5},
			 "reasoning": "Need raw articles first"},
			{"step_number": 2, "action": "Summarize articles", "tool": "LLM",
			 "parameters": {"prompt": "Summarize these articles"},
			 "reasoning": "Condense for the user"}
		],
		"expected_outcome": "A short news digest"
	}`}
	planner := newTestPlanner(llm)

	plan, err := planner.CreatePlan(context.Background(), "Get latest tech news and summarize it")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(plan.Steps))
	}
	if plan.Steps[0].Tool != "NewsTool" || plan.Steps[1].Tool != "LLM" {
		t.Fatalf("tools not decoded: %+v", plan.Steps)
	}
	if plan.ExpectedOutcome != "A short news digest" {
		t.Fatalf("expected outcome not decoded: %q", plan.ExpectedOutcome)
	}
	if got := plan.Steps[0].Parameters["limit"]; got != float64(5) {
		t.Fatalf("parameters must decode as generic JSON values, got %T", got)
	}
}

func TestCreatePlanRejectsSchemaViolations(t *testing.T) {
	// steps is required, so a bare object must fail validation
	llm := &stubLLM{structuredDoc: `{"task_description": "x"}`}
	planner := newTestPlanner(llm)

	if _, err := planner.CreatePlan(context.Background(), "x"); err == nil {
		t.Fatalf("schema-invalid plan must be rejected")
	}
}

func TestCreatePlanPropagatesModelError(t *testing.T) {
	llm := &stubLLM{structuredErr: errors.New("groq unavailable")}
	planner := newTestPlanner(llm)

	_, err := planner.CreatePlan(context.Background(), "x")
	if err == nil {
		t.Fatalf("model failure must propagate")
	}
	if !strings.Contains(err.Error(), "failed to generate plan") {
		t.Fatalf("error = %v", err)
	}
}

func TestCreatePlanPromptCarriesTaskAndCatalogue(t *testing.T) {
	llm := &stubLLM{structuredDoc: `{"task_description": "t", "steps": [
		{"step_number": 1, "action": "a", "tool": "LLM", "reasoning": "r"}
	], "expected_outcome": "o"}`}
	planner := newTestPlanner(llm)

	if _, err := planner.CreatePlan(context.Background(), "find trending go repos"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(llm.prompts[0], "find trending go repos") {
		t.Fatalf("prompt missing user task:\n%s", llm.prompts[0])
	}
	system := llm.systemMessages[0]
	for _, tool := range []string{"GitHubTool", "NewsTool", "LLM"} {
		if !strings.Contains(system, tool) {
			t.Fatalf("system message missing %s tool:\n%s", tool, system)
		}
	}
}
