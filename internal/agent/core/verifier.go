package core

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/mohammad-safakhou/scout/internal/agent/telemetry"
	"github.com/mohammad-safakhou/scout/provider"
	"github.com/mohammad-safakhou/scout/tools/github"
	"github.com/mohammad-safakhou/scout/tools/newsapi"
)

const verifierSystemMessage = `You are a verification agent that creates clear, concise summaries.
Your job is to:
- Summarize the data collected from APIs
- Highlight key findings
- Mention any issues or limitations
- Keep it readable and informative`

// digestItemLimit caps how many repos/articles of each step appear in the
// summary prompt.
const digestItemLimit = 3

// Verifier validates execution results and produces the final artifact
type Verifier struct {
	llm       provider.Provider
	telemetry *telemetry.Telemetry
	logger    *log.Logger
}

// NewVerifier creates a new verifier instance
func NewVerifier(llm provider.Provider, telemetry *telemetry.Telemetry) *Verifier {
	return &Verifier{
		llm:       llm,
		telemetry: telemetry,
		logger:    log.New(log.Writer(), "[VERIFIER] ", log.LstdFlags),
	}
}

// VerifyAndFormat derives the completion flag and confidence score from the
// execution result, partitions step outcomes into data and issues, and asks
// the language model for a final summary. A summary failure is fatal to the
// run: there is no partial verification without a summary.
func (v *Verifier) VerifyAndFormat(ctx context.Context, originalTask string, plan ExecutionPlan, execution ExecutionResult) (VerificationResult, error) {
	isComplete := execution.OverallStatus == StatusSuccess

	collectedData := make(map[string]interface{})
	var issues []string
	successCount := 0

	for _, stepResult := range execution.StepResults {
		if stepResult.Status == StepSuccess {
			collectedData[fmt.Sprintf("step_%d", stepResult.StepNumber)] = stepResult.Data
			successCount++
		} else {
			issues = append(issues, fmt.Sprintf("Step %d failed: %s", stepResult.StepNumber, stepResult.ErrorMessage))
		}
	}

	// Empty plans score zero instead of dividing by zero
	confidence := 0.0
	if total := len(execution.StepResults); total > 0 {
		confidence = float64(successCount) / float64(total)
	}

	summary, err := v.generateSummary(ctx, originalTask, collectedData, issues)
	if err != nil {
		return VerificationResult{}, fmt.Errorf("failed to generate summary: %w", err)
	}

	return VerificationResult{
		OriginalTask:    originalTask,
		IsComplete:      isComplete,
		Summary:         summary,
		Data:            collectedData,
		Issues:          issues,
		ConfidenceScore: confidence,
	}, nil
}

// generateSummary asks the language model for the final prose summary
func (v *Verifier) generateSummary(ctx context.Context, task string, data map[string]interface{}, issues []string) (string, error) {
	issuesText := "None"
	if len(issues) > 0 {
		issuesText = strings.Join(issues, "; ")
	}

	prompt := fmt.Sprintf(`Original task: %s

Data collected:
%s

Issues encountered: %s

Create a clear, informative summary of the results. Include key highlights and insights.`, task, formatDataDigest(data), issuesText)

	v.telemetry.RecordLLMRequest()
	return v.llm.GenerateText(ctx, prompt, verifierSystemMessage)
}

// formatDataDigest renders collected step data into a compact human-readable
// digest for the summary prompt: up to the first 3 repos or articles per
// step plus any direct summary text. Keys are sorted for stable output.
func formatDataDigest(data map[string]interface{}) string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var formatted []string
	for _, key := range keys {
		payload, ok := data[key].(map[string]interface{})
		if !ok {
			continue
		}

		if repos, ok := payload["repos"].([]github.Repo); ok {
			formatted = append(formatted, fmt.Sprintf("\nGitHub Repositories (%d found):", len(repos)))
			for i, repo := range repos {
				if i >= digestItemLimit {
					break
				}
				if repo.Error != "" {
					continue
				}
				formatted = append(formatted, fmt.Sprintf("  - %s: %d stars", repo.Name, repo.Stars))
			}
		}

		if articles, ok := payload["articles"].([]newsapi.Article); ok {
			formatted = append(formatted, fmt.Sprintf("\nNews Articles (%d found):", len(articles)))
			for i, article := range articles {
				if i >= digestItemLimit {
					break
				}
				if article.Error != "" {
					continue
				}
				formatted = append(formatted, fmt.Sprintf("  - %s", article.Title))
			}
		}

		if summary, ok := payload["summary"].(string); ok {
			formatted = append(formatted, fmt.Sprintf("\nSummary: %s", summary))
		}
	}

	if len(formatted) == 0 {
		return fmt.Sprintf("%v", data)
	}
	return strings.Join(formatted, "\n")
}
