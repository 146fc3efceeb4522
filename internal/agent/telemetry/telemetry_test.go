package telemetry

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mohammad-safakhou/scout/config"
)

func TestHandlerExposesRecordedMetrics(t *testing.T) {
	telem := NewTelemetry(config.TelemetryConfig{})
	telem.RecordRun("success", 120*time.Millisecond)
	telem.RecordStep("news_search", "success")
	telem.RecordLLMRequest()
	telem.RecordToolRequest("news")

	rec := httptest.NewRecorder()
	telem.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	text := string(body)
	for _, want := range []string{
		`scout_runs_total{status="success"} 1`,
		`scout_steps_total{status="success",tool="news_search"} 1`,
		`scout_llm_requests_total 1`,
		`scout_tool_requests_total{tool="news"} 1`,
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("metrics output missing %q:\n%s", want, text)
		}
	}
}

func TestIndependentRegistries(t *testing.T) {
	// Two instances must not share state or collide on registration
	a := NewTelemetry(config.TelemetryConfig{})
	b := NewTelemetry(config.TelemetryConfig{})
	a.RecordLLMRequest()

	rec := httptest.NewRecorder()
	b.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if strings.Contains(string(body), "scout_llm_requests_total 1") {
		t.Fatalf("registries must be independent")
	}
}

func TestNilTelemetryIsSafe(t *testing.T) {
	var telem *Telemetry
	telem.RecordRun("success", time.Second)
	telem.RecordStep("news_search", "success")
	telem.RecordLLMRequest()
	telem.RecordToolRequest("news")
}
