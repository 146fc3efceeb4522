package server

import (
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/mohammad-safakhou/scout/config"
	"github.com/mohammad-safakhou/scout/internal/agent/core"
	"github.com/mohammad-safakhou/scout/internal/agent/telemetry"
)

// Server is the thin HTTP shell around the pipeline. It renders the webui
// and exposes one endpoint that runs plan -> execute -> verify in sequence.
type Server struct {
	config       *config.Config
	orchestrator *core.Orchestrator
	telemetry    *telemetry.Telemetry
}

// TaskRequest is the body of a task submission
type TaskRequest struct {
	Task string `json:"task"`
}

// Run builds the pipeline from configuration and serves HTTP until the
// listener fails.
func Run(cfg *config.Config) error {
	telem := telemetry.NewTelemetry(cfg.Telemetry)

	orch, err := core.NewOrchestrator(cfg, log.New(log.Writer(), "[SERVER] ", log.LstdFlags), telem)
	if err != nil {
		return err
	}

	s := &Server{config: cfg, orchestrator: orch, telemetry: telem}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Serve Web UI
	webui := cfg.Server.WebUIDir
	e.File("/", filepath.Join(webui, "index.html"))
	e.Static("/static", filepath.Join(webui, "static"))

	e.GET("/healthz", s.Healthz)
	e.GET("/metrics", echo.WrapHandler(telem.Handler()))
	e.POST("/api/tasks", s.SubmitTask)

	return e.Start(cfg.Server.Listen)
}

// Healthz reports liveness
func (s *Server) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// SubmitTask runs the full pipeline for one task and returns every stage's
// payload so the UI can render plan, step outcomes, and the final summary.
func (s *Server) SubmitTask(c echo.Context) error {
	var req TaskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if strings.TrimSpace(req.Task) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "task is required"})
	}

	result, err := s.orchestrator.ProcessTask(c.Request().Context(), req.Task)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to process task", "details": err.Error()})
	}
	return c.JSON(http.StatusOK, result)
}
