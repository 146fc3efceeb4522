package provider

import (
	"context"
	"errors"

	"github.com/mohammad-safakhou/scout/config"
	"github.com/mohammad-safakhou/scout/provider/groq"
	"github.com/mohammad-safakhou/scout/provider/schema"
)

// Client represents different LLM providers
type Client string

const (
	Groq Client = "groq"
)

// Provider is the interface that all LLM implementations must satisfy.
//
// GenerateStructured is the seam for schema-constrained generation: the Groq
// implementation simulates it through prompt engineering plus post-hoc
// validation, but a backend with native structured output only has to honor
// the same contract - a valid instance in out, or a descriptive error.
type Provider interface {
	GenerateText(ctx context.Context, prompt, systemMessage string) (string, error)
	GenerateStructured(ctx context.Context, prompt, systemMessage string, target schema.Target, out interface{}) error
}

// NewProvider creates a new LLM client based on the provided configuration
func NewProvider(cfg config.LLMConfig) (Provider, error) {
	switch Client(cfg.Provider) {
	case Groq:
		if cfg.APIKey == "" {
			return nil, errors.New("groq api key not set")
		}
		return groq.NewClient(cfg), nil
	default:
		return nil, errors.New("unsupported LLM provider: " + cfg.Provider)
	}
}
