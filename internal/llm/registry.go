package llm

import (
	"fmt"
	"sync"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"doganjib/internal/config"
)

// groqBaseURL is Groq's OpenAI-compatible endpoint.
const groqBaseURL = "https://api.groq.com/openai/v1"

// Registry manages chat-completion model instances by provider name. The
// voice assistant speaks to whichever provider the config selects; every
// supported provider exposes the OpenAI wire protocol.
type Registry struct {
	mu        sync.Mutex
	instances map[string]llms.LLM
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{instances: make(map[string]llms.LLM)}
}

// Model returns an initialized model for the given configuration, reusing a
// cached instance for repeated calls.
func (r *Registry) Model(cfg config.LLMConfig) (llms.LLM, error) {
	key := cfg.Provider + "/" + cfg.Model

	r.mu.Lock()
	defer r.mu.Unlock()

	if model, ok := r.instances[key]; ok {
		return model, nil
	}

	model, err := newModel(cfg)
	if err != nil {
		return nil, err
	}
	r.instances[key] = model
	return model, nil
}

func newModel(cfg config.LLMConfig) (llms.LLM, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("no API key configured for provider %q", cfg.Provider)
	}

	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
	}

	switch cfg.Provider {
	case "openai":
		// Default endpoint.
	case "groq":
		opts = append(opts, openai.WithBaseURL(groqBaseURL))
	case "custom":
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("custom provider requires llm.base_url")
		}
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}

	model, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s model: %w", cfg.Provider, err)
	}
	return model, nil
}
