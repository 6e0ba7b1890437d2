// Package embedding turns text into vectors through an external model.
//
// Provider failures never panic and are never swallowed: every failed call
// returns an *Error, and the caller picks what to do with it through a Policy.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrMissingAPIKey       = errors.New("embedding: api key is required")
	ErrUnsupportedProvider = errors.New("embedding: unsupported provider")
	ErrUnsupportedPolicy   = errors.New("embedding: unsupported failure policy")
	ErrEmptyEmbedding      = errors.New("embedding: provider returned an empty vector")
)

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Error is the failure result of a single Embed call.
type Error struct {
	Provider Provider
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("embedding: %s: %s", e.Provider, e.Err.Error())
}

func (e *Error) Unwrap() error {
	return e.Err
}

type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOllama Provider = "ollama"
	ProviderOpenAI Provider = "openai"
)

// Policy decides what happens to a unit of work whose embedding failed.
type Policy string

const (
	// PolicySkip drops the failed document and carries on.
	PolicySkip Policy = "skip"
	// PolicyAbort stops the operation and returns the error.
	PolicyAbort Policy = "abort"
	// PolicyZeroVector replaces the failed vector with zeros of Config.Dimensions.
	PolicyZeroVector Policy = "zero"
)

type Config struct {
	Provider   Provider      `yaml:"provider"`
	Model      string        `yaml:"model"`
	APIKey     string        `yaml:"apiKey"`
	BaseURL    string        `yaml:"baseURL"`
	TaskType   string        `yaml:"taskType"`
	Dimensions int           `yaml:"dimensions"`
	Timeout    time.Duration `yaml:"timeout"`

	OnIndexFailure Policy `yaml:"onIndexFailure"`
	OnQueryFailure Policy `yaml:"onQueryFailure"`
}

const (
	DefaultGeminiModel    = "text-embedding-004"
	DefaultGeminiTaskType = "RETRIEVAL_DOCUMENT"
	DefaultOllamaModel    = "nomic-embed-text"
	DefaultOpenAIModel    = "text-embedding-3-small"
)

// WithDefaults fills every unset field. Gemini is the default provider.
func (cfg Config) WithDefaults() Config {
	if cfg.Provider == "" {
		cfg.Provider = ProviderGemini
	}

	switch cfg.Provider {
	case ProviderGemini:
		if cfg.Model == "" {
			cfg.Model = DefaultGeminiModel
		}

		if cfg.TaskType == "" {
			cfg.TaskType = DefaultGeminiTaskType
		}

		if cfg.Dimensions == 0 {
			cfg.Dimensions = 768
		}

	case ProviderOllama:
		if cfg.Model == "" {
			cfg.Model = DefaultOllamaModel
		}

		if cfg.Dimensions == 0 {
			cfg.Dimensions = 768
		}

	case ProviderOpenAI:
		if cfg.Model == "" {
			cfg.Model = DefaultOpenAIModel
		}

		if cfg.Dimensions == 0 {
			cfg.Dimensions = 1536
		}
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	if cfg.OnIndexFailure == "" {
		cfg.OnIndexFailure = PolicySkip
	}

	if cfg.OnQueryFailure == "" {
		cfg.OnQueryFailure = PolicyAbort
	}

	return cfg
}

// Validate checks the failure policies. A zero vector would be stored
// permanently if substituted at index time, so it is only accepted for queries.
func (cfg Config) Validate() error {
	switch cfg.OnIndexFailure {
	case PolicySkip, PolicyAbort:
	default:
		return fmt.Errorf("%w for indexing: %q", ErrUnsupportedPolicy, cfg.OnIndexFailure)
	}

	switch cfg.OnQueryFailure {
	case PolicyAbort, PolicyZeroVector:
	default:
		return fmt.Errorf("%w for queries: %q", ErrUnsupportedPolicy, cfg.OnQueryFailure)
	}

	if cfg.OnQueryFailure == PolicyZeroVector && cfg.Dimensions <= 0 {
		return errors.New("embedding: zero vector policy requires dimensions")
	}

	return nil
}

// NewEmbedder builds the embedder for cfg.Provider. Keyed providers fail
// here, not on first use, when no API key was configured.
func NewEmbedder(ctx context.Context, cfg Config) (Embedder, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		embed embedFunc
		err   error
	)

	switch cfg.Provider {
	case ProviderGemini:
		embed, err = newGeminiFunc(ctx, cfg)

	case ProviderOllama:
		embed = newOllamaFunc(cfg)

	case ProviderOpenAI:
		embed, err = newOpenAIFunc(cfg)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, cfg.Provider)
	}

	if err != nil {
		return nil, err
	}

	return NewFuncEmbedder(cfg.Provider, embed, cfg.Timeout), nil
}

type embedFunc = func(ctx context.Context, text string) ([]float32, error)

// NewFuncEmbedder adapts a plain embedding function. Errors and empty
// vectors it produces are reported as *Error.
func NewFuncEmbedder(provider Provider, embed func(ctx context.Context, text string) ([]float32, error), timeout time.Duration) Embedder {
	return &funcEmbedder{
		provider: provider,
		embed:    embed,
		timeout:  timeout,
	}
}

type funcEmbedder struct {
	provider Provider
	embed    embedFunc
	timeout  time.Duration
}

func (e *funcEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	vec, err := e.embed(ctx, text)
	if err != nil {
		return nil, &Error{Provider: e.provider, Err: err}
	}

	if len(vec) == 0 {
		return nil, &Error{Provider: e.provider, Err: ErrEmptyEmbedding}
	}

	return vec, nil
}

// ZeroVector returns an all-zero vector of the given width.
func ZeroVector(dimensions int) []float32 {
	return make([]float32, dimensions)
}
