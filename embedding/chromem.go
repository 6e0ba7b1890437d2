package embedding

import (
	"fmt"

	"github.com/philippgille/chromem-go"
)

// Ollama and OpenAI go through the clients chromem-go already ships.

func newOllamaFunc(cfg Config) embedFunc {
	return chromem.NewEmbeddingFuncOllama(cfg.Model, cfg.BaseURL)
}

func newOpenAIFunc(cfg Config) (embedFunc, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w for %s", ErrMissingAPIKey, ProviderOpenAI)
	}

	if cfg.BaseURL != "" {
		return chromem.NewEmbeddingFuncOpenAICompat(cfg.BaseURL, cfg.APIKey, cfg.Model, nil), nil
	}

	return chromem.NewEmbeddingFuncOpenAI(cfg.APIKey, chromem.EmbeddingModelOpenAI(cfg.Model)), nil
}
