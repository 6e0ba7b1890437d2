package embedding

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

func newGeminiFunc(ctx context.Context, cfg Config) (embedFunc, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w for %s", ErrMissingAPIKey, ProviderGemini)
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}

	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{
			BaseURL: cfg.BaseURL,
		}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("embedding: create gemini client: %w", err)
	}

	embedCfg := &genai.EmbedContentConfig{
		TaskType: cfg.TaskType,
	}

	return func(ctx context.Context, text string) ([]float32, error) {
		resp, err := client.Models.EmbedContent(ctx, cfg.Model, genai.Text(text), embedCfg)
		if err != nil {
			return nil, err
		}

		if resp == nil || len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil {
			return nil, ErrEmptyEmbedding
		}

		return resp.Embeddings[0].Values, nil
	}, nil
}
