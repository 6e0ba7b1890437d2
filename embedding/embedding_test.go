package embedding

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfigWithDefaults(t *testing.T) {
	assert := assert.New(t)

	cfg := Config{}.WithDefaults()

	assert.Equal(ProviderGemini, cfg.Provider)
	assert.Equal(DefaultGeminiModel, cfg.Model)
	assert.Equal(DefaultGeminiTaskType, cfg.TaskType)
	assert.Equal(768, cfg.Dimensions)
	assert.Equal(30*time.Second, cfg.Timeout)
	assert.Equal(PolicySkip, cfg.OnIndexFailure)
	assert.Equal(PolicyAbort, cfg.OnQueryFailure)

	cfg = Config{Provider: ProviderOpenAI}.WithDefaults()
	assert.Equal(DefaultOpenAIModel, cfg.Model)
	assert.Equal(1536, cfg.Dimensions)
}

func TestConfigValidate(t *testing.T) {
	assert := assert.New(t)

	cfg := Config{}.WithDefaults()
	assert.NoError(cfg.Validate())

	cfg.OnQueryFailure = PolicyZeroVector
	assert.NoError(cfg.Validate())

	cfg.OnIndexFailure = PolicyZeroVector
	assert.ErrorIs(cfg.Validate(), ErrUnsupportedPolicy)

	cfg = Config{OnQueryFailure: PolicySkip}.WithDefaults()
	assert.ErrorIs(cfg.Validate(), ErrUnsupportedPolicy)
}

func TestNewEmbedderMissingAPIKey(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	_, err := NewEmbedder(ctx, Config{Provider: ProviderGemini})
	assert.ErrorIs(err, ErrMissingAPIKey)

	_, err = NewEmbedder(ctx, Config{Provider: ProviderOpenAI})
	assert.ErrorIs(err, ErrMissingAPIKey)

	embedder, err := NewEmbedder(ctx, Config{Provider: ProviderOllama})
	assert.NoError(err)
	assert.NotNil(embedder)
}

func TestNewEmbedderUnsupportedProvider(t *testing.T) {
	_, err := NewEmbedder(context.Background(), Config{Provider: "bedrock"})
	assert.ErrorIs(t, err, ErrUnsupportedProvider)
}

func TestFuncEmbedderFailures(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	quota := errors.New("quota exceeded")

	failing := NewFuncEmbedder(ProviderGemini, func(ctx context.Context, text string) ([]float32, error) {
		return nil, quota
	}, 0)

	vec, err := failing.Embed(ctx, "figma")
	assert.Nil(vec)
	assert.ErrorIs(err, quota)

	var e *Error
	if assert.ErrorAs(err, &e) {
		assert.Equal(ProviderGemini, e.Provider)
	}

	empty := NewFuncEmbedder(ProviderOllama, func(ctx context.Context, text string) ([]float32, error) {
		return []float32{}, nil
	}, 0)

	_, err = empty.Embed(ctx, "figma")
	assert.ErrorIs(err, ErrEmptyEmbedding)
	assert.ErrorAs(err, &e)
}

func TestFuncEmbedderZeroVectorIsValid(t *testing.T) {
	assert := assert.New(t)

	zero := NewFuncEmbedder(ProviderOllama, func(ctx context.Context, text string) ([]float32, error) {
		return ZeroVector(4), nil
	}, 0)

	vec, err := zero.Embed(context.Background(), "figma")
	assert.NoError(err)
	assert.Equal([]float32{0, 0, 0, 0}, vec)
}

func TestFuncEmbedderTimeout(t *testing.T) {
	assert := assert.New(t)

	slow := NewFuncEmbedder(ProviderOllama, func(ctx context.Context, text string) ([]float32, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}, 10*time.Millisecond)

	_, err := slow.Embed(context.Background(), "figma")
	assert.ErrorIs(err, context.DeadlineExceeded)
}
