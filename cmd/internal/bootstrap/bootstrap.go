// Package bootstrap wires the configuration, embedder and store shared by
// the command line tools.
package bootstrap

import (
	"context"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/flarexio/toolcatalog"
	"github.com/flarexio/toolcatalog/embedding"
	"github.com/flarexio/toolcatalog/persistence/chromem"
)

// Flags are accepted by every command.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "path",
			Usage:   "Workspace holding config.yaml, the data directory and the catalogs",
			Value:   ".",
			Sources: cli.EnvVars("TOOLCATALOG_PATH"),
		},
		&cli.StringFlag{
			Name:    "data",
			Usage:   "Vector store directory, overrides the configured path",
			Sources: cli.EnvVars("TOOLCATALOG_DATA"),
		},
		&cli.StringFlag{
			Name:    "api-key",
			Usage:   "Embedding provider API key",
			Sources: cli.EnvVars("GEMINI_API_KEY", "EMBEDDING_API_KEY"),
		},
	}
}

// LoadConfig resolves the workspace configuration and applies flag overrides.
func LoadConfig(cmd *cli.Command) (toolcatalog.Config, error) {
	cfg, err := toolcatalog.LoadConfig(cmd.String("path"))
	if err != nil {
		return toolcatalog.Config{}, err
	}

	if data := cmd.String("data"); data != "" {
		cfg.Vector.Path = data
	}

	if apiKey := cmd.String("api-key"); apiKey != "" {
		cfg.Embedding.APIKey = apiKey
	}

	return cfg, nil
}

type Opener func(ctx context.Context, cfg toolcatalog.Config) (toolcatalog.Service, error)

// Open builds the local service: embedder, persistent store, then the
// logging middleware.
func Open(ctx context.Context, cfg toolcatalog.Config) (toolcatalog.Service, error) {
	embedder, err := embedding.NewEmbedder(ctx, cfg.Embedding)
	if err != nil {
		return nil, err
	}

	db, err := chromem.NewChromemVectorDB(cfg.Vector, embedder.Embed)
	if err != nil {
		return nil, err
	}

	svc, err := toolcatalog.NewService(cfg, db, embedder)
	if err != nil {
		return nil, err
	}

	return toolcatalog.LoggingMiddleware(zap.L())(svc), nil
}

// NewLogger installs a development logger as the global one. It writes to
// stderr, leaving stdout to the command output.
func NewLogger() (*zap.Logger, error) {
	log, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}

	zap.ReplaceGlobals(log)
	return log, nil
}
