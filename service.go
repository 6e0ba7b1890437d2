package toolcatalog

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/flarexio/toolcatalog/catalog"
	"github.com/flarexio/toolcatalog/embedding"
	"github.com/flarexio/toolcatalog/vector"
)

// Service defines the core logic of the tool catalog.
type Service interface {

	// Close releases the service resources.
	Close() error

	// IndexCollection embeds docs in order and stores them in a new
	// collection. Documents whose embedding fails are handled according to
	// the index failure policy.
	IndexCollection(ctx context.Context, name string, docs []catalog.Document, recreate ...bool) (*IndexReport, error)

	// IngestCatalog builds the documents of a configured catalog file and
	// indexes them into its collection.
	IngestCatalog(ctx context.Context, collection string, recreate ...bool) (*IndexReport, error)

	// SearchTools returns the k stored tools nearest to query.
	SearchTools(ctx context.Context, collection string, query string, k ...int) (*QueryResult, error)

	// ListCollections returns every collection in the store.
	ListCollections(ctx context.Context) ([]CollectionInfo, error)
}

type ServiceMiddleware func(Service) Service

func NewService(cfg Config, db vector.VectorDB, embedder embedding.Embedder) (Service, error) {
	if db == nil {
		return nil, errors.New("vector database not set")
	}

	if embedder == nil {
		return nil, errors.New("embedder not set")
	}

	cfg.Embedding = cfg.Embedding.WithDefaults()
	if err := cfg.Embedding.Validate(); err != nil {
		return nil, err
	}

	if cfg.Search.DefaultK <= 0 {
		cfg.Search.DefaultK = DefaultK
	}

	log := zap.L().With(
		zap.String("service", "toolcatalog"),
	)

	return &service{
		db:       db,
		embedder: embedder,
		cfg:      cfg,
		log:      log,
	}, nil
}

type service struct {
	db       vector.VectorDB
	embedder embedding.Embedder

	cfg Config
	log *zap.Logger
}

func (svc *service) Close() error {
	return nil
}

func DocumentID(index int) string {
	return fmt.Sprintf("doc_%d", index)
}

func (svc *service) IndexCollection(ctx context.Context, name string, docs []catalog.Document, recreate ...bool) (*IndexReport, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidCollectionName
	}

	log := svc.log.With(
		zap.String("action", "index_collection"),
		zap.String("collection", name),
	)

	if len(recreate) > 0 && recreate[0] {
		err := svc.db.DeleteCollection(name)
		switch {
		case err == nil:
			log.Info("existing collection deleted")

		case !errors.Is(err, vector.ErrCollectionNotFound):
			return nil, fmt.Errorf("%w: %w", ErrStoreBackend, err)
		}
	}

	description := "Tool catalog"
	if c, ok := svc.cfg.Catalog(name); ok && c.Description != "" {
		description = c.Description
	}

	collection, err := svc.db.CreateCollection(name, map[string]string{
		"description": description,
	})

	if err != nil {
		if errors.Is(err, vector.ErrCollectionExists) {
			return nil, err
		}

		return nil, fmt.Errorf("%w: %w", ErrStoreBackend, err)
	}

	report := &IndexReport{
		Collection: name,
		Rows:       len(docs),
	}

	for i, doc := range docs {
		id := DocumentID(i)

		log := log.With(
			zap.String("id", id),
		)

		vec, err := svc.embedder.Embed(ctx, doc.Text)
		if err != nil {
			if svc.cfg.Embedding.OnIndexFailure == embedding.PolicyAbort {
				return report, fmt.Errorf("%w: %s: %w", ErrDocumentEmbedding, id, err)
			}

			log.Error("embedding failed, document skipped", zap.Error(err))
			report.Skipped = append(report.Skipped, id)
			continue
		}

		document := vector.Document{
			ID:        id,
			Metadata:  doc.Metadata,
			Content:   doc.Text,
			Embedding: vec,
		}

		if err := collection.AddDocument(ctx, document); err != nil {
			return report, fmt.Errorf("%w: %s: %w", ErrStoreBackend, id, err)
		}

		report.Indexed++
	}

	log.Info("collection indexed",
		zap.Int("rows", report.Rows),
		zap.Int("indexed", report.Indexed),
		zap.Int("skipped", len(report.Skipped)),
	)

	return report, nil
}

func (svc *service) IngestCatalog(ctx context.Context, collection string, recreate ...bool) (*IndexReport, error) {
	c, ok := svc.cfg.Catalog(collection)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCatalogNotFound, collection)
	}

	path := c.File
	if !filepath.IsAbs(path) {
		path = filepath.Join(svc.cfg.CatalogDir, path)
	}

	docs, err := catalog.BuildDocuments(path)
	if err != nil {
		return nil, err
	}

	return svc.IndexCollection(ctx, c.Collection, docs, recreate...)
}

func (svc *service) SearchTools(ctx context.Context, name string, query string, k ...int) (*QueryResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	n := svc.cfg.Search.DefaultK
	if len(k) > 0 && k[0] > 0 {
		n = k[0]
	}

	collection, err := svc.db.Collection(name)
	if err != nil {
		if errors.Is(err, vector.ErrCollectionNotFound) {
			return nil, err
		}

		return nil, fmt.Errorf("%w: %w", ErrStoreBackend, err)
	}

	vec, err := svc.embedder.Embed(ctx, query)
	if err != nil {
		if svc.cfg.Embedding.OnQueryFailure != embedding.PolicyZeroVector {
			return nil, fmt.Errorf("%w: %w", ErrQueryEmbedding, err)
		}

		svc.log.Warn("embedding failed, substituting zero vector",
			zap.String("action", "search_tools"),
			zap.String("collection", name),
			zap.Int("dimensions", svc.cfg.Embedding.Dimensions),
			zap.Error(err),
		)

		vec = embedding.ZeroVector(svc.cfg.Embedding.Dimensions)
	}

	results, err := collection.QueryEmbedding(ctx, vec, n)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreBackend, err)
	}

	hits := make([]Hit, len(results))
	for i, result := range results {
		hits[i] = Hit{
			ID:       result.ID,
			Distance: result.Distance,
			Metadata: result.Metadata,
			Content:  result.Content,
		}
	}

	return &QueryResult{
		Collection: name,
		Query:      query,
		Hits:       hits,
	}, nil
}

func (svc *service) ListCollections(ctx context.Context) ([]CollectionInfo, error) {
	collections := svc.db.ListCollections()

	infos := make([]CollectionInfo, len(collections))
	for i, c := range collections {
		infos[i] = CollectionInfo{
			Name:  c.Name(),
			Count: c.Count(),
		}
	}

	return infos, nil
}
