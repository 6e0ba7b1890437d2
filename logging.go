package toolcatalog

import (
	"context"

	"go.uber.org/zap"

	"github.com/flarexio/toolcatalog/catalog"
)

func LoggingMiddleware(log *zap.Logger) ServiceMiddleware {
	log = log.With(
		zap.String("service", "toolcatalog"),
	)

	return func(next Service) Service {
		log.Info("service initialized")

		return &loggingMiddleware{
			log:  log,
			next: next,
		}
	}
}

type loggingMiddleware struct {
	log  *zap.Logger
	next Service
}

func (mw *loggingMiddleware) Close() error {
	log := mw.log.With(
		zap.String("action", "close"),
	)

	err := mw.next.Close()
	if err != nil {
		log.Error(err.Error())
		return err
	}

	log.Info("service closed")
	return nil
}

func isRecreate(recreate []bool) bool {
	return len(recreate) > 0 && recreate[0]
}

func (mw *loggingMiddleware) IndexCollection(ctx context.Context, name string, docs []catalog.Document, recreate ...bool) (*IndexReport, error) {
	log := mw.log.With(
		zap.String("action", "index_collection"),
		zap.String("collection", name),
		zap.Int("documents", len(docs)),
		zap.Bool("recreate", isRecreate(recreate)),
	)

	report, err := mw.next.IndexCollection(ctx, name, docs, recreate...)
	if err != nil {
		log.Error(err.Error())
		return report, err
	}

	log.Info("collection indexed",
		zap.Int("indexed", report.Indexed),
		zap.Strings("skipped", report.Skipped),
	)

	return report, nil
}

func (mw *loggingMiddleware) IngestCatalog(ctx context.Context, collection string, recreate ...bool) (*IndexReport, error) {
	log := mw.log.With(
		zap.String("action", "ingest_catalog"),
		zap.String("collection", collection),
		zap.Bool("recreate", isRecreate(recreate)),
	)

	report, err := mw.next.IngestCatalog(ctx, collection, recreate...)
	if err != nil {
		log.Error(err.Error())
		return report, err
	}

	log.Info("catalog ingested",
		zap.Int("rows", report.Rows),
		zap.Int("indexed", report.Indexed),
	)

	return report, nil
}

func (mw *loggingMiddleware) SearchTools(ctx context.Context, collection string, query string, k ...int) (*QueryResult, error) {
	log := mw.log.With(
		zap.String("action", "search_tools"),
		zap.String("collection", collection),
		zap.String("query", query),
	)

	if len(k) > 0 && k[0] > 0 {
		log = log.With(
			zap.Int("k", k[0]),
		)
	}

	result, err := mw.next.SearchTools(ctx, collection, query, k...)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}

	log.Info("tools searched", zap.Int("count", len(result.Hits)))
	return result, nil
}

func (mw *loggingMiddleware) ListCollections(ctx context.Context) ([]CollectionInfo, error) {
	log := mw.log.With(
		zap.String("action", "list_collections"),
	)

	collections, err := mw.next.ListCollections(ctx)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}

	log.Info("collections listed", zap.Int("count", len(collections)))
	return collections, nil
}
