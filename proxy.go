package toolcatalog

import (
	"context"
	"errors"

	"github.com/flarexio/toolcatalog/catalog"
)

// ProxyMiddleware serves the read side of Service from remote endpoints.
// Ingestion stays local to the process that owns the store.
func ProxyMiddleware(endpoints *EndpointSet) ServiceMiddleware {
	return func(next Service) Service {
		return &proxyMiddleware{
			endpoints: endpoints,
		}
	}
}

type proxyMiddleware struct {
	endpoints *EndpointSet
}

func (mw *proxyMiddleware) Close() error {
	return nil
}

func (mw *proxyMiddleware) IndexCollection(ctx context.Context, name string, docs []catalog.Document, recreate ...bool) (*IndexReport, error) {
	return nil, ErrNotImplemented
}

func (mw *proxyMiddleware) IngestCatalog(ctx context.Context, collection string, recreate ...bool) (*IndexReport, error) {
	return nil, ErrNotImplemented
}

func (mw *proxyMiddleware) SearchTools(ctx context.Context, collection string, query string, k ...int) (*QueryResult, error) {
	n := 0
	if len(k) > 0 {
		n = k[0]
	}

	req := SearchToolsRequest{
		Collection: collection,
		Query:      query,
		K:          n,
	}

	resp, err := mw.endpoints.SearchTools(ctx, req)
	if err != nil {
		return nil, err
	}

	result, ok := resp.(*QueryResult)
	if !ok {
		return nil, errors.New("invalid response type")
	}

	return result, nil
}

func (mw *proxyMiddleware) ListCollections(ctx context.Context) ([]CollectionInfo, error) {
	resp, err := mw.endpoints.ListCollections(ctx, nil)
	if err != nil {
		return nil, err
	}

	collections, ok := resp.([]CollectionInfo)
	if !ok {
		return nil, errors.New("invalid response type")
	}

	return collections, nil
}
