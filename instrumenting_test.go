package toolcatalog

import (
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/flarexio/toolcatalog/catalog"
	"github.com/flarexio/toolcatalog/vector"
)

type stubService struct {
	report *IndexReport
	result *QueryResult
	err    error
}

func (s *stubService) Close() error { return nil }

func (s *stubService) IndexCollection(ctx context.Context, name string, docs []catalog.Document, recreate ...bool) (*IndexReport, error) {
	return s.report, s.err
}

func (s *stubService) IngestCatalog(ctx context.Context, collection string, recreate ...bool) (*IndexReport, error) {
	return s.report, s.err
}

func (s *stubService) SearchTools(ctx context.Context, collection string, query string, k ...int) (*QueryResult, error) {
	return s.result, s.err
}

func (s *stubService) ListCollections(ctx context.Context) ([]CollectionInfo, error) {
	return []CollectionInfo{{Name: "ux_design_agents", Count: 4}}, s.err
}

func TestInstrumentingMiddleware(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	reg := prometheus.NewRegistry()

	stub := &stubService{
		report: &IndexReport{
			Collection: "ux_design_agents",
			Rows:       5,
			Indexed:    4,
			Skipped:    []string{"doc_2"},
		},
		result: &QueryResult{},
	}

	svc := InstrumentingMiddleware(reg)(stub)

	_, err := svc.IngestCatalog(ctx, "ux_design_agents")
	assert.NoError(err)

	_, err = svc.SearchTools(ctx, "ux_design_agents", "prototyping")
	assert.NoError(err)

	stub.err = vector.ErrCollectionNotFound

	_, err = svc.SearchTools(ctx, "missing_agents", "prototyping")
	assert.ErrorIs(err, vector.ErrCollectionNotFound)

	expected := `
# HELP toolcatalog_index_documents_total Documents processed during ingestion, partitioned by collection and outcome.
# TYPE toolcatalog_index_documents_total counter
toolcatalog_index_documents_total{collection="ux_design_agents",outcome="indexed"} 4
toolcatalog_index_documents_total{collection="ux_design_agents",outcome="skipped"} 1
# HELP toolcatalog_service_requests_total Total number of service calls, partitioned by method and outcome.
# TYPE toolcatalog_service_requests_total counter
toolcatalog_service_requests_total{method="ingest_catalog",outcome="ok"} 1
toolcatalog_service_requests_total{method="search_tools",outcome="error"} 1
toolcatalog_service_requests_total{method="search_tools",outcome="ok"} 1
`

	err = testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"toolcatalog_index_documents_total",
		"toolcatalog_service_requests_total",
	)
	assert.NoError(err)

	count, err := testutil.GatherAndCount(reg, "toolcatalog_service_duration_seconds")
	assert.NoError(err)
	assert.Equal(2, count)
}

func TestProxyMiddleware(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	remote := &stubService{
		result: &QueryResult{
			Collection: "ux_design_agents",
			Query:      "prototyping",
			Hits:       []Hit{{ID: "doc_0", Distance: 0.1}},
		},
	}

	endpoints := &EndpointSet{
		ListCollections: ListCollectionsEndpoint(remote),
		SearchTools:     SearchToolsEndpoint(remote),
	}

	svc := ProxyMiddleware(endpoints)(nil)

	result, err := svc.SearchTools(ctx, "ux_design_agents", "prototyping", 2)
	if err != nil {
		assert.Fail(err.Error())
		return
	}

	assert.Equal("doc_0", result.Hits[0].ID)

	infos, err := svc.ListCollections(ctx)
	assert.NoError(err)
	assert.Equal([]CollectionInfo{{Name: "ux_design_agents", Count: 4}}, infos)

	_, err = svc.IngestCatalog(ctx, "ux_design_agents")
	assert.ErrorIs(err, ErrNotImplemented)
}
