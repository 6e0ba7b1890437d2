package toolcatalog

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/flarexio/toolcatalog/catalog"
)

// InstrumentingMiddleware records request counts, latencies and per-document
// ingestion outcomes. Metrics register on reg so tests can use their own
// registry.
func InstrumentingMiddleware(reg prometheus.Registerer) ServiceMiddleware {
	factory := promauto.With(reg)

	requests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "toolcatalog",
		Subsystem: "service",
		Name:      "requests_total",
		Help:      "Total number of service calls, partitioned by method and outcome.",
	}, []string{"method", "outcome"})

	duration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "toolcatalog",
		Subsystem: "service",
		Name:      "duration_seconds",
		Help:      "Latency of service calls.",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"method"})

	documents := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "toolcatalog",
		Subsystem: "index",
		Name:      "documents_total",
		Help:      "Documents processed during ingestion, partitioned by collection and outcome.",
	}, []string{"collection", "outcome"})

	return func(next Service) Service {
		return &instrumentingMiddleware{
			requests:  requests,
			duration:  duration,
			documents: documents,
			next:      next,
		}
	}
}

type instrumentingMiddleware struct {
	requests  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	documents *prometheus.CounterVec
	next      Service
}

func (mw *instrumentingMiddleware) observe(method string, begin time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}

	mw.requests.WithLabelValues(method, outcome).Inc()
	mw.duration.WithLabelValues(method).Observe(time.Since(begin).Seconds())
}

func (mw *instrumentingMiddleware) report(report *IndexReport) {
	if report == nil {
		return
	}

	mw.documents.WithLabelValues(report.Collection, "indexed").Add(float64(report.Indexed))
	mw.documents.WithLabelValues(report.Collection, "skipped").Add(float64(len(report.Skipped)))
}

func (mw *instrumentingMiddleware) Close() error {
	return mw.next.Close()
}

func (mw *instrumentingMiddleware) IndexCollection(ctx context.Context, name string, docs []catalog.Document, recreate ...bool) (report *IndexReport, err error) {
	defer func(begin time.Time) {
		mw.observe("index_collection", begin, err)
		mw.report(report)
	}(time.Now())

	return mw.next.IndexCollection(ctx, name, docs, recreate...)
}

func (mw *instrumentingMiddleware) IngestCatalog(ctx context.Context, collection string, recreate ...bool) (report *IndexReport, err error) {
	defer func(begin time.Time) {
		mw.observe("ingest_catalog", begin, err)
	}(time.Now())

	// IngestCatalog delegates to IndexCollection inside the wrapped service,
	// so document outcomes are counted here.
	report, err = mw.next.IngestCatalog(ctx, collection, recreate...)
	mw.report(report)

	return report, err
}

func (mw *instrumentingMiddleware) SearchTools(ctx context.Context, collection string, query string, k ...int) (result *QueryResult, err error) {
	defer func(begin time.Time) {
		mw.observe("search_tools", begin, err)
	}(time.Now())

	return mw.next.SearchTools(ctx, collection, query, k...)
}

func (mw *instrumentingMiddleware) ListCollections(ctx context.Context) (collections []CollectionInfo, err error) {
	defer func(begin time.Time) {
		mw.observe("list_collections", begin, err)
	}(time.Now())

	return mw.next.ListCollections(ctx)
}
