package toolcatalog

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/flarexio/toolcatalog/catalog"
	"github.com/flarexio/toolcatalog/embedding"
	"github.com/flarexio/toolcatalog/vector"
)

var (
	ErrInvalidCollectionName = errors.New("invalid collection name")
	ErrEmptyQuery            = errors.New("query is empty")
	ErrQueryEmbedding        = errors.New("query embedding failed")
	ErrDocumentEmbedding     = errors.New("document embedding failed")
	ErrStoreBackend          = errors.New("vector store failure")
	ErrInvalidArguments      = errors.New("invalid number of arguments")
	ErrCatalogNotFound       = errors.New("catalog not found")
	ErrNotImplemented        = errors.New("method not implemented")
)

const DefaultK = 3

type Config struct {
	Vector     vector.Config     `yaml:"vector"`
	Embedding  embedding.Config  `yaml:"embedding"`
	CatalogDir string            `yaml:"catalogDir"`
	Catalogs   []catalog.Catalog `yaml:"catalogs"`
	Search     SearchConfig      `yaml:"search"`
}

type SearchConfig struct {
	DefaultK int `yaml:"defaultK"`
}

// LoadConfig reads config.yaml from the workspace path. A missing file is not
// an error: the defaults keep the store under <path>/data and the catalogs
// under <path>/agents. Relative paths in the file resolve against path.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		Vector: vector.Config{
			Persistent: true,
		},
	}

	f, err := os.Open(filepath.Join(path, "config.yaml"))
	switch {
	case err == nil:
		defer f.Close()

		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, err
		}

	case !errors.Is(err, os.ErrNotExist):
		return Config{}, err
	}

	if cfg.Vector.Path == "" {
		cfg.Vector.Path = "data"
	}

	if !filepath.IsAbs(cfg.Vector.Path) {
		cfg.Vector.Path = filepath.Join(path, cfg.Vector.Path)
	}

	if cfg.CatalogDir == "" {
		cfg.CatalogDir = "agents"
	}

	if !filepath.IsAbs(cfg.CatalogDir) {
		cfg.CatalogDir = filepath.Join(path, cfg.CatalogDir)
	}

	if len(cfg.Catalogs) == 0 {
		cfg.Catalogs = catalog.DefaultCatalogs()
	}

	if cfg.Search.DefaultK <= 0 {
		cfg.Search.DefaultK = DefaultK
	}

	cfg.Embedding = cfg.Embedding.WithDefaults()

	return cfg, nil
}

func (cfg Config) Catalog(collection string) (catalog.Catalog, bool) {
	for _, c := range cfg.Catalogs {
		if c.Collection == collection {
			return c, true
		}
	}

	return catalog.Catalog{}, false
}

// IndexReport summarizes one ingestion pass over a collection.
type IndexReport struct {
	Collection string   `json:"collection"`
	Rows       int      `json:"rows"`
	Indexed    int      `json:"indexed"`
	Skipped    []string `json:"skipped,omitempty"`
}

type CollectionInfo struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type Hit struct {
	ID       string            `json:"id"`
	Distance float32           `json:"distance"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Content  string            `json:"content,omitempty"`
}

// QueryResult holds the hits of a search, nearest first.
type QueryResult struct {
	Collection string `json:"collection"`
	Query      string `json:"query"`
	Hits       []Hit  `json:"hits"`
}

// SearchResponse is the single-line JSON shape handed to external callers.
type SearchResponse struct {
	IDs       []string  `json:"ids"`
	Distances []float32 `json:"distances"`
	Metadatas []any     `json:"metadatas"`
}

// Response flattens the result into parallel arrays. A hit without metadata
// contributes its raw text instead.
func (r *QueryResult) Response() SearchResponse {
	resp := SearchResponse{
		IDs:       make([]string, len(r.Hits)),
		Distances: make([]float32, len(r.Hits)),
		Metadatas: make([]any, len(r.Hits)),
	}

	for i, hit := range r.Hits {
		resp.IDs[i] = hit.ID
		resp.Distances[i] = hit.Distance

		if len(hit.Metadata) > 0 {
			resp.Metadatas[i] = hit.Metadata
		} else {
			resp.Metadatas[i] = hit.Content
		}
	}

	return resp
}

type ErrorResponse struct {
	Error   string            `json:"error"`
	Usage   string            `json:"usage,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// NewSearchErrorResponse renders a failed search. Unknown collections keep
// their own message so the caller can tell them apart from backend faults.
func NewSearchErrorResponse(err error, details map[string]string) ErrorResponse {
	msg := "search error: " + err.Error()
	if errors.Is(err, vector.ErrCollectionNotFound) {
		msg = err.Error()
	}

	return ErrorResponse{
		Error:   msg,
		Details: details,
	}
}
