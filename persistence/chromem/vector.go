package chromem

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/philippgille/chromem-go"

	"github.com/flarexio/toolcatalog/vector"
)

func NewChromemVectorDB(cfg vector.Config, embed vector.EmbedFunc) (vector.VectorDB, error) {
	var db *chromem.DB
	if !cfg.Persistent {
		db = chromem.NewDB()
	} else {
		if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
			return nil, err
		}

		d, err := chromem.NewPersistentDB(cfg.Path, cfg.Compress)
		if err != nil {
			return nil, err
		}

		db = d
	}

	var ef chromem.EmbeddingFunc
	if embed != nil {
		ef = chromem.EmbeddingFunc(embed)
	}

	return &chromemVectorDB{db, ef}, nil
}

type chromemVectorDB struct {
	db    *chromem.DB
	embed chromem.EmbeddingFunc
}

func (v *chromemVectorDB) CreateCollection(name string, metadata map[string]string) (vector.Collection, error) {
	if c := v.db.GetCollection(name, v.embed); c != nil {
		return nil, fmt.Errorf("%w: %s", vector.ErrCollectionExists, name)
	}

	c, err := v.db.CreateCollection(name, metadata, v.embed)
	if err != nil {
		return nil, err
	}

	return &collection{c}, nil
}

func (v *chromemVectorDB) Collection(name string) (vector.Collection, error) {
	c := v.db.GetCollection(name, v.embed)
	if c == nil {
		return nil, fmt.Errorf("%w: %s", vector.ErrCollectionNotFound, name)
	}

	return &collection{c}, nil
}

func (v *chromemVectorDB) DeleteCollection(name string) error {
	if c := v.db.GetCollection(name, v.embed); c == nil {
		return fmt.Errorf("%w: %s", vector.ErrCollectionNotFound, name)
	}

	return v.db.DeleteCollection(name)
}

func (v *chromemVectorDB) ListCollections() []vector.Collection {
	all := v.db.ListCollections()

	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)

	collections := make([]vector.Collection, len(names))
	for i, name := range names {
		collections[i] = &collection{all[name]}
	}

	return collections
}

type collection struct {
	collection *chromem.Collection
}

func (c *collection) Name() string {
	return c.collection.Name
}

func (c *collection) Count() int {
	return c.collection.Count()
}

func (c *collection) AddDocument(ctx context.Context, doc vector.Document) error {
	if len(doc.Embedding) == 0 {
		return vector.ErrEmptyEmbedding
	}

	document := chromem.Document{
		ID:        doc.ID,
		Metadata:  doc.Metadata,
		Embedding: doc.Embedding,
		Content:   doc.Content,
	}

	return c.collection.AddDocument(ctx, document)
}

func (c *collection) FindDocument(ctx context.Context, id string) (vector.Document, error) {
	document, err := c.collection.GetByID(ctx, id)
	if err != nil {
		return vector.Document{}, err
	}

	return vector.Document{
		ID:        document.ID,
		Metadata:  document.Metadata,
		Embedding: document.Embedding,
		Content:   document.Content,
	}, nil
}

func (c *collection) QueryEmbedding(ctx context.Context, embedding []float32, k int) ([]vector.Result, error) {
	if k > c.collection.Count() {
		k = c.collection.Count()
	}

	if k <= 0 {
		return []vector.Result{}, nil
	}

	results, err := c.collection.QueryEmbedding(ctx, embedding, k, nil, nil)
	if err != nil {
		return nil, err
	}

	// chromem ranks by cosine similarity, highest first
	docs := make([]vector.Result, len(results))
	for i, result := range results {
		docs[i] = vector.Result{
			Document: vector.Document{
				ID:        result.ID,
				Metadata:  result.Metadata,
				Embedding: result.Embedding,
				Content:   result.Content,
			},
			Distance: distance(result.Similarity),
		}
	}

	return docs, nil
}

// distance converts a cosine similarity to a distance. A zero query vector
// has no direction and yields NaN, which is reported as orthogonal.
func distance(similarity float32) float32 {
	if math.IsNaN(float64(similarity)) {
		return 1
	}

	return 1 - similarity
}
