package vector

import (
	"context"
	"errors"
)

var (
	ErrCollectionNotFound = errors.New("collection not found")
	ErrCollectionExists   = errors.New("collection already exists")
	ErrEmptyEmbedding     = errors.New("document has no embedding")
)

type Config struct {
	Persistent bool   `yaml:"persistent"`
	Path       string `yaml:"path"`
	Compress   bool   `yaml:"compress"`
}

// EmbedFunc lets the store embed text on its own when a document or query
// arrives without a vector.
type EmbedFunc func(ctx context.Context, text string) ([]float32, error)

type VectorDB interface {
	CreateCollection(name string, metadata map[string]string) (Collection, error)
	Collection(name string) (Collection, error)
	DeleteCollection(name string) error
	ListCollections() []Collection
}

type Collection interface {
	Name() string
	Count() int
	AddDocument(ctx context.Context, doc Document) error
	FindDocument(ctx context.Context, id string) (Document, error)
	QueryEmbedding(ctx context.Context, embedding []float32, k int) ([]Result, error)
}

type Document struct {
	ID        string            `json:"id"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Content   string            `json:"content"`
	Embedding []float32         `json:"embedding,omitempty"`
}

// Result is a stored document together with its distance to the query,
// where 0 means identical direction.
type Result struct {
	Document
	Distance float32 `json:"distance"`
}
