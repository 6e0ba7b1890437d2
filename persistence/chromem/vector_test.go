package chromem

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/flarexio/toolcatalog/vector"
)

type chromemVectorDBTestSuite struct {
	suite.Suite
	ctx context.Context
	cfg vector.Config
	db  vector.VectorDB
}

func (suite *chromemVectorDBTestSuite) SetupTest() {
	cfg := vector.Config{
		Persistent: true,
		Path:       suite.T().TempDir(),
	}

	db, err := NewChromemVectorDB(cfg, nil)
	if err != nil {
		suite.FailNow(err.Error())
	}

	suite.ctx = context.Background()
	suite.cfg = cfg
	suite.db = db
}

func (suite *chromemVectorDBTestSuite) seed(name string) vector.Collection {
	c, err := suite.db.CreateCollection(name, map[string]string{"description": "test"})
	if err != nil {
		suite.FailNow(err.Error())
	}

	docs := []vector.Document{
		{ID: "doc_0", Content: "Figma", Metadata: map[string]string{"tool_name": "Figma"}, Embedding: []float32{1, 0, 0}},
		{ID: "doc_1", Content: "Maze", Metadata: map[string]string{"tool_name": "Maze"}, Embedding: []float32{0.6, 0.8, 0}},
		{ID: "doc_3", Content: "Hotjar", Metadata: map[string]string{"tool_name": "Hotjar"}, Embedding: []float32{0, 0, 1}},
	}

	for _, doc := range docs {
		if err := c.AddDocument(suite.ctx, doc); err != nil {
			suite.FailNow(err.Error())
		}
	}

	return c
}

func (suite *chromemVectorDBTestSuite) TestQueryEmbedding() {
	c := suite.seed("ux_design_agents")

	results, err := c.QueryEmbedding(suite.ctx, []float32{1, 0, 0}, 2)
	if err != nil {
		suite.Fail(err.Error())
		return
	}

	suite.Len(results, 2)
	suite.Equal("doc_0", results[0].ID)
	suite.InDelta(0, results[0].Distance, 1e-6)
	suite.Equal("doc_1", results[1].ID)
	suite.InDelta(0.4, results[1].Distance, 1e-6)
	suite.Equal("Maze", results[1].Metadata["tool_name"])
}

func (suite *chromemVectorDBTestSuite) TestQueryEmbeddingClampsK() {
	c := suite.seed("ux_design_agents")

	results, err := c.QueryEmbedding(suite.ctx, []float32{0, 0, 1}, 10)
	if err != nil {
		suite.Fail(err.Error())
		return
	}

	suite.Len(results, 3)
	suite.Equal("doc_3", results[0].ID)

	empty, err := suite.db.CreateCollection("empty_agents", nil)
	if err != nil {
		suite.Fail(err.Error())
		return
	}

	results, err = empty.QueryEmbedding(suite.ctx, []float32{0, 0, 1}, 3)
	suite.NoError(err)
	suite.Empty(results)
}

func (suite *chromemVectorDBTestSuite) TestQueryZeroVector() {
	c := suite.seed("ux_design_agents")

	results, err := c.QueryEmbedding(suite.ctx, []float32{0, 0, 0}, 3)
	if err != nil {
		suite.Fail(err.Error())
		return
	}

	suite.Len(results, 3)
	for _, result := range results {
		suite.Equal(float32(1), result.Distance)
	}
}

func (suite *chromemVectorDBTestSuite) TestCreateCollectionExists() {
	suite.seed("ux_design_agents")

	_, err := suite.db.CreateCollection("ux_design_agents", nil)
	suite.ErrorIs(err, vector.ErrCollectionExists)

	c, err := suite.db.Collection("ux_design_agents")
	if err != nil {
		suite.Fail(err.Error())
		return
	}

	suite.Equal(3, c.Count())
}

func (suite *chromemVectorDBTestSuite) TestCollectionNotFound() {
	_, err := suite.db.Collection("missing_agents")
	suite.ErrorIs(err, vector.ErrCollectionNotFound)

	err = suite.db.DeleteCollection("missing_agents")
	suite.ErrorIs(err, vector.ErrCollectionNotFound)
}

func (suite *chromemVectorDBTestSuite) TestAddDocumentWithoutEmbedding() {
	c, err := suite.db.CreateCollection("ux_design_agents", nil)
	if err != nil {
		suite.Fail(err.Error())
		return
	}

	err = c.AddDocument(suite.ctx, vector.Document{ID: "doc_0", Content: "Figma"})
	suite.ErrorIs(err, vector.ErrEmptyEmbedding)
	suite.Equal(0, c.Count())
}

func (suite *chromemVectorDBTestSuite) TestPersistence() {
	suite.seed("ux_design_agents")

	db, err := NewChromemVectorDB(suite.cfg, nil)
	if err != nil {
		suite.Fail(err.Error())
		return
	}

	c, err := db.Collection("ux_design_agents")
	if err != nil {
		suite.Fail(err.Error())
		return
	}

	suite.Equal(3, c.Count())

	doc, err := c.FindDocument(suite.ctx, "doc_1")
	if err != nil {
		suite.Fail(err.Error())
		return
	}

	suite.Equal("Maze", doc.Content)
	suite.Equal("Maze", doc.Metadata["tool_name"])
}

func (suite *chromemVectorDBTestSuite) TestDeleteAndList() {
	suite.seed("ux_design_agents")
	suite.seed("api_management_agents")

	collections := suite.db.ListCollections()
	if suite.Len(collections, 2) {
		suite.Equal("api_management_agents", collections[0].Name())
		suite.Equal("ux_design_agents", collections[1].Name())
	}

	err := suite.db.DeleteCollection("ux_design_agents")
	suite.NoError(err)

	_, err = suite.db.Collection("ux_design_agents")
	suite.ErrorIs(err, vector.ErrCollectionNotFound)
	suite.Len(suite.db.ListCollections(), 1)
}

func TestChromemVectorDBTestSuite(t *testing.T) {
	suite.Run(t, new(chromemVectorDBTestSuite))
}
