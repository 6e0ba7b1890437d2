package nats

import (
	"fmt"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/micro"
	"github.com/stretchr/testify/assert"

	"github.com/flarexio/toolcatalog"
	"github.com/flarexio/toolcatalog/vector"
)

func TestError(t *testing.T) {
	assert := assert.New(t)

	ok := &nats.Msg{Header: nats.Header{}}
	assert.NoError(Error(ok))

	notFound := &nats.Msg{Header: nats.Header{}}
	notFound.Header.Set(micro.ErrorCodeHeader, codeNotFound)
	notFound.Header.Set(micro.ErrorHeader, "collection not found: missing_agents")

	err := Error(notFound)
	assert.ErrorIs(err, vector.ErrCollectionNotFound)
	assert.Equal("collection not found: missing_agents", err.Error())

	failed := &nats.Msg{Header: nats.Header{}}
	failed.Header.Set(micro.ErrorCodeHeader, codeFailed)
	failed.Header.Set(micro.ErrorHeader, "query embedding failed")

	err = Error(failed)
	assert.EqualError(err, "417:query embedding failed")
	assert.NotErrorIs(err, vector.ErrCollectionNotFound)

	assert.Error(Error(nil))
}

func TestErrorCode(t *testing.T) {
	assert := assert.New(t)

	notFound := fmt.Errorf("%w: %s", vector.ErrCollectionNotFound, "missing_agents")

	assert.Equal(codeNotFound, errorCode(notFound))
	assert.Equal(codeBadRequest, errorCode(toolcatalog.ErrEmptyQuery))
	assert.Equal(codeBadRequest, errorCode(toolcatalog.ErrInvalidCollectionName))
	assert.Equal(codeFailed, errorCode(fmt.Errorf("%w: quota", toolcatalog.ErrQueryEmbedding)))
}
