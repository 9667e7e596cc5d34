package search

import (
	"context"

	"github.com/elastic/go-elasticsearch/v8"
)

// ESIndex binds a client to a named index so callers don't carry both.
type ESIndex struct {
	ES   *elasticsearch.Client
	Name string
}

func (i *ESIndex) Index(ctx context.Context, doc MediaDoc) error {
	return Index(ctx, i.ES, i.Name, doc)
}

func (i *ESIndex) Delete(ctx context.Context, id string) error {
	return Delete(ctx, i.ES, i.Name, id)
}

func (i *ESIndex) Search(ctx context.Context, query string, from, size int) (int64, []MediaDoc, error) {
	return Search(ctx, i.ES, i.Name, query, from, size)
}
