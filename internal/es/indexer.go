package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/sokomart/shop/internal/models"
	"github.com/sokomart/shop/internal/repo"
)

// ProductIndexer mirrors the catalog into an elasticsearch index. Per-write
// indexing is best effort; the cron reindex repairs any drift. A nil indexer
// is a no-op so the server can run without elasticsearch configured.
type ProductIndexer struct {
	ES    *elasticsearch.Client
	Index string
}

func (ix *ProductIndexer) IndexProduct(ctx context.Context, p models.Product) error {
	if ix == nil || ix.ES == nil {
		return nil
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("es: marshal product: %w", err)
	}

	res, err := ix.ES.Index(
		ix.Index,
		bytes.NewReader(data),
		ix.ES.Index.WithDocumentID(strconv.Itoa(p.ID)),
		ix.ES.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("es: index product %d: %w", p.ID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("es: index product %d: %s", p.ID, res.Status())
	}
	return nil
}

func (ix *ProductIndexer) DeleteProduct(ctx context.Context, id int) error {
	if ix == nil || ix.ES == nil {
		return nil
	}

	res, err := ix.ES.Delete(
		ix.Index,
		strconv.Itoa(id),
		ix.ES.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("es: delete product %d: %w", id, err)
	}
	defer res.Body.Close()

	// 404 means the doc never made it into the index, which is fine here.
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("es: delete product %d: %s", id, res.Status())
	}
	return nil
}

// ReindexAll pushes the whole catalog into the index.
func (ix *ProductIndexer) ReindexAll(ctx context.Context, store repo.ProductStore) error {
	if ix == nil || ix.ES == nil {
		return nil
	}

	products, err := store.All(ctx)
	if err != nil {
		return fmt.Errorf("es: reindex fetch: %w", err)
	}

	for _, p := range products {
		if err := ix.IndexProduct(ctx, p); err != nil {
			return err
		}
	}
	return nil
}
