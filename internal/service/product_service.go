package service

import (
	"context"
	"fmt"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/ragway/internal/ai"
	"github.com/xxxsen/ragway/internal/catalog"
	"github.com/xxxsen/ragway/internal/model"
	appErr "github.com/xxxsen/ragway/internal/pkg/errors"
	"github.com/xxxsen/ragway/internal/pkg/timeutil"
	"github.com/xxxsen/ragway/internal/repo"
	"github.com/xxxsen/ragway/internal/settings"
	"github.com/xxxsen/ragway/internal/vecstore"
)

type SyncResult struct {
	Status         string `json:"status"`
	ProductsSynced int    `json:"products_synced"`
}

type ProductService struct {
	products *repo.ProductRepo
	catalog  *catalog.Client
	runtime  *settings.Manager
}

func NewProductService(products *repo.ProductRepo, catalogClient *catalog.Client, runtime *settings.Manager) *ProductService {
	return &ProductService{products: products, catalog: catalogClient, runtime: runtime}
}

// Sync pulls the remote catalog and upserts every product by its remote
// id.
func (s *ProductService) Sync(ctx context.Context) (*SyncResult, error) {
	if s.catalog == nil {
		return nil, fmt.Errorf("%w: catalog endpoint is not configured", appErr.ErrInvalid)
	}
	remote, err := s.catalog.FetchProducts(ctx)
	if err != nil {
		return nil, err
	}
	now := timeutil.NowUnix()
	for _, item := range remote {
		variations, attributes := catalog.SplitAttributes(item.Attributes)
		product := &model.Product{
			ID:          item.ID,
			Title:       item.Name,
			Description: item.Description,
			Variations:  variations,
			Attributes:  attributes,
			URL:         item.Permalink,
			Mtime:       now,
		}
		if err := s.products.Upsert(ctx, product); err != nil {
			return nil, fmt.Errorf("%w: upsert product %d: %v", appErr.ErrStorage, item.ID, err)
		}
	}
	return &SyncResult{Status: StatusSuccess, ProductsSynced: len(remote)}, nil
}

// Process embeds the stored catalog into the products collection, skipping
// individual embedding failures.
func (s *ProductService) Process(ctx context.Context) (*ProcessResult, error) {
	snap, err := s.runtime.Current(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.products.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list products: %v", appErr.ErrStorage, err)
	}
	if len(products) == 0 {
		return &ProcessResult{Status: StatusNoProducts}, nil
	}

	collection := snap.ProductsCollection
	if err := snap.Vec.EnsureCollection(ctx, collection, snap.VectorSize, vecstore.DistanceCosine); err != nil {
		return nil, fmt.Errorf("%w: ensure collection %s: %v", appErr.ErrSearch, collection, err)
	}

	logger := logutil.GetLogger(ctx)
	points := make([]vecstore.Point, 0, len(products))
	for _, product := range products {
		emb, err := snap.Embedder.Embed(ctx, renderProductText(&product), "RETRIEVAL_DOCUMENT")
		if err != nil {
			logger.Warn("failed to embed product, skipping",
				zap.Int64("id", product.ID),
				zap.Error(err),
			)
			continue
		}
		points = append(points, vecstore.Point{
			ID:     product.ID,
			Vector: emb,
			Payload: map[string]interface{}{
				"title":       product.Title,
				"description": product.Description,
				"url":         product.URL,
				"variations":  product.Variations,
				"attributes":  product.Attributes,
			},
		})
	}
	if len(points) > 0 {
		if err := snap.Vec.Upsert(ctx, collection, points); err != nil {
			return nil, fmt.Errorf("%w: upsert into %s: %v", appErr.ErrSearch, collection, err)
		}
	}
	return &ProcessResult{
		Status:           StatusSuccess,
		RecordsProcessed: len(points),
		Collections:      []string{collection},
	}, nil
}

func (s *ProductService) Search(ctx context.Context, query string, limit int) ([]vecstore.SearchHit, error) {
	snap, err := s.runtime.Current(ctx)
	if err != nil {
		return nil, err
	}
	queryEmb, err := snap.Embedder.Embed(ctx, query, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", appErr.ErrEmbedding, err)
	}
	hits, err := snap.Vec.Search(ctx, snap.ProductsCollection, queryEmb, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", appErr.ErrSearch, err)
	}
	return hits, nil
}

func (s *ProductService) Chat(ctx context.Context, prompt, modelName string) (<-chan ai.GenChunk, error) {
	snap, err := s.runtime.Current(ctx)
	if err != nil {
		return nil, err
	}
	if modelName == "" {
		modelName = snap.GenModel
	}
	ragContext := buildChatContext(ctx, snap, snap.ProductsCollection, prompt, renderProductHit)
	return snap.Generator.Stream(ctx, modelName, ragContext)
}

func renderProductText(product *model.Product) string {
	return fmt.Sprintf("Title: %s\nDescription: %s\nURL: %s\nAttributes: %s\nVariations: %s",
		product.Title, product.Description, product.URL, product.Attributes, product.Variations)
}
