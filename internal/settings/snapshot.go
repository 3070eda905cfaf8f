package settings

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/ragway/internal/ai"
	"github.com/xxxsen/ragway/internal/config"
	"github.com/xxxsen/ragway/internal/embedcache"
	"github.com/xxxsen/ragway/internal/repo"
	"github.com/xxxsen/ragway/internal/vecstore"
)

// Templates holds the prompt templates for each degradation level of the
// RAG chat path.
type Templates struct {
	Context      string
	SearchFailed string
	NoResults    string
	NoIndex      string
}

// Snapshot is an immutable view of the settings-derived configuration plus
// the clients built from it. Requests resolve one snapshot and keep it for
// their whole lifetime; a settings write swaps in a fresh one for
// subsequently scheduled requests.
type Snapshot struct {
	Embedder           ai.IEmbedder
	Generator          *ai.Generator
	Vec                *vecstore.Client
	GenModel           string
	VectorSize         int
	DefaultCollection  string
	ProductsCollection string
	Templates          Templates
}

// Manager builds snapshots lazily and swaps them atomically on
// invalidation.
type Manager struct {
	store     *Store
	cacheRepo *repo.EmbeddingCacheRepo
	cacheCfg  config.EmbedCacheConfig
	current   atomic.Pointer[Snapshot]
}

func NewManager(store *Store, cacheRepo *repo.EmbeddingCacheRepo, cacheCfg config.EmbedCacheConfig) *Manager {
	return &Manager{
		store:     store,
		cacheRepo: cacheRepo,
		cacheCfg:  cacheCfg,
	}
}

// Current returns the active snapshot, building one from the settings
// store when none is cached. Concurrent rebuilds are harmless: snapshots
// are equivalent and the last store wins.
func (m *Manager) Current(ctx context.Context) (*Snapshot, error) {
	if snap := m.current.Load(); snap != nil {
		return snap, nil
	}
	snap, err := m.build(ctx)
	if err != nil {
		return nil, err
	}
	m.current.Store(snap)
	return snap, nil
}

// Invalidate drops the cached snapshot; the next request rebuilds from the
// settings store. In-flight requests finish with their pre-change snapshot.
func (m *Manager) Invalidate() {
	m.current.Store(nil)
}

func (m *Manager) build(ctx context.Context) (*Snapshot, error) {
	ollamaURL, err := m.store.Get(ctx, KeyOllamaURL, DefaultOllamaURL)
	if err != nil {
		return nil, err
	}
	providerName, err := m.store.Get(ctx, KeyEmbeddingProvider, DefaultEmbeddingProvider)
	if err != nil {
		return nil, err
	}
	apiKey, err := m.store.Get(ctx, KeyEmbeddingAPIKey, "")
	if err != nil {
		return nil, err
	}
	baseURL, err := m.store.Get(ctx, KeyEmbeddingBaseURL, "")
	if err != nil {
		return nil, err
	}
	genModel, err := m.store.Get(ctx, KeyLlamaModel, DefaultLlamaModel)
	if err != nil {
		return nil, err
	}
	vectorSize, err := m.store.GetInt(ctx, KeyVectorSize, DefaultVectorSize)
	if err != nil {
		return nil, err
	}
	defaultCollection, err := m.store.Get(ctx, KeyDefaultCollection, DefaultCollectionName)
	if err != nil {
		return nil, err
	}
	productsCollection, err := m.store.Get(ctx, KeyProductsCollection, DefaultProductsCollection)
	if err != nil {
		return nil, err
	}
	qdrantHost, err := m.store.Get(ctx, KeyQdrantHost, DefaultQdrantHost)
	if err != nil {
		return nil, err
	}
	qdrantPort, err := m.store.GetInt(ctx, KeyQdrantPort, DefaultQdrantPort)
	if err != nil {
		return nil, err
	}
	templates, err := m.loadTemplates(ctx)
	if err != nil {
		return nil, err
	}

	if baseURL == "" && providerName == DefaultEmbeddingProvider {
		baseURL = ollamaURL
	}
	provider, err := ai.NewEmbedProvider(providerName, map[string]interface{}{
		"base_url": baseURL,
		"api_key":  apiKey,
	})
	if err != nil {
		return nil, err
	}
	embedder := ai.NewEmbedder(provider, genModel)
	embedder = embedcache.WrapLruCacheToEmbedder(embedder, m.cacheCfg.LruSize, time.Duration(m.cacheCfg.LruTTLSeconds)*time.Second)
	embedder = embedcache.WrapDBCacheToEmbedder(embedder, m.cacheRepo)

	logutil.GetLogger(ctx).Info("runtime snapshot built",
		zap.String("embedding_provider", providerName),
		zap.String("model", genModel),
		zap.Int("vector_size", vectorSize),
		zap.String("qdrant_host", qdrantHost),
		zap.Int("qdrant_port", qdrantPort),
	)

	return &Snapshot{
		Embedder:           embedder,
		Generator:          ai.NewGenerator(ollamaURL),
		Vec:                vecstore.New(qdrantHost, qdrantPort),
		GenModel:           genModel,
		VectorSize:         vectorSize,
		DefaultCollection:  defaultCollection,
		ProductsCollection: productsCollection,
		Templates:          templates,
	}, nil
}

func (m *Manager) loadTemplates(ctx context.Context) (Templates, error) {
	var templates Templates
	var err error
	if templates.Context, err = m.store.Get(ctx, KeyRagContextTemplate, DefaultRagContextTemplate); err != nil {
		return templates, err
	}
	if templates.SearchFailed, err = m.store.Get(ctx, KeyRagContextSearchFail, DefaultRagContextSearchFail); err != nil {
		return templates, err
	}
	if templates.NoResults, err = m.store.Get(ctx, KeyRagContextNoResults, DefaultRagContextNoResults); err != nil {
		return templates, err
	}
	if templates.NoIndex, err = m.store.Get(ctx, KeyRagContextNoIndex, DefaultRagContextNoIndex); err != nil {
		return templates, err
	}
	return templates, nil
}
