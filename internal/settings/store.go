package settings

import (
	"context"
	"fmt"
	"strconv"

	"github.com/xxxsen/ragway/internal/model"
	appErr "github.com/xxxsen/ragway/internal/pkg/errors"
	"github.com/xxxsen/ragway/internal/repo"
)

// Well-known keys. Every key has a hardcoded fallback; none is required to
// exist in the database.
const (
	KeyOllamaURL            = "ollama_url"
	KeyDefaultCollection    = "default_collection_name"
	KeyProductsCollection   = "products_collection_name"
	KeyVectorSize           = "vector_size"
	KeyLlamaModel           = "llama_model"
	KeyQdrantHost           = "qdrant_host"
	KeyQdrantPort           = "qdrant_port"
	KeyEmbeddingProvider    = "embedding_provider"
	KeyEmbeddingAPIKey      = "embedding_api_key"
	KeyEmbeddingBaseURL     = "embedding_base_url"
	KeyRagContextTemplate   = "rag_context_template"
	KeyRagContextSearchFail = "rag_context_search_failed"
	KeyRagContextNoResults  = "rag_context_no_results"
	KeyRagContextNoIndex    = "rag_context_no_index"
)

const (
	DefaultOllamaURL          = "http://ollama:11434"
	DefaultCollectionName     = "content"
	DefaultProductsCollection = "products"
	DefaultVectorSize         = 4096
	DefaultLlamaModel         = "llama3:latest"
	DefaultQdrantHost         = "qdrant"
	DefaultQdrantPort         = 6333
	DefaultEmbeddingProvider  = "ollama"
)

const (
	DefaultRagContextTemplate = "You are a helpful assistant. The user asked: '{prompt}'.\n" +
		"Here is some relevant content that may help answer their question:\n" +
		"{content_list}\n" +
		"Please answer the user's question using this context when relevant."
	DefaultRagContextSearchFail = "You are a helpful assistant. The user asked: '{prompt}'.\n" +
		"(Content search failed, so just answer as best as you can.)"
	DefaultRagContextNoResults = "You are a helpful assistant. The user asked: '{prompt}'.\n" +
		"No relevant content was found. Please answer as best as you can."
	DefaultRagContextNoIndex = "You are a helpful assistant. The user asked: '{prompt}'.\n" +
		"No content has been indexed for this collection yet. Please answer as best as you can."
)

// Store resolves configuration through the settings table, falling back to
// the hardcoded defaults above. Storage failures surface as ErrStorage so
// callers can distinguish infrastructure trouble from an absent key.
type Store struct {
	repo *repo.SettingsRepo
}

func NewStore(settingsRepo *repo.SettingsRepo) *Store {
	return &Store{repo: settingsRepo}
}

func (s *Store) Get(ctx context.Context, key string, fallback string) (string, error) {
	item, err := s.repo.Get(ctx, key)
	if err != nil {
		if appErr.IsNotFound(err) {
			return fallback, nil
		}
		return "", fmt.Errorf("%w: read setting %s: %v", appErr.ErrStorage, key, err)
	}
	if item.Value == nil {
		return fallback, nil
	}
	return *item.Value, nil
}

func (s *Store) GetInt(ctx context.Context, key string, fallback int) (int, error) {
	raw, err := s.Get(ctx, key, strconv.Itoa(fallback))
	if err != nil {
		return 0, err
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback, nil
	}
	return value, nil
}

func (s *Store) GetAll(ctx context.Context) (map[string]*string, error) {
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list settings: %v", appErr.ErrStorage, err)
	}
	result := make(map[string]*string, len(items))
	for _, item := range items {
		result[item.Key] = item.Value
	}
	return result, nil
}

func (s *Store) GetOne(ctx context.Context, key string) (*model.Setting, error) {
	return s.repo.Get(ctx, key)
}

func (s *Store) Set(ctx context.Context, values map[string]*string) error {
	if err := s.repo.SetAll(ctx, values); err != nil {
		return fmt.Errorf("%w: write settings: %v", appErr.ErrStorage, err)
	}
	return nil
}
