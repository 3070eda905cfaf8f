package service

import (
	"context"
	"sort"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/ragway/internal/model"
	"github.com/xxxsen/ragway/internal/settings"
)

type SettingsUpdateResult struct {
	Status  string   `json:"status"`
	Updated []string `json:"updated"`
}

type SettingsService struct {
	store   *settings.Store
	runtime *settings.Manager
}

func NewSettingsService(store *settings.Store, runtime *settings.Manager) *SettingsService {
	return &SettingsService{store: store, runtime: runtime}
}

func (s *SettingsService) GetAll(ctx context.Context) (map[string]*string, error) {
	return s.store.GetAll(ctx)
}

func (s *SettingsService) Get(ctx context.Context, key string) (*model.Setting, error) {
	return s.store.GetOne(ctx, key)
}

// Update writes the pairs and invalidates the runtime snapshot so the next
// request re-resolves derived configuration.
func (s *SettingsService) Update(ctx context.Context, values map[string]*string) (*SettingsUpdateResult, error) {
	if err := s.store.Set(ctx, values); err != nil {
		return nil, err
	}
	s.runtime.Invalidate()

	updated := make([]string, 0, len(values))
	for key := range values {
		updated = append(updated, key)
	}
	sort.Strings(updated)
	logutil.GetLogger(ctx).Info("settings updated", zap.Strings("keys", updated))
	return &SettingsUpdateResult{Status: StatusSuccess, Updated: updated}, nil
}
