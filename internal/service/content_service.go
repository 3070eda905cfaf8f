package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/ragway/internal/ai"
	"github.com/xxxsen/ragway/internal/model"
	appErr "github.com/xxxsen/ragway/internal/pkg/errors"
	"github.com/xxxsen/ragway/internal/pkg/timeutil"
	"github.com/xxxsen/ragway/internal/ragtext"
	"github.com/xxxsen/ragway/internal/repo"
	"github.com/xxxsen/ragway/internal/settings"
	"github.com/xxxsen/ragway/internal/vecstore"
)

const StatusSuccess = "success"

const (
	StatusNoContent  = "no content found"
	StatusNoProducts = "no products found"
)

// ProcessResult reports one pipeline pass: how many records made it into
// the vector index and which collections were touched.
type ProcessResult struct {
	Status           string   `json:"status"`
	RecordsProcessed int      `json:"records_processed"`
	Collections      []string `json:"collections,omitempty"`
}

type ContentService struct {
	records *repo.ContentRepo
	runtime *settings.Manager
}

func NewContentService(records *repo.ContentRepo, runtime *settings.Manager) *ContentService {
	return &ContentService{records: records, runtime: runtime}
}

func (s *ContentService) Add(ctx context.Context, sourceID *string, collectionName string, payload json.RawMessage) (*model.ContentRecord, error) {
	if strings.TrimSpace(collectionName) == "" {
		return nil, fmt.Errorf("%w: collection_name is required", appErr.ErrInvalid)
	}
	record := &model.ContentRecord{
		SourceID:       sourceID,
		CollectionName: collectionName,
		Payload:        payload,
		Ctime:          timeutil.NowUnix(),
	}
	if err := s.records.Add(ctx, record); err != nil {
		return nil, fmt.Errorf("%w: add content: %v", appErr.ErrStorage, err)
	}
	return record, nil
}

func (s *ContentService) List(ctx context.Context, collectionName string) ([]model.ContentRecord, error) {
	records, err := s.records.ListAll(ctx, collectionName)
	if err != nil {
		return nil, fmt.Errorf("%w: list content: %v", appErr.ErrStorage, err)
	}
	return records, nil
}

// Delete removes the buffered record and makes a best-effort attempt to
// drop the matching vector point. The buffer is the source of truth, so a
// vector-side failure is logged and does not fail the delete.
func (s *ContentService) Delete(ctx context.Context, id int64) error {
	record, err := s.records.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if snap, err := s.runtime.Current(ctx); err == nil {
		if err := snap.Vec.DeletePoints(ctx, record.CollectionName, []int64{id}); err != nil {
			logutil.GetLogger(ctx).Warn("failed to delete vector point",
				zap.Int64("id", id),
				zap.String("collection", record.CollectionName),
				zap.Error(err),
			)
		}
	}
	if err := s.records.Delete(ctx, id); err != nil {
		if appErr.IsNotFound(err) {
			return err
		}
		return fmt.Errorf("%w: delete content: %v", appErr.ErrStorage, err)
	}
	return nil
}

// Process syncs buffered records into the vector index: group by
// collection in discovery order, ensure each collection, embed each record
// and upsert the successful subset in one batch per collection. A single
// failed embedding skips that record only; re-running on unchanged data
// produces the same point ids.
func (s *ContentService) Process(ctx context.Context, collectionName string) (*ProcessResult, error) {
	snap, err := s.runtime.Current(ctx)
	if err != nil {
		return nil, err
	}
	records, err := s.records.ListAll(ctx, collectionName)
	if err != nil {
		return nil, fmt.Errorf("%w: list content: %v", appErr.ErrStorage, err)
	}
	if len(records) == 0 {
		return &ProcessResult{Status: StatusNoContent}, nil
	}

	groups := make(map[string][]model.ContentRecord)
	order := make([]string, 0)
	for _, record := range records {
		if _, ok := groups[record.CollectionName]; !ok {
			order = append(order, record.CollectionName)
		}
		groups[record.CollectionName] = append(groups[record.CollectionName], record)
	}

	logger := logutil.GetLogger(ctx)
	total := 0
	for _, name := range order {
		if err := snap.Vec.EnsureCollection(ctx, name, snap.VectorSize, vecstore.DistanceCosine); err != nil {
			return nil, fmt.Errorf("%w: ensure collection %s: %v", appErr.ErrSearch, name, err)
		}
		points := make([]vecstore.Point, 0, len(groups[name]))
		for _, record := range groups[name] {
			text := ragtext.RenderRecord(sourceIDOf(&record), record.Payload)
			emb, err := snap.Embedder.Embed(ctx, text, "RETRIEVAL_DOCUMENT")
			if err != nil {
				logger.Warn("failed to embed record, skipping",
					zap.Int64("id", record.ID),
					zap.String("collection", name),
					zap.Error(err),
				)
				continue
			}
			points = append(points, vecstore.Point{
				ID:      record.ID,
				Vector:  emb,
				Payload: recordPointPayload(&record),
			})
		}
		if len(points) == 0 {
			continue
		}
		if err := snap.Vec.Upsert(ctx, name, points); err != nil {
			return nil, fmt.Errorf("%w: upsert into %s: %v", appErr.ErrSearch, name, err)
		}
		total += len(points)
	}
	return &ProcessResult{
		Status:           StatusSuccess,
		RecordsProcessed: total,
		Collections:      order,
	}, nil
}

func (s *ContentService) Search(ctx context.Context, query, collectionName string, limit int) ([]vecstore.SearchHit, error) {
	snap, err := s.runtime.Current(ctx)
	if err != nil {
		return nil, err
	}
	if collectionName == "" {
		collectionName = snap.DefaultCollection
	}
	queryEmb, err := snap.Embedder.Embed(ctx, query, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", appErr.ErrEmbedding, err)
	}
	hits, err := snap.Vec.Search(ctx, collectionName, queryEmb, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", appErr.ErrSearch, err)
	}
	return hits, nil
}

// Chat performs the retrieval-augmented generation flow. Retrieval
// failures degrade the prompt; only the generation call itself can fail
// the request.
func (s *ContentService) Chat(ctx context.Context, prompt, collectionName, modelName string) (<-chan ai.GenChunk, error) {
	snap, err := s.runtime.Current(ctx)
	if err != nil {
		return nil, err
	}
	if collectionName == "" {
		collectionName = snap.DefaultCollection
	}
	if modelName == "" {
		modelName = snap.GenModel
	}
	ragContext := buildChatContext(ctx, snap, collectionName, prompt, renderContentHit)
	return snap.Generator.Stream(ctx, modelName, ragContext)
}

func sourceIDOf(record *model.ContentRecord) string {
	if record.SourceID == nil {
		return ""
	}
	return *record.SourceID
}

// recordPointPayload merges the record metadata over the raw payload so
// search hits carry both.
func recordPointPayload(record *model.ContentRecord) map[string]interface{} {
	payload := map[string]interface{}{}
	_ = json.Unmarshal(record.Payload, &payload)
	payload["source_id"] = sourceIDOf(record)
	payload["collection_name"] = record.CollectionName
	return payload
}
