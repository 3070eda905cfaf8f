package job

import (
	"context"

	"github.com/xxxsen/ragway/internal/service"
)

type ContentSyncJob struct {
	content *service.ContentService
}

func NewContentSyncJob(content *service.ContentService) *ContentSyncJob {
	return &ContentSyncJob{content: content}
}

func (j *ContentSyncJob) Name() string {
	return "content_sync"
}

func (j *ContentSyncJob) Run(ctx context.Context) error {
	if j.content == nil {
		return nil
	}
	_, err := j.content.Process(ctx, "")
	return err
}
