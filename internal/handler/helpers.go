package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/ragway/internal/ai"
	"github.com/xxxsen/ragway/internal/pkg/errcode"
	appErr "github.com/xxxsen/ragway/internal/pkg/errors"
	"github.com/xxxsen/ragway/internal/pkg/response"
)

func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	logutil.GetLogger(c.Request.Context()).Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	switch {
	case errors.Is(err, appErr.ErrInvalid):
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, err.Error())
	case errors.Is(err, appErr.ErrNotFound):
		response.Error(c, http.StatusNotFound, errcode.ErrNotFound, "not found")
	case errors.Is(err, appErr.ErrStorage):
		response.Error(c, http.StatusInternalServerError, errcode.ErrStorage, "storage failure")
	case errors.Is(err, appErr.ErrEmbedding):
		response.Error(c, http.StatusInternalServerError, errcode.ErrEmbedding, "embedding failed")
	case errors.Is(err, appErr.ErrSearch):
		response.Error(c, http.StatusInternalServerError, errcode.ErrSearch, "vector search failed")
	default:
		response.Error(c, http.StatusInternalServerError, errcode.ErrInternal, "internal error")
	}
}

// handleGenerationError preserves the upstream status code when the
// generation service reported one.
func handleGenerationError(c *gin.Context, err error) {
	logutil.GetLogger(c.Request.Context()).Error("generation request failed", zap.Error(err))
	status := ai.UpstreamStatus(err)
	if status == 0 {
		status = http.StatusInternalServerError
	}
	response.Error(c, status, errcode.ErrGeneration, err.Error())
}
