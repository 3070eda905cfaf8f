package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/ragway/internal/pkg/errcode"
	"github.com/xxxsen/ragway/internal/pkg/response"
	"github.com/xxxsen/ragway/internal/settings"
)

type HealthHandler struct {
	runtime *settings.Manager
}

func NewHealthHandler(runtime *settings.Manager) *HealthHandler {
	return &HealthHandler{runtime: runtime}
}

func (h *HealthHandler) Health(c *gin.Context) {
	response.Success(c, gin.H{"status": "ok"})
}

func (h *HealthHandler) VectorHealth(c *gin.Context) {
	snap, err := h.runtime.Current(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	count, err := snap.Vec.Health(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, errcode.ErrVectorIndex, "vector index unreachable")
		return
	}
	response.Success(c, gin.H{"vector_index_alive": true, "collections": count})
}
