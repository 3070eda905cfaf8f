package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/ragway/internal/pkg/errcode"
	"github.com/xxxsen/ragway/internal/pkg/response"
	"github.com/xxxsen/ragway/internal/service"
)

type ContentHandler struct {
	content *service.ContentService
}

func NewContentHandler(content *service.ContentService) *ContentHandler {
	return &ContentHandler{content: content}
}

type contentCreateRequest struct {
	SourceID       *string         `json:"source_id"`
	CollectionName string          `json:"collection_name"`
	Payload        json.RawMessage `json:"payload"`
}

type searchRequest struct {
	Query          string `json:"query"`
	CollectionName string `json:"collection_name"`
	Limit          int    `json:"limit"`
}

type chatRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	CollectionName string `json:"collection_name"`
}

func (h *ContentHandler) Create(c *gin.Context) {
	var req contentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "invalid request")
		return
	}
	record, err := h.content.Add(c.Request.Context(), req.SourceID, req.CollectionName, req.Payload)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{
		"status":          service.StatusSuccess,
		"id":              record.ID,
		"source_id":       record.SourceID,
		"collection_name": record.CollectionName,
	})
}

func (h *ContentHandler) List(c *gin.Context) {
	records, err := h.content.List(c.Request.Context(), c.Query("collection_name"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, records)
}

func (h *ContentHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "invalid id")
		return
	}
	if err := h.content.Delete(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"status": service.StatusSuccess, "id": id})
}

func (h *ContentHandler) Process(c *gin.Context) {
	result, err := h.content.Process(c.Request.Context(), c.Query("collection_name"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}

func (h *ContentHandler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "invalid request")
		return
	}
	if req.Query == "" {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "query required")
		return
	}
	hits, err := h.content.Search(c.Request.Context(), req.Query, req.CollectionName, req.Limit)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"results": hits})
}

func (h *ContentHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "invalid request")
		return
	}
	if req.Prompt == "" {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "prompt required")
		return
	}
	stream, err := h.content.Chat(c.Request.Context(), req.Prompt, req.CollectionName, req.Model)
	if err != nil {
		handleGenerationError(c, err)
		return
	}
	relayGenerationStream(c, stream)
}
