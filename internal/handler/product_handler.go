package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/ragway/internal/pkg/errcode"
	"github.com/xxxsen/ragway/internal/pkg/response"
	"github.com/xxxsen/ragway/internal/service"
)

type ProductHandler struct {
	products *service.ProductService
}

func NewProductHandler(products *service.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

func (h *ProductHandler) Sync(c *gin.Context) {
	result, err := h.products.Sync(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}

func (h *ProductHandler) Process(c *gin.Context) {
	result, err := h.products.Process(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}

func (h *ProductHandler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "invalid request")
		return
	}
	if req.Query == "" {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "query required")
		return
	}
	hits, err := h.products.Search(c.Request.Context(), req.Query, req.Limit)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"results": hits})
}

func (h *ProductHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "invalid request")
		return
	}
	if req.Prompt == "" {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "prompt required")
		return
	}
	stream, err := h.products.Chat(c.Request.Context(), req.Prompt, req.Model)
	if err != nil {
		handleGenerationError(c, err)
		return
	}
	relayGenerationStream(c, stream)
}
