package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/ragway/internal/pkg/errcode"
	"github.com/xxxsen/ragway/internal/pkg/response"
	"github.com/xxxsen/ragway/internal/service"
)

type SettingsHandler struct {
	settings *service.SettingsService
}

func NewSettingsHandler(settings *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

type settingsUpdateRequest struct {
	Settings map[string]*string `json:"settings"`
}

func (h *SettingsHandler) GetAll(c *gin.Context) {
	values, err := h.settings.GetAll(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"settings": values})
}

func (h *SettingsHandler) Get(c *gin.Context) {
	item, err := h.settings.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"key": item.Key, "value": item.Value})
}

func (h *SettingsHandler) Update(c *gin.Context) {
	var req settingsUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "invalid request")
		return
	}
	if len(req.Settings) == 0 {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "settings required")
		return
	}
	result, err := h.settings.Update(c.Request.Context(), req.Settings)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}
