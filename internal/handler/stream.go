package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/ragway/internal/ai"
)

type streamLine struct {
	Response string `json:"response"`
}

// relayGenerationStream re-emits each generation fragment as one
// newline-delimited JSON record, flushing per record so the caller sees
// incremental progress. Every fragment that carried a response field is
// relayed, empty ones included, so the wire matches the upstream stream.
// Mid-stream upstream failures can only be logged; the status line is
// already on the wire.
func relayGenerationStream(c *gin.Context, stream <-chan ai.GenChunk) {
	c.Header("Content-Type", "application/x-ndjson")
	c.Status(http.StatusOK)
	for chunk := range stream {
		if chunk.Err != nil {
			logutil.GetLogger(c.Request.Context()).Error("generation stream interrupted", zap.Error(chunk.Err))
			return
		}
		if chunk.HasResponse {
			line, err := json.Marshal(streamLine{Response: chunk.Response})
			if err != nil {
				continue
			}
			if _, err := c.Writer.Write(append(line, '\n')); err != nil {
				return
			}
			c.Writer.Flush()
		}
		if chunk.Done {
			return
		}
	}
}
