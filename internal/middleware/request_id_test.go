package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestRequestID_EchoesIncomingHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest("GET", "/api/v1/health", nil)
	c.Request.Header.Set("X-Request-Id", "abc-123")

	RequestID()(c)
	require.Equal(t, "abc-123", rec.Header().Get("X-Request-Id"))
}

func TestRequestID_GeneratesWhenAbsent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest("GET", "/api/v1/health", nil)

	RequestID()(c)
	require.Len(t, rec.Header().Get("X-Request-Id"), 32)
}
