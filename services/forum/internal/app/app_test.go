package internal

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"geekplay/pkg/config"
	"geekplay/pkg/jwt"
	"geekplay/pkg/logger"
	"geekplay/pkg/metrics"
	forumHTTP "geekplay/services/forum/internal/controller/http"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	metrics.Register()
	log := logger.NewWithOptions("test", "error", io.Discard)
	h := forumHTTP.NewCommentHandler(nil, log)
	return newRouter(h, jwt.NewService("k"), nil, &config.Config{RateLimitRequests: 100}, log)
}

func TestRouter_Health(t *testing.T) {
	w := httptest.NewRecorder()
	testRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","service":"forum"}`, w.Body.String())
}

func TestRouter_MutationsRequireToken(t *testing.T) {
	r := testRouter()
	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/v1/posts/1/comments"},
		{http.MethodPut, "/api/v1/comments/1"},
		{http.MethodDelete, "/api/v1/comments/1"},
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, tc.method+" "+tc.path)
	}
}
